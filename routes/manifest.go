package routes

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/soyart/prerender"
)

// Manifest is the generated data file the application imports
// to list and resolve blog posts.
type Manifest struct {
	Routes []string `json:"routes"`
	Posts  []Post   `json:"posts"`
}

type Post struct {
	Slug string `json:"slug"`
	prerender.Meta
}

// BuildManifest reads every post in postsDir. Posts are sorted newest first,
// with ties broken by slug. A missing postsDir yields a manifest
// of static routes only.
func BuildManifest(postsDir string, static []string) (Manifest, error) {
	m := Manifest{
		Routes: Enumerate(static, postsDir),
		Posts:  []Post{},
	}

	files, err := prerender.PostFiles(postsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}

		return m, prerender.StageError{
			Err:   err,
			Key:   postsDir,
			Msg:   "failed to list posts",
			Stage: prerender.StageEnumerate,
		}
	}

	for i := range files {
		post, err := prerender.ReadPost(files[i])
		if err != nil {
			return m, prerender.StageError{
				Err:   err,
				Key:   files[i],
				Msg:   "failed to read post",
				Stage: prerender.StageEnumerate,
			}
		}

		m.Posts = append(m.Posts, Post{
			Slug: post.Slug,
			Meta: post.Meta,
		})
	}

	sort.SliceStable(m.Posts, func(i, j int) bool {
		a, b := &m.Posts[i], &m.Posts[j]
		if a.Date != b.Date {
			// YYYY-MM-DD sorts lexically
			return a.Date > b.Date
		}

		return a.Slug < b.Slug
	})

	return m, nil
}

// WriteManifest atomically writes m as indented JSON to path.
func WriteManifest(path string, m Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	return prerender.WriteFileAtomic(path, append(b, '\n'), prerender.PermOutput)
}

// Rebuild regenerates the manifest configured in c.
// The frontmatter generator calls it after each new post.
func Rebuild(c prerender.Config) error {
	m, err := BuildManifest(c.Posts(), c.StaticRoutes)
	if err != nil {
		return err
	}

	target := c.Path(c.Manifest)
	err = WriteManifest(target, m)
	if err != nil {
		return err
	}

	slog.Info("rebuilt manifest", "target", target, "routes", len(m.Routes), "posts", len(m.Posts))
	return nil
}
