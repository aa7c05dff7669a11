// Package frontmatter turns author-dropped markdown files in the project root
// into dated blog posts with a generated metadata header.
package frontmatter

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/soyart/prerender"
)

// ErrPublish wraps failures of [Generator.Publish].
// Unlike per-file errors, it aborts [Generator.GenerateAll].
var ErrPublish = errors.New("publish failed")

type Generator struct {
	Root     string
	PostsDir string
	Reserved Matcher
	Defaults prerender.PostConfig

	// SlugFrom is either prerender.SlugSourceFilename or prerender.SlugSourceTitle
	SlugFrom string

	// Publish is called after each written post,
	// usually to rebuild the route/post manifest.
	Publish func() error

	Now    func() time.Time
	Logger *slog.Logger
}

// New returns a Generator configured from c.
func New(c prerender.Config, publish func() error) *Generator {
	return &Generator{
		Root:     c.Root,
		PostsDir: c.Posts(),
		Reserved: NewReserved(c.Reserved...),
		Defaults: c.Post,
		SlugFrom: c.SlugFrom,
		Publish:  publish,
	}
}

// Generate moves root-level markdown file name into the posts directory
// with a metadata header prepended, and returns the new route /blog/<slug>.
//
// A missing source yields [prerender.ErrNotFound] without side effects.
// An existing post with the same slug is overwritten.
func (g *Generator) Generate(name string) (string, error) {
	logger := g.logger().With("file", name)

	src := name
	if !filepath.IsAbs(src) {
		src = filepath.Join(g.Root, name)
	}

	content, err := os.ReadFile(src)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Error("source file not found")
			return "", fmt.Errorf("source '%s': %w", src, prerender.ErrNotFound)
		}

		return "", fmt.Errorf("failed to read source '%s': %w", src, err)
	}

	title := Title(content)
	slug := g.slug(src, title)
	if slug == "" {
		return "", prerender.StageError{
			Key:   name,
			Msg:   "empty slug",
			Stage: prerender.StageGenerate,
		}
	}

	meta := prerender.Meta{
		Title:    title,
		Excerpt:  Excerpt(content),
		Category: g.Defaults.Category,
		Date:     g.now().Format(time.DateOnly),
		ReadTime: g.Defaults.ReadTime,
		Image: prerender.Image{
			URL: g.Defaults.ImageUrl,
			Alt: title,
		},
	}

	header, err := Header(meta)
	if err != nil {
		return "", err
	}

	target := filepath.Join(g.PostsDir, slug+prerender.ExtMarkdown)
	data := make([]byte, 0, len(header)+len(content))
	data = append(data, header...)
	data = append(data, content...)

	err = prerender.WriteFileAtomic(target, data, prerender.PermOutput)
	if err != nil {
		return "", err
	}

	if !sameFile(src, target) {
		err = os.Remove(src)
		if err != nil {
			return "", fmt.Errorf("failed to remove source '%s': %w", src, err)
		}
	}

	if g.Publish != nil {
		err = g.Publish()
		if err != nil {
			logger.Error("failed to publish", "slug", slug, "error", err)
			return "", prerender.StageError{
				Err:   fmt.Errorf("%w: %w", ErrPublish, err),
				Key:   slug,
				Msg:   "failed to rebuild manifest",
				Stage: prerender.StageGenerate,
			}
		}
	}

	route := prerender.BlogRoute(slug)
	logger.Info("generated post", "slug", slug, "target", target, "route", route)

	return route, nil
}

// GenerateAll runs [Generator.Generate] on every root-level markdown file
// not matched by Reserved, one after another.
//
// Per-file errors are logged and the file is skipped.
// A publish error stops the run and is returned with the routes
// generated so far.
func (g *Generator) GenerateAll() ([]string, error) {
	logger := g.logger()

	entries, err := os.ReadDir(g.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to read root '%s': %w", g.Root, err)
	}

	var routes []string
	for i := range entries {
		entry := entries[i]
		name := entry.Name()

		if !g.candidate(entry) {
			continue
		}

		route, err := g.Generate(name)
		switch {
		case err == nil:
			routes = append(routes, route)

		case errors.Is(err, ErrPublish):
			return routes, err

		default:
			logger.Error("skipping file", "file", name, "error", err)
		}
	}

	logger.Info("generated posts", "count", len(routes))
	return routes, nil
}

func (g *Generator) candidate(entry os.DirEntry) bool {
	if entry.IsDir() || !g.candidateName(entry.Name()) {
		return false
	}

	info, err := entry.Info()
	if err != nil {
		return false
	}

	// Ignore symlink
	return !prerender.FileIs(info, os.ModeSymlink)
}

func (g *Generator) candidateName(name string) bool {
	if strings.HasPrefix(name, ".") || filepath.Ext(name) != prerender.ExtMarkdown {
		return false
	}

	return g.Reserved == nil || !g.Reserved.Match(name)
}

func (g *Generator) slug(src, title string) string {
	if g.SlugFrom == prerender.SlugSourceTitle {
		return prerender.Slugify(title)
	}

	return prerender.Slugify(strings.TrimSuffix(filepath.Base(src), prerender.ExtMarkdown))
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}

	return time.Now()
}

func (g *Generator) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}

	return slog.Default()
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}

	return absA == absB
}
