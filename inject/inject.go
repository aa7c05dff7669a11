package inject

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/soyart/prerender"
	"github.com/soyart/prerender/frontmatter"
	"github.com/soyart/prerender/markdown"
)

type (
	Injector struct {
		PostsDir string
		Dist     string
		Render   markdown.Renderer
		Options  Options
		Logger   *slog.Logger
	}

	// Report tallies a run. Only Injected counts as success,
	// but Missing and Clean posts are not failures.
	Report struct {
		Injected int
		Total    int
		Missing  int
		Clean    int
	}
)

// New returns an Injector configured from c.
func New(c prerender.Config) (*Injector, error) {
	render, err := markdown.New(c.Inject.Engine)
	if err != nil {
		return nil, err
	}

	return &Injector{
		PostsDir: c.Posts(),
		Dist:     c.Dist(),
		Render:   render,
		Options:  OptionsFrom(c.Inject),
	}, nil
}

// OptionsFrom returns the patch options configured in c.
func OptionsFrom(c prerender.InjectConfig) Options {
	return Options{
		Marker: Marker{
			Style:  c.MarkerStyle,
			Phrase: c.MarkerPhrase,
		},
		Container: c.Container,
		Article:   c.Article,
	}
}

// Run patches the snapshot of every post that captured the error block.
// Missing snapshots and snapshots without the error block are skipped.
// Any other error aborts the remaining posts.
func (inj *Injector) Run() (Report, error) {
	logger := inj.logger()
	report := Report{}

	files, err := prerender.PostFiles(inj.PostsDir)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Warn("posts dir not found", "dir", inj.PostsDir)
			return report, nil
		}

		return report, prerender.StageError{
			Err:   err,
			Key:   inj.PostsDir,
			Msg:   "failed to list posts",
			Stage: prerender.StageInject,
		}
	}

	for i := range files {
		report.Total++

		post, err := prerender.ReadPost(files[i])
		if err != nil {
			return report, inj.stageError(prerender.SlugFromFilename(files[i]), "failed to read post", err)
		}

		injected, err := inj.inject(&post, &report)
		if err != nil {
			return report, err
		}
		if injected {
			report.Injected++
		}
	}

	logger.Info("injection done",
		"injected", report.Injected,
		"total", report.Total,
		"ratio", fmt.Sprintf("%d/%d", report.Injected, report.Total),
	)

	return report, nil
}

func (inj *Injector) inject(post *prerender.Post, report *Report) (bool, error) {
	logger := inj.logger().With("slug", post.Slug)
	artifact := prerender.ArtifactPath(inj.Dist, prerender.BlogRoute(post.Slug))

	doc, err := os.ReadFile(artifact)
	if err != nil {
		if os.IsNotExist(err) {
			report.Missing++
			logger.Warn("snapshot not found", "target", artifact)
			return false, nil
		}

		return false, inj.stageError(post.Slug, "failed to read snapshot", err)
	}

	found, err := HasMarker(doc, inj.Options.Marker)
	if err != nil {
		return false, inj.stageError(post.Slug, "failed to parse snapshot", err)
	}
	if !found {
		report.Clean++
		logger.Info("no error marker, skipping", "target", artifact)
		return false, nil
	}

	rendered, err := inj.Render(post.Body)
	if err != nil {
		return false, inj.stageError(post.Slug, "failed to render markdown", err)
	}

	title := post.Meta.Title
	if title == "" {
		title = frontmatter.Title(post.Body)
	}

	out, changed, err := Patch(doc, title, rendered, inj.Options)
	if err != nil {
		return false, inj.stageError(post.Slug, "failed to patch snapshot", err)
	}
	if !changed {
		report.Clean++
		return false, nil
	}

	err = prerender.WriteFileAtomic(artifact, out, prerender.PermOutput)
	if err != nil {
		return false, inj.stageError(post.Slug, "failed to write snapshot", err)
	}

	logger.Info("injected post content", "target", artifact)
	return true, nil
}

func (inj *Injector) stageError(slug, msg string, err error) error {
	return prerender.StageError{
		Err:   err,
		Key:   slug,
		Msg:   msg,
		Stage: prerender.StageInject,
	}
}

func (inj *Injector) logger() *slog.Logger {
	if inj.Logger != nil {
		return inj.Logger
	}

	return slog.Default()
}
