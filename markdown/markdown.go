// Package markdown renders post bodies to HTML.
//
// Two engines are available: goldmark, the default, and gomarkdown.
// Both turn soft line breaks into <br> and enable the GitHub-flavored
// extensions (tables, strikethrough, autolinks, fenced code).
package markdown

import (
	"bytes"
	"fmt"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

const (
	EngineGoldmark   = "goldmark"
	EngineGomarkdown = "gomarkdown"

	GomarkdownExtensions = mdparser.CommonExtensions | mdparser.HardLineBreak
	GomarkdownFlags      = mdhtml.CommonFlags
)

// Renderer converts a markdown document to an HTML fragment.
type Renderer func(md []byte) ([]byte, error)

// New returns the renderer for engine.
func New(engine string) (Renderer, error) {
	switch engine {
	case "", EngineGoldmark:
		return Goldmark(), nil
	case EngineGomarkdown:
		return Gomarkdown(), nil
	}

	return nil, fmt.Errorf("unknown markdown engine '%s'", engine)
}

// Goldmark returns a GFM renderer with hard wraps.
// Raw HTML in posts is passed through, as authors embed figures.
func Goldmark() Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(
			gmhtml.WithHardWraps(),
			gmhtml.WithUnsafe(),
		),
	)

	return func(src []byte) ([]byte, error) {
		buf := bytes.NewBuffer(nil)
		err := md.Convert(src, buf)
		if err != nil {
			return nil, fmt.Errorf("goldmark: %w", err)
		}

		return buf.Bytes(), nil
	}
}

// Gomarkdown returns a renderer with gomarkdown's common extensions
// plus hard line breaks.
func Gomarkdown() Renderer {
	return func(src []byte) ([]byte, error) {
		// Parser and renderer keep state, so they are built per call
		root := markdown.Parse(src, mdparser.NewWithExtensions(GomarkdownExtensions))
		renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
			Flags: GomarkdownFlags,
		})

		return markdown.Render(root, renderer), nil
	}
}
