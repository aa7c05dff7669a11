// Package inject repairs blog snapshots that captured the application's
// error state, by splicing the server-rendered post into the document.
package inject

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

const (
	selectorHeadings = "h1, h2, h3, h4, h5, h6"

	placeholderPrefix = "prerender-content-"
)

// Marker identifies the error block: an element whose style attribute
// contains Style, with a descendant heading containing Phrase.
type Marker struct {
	Style  string
	Phrase string
}

type Options struct {
	Marker Marker

	// Container receives the post when there is neither an article nor a footer
	Container string

	// Article is the selector of the element whose content is replaced
	Article string
}

// HasMarker reports whether doc contains the error block.
func HasMarker(doc []byte, m Marker) (bool, error) {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return false, fmt.Errorf("failed to parse document: %w", err)
	}

	return findMarkers(d, m).Length() > 0, nil
}

// Patch replaces the error block in doc with title and rendered.
// If doc has no error block, doc is returned untouched with changed=false.
//
// With an article element the article content is replaced. Otherwise the
// block around the marker is removed and the post is inserted before the
// first footer, or appended to the container, or to body.
func Patch(doc []byte, title string, rendered []byte, opt Options) ([]byte, bool, error) {
	d, err := goquery.NewDocumentFromReader(bytes.NewReader(doc))
	if err != nil {
		return nil, false, fmt.Errorf("failed to parse document: %w", err)
	}

	markers := findMarkers(d, opt.Marker)
	if markers.Length() == 0 {
		return doc, false, nil
	}

	// Replaced with the renderer output after serialization,
	// so that rendered bytes are never re-serialized by the HTML parser.
	// Unique per call, so a matching comment already in doc is left alone.
	placeholder := "<!--" + placeholderPrefix + uuid.New().String() + "-->"
	block := postBlock(title, placeholder)
	article := d.Find(opt.Article).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Parents().Intersection(markers).Length() == 0
	}).First()

	switch {
	case article.Length() > 0:
		// Markers outside the article go alone, their parents may hold the article
		markers.Each(func(_ int, s *goquery.Selection) {
			if s.Parents().Intersection(article).Length() == 0 {
				s.Remove()
			}
		})
		article.SetHtml(block)

	default:
		markers.Each(func(_ int, s *goquery.Selection) {
			removeMarker(s, opt.Container)
		})
		insertBlock(d, block, opt.Container)
	}

	out, err := d.Html()
	if err != nil {
		return nil, false, fmt.Errorf("failed to serialize document: %w", err)
	}

	return []byte(strings.Replace(out, placeholder, string(rendered), 1)), true, nil
}

func postBlock(title, placeholder string) string {
	return `<div class="blog-post"><h1>` + html.EscapeString(title) +
		`</h1><div class="blog-post-content">` + placeholder + `</div></div>`
}

// findMarkers returns the outermost error blocks.
func findMarkers(d *goquery.Document, m Marker) *goquery.Selection {
	style := compact(m.Style)
	all := d.Find("[style]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		attr, _ := s.Attr("style")
		if !strings.Contains(compact(attr), style) {
			return false
		}

		found := false
		s.Find(selectorHeadings).EachWithBreak(func(_ int, h *goquery.Selection) bool {
			found = strings.Contains(h.Text(), m.Phrase)
			return !found
		})

		return found
	})

	return all.FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.Parents().Intersection(all).Length() == 0
	})
}

// removeMarker drops the marker's parent, or only the marker
// if the parent is a structural element that must survive.
func removeMarker(s *goquery.Selection, container string) {
	parent := s.Parent()
	if parent.Length() == 0 || parent.Is("html, body") || (container != "" && parent.Is(container)) {
		s.Remove()
		return
	}

	parent.Remove()
}

func insertBlock(d *goquery.Document, block, container string) {
	footer := d.Find("footer").First()
	if footer.Length() > 0 {
		footer.BeforeHtml(block)
		return
	}

	if container != "" {
		c := d.Find(container).First()
		if c.Length() > 0 {
			c.AppendHtml(block)
			return
		}
	}

	d.Find("body").First().AppendHtml(block)
}

// compact lowercases s and drops all whitespace, so that minified
// and hand-written style attributes compare equal.
func compact(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}
