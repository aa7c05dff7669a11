package snapshot

import (
	"bytes"
	"regexp"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/css"
	"github.com/tdewolff/minify/v2/html"
	"github.com/tdewolff/minify/v2/js"
	"github.com/tdewolff/minify/v2/json"
)

const (
	mediaTypeHtml = "text/html"
	mediaTypeCss  = "text/css"
)

var (
	reMediaTypeJs   = regexp.MustCompile(`^(application|text)/(x-)?(java|ecma)script$`)
	reMediaTypeJson = regexp.MustCompile(`[/+]json$`)
)

var m = minify.New()

func init() {
	// Snapshots keep comments, document tags and quoting as rendered,
	// so that later passes can still find the markup they look for.
	// <pre> and <textarea> whitespace is always kept by the minifier.
	m.Add(mediaTypeHtml, &html.Minifier{
		KeepComments:        true,
		KeepDocumentTags:    true,
		KeepEndTags:         true,
		KeepQuotes:          true,
		KeepDefaultAttrVals: true,
	})
	m.AddFunc(mediaTypeCss, css.Minify)
	m.AddFuncRegexp(reMediaTypeJs, js.Minify)
	m.AddFuncRegexp(reMediaTypeJson, json.Minify)
}

func MinifyHtml(htmlDoc []byte) ([]byte, error) {
	min := bytes.NewBuffer(nil)
	err := m.Minify(mediaTypeHtml, min, bytes.NewBuffer(htmlDoc))
	if err != nil {
		return nil, err
	}

	return min.Bytes(), nil
}
