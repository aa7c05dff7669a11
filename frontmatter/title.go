package frontmatter

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	TitleDefault = "Untitled Post"

	ExcerptMax = 150
	excerptCut = ExcerptMax - len(ellipsis)
	ellipsis   = "..."
)

var (
	// Single # followed by text, i.e. h1 but not h2
	reTitleH1 = regexp.MustCompile(`(?m)^#[ \t]+(.+)$`)

	// Leading block framed by two lines of "---"
	reMetadata = regexp.MustCompile(`(?s)\A---[ \t]*\r?\n(.*?\r?\n)?---[ \t]*(\r?\n|\z)`)

	// Characters that would break the quoted metadata values,
	// or are redundant markdown emphasis markers
	excerptStrip = strings.NewReplacer(
		`"`, "",
		`'`, "",
		"_", "",
		"*", "",
		`\`, "",
	)
)

// Title finds the first h1 line in markdown and uses its text as the title.
// Without an h1, a non-empty first line that is not a heading is used.
// Otherwise [TitleDefault] is returned.
func Title(markdown []byte) string {
	match := reTitleH1.FindSubmatch(markdown)
	if len(match) == 2 {
		title := strings.TrimSpace(string(match[1]))
		if title != "" {
			return title
		}
	}

	first, _, _ := bytes.Cut(markdown, []byte{'\n'})
	line := strings.TrimSpace(string(first))
	if line != "" && !strings.HasPrefix(line, "#") {
		return line
	}

	return TitleDefault
}

// Excerpt returns the first paragraph line after any existing metadata block,
// skipping blank lines and headings. Quotes, underscores, asterisks and
// backslashes are removed and the result is cut to [ExcerptMax] runes.
func Excerpt(markdown []byte) string {
	body := reMetadata.ReplaceAll(markdown, nil)

	var candidate string
	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		candidate = line
		break
	}

	candidate = strings.TrimSpace(excerptStrip.Replace(candidate))
	if utf8.RuneCountInString(candidate) <= ExcerptMax {
		return candidate
	}

	runes := []rune(candidate)
	return string(runes[:excerptCut]) + ellipsis
}
