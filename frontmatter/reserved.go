package frontmatter

import (
	ignore "github.com/sabhiram/go-gitignore"
)

// Matcher reports whether a root-level filename must be left alone.
type Matcher interface {
	Match(name string) bool
}

type reservedGitignore struct {
	*ignore.GitIgnore
}

// NewReserved compiles gitignore-style patterns, e.g. "README.md" or "NOTES-*.md".
func NewReserved(patterns ...string) Matcher {
	return &reservedGitignore{
		GitIgnore: ignore.CompileIgnoreLines(patterns...),
	}
}

func (r *reservedGitignore) Match(name string) bool {
	if r == nil || r.GitIgnore == nil {
		return false
	}

	return r.MatchesPath(name)
}
