package prerender

import (
	"path/filepath"
	"regexp"
	"testing"
)

// slugCases is shared by every call site that derives slugs.
var slugCases = []struct {
	in       string
	expected string
}{
	{in: "Hello World", expected: "hello-world"},
	{in: "my-post", expected: "my-post"},
	{in: "  Leading and trailing  ", expected: "leading-and-trailing"},
	{in: "Snake_case_name", expected: "snake-case-name"},
	{in: "--already--hyphenated--", expected: "already-hyphenated"},
	{in: "Luxury Sofas: 2024 Edition!", expected: "luxury-sofas-2024-edition"},
	{in: "Café Interiors", expected: "caf-interiors"},
	{in: "a/b\\c", expected: "abc"},
	{in: "tabs\tand\nnewlines", expected: "tabs-and-newlines"},
	{in: "___", expected: ""},
	{in: "", expected: ""},
	{in: "UPPER lower 123", expected: "upper-lower-123"},
	{in: "-_- mixed _-_ separators -_-", expected: "mixed-separators"},
}

func TestSlugify(t *testing.T) {
	reSlug := regexp.MustCompile(`^([a-z0-9]+(-[a-z0-9]+)*)?$`)

	for i := range slugCases {
		tc := &slugCases[i]

		actual := Slugify(tc.in)
		if actual != tc.expected {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, actual, tc.expected)
		}
		if again := Slugify(actual); again != actual {
			t.Errorf("Slugify is not idempotent for %q: %q -> %q", tc.in, actual, again)
		}
		if !reSlug.MatchString(actual) {
			t.Errorf("Slugify(%q) = %q contains illegal characters", tc.in, actual)
		}
	}
}

func TestSlugFromFilename(t *testing.T) {
	tests := map[string]string{
		"hello-world.md":           "hello-world",
		"src/posts/second-post.md": "second-post",
		"Not_Normalized.md":        "Not_Normalized",
	}

	for in, expected := range tests {
		if actual := SlugFromFilename(in); actual != expected {
			t.Errorf("SlugFromFilename(%q) = %q, want %q", in, actual, expected)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	dist := filepath.Join("some", "dist")
	tests := []struct {
		route    string
		expected string
	}{
		{route: "/", expected: filepath.Join(dist, "index.html")},
		{route: "", expected: filepath.Join(dist, "index.html")},
		{route: "/blog", expected: filepath.Join(dist, "blog", "index.html")},
		{route: "/blog/hello-world", expected: filepath.Join(dist, "blog", "hello-world", "index.html")},
		{route: "/blog/hello-world/", expected: filepath.Join(dist, "blog", "hello-world", "index.html")},
		{route: "/../../etc", expected: filepath.Join(dist, "etc", "index.html")},
	}

	for i := range tests {
		tc := &tests[i]
		if actual := ArtifactPath(dist, tc.route); actual != tc.expected {
			t.Errorf("ArtifactPath(%q) = %q, want %q", tc.route, actual, tc.expected)
		}
	}
}

func TestIsBlogPostRoute(t *testing.T) {
	tests := map[string]bool{
		"/blog/hello-world":  true,
		"/blog/hello-world/": true,
		"/blog":              false,
		"/blog/":             false,
		"/blog/a/b":          false,
		"/":                  false,
		"/collection":        false,
		"/blogger/x":         false,
	}

	for route, expected := range tests {
		if actual := IsBlogPostRoute(route); actual != expected {
			t.Errorf("IsBlogPostRoute(%q) = %v, want %v", route, actual, expected)
		}
	}
}

func TestSet(t *testing.T) {
	s := make(Set)
	if s.Insert("foo") {
		t.Fatalf("unexpected duplicate on first insert")
	}
	if !s.Insert("foo") {
		t.Fatalf("expected duplicate on second insert")
	}

	if s.Insert("bar") {
		t.Fatalf("unexpected duplicate on first insert of bar")
	}
	if len(s) != 2 {
		t.Fatalf("expected 2 members, got %d", len(s))
	}
}
