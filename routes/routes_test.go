package routes

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/soyart/prerender"
)

func writePosts(t *testing.T, dir string, files map[string]string) {
	t.Helper()

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		t.Fatalf("failed to create posts dir: %v", err)
	}
	for name, content := range files {
		err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644)
		if err != nil {
			t.Fatalf("failed to write fixture %s: %v", name, err)
		}
	}
}

func post(title, date string) string {
	return "---\ntitle: \"" + title + "\"\ndate: \"" + date + "\"\nreadTime: 5\n---\n\nBody of " + title + "\n"
}

func TestEnumerate(t *testing.T) {
	dir := t.TempDir()
	writePosts(t, dir, map[string]string{
		"second-post.md": post("Second", "2024-03-02"),
		"hello-world.md": post("Hello World", "2024-03-01"),
		"image.png":      "",
	})
	err := os.Mkdir(filepath.Join(dir, "nested.md"), 0o755)
	if err != nil {
		t.Fatalf("failed to create dir fixture: %v", err)
	}

	static := prerender.StaticRoutesDefault
	actual := Enumerate(static, dir)

	expected := append(append([]string{}, static...), "/blog/hello-world", "/blog/second-post")
	if !reflect.DeepEqual(actual, expected) {
		t.Fatalf("unexpected routes\nexpected: %v\nactual:   %v", expected, actual)
	}
}

func TestEnumerateEdgeCases(t *testing.T) {
	static := []string{"/", "/blog", "/"}

	empty := Enumerate(static, t.TempDir())
	if !reflect.DeepEqual(empty, []string{"/", "/blog"}) {
		t.Fatalf("unexpected routes for empty dir: %v", empty)
	}

	missing := Enumerate(static, filepath.Join(t.TempDir(), "missing"))
	if !reflect.DeepEqual(missing, []string{"/", "/blog"}) {
		t.Fatalf("unexpected routes for missing dir: %v", missing)
	}

	none := Enumerate(nil, t.TempDir())
	if len(none) != 0 {
		t.Fatalf("unexpected routes %v", none)
	}
}

func TestEnumerateOnePerPost(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{}
	for _, slug := range []string{"a", "b", "c", "d-e", "f_g"} {
		files[slug+".md"] = post(slug, "2024-01-01")
	}
	writePosts(t, dir, files)

	routes := Enumerate(nil, dir)
	if len(routes) != len(files) {
		t.Fatalf("expected %d routes, got %v", len(files), routes)
	}

	seen := make(prerender.Set)
	for _, r := range routes {
		if seen.Insert(r) {
			t.Fatalf("duplicate route %s", r)
		}
		if _, ok := files[strings.TrimPrefix(r, prerender.BlogPrefix)+".md"]; !ok {
			t.Fatalf("route %s has no post", r)
		}
	}
}

func TestBuildManifest(t *testing.T) {
	dir := t.TempDir()
	writePosts(t, dir, map[string]string{
		"older.md":  post("Older", "2024-01-01"),
		"b-same.md": post("B", "2024-03-01"),
		"a-same.md": post("A", "2024-03-01"),
	})

	m, err := BuildManifest(dir, []string{"/", "/blog"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	slugs := make([]string, len(m.Posts))
	for i := range m.Posts {
		slugs[i] = m.Posts[i].Slug
	}
	if !reflect.DeepEqual(slugs, []string{"a-same", "b-same", "older"}) {
		t.Fatalf("unexpected post order %v", slugs)
	}
	if len(m.Routes) != 5 {
		t.Fatalf("unexpected routes %v", m.Routes)
	}
	if m.Posts[2].Title != "Older" || m.Posts[2].ReadTime != 5 {
		t.Fatalf("unexpected metadata %+v", m.Posts[2])
	}
}

func TestBuildManifestMissingDir(t *testing.T) {
	m, err := BuildManifest(filepath.Join(t.TempDir(), "missing"), []string{"/"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(m.Posts) != 0 || len(m.Routes) != 1 {
		t.Fatalf("unexpected manifest %+v", m)
	}
}

func TestRebuild(t *testing.T) {
	c := prerender.DefaultConfig()
	c.Root = t.TempDir()
	c.StaticRoutes = []string{"/"}
	writePosts(t, c.Posts(), map[string]string{
		"hello-world.md": post("Hello World", "2024-03-01"),
	})

	err := Rebuild(c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b, err := os.ReadFile(c.Path(c.Manifest))
	if err != nil {
		t.Fatalf("failed to read manifest: %v", err)
	}

	var raw struct {
		Routes []string         `json:"routes"`
		Posts  []map[string]any `json:"posts"`
	}
	err = json.Unmarshal(b, &raw)
	if err != nil {
		t.Fatalf("invalid manifest JSON: %v", err)
	}

	if !reflect.DeepEqual(raw.Routes, []string{"/", "/blog/hello-world"}) {
		t.Fatalf("unexpected routes %v", raw.Routes)
	}
	if len(raw.Posts) != 1 {
		t.Fatalf("unexpected posts %v", raw.Posts)
	}

	p := raw.Posts[0]
	if p["slug"] != "hello-world" || p["title"] != "Hello World" || p["date"] != "2024-03-01" {
		t.Fatalf("unexpected flattened post %v", p)
	}
	if _, ok := p["Meta"]; ok {
		t.Fatalf("metadata should be flattened into post object")
	}
}

func TestSitemap(t *testing.T) {
	date := time.Date(2024, time.October, 4, 0, 0, 0, 0, time.UTC)
	sm := Sitemap("https://example.com/", date, []string{"/", "/blog/foo", "/q?a=b&c"})

	expected := []string{
		"<url><loc>https://example.com/</loc><lastmod>2024-10-04</lastmod><priority>1.0</priority></url>\n",
		"<url><loc>https://example.com/blog/foo/</loc><lastmod>2024-10-04</lastmod><priority>1.0</priority></url>\n",
		"<loc>https://example.com/q?a=b&amp;c/</loc>",
	}
	for _, s := range expected {
		if !strings.Contains(sm, s) {
			t.Errorf("missing %q in sitemap:\n%s", s, sm)
		}
	}
	if !strings.HasPrefix(sm, "<?xml") || !strings.HasSuffix(sm, "</urlset>") {
		t.Errorf("malformed sitemap:\n%s", sm)
	}
}

func TestBuildManifestBadPost(t *testing.T) {
	dir := t.TempDir()
	writePosts(t, dir, map[string]string{
		"good.md":   post("Good", "2024-01-01"),
		"broken.md": "---\ntitle: [unclosed\n---\n",
	})

	_, err := BuildManifest(dir, nil)
	var stageErr prerender.StageError
	if !errors.As(err, &stageErr) {
		t.Fatalf("expected StageError, got %v", err)
	}
	if stageErr.Key != filepath.Join(dir, "broken.md") {
		t.Fatalf("expected error keyed by the broken file, got key %q", stageErr.Key)
	}
}
