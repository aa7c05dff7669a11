// Package prerender holds the primitives shared by the build-time pipeline:
// slugs, post records, artifact paths, atomic writes, config and logging.
//
// The pipeline runs in 3 steps that share the posts directory and the
// dist/<route>/index.html artifact layout:
//
//	frontmatter-generator -> snapshot-driver -> content-injector
package prerender

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

const (
	ExtMarkdown = ".md"
	IndexHtml   = "index.html"
	BlogPrefix  = "/blog/"
)

var (
	reNonSlug    = regexp.MustCompile(`[^\w\s-]`)
	reSeparators = regexp.MustCompile(`[\s_-]+`)
)

// Slugify lowercases s, drops everything that is not a word character,
// whitespace or hyphen, then collapses whitespace/underscore/hyphen runs
// into a single hyphen. Leading and trailing hyphens are trimmed.
//
// Every call site that needs a slug from free text must use Slugify,
// so that generated posts, routes and artifacts agree.
func Slugify(s string) string {
	s = strings.ToLower(s)
	s = reNonSlug.ReplaceAllString(s, "")
	s = reSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// SlugFromFilename returns the slug of an existing post file.
// Post files are already named by slug, so no normalization is applied.
func SlugFromFilename(name string) string {
	return strings.TrimSuffix(filepath.Base(name), ExtMarkdown)
}

// BlogRoute returns the application route of post slug.
func BlogRoute(slug string) string {
	return BlogPrefix + slug
}

// IsBlogPostRoute reports whether route is /blog/<slug> with a non-empty slug.
func IsBlogPostRoute(route string) bool {
	rest, ok := strings.CutPrefix(route, BlogPrefix)
	if !ok {
		return false
	}
	rest = strings.TrimSuffix(rest, "/")
	return rest != "" && !strings.Contains(rest, "/")
}

// ArtifactPath maps route to its snapshot file under dist.
//
// i.e. if dist="dist" and route="/blog/foo",
// then the return value will be dist/blog/foo/index.html,
// and route "/" maps to dist/index.html.
//
// The route is cleaned as an absolute URL path first,
// so the result never points outside dist.
func ArtifactPath(dist, route string) string {
	cleaned := path.Clean("/" + route)
	if cleaned == "/" {
		return filepath.Join(dist, IndexHtml)
	}

	return filepath.Join(dist, filepath.FromSlash(cleaned), IndexHtml)
}
