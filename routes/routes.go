// Package routes lists the application routes to snapshot and keeps
// the generated route/post manifest and sitemap in sync with the posts directory.
package routes

import (
	"log/slog"

	"github.com/soyart/prerender"
)

// Enumerate returns static followed by /blog/<slug> for every markdown file
// in postsDir, in directory-listing order. Duplicates are dropped.
//
// An unreadable postsDir is not an error: a warning is logged and only
// the static routes are returned.
func Enumerate(static []string, postsDir string) []string {
	files, err := prerender.PostFiles(postsDir)
	if err != nil {
		slog.Warn("cannot read posts dir, using static routes only", "dir", postsDir, "error", err)
	}

	seen := make(prerender.Set)
	routes := make([]string, 0, len(static)+len(files))
	for i := range static {
		if seen.Insert(static[i]) {
			continue
		}

		routes = append(routes, static[i])
	}

	for i := range files {
		route := prerender.BlogRoute(prerender.SlugFromFilename(files[i]))
		if seen.Insert(route) {
			continue
		}

		routes = append(routes, route)
	}

	return routes
}
