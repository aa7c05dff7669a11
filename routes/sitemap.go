package routes

import (
	"encoding/xml"
	"strings"
	"time"
)

const sitemapHeader = `<?xml version="1.0" encoding="UTF-8"?>
<urlset
xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"
xsi:schemaLocation="http://www.sitemaps.org/schemas/sitemap/0.9
http://www.sitemaps.org/schemas/sitemap/0.9/sitemap.xsd"
xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
`

// Sitemap returns sitemap.xml content listing every route under baseUrl,
// all with lastmod date.
//
// i.e. if baseUrl="https://example.com" and route="/blog/foo",
// then the entry will be
// <url><loc>https://example.com/blog/foo/</loc><lastmod>2024-10-04</lastmod><priority>1.0</priority></url>
func Sitemap(baseUrl string, date time.Time, routes []string) string {
	baseUrl = strings.TrimSuffix(baseUrl, "/")
	dateStr := date.Format(time.DateOnly)

	sm := new(strings.Builder)
	sm.WriteString(sitemapHeader)

	for i := range routes {
		loc := strings.Trim(routes[i], "/")
		if loc != "" {
			loc += "/"
		}

		sm.WriteString("<url><loc>")
		xml.EscapeText(sm, []byte(baseUrl+"/"+loc))
		sm.WriteString("</loc><lastmod>")
		sm.WriteString(dateStr)
		sm.WriteString("</lastmod><priority>1.0</priority></url>\n")
	}

	sm.WriteString("</urlset>")

	return sm.String()
}
