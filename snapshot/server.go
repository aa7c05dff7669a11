package snapshot

import (
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/labstack/echo/v4"
)

// NewServer serves the built application in dist for the browser.
// Existing files are served as-is, every other path gets shell
// so that client-side routing can take over.
//
// shell is read once before the crawl, because the crawl
// overwrites dist/index.html with the snapshot of "/".
func NewServer(dist string, shell []byte) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.GET("/*", func(c echo.Context) error {
		p := path.Clean("/" + c.Request().URL.Path)
		target := filepath.Join(dist, filepath.FromSlash(p))

		info, err := os.Stat(target)
		if err == nil && info.Mode().IsRegular() {
			return c.File(target)
		}

		return c.HTMLBlob(http.StatusOK, shell)
	})

	return e
}
