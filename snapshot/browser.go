// Package snapshot crawls the built single-page application with a headless
// browser and writes the rendered DOM of every route to dist/<route>/index.html.
package snapshot

import (
	"context"
	"errors"
	"time"
)

// ErrNotReady is returned by [Browser.Capture] together with the captured HTML
// when a blog page never signalled readiness within its poll budget.
var ErrNotReady = errors.New("page not ready")

// Browser renders one page at a time.
// Implementations are not safe for concurrent use.
type Browser interface {
	Open(ctx context.Context) error
	Capture(ctx context.Context, url string, wait Wait) (html string, err error)
	Close() error
}

// Wait describes how long to let a page render before serializing it.
type Wait struct {
	// Delay is applied to every page right after navigation
	Delay time.Duration

	// Blog pages additionally poll for readiness with Policy
	Blog   bool
	Policy Policy
}

// Policy is the blog-page readiness protocol: sleep Initial, probe every
// Interval until the page is ready or MaxPolls probes were made,
// then sleep Settle. MaxPolls 0 polls until ready or canceled.
type Policy struct {
	Initial  time.Duration
	Interval time.Duration
	Settle   time.Duration
	MaxPolls int
}
