package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/soyart/prerender"
	"github.com/soyart/prerender/routes"
)

const (
	// Fallback page for static hosts that serve 200.html on unknown paths
	ShellFile   = "200.html"
	SitemapFile = "sitemap.xml"
)

type (
	Option func(*Driver)

	// Driver visits routes one at a time and writes their snapshots under Dist.
	Driver struct {
		Dist    string
		Browser Browser
		Config  prerender.SnapshotConfig
		BaseUrl string
		Logger  *slog.Logger
		Now     func() time.Time
	}

	Report struct {
		Captured int
		Failed   int
		NotReady int
	}
)

func WithLogger(l *slog.Logger) Option {
	return func(d *Driver) {
		d.Logger = l
	}
}

func WithClock(now func() time.Time) Option {
	return func(d *Driver) {
		d.Now = now
	}
}

func New(c prerender.Config, b Browser, opts ...Option) *Driver {
	d := &Driver{
		Dist:    c.Dist(),
		Browser: b,
		Config:  c.Snapshot,
		BaseUrl: c.BaseUrl,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Run snapshots routes strictly in order. Per-route failures are logged
// and counted in the report. Only failures to prepare the crawl
// (missing shell, server or browser startup) are returned as errors.
func (d *Driver) Run(ctx context.Context, routeList []string) (Report, error) {
	logger := d.logger()
	report := Report{}

	shellPath := prerender.ArtifactPath(d.Dist, "/")
	shell, err := os.ReadFile(shellPath)
	if err != nil {
		return report, prerender.StageError{
			Err:   err,
			Key:   shellPath,
			Msg:   "failed to read application shell",
			Stage: prerender.StageSnapshot,
		}
	}

	if enabled(d.Config.WriteShell) {
		err = prerender.WriteFileAtomic(filepath.Join(d.Dist, ShellFile), shell, prerender.PermOutput)
		if err != nil {
			return report, err
		}
	}

	base, shutdown, err := d.serve(shell)
	if err != nil {
		return report, err
	}
	defer shutdown()

	err = d.Browser.Open(ctx)
	if err != nil {
		return report, prerender.StageError{
			Err:   err,
			Key:   base,
			Msg:   "failed to open browser",
			Stage: prerender.StageSnapshot,
		}
	}
	defer func() {
		if err := d.Browser.Close(); err != nil {
			logger.Warn("failed to close browser", "error", err)
		}
	}()

	captured := make([]string, 0, len(routeList))
	for _, route := range routeList {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		err := d.capture(ctx, base, route)
		switch {
		case err == nil:
			report.Captured++
			captured = append(captured, route)

		case errors.Is(err, ErrNotReady):
			report.Captured++
			report.NotReady++
			captured = append(captured, route)
			logger.Warn("captured page before it was ready", "route", route, "error", err)

		default:
			report.Failed++
			logger.Error("failed to snapshot route", "route", route, "error", err)
		}
	}

	if d.BaseUrl != "" && enabled(d.Config.Sitemap) {
		sm := routes.Sitemap(d.BaseUrl, d.now(), captured)
		err = prerender.WriteFileAtomic(filepath.Join(d.Dist, SitemapFile), []byte(sm), prerender.PermOutput)
		if err != nil {
			logger.Error("failed to write sitemap", "error", err)
		}
	}

	logger.Info("snapshot done",
		"captured", report.Captured,
		"failed", report.Failed,
		"not_ready", report.NotReady,
		"total", len(routeList),
	)

	return report, nil
}

func (d *Driver) capture(ctx context.Context, base, route string) error {
	html, err := d.Browser.Capture(ctx, base+route, d.wait(route))
	notReady := errors.Is(err, ErrNotReady)
	if err != nil && !notReady {
		return err
	}

	data := []byte(html)
	if enabled(d.Config.Minify) {
		min, errMin := MinifyHtml(data)
		if errMin != nil {
			d.logger().Warn("failed to minify, writing as captured", "route", route, "error", errMin)
		} else {
			data = min
		}
	}

	target := prerender.ArtifactPath(d.Dist, route)
	errWrite := prerender.WriteFileAtomic(target, data, prerender.PermOutput)
	if errWrite != nil {
		return errWrite
	}

	d.logger().Debug("wrote snapshot", "route", route, "target", target)
	return err
}

func (d *Driver) wait(route string) Wait {
	s := &d.Config
	w := Wait{Delay: s.Delay}
	if !prerender.IsBlogPostRoute(route) {
		return w
	}

	w.Blog = true
	w.Policy = Policy{
		Initial:  s.BlogInitialDelay,
		Interval: s.PollInterval,
		Settle:   s.SettleDelay,
		MaxPolls: s.MaxPolls,
	}
	if s.MaxPolls == prerender.MaxPollsUnbounded {
		w.Policy.MaxPolls = 0
	}

	return w
}

// serve starts the static server and returns its base URL.
func (d *Driver) serve(shell []byte) (string, func(), error) {
	ln, err := net.Listen("tcp", d.Config.Addr)
	if err != nil {
		return "", nil, fmt.Errorf("failed to listen on '%s': %w", d.Config.Addr, err)
	}

	srv := &http.Server{
		Handler:           NewServer(d.Dist, shell),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := srv.Serve(ln)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			d.logger().Error("static server stopped", "error", err)
		}
	}()

	shutdown := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		srv.Shutdown(ctx)
	}

	return "http://" + ln.Addr().String(), shutdown, nil
}

func (d *Driver) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}

	return time.Now()
}

func (d *Driver) logger() *slog.Logger {
	if d.Logger != nil {
		return d.Logger
	}

	return slog.Default()
}

func enabled(b *bool) bool {
	return b == nil || *b
}
