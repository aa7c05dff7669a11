package snapshot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/soyart/prerender"
)

const (
	// Lets the application detect that it is being snapshotted
	scriptFlag = `window.__PRERENDER__ = true;`

	scriptSerialize = `(() => {
	const dt = document.doctype;
	const doctype = dt ? new XMLSerializer().serializeToString(dt) : '';
	return doctype + document.documentElement.outerHTML;
})()`

	scriptProbe = `(() => {
	const body = document.body;
	if (body && body.getAttribute(%q) === 'true') {
		return true;
	}
	const article = document.querySelector('article');
	return !!article && article.textContent.trim().length > %d;
})()`
)

var errClosed = errors.New("browser is not open")

// Chrome is a [Browser] backed by a headless Chrome driven over CDP.
// All pages share a single tab.
type Chrome struct {
	ExecPath          string
	UserAgent         string
	Width             int
	Height            int
	NavigationTimeout time.Duration

	// Readiness markers for blog pages
	ReadyAttribute  string
	MinArticleChars int

	Logger *slog.Logger

	tab         context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
}

func NewChrome(c prerender.SnapshotConfig) *Chrome {
	return &Chrome{
		ExecPath:          c.ChromePath,
		UserAgent:         c.UserAgent,
		Width:             c.Width,
		Height:            c.Height,
		NavigationTimeout: c.NavigationTimeout,
		ReadyAttribute:    c.ReadyAttribute,
		MinArticleChars:   c.MinArticleChars,
	}
}

func (c *Chrome) Open(ctx context.Context) error {
	if c.tab != nil {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:], chromedp.WindowSize(c.Width, c.Height))
	if c.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(c.ExecPath))
	}
	if c.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(c.UserAgent))
	}

	logger := c.logger()
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tab, tabCancel := chromedp.NewContext(
		allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		}),
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		}),
	)

	// First Run launches the browser
	err := chromedp.Run(tab, chromedp.ActionFunc(func(ctx context.Context) error {
		_, err := page.AddScriptToEvaluateOnNewDocument(scriptFlag).Do(ctx)
		return err
	}))
	if err != nil {
		tabCancel()
		allocCancel()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	c.tab = tab
	c.tabCancel = tabCancel
	c.allocCancel = allocCancel
	logger.Info("browser launched", "exec_path", c.ExecPath)

	return nil
}

func (c *Chrome) Capture(ctx context.Context, url string, wait Wait) (string, error) {
	if c.tab == nil {
		return "", errClosed
	}

	tab, cancel := context.WithCancel(c.tab)
	defer cancel()

	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	err := c.navigate(tab, url)
	if err != nil {
		return "", fmt.Errorf("failed to navigate to '%s': %w", url, err)
	}

	err = sleep(tab, wait.Delay)
	if err != nil {
		return "", err
	}

	var errWait error
	if wait.Blog {
		ready, polls, err := WaitReady(tab, wait.Policy, c.probe)
		if err != nil {
			return "", fmt.Errorf("failed while waiting for '%s': %w", url, err)
		}
		if !ready {
			errWait = fmt.Errorf("'%s' after %d polls: %w", url, polls, ErrNotReady)
		}
	}

	var html string
	err = chromedp.Run(tab, chromedp.Evaluate(scriptSerialize, &html))
	if err != nil {
		return "", fmt.Errorf("failed to serialize '%s': %w", url, err)
	}

	return html, errWait
}

func (c *Chrome) Close() error {
	if c.tab == nil {
		return nil
	}

	err := chromedp.Cancel(c.tab)
	c.tabCancel()
	c.allocCancel()
	c.tab = nil

	return err
}

func (c *Chrome) navigate(ctx context.Context, url string) error {
	if c.NavigationTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.NavigationTimeout)
		defer cancel()
	}

	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (c *Chrome) probe(ctx context.Context) (bool, error) {
	var ready bool
	script := fmt.Sprintf(scriptProbe, c.ReadyAttribute, c.MinArticleChars)
	err := chromedp.Run(ctx, chromedp.Evaluate(script, &ready))

	return ready, err
}

func (c *Chrome) logger() *slog.Logger {
	if c.Logger != nil {
		return c.Logger
	}

	return slog.Default()
}
