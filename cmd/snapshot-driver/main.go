package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/soyart/prerender"
	"github.com/soyart/prerender/routes"
	"github.com/soyart/prerender/snapshot"
)

type cli struct {
	prerender.Flags
	Chrome string `arg:"--chrome,env:CHROME_PATH" help:"Browser executable, overrides snapshot.chrome_path"`
}

// snapshot-driver always exits 0, so that a broken crawl
// never blocks the deployment that follows it.
func main() {
	c := cli{}
	arg.MustParse(&c)

	err := run(&c)
	if err != nil {
		slog.Error("snapshot-driver failed", "error", err)
	}
}

func run(c *cli) error {
	conf, err := c.Load()
	if err != nil {
		return err
	}

	chrome := snapshot.NewChrome(conf.Snapshot)
	if c.Chrome != "" {
		chrome.ExecPath = c.Chrome
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	routeList := routes.Enumerate(conf.StaticRoutes, conf.Posts())
	_, err = snapshot.New(conf, chrome).Run(ctx, routeList)

	return err
}
