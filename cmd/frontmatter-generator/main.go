package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alexflint/go-arg"

	"github.com/soyart/prerender"
	"github.com/soyart/prerender/frontmatter"
	"github.com/soyart/prerender/routes"
)

type cli struct {
	prerender.Flags
	Filename string `arg:"positional" help:"Markdown file in root to publish, all non-reserved files if omitted"`
	Watch    bool   `arg:"--watch" help:"Keep publishing new markdown files dropped in root"`
}

func main() {
	c := cli{}
	arg.MustParse(&c)

	err := run(&c)
	if err != nil {
		slog.Error("frontmatter-generator failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli) error {
	conf, err := c.Load()
	if err != nil {
		return err
	}

	g := frontmatter.New(conf, func() error {
		return routes.Rebuild(conf)
	})

	switch {
	case c.Watch:
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return g.Watch(ctx)

	case c.Filename != "":
		route, err := g.Generate(c.Filename)
		if errors.Is(err, prerender.ErrNotFound) {
			// Already logged
			return nil
		}
		if err != nil {
			return err
		}

		fmt.Println(route)
		return nil
	}

	generated, err := g.GenerateAll()
	for i := range generated {
		fmt.Println(generated[i])
	}

	return err
}
