package main

import (
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/soyart/prerender"
	"github.com/soyart/prerender/inject"
)

type cli struct {
	prerender.Flags
}

func main() {
	c := cli{}
	arg.MustParse(&c)

	conf, err := c.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	injector, err := inject.New(conf)
	if err != nil {
		slog.Error("failed to create injector", "error", err)
		os.Exit(1)
	}

	_, err = injector.Run()
	if err != nil {
		slog.Error("content-injector failed", "error", err)
		os.Exit(1)
	}
}
