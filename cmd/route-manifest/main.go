package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexflint/go-arg"

	"github.com/soyart/prerender"
	"github.com/soyart/prerender/routes"
)

type cli struct {
	prerender.Flags
	Print bool `arg:"--print" help:"Print the routes to snapshot, one per line"`
}

func main() {
	c := cli{}
	arg.MustParse(&c)

	conf, err := c.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	err = routes.Rebuild(conf)
	if err != nil {
		slog.Error("failed to rebuild manifest", "error", err)
		os.Exit(1)
	}

	if !c.Print {
		return
	}

	for _, route := range routes.Enumerate(conf.StaticRoutes, conf.Posts()) {
		fmt.Println(route)
	}
}
