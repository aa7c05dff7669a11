package frontmatter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatchDebounce is how long a file must stay quiet before it is processed.
var WatchDebounce = 200 * time.Millisecond

// Watch processes markdown files already waiting in Root, then keeps
// processing files created or written there until ctx is done.
// Editors usually write a file in several steps, so events are
// debounced per file.
//
// Like GenerateAll, only publish errors end the watch early.
func (g *Generator) Watch(ctx context.Context) error {
	if sameFile(g.Root, g.PostsDir) {
		return fmt.Errorf("posts dir '%s' cannot be the watched root", g.PostsDir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	err = watcher.Add(g.Root)
	if err != nil {
		return fmt.Errorf("failed to watch root '%s': %w", g.Root, err)
	}

	// Pending debounce timers select on ctx, so they must not outlive Watch.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger := g.logger().With("root", g.Root)
	logger.Info("watching for new posts")

	_, err = g.GenerateAll()
	if err != nil {
		return err
	}

	ready := make(chan string)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped watching")
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}

			name := filepath.Base(event.Name)
			if !g.candidateName(name) {
				continue
			}

			if timer, ok := timers[name]; ok {
				timer.Stop()
			}
			timers[name] = time.AfterFunc(WatchDebounce, func() {
				select {
				case ready <- name:
				case <-ctx.Done():
				}
			})

		case name := <-ready:
			delete(timers, name)

			info, err := os.Lstat(filepath.Join(g.Root, name))
			if err != nil || !info.Mode().IsRegular() {
				// Already moved, or not a regular file
				continue
			}

			_, err = g.Generate(name)
			switch {
			case err == nil:
			case errors.Is(err, ErrPublish):
				return err
			default:
				logger.Error("skipping file", "file", name, "error", err)
			}
		}
	}
}
