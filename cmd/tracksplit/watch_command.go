package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"github.com/simonhull/tracksplit"
)

const settleInterval = 2 * time.Second

func newWatchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <directory>",
		Short: "Watch a directory and split FLAC files dropped into it",
		Long: "watch monitors a directory and splits every .flac file that appears\n" +
			"in it, once the file has stopped growing. Only one watcher may run\n" +
			"per directory at a time.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.config()
			if err != nil {
				return err
			}
			logger := ctx.logger(cfg)
			opts := ctx.engineOptions(cfg, logger)
			return watch(cmd.Context(), args[0], opts, logger)
		},
	}
}

func watch(ctx context.Context, dir string, opts []tracksplit.Option, logger *slog.Logger) error {
	lock := flock.New(filepath.Join(dir, ".tracksplit.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return fmt.Errorf("another watcher is already running on %s", dir)
	}
	defer lock.Unlock()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	// Pick up files already sitting in the directory.
	initial, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	pending := make(map[string]time.Time)
	for _, entry := range initial {
		if !entry.IsDir() && isFlacPath(entry.Name()) {
			pending[filepath.Join(dir, entry.Name())] = time.Now()
		}
	}

	logger.Info("watching", slog.String("dir", dir))
	ticker := time.NewTicker(settleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if isFlacPath(event.Name) {
				pending[event.Name] = time.Now()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", slog.String("error", err.Error()))
		case <-ticker.C:
			for path, last := range pending {
				if time.Since(last) < settleInterval {
					continue
				}
				delete(pending, path)
				splitWatched(ctx, path, opts, logger)
			}
		}
	}
}

// splitWatched splits one settled file, logging rather than returning
// the outcome: a bad drop must not stop the watcher.
func splitWatched(ctx context.Context, path string, opts []tracksplit.Option, logger *slog.Logger) {
	tracks, err := tracksplit.Split(ctx, path, opts...)
	if err != nil {
		logger.Error("split failed", slog.String("file", path), slog.String("error", err.Error()))
		return
	}
	logger.Info("split dropped file", slog.String("file", path), slog.Int("tracks", len(tracks)))
}

func isFlacPath(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".flac")
}
