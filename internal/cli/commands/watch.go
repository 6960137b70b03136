package commands

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long the watcher waits for writes to settle.
const watchDebounce = 100 * time.Millisecond

// notifyContext cancels ctx on SIGINT or SIGTERM.
func notifyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}

// watchFile calls onChange whenever the content of path changes, until ctx
// is done. The parent directory is watched so that editors replacing the
// file by rename are followed. Content written by onChange itself does not
// trigger another call. A change being handled when ctx is done is allowed
// to finish before watchFile returns.
func watchFile(ctx context.Context, path string, logger *slog.Logger, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	var (
		mu       sync.Mutex
		lastSeen = readQuiet(abs)
		timer    *time.Timer
		pending  sync.WaitGroup
	)
	fire := func() {
		mu.Lock()
		defer mu.Unlock()
		current := readQuiet(abs)
		if current == nil || bytes.Equal(current, lastSeen) {
			return
		}
		logger.Info("change detected", "file", path)
		if err := onChange(); err != nil {
			logger.Error("fix failed", "file", path, "error", err)
		}
		lastSeen = readQuiet(abs)
	}

	// dropPending drops a scheduled call that has not started yet.
	dropPending := func() {
		if timer != nil && timer.Stop() {
			pending.Done()
		}
	}
	defer pending.Wait()

	for {
		select {
		case <-ctx.Done():
			dropPending()
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				dropPending()
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			// Debounce bursts of writes
			dropPending()
			pending.Add(1)
			timer = time.AfterFunc(watchDebounce, func() {
				defer pending.Done()
				fire()
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				dropPending()
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// readQuiet returns the content of path, or nil if it cannot be read.
func readQuiet(path string) []byte {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the user
	if err != nil {
		return nil
	}
	return data
}
