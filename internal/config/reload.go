// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xglog "github.com/sagarsingh/pricecalc/internal/log"
)

// DensityHolder holds the density table with atomic reloading. It watches the
// backing file and swaps in a new table only after it validates, so an invalid
// edit never takes down volume conversions.
type DensityHolder struct {
	mu      sync.RWMutex
	current *DensityTable
	path    string
	watcher *fsnotify.Watcher
	logger  zerolog.Logger
	done    chan struct{}
	once    sync.Once
}

// NewDensityHolder creates a holder around the given file path. When path is
// empty the holder serves an empty table and watching is a no-op.
func NewDensityHolder(path string) *DensityHolder {
	return &DensityHolder{
		current: EmptyDensityTable(),
		path:    path,
		logger:  xglog.WithComponent("density"),
		done:    make(chan struct{}),
	}
}

// Current returns the active density table (thread-safe read).
func (h *DensityHolder) Current() *DensityTable {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Density resolves an ingredient density from the active table.
func (h *DensityHolder) Density(ingredient string) float64 {
	return h.Current().Density(ingredient)
}

// Reload re-reads the density file. On failure the previous table is kept.
func (h *DensityHolder) Reload(_ context.Context) error {
	if h.path == "" {
		return nil
	}

	table, err := LoadDensityTable(h.path)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("event", "density.reload_failed").
			Str(xglog.FieldPath, h.path).
			Msg("failed to load density table, keeping previous")
		return fmt.Errorf("load density table: %w", err)
	}

	h.mu.Lock()
	h.current = table
	h.mu.Unlock()

	h.logger.Info().
		Str("event", "density.reload_success").
		Str(xglog.FieldPath, h.path).
		Int("entries", table.Len()).
		Msg("density table reloaded")
	return nil
}

// Watch loads the file once and then follows write/create events until Close.
// Editors often replace files instead of writing in place, so the parent
// directory is watched and events are filtered by name.
func (h *DensityHolder) Watch(ctx context.Context) error {
	if h.path == "" {
		return nil
	}

	if err := h.Reload(ctx); err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(h.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", h.path, err)
	}
	h.watcher = watcher

	go h.watchLoop(ctx)
	return nil
}

func (h *DensityHolder) watchLoop(ctx context.Context) {
	// Debounce rapid successive events from editors doing write+rename.
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-h.done:
			return
		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(h.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(200*time.Millisecond, func() {
				_ = h.Reload(ctx)
			})
		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Warn().Err(err).Msg("density file watcher error")
		}
	}
}

// Close stops the watcher.
func (h *DensityHolder) Close() error {
	var err error
	h.once.Do(func() {
		close(h.done)
		if h.watcher != nil {
			err = h.watcher.Close()
		}
	})
	return err
}
