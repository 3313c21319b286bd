// Package watch signals changes below a fragment tree.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is the quiet period after the last event before a change
// is signalled.
const DefaultDebounce = 200 * time.Millisecond

// TreeWatcher reports changes to any file or directory below its root.
// Directories created after Changes is called are watched as well.
type TreeWatcher struct {
	root     string
	debounce time.Duration
	log      *zap.Logger
	watcher  *fsnotify.Watcher
	mu       sync.Mutex
	closed   bool
}

// NewTreeWatcher creates a watcher for root. A debounce of zero means
// DefaultDebounce; a nil logger discards log output.
func NewTreeWatcher(root string, debounce time.Duration, log *zap.Logger) (*TreeWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &TreeWatcher{
		root:     root,
		debounce: debounce,
		log:      log,
		watcher:  watcher,
	}, nil
}

// Changes registers every directory below the root and returns a channel
// that receives a value once per burst of filesystem events. Signals are
// coalesced while the receiver is busy. The channel is closed when ctx is
// cancelled or the watcher is closed.
func (t *TreeWatcher) Changes(ctx context.Context) (<-chan struct{}, error) {
	if err := t.addTree(t.root); err != nil {
		return nil, err
	}

	changes := make(chan struct{}, 1)
	go t.watchLoop(ctx, changes)
	return changes, nil
}

// addTree watches dir and every directory below it. Symbolic links are not
// followed.
func (t *TreeWatcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == dir {
				return fmt.Errorf("watching %s: %w", path, err)
			}
			t.log.Warn("skipping unreadable directory", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if err := t.watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		t.log.Debug("watching directory", zap.String("path", path))
		return nil
	})
}

// watchLoop turns raw events into debounced change signals.
func (t *TreeWatcher) watchLoop(ctx context.Context, changes chan<- struct{}) {
	defer close(changes)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-t.watcher.Events:
			if !ok {
				return
			}
			if !t.handleEvent(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(t.debounce)
			} else {
				timer.Reset(t.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			select {
			case changes <- struct{}{}:
			default:
			}
		case err, ok := <-t.watcher.Errors:
			if !ok {
				return
			}
			t.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// handleEvent reports whether event changes the tree's content. New
// directories are added to the watch list.
func (t *TreeWatcher) handleEvent(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	t.log.Debug("tree changed", zap.String("path", event.Name), zap.Stringer("op", event.Op))

	if event.Has(fsnotify.Create) {
		if info, err := os.Lstat(event.Name); err == nil && info.IsDir() {
			if err := t.addTree(event.Name); err != nil {
				t.log.Warn("cannot watch new directory", zap.String("path", event.Name), zap.Error(err))
			}
		}
	}
	return true
}

// Close stops the watcher and releases resources.
func (t *TreeWatcher) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true

	if t.watcher != nil {
		return t.watcher.Close()
	}
	return nil
}

// Root returns the directory being watched.
func (t *TreeWatcher) Root() string {
	return t.root
}
