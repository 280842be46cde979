package persist

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 150 * time.Millisecond

// Watcher calls onChange when the file behind a FileBackend key is modified
// by someone other than the repository itself. onChange runs on the
// watcher's goroutine; callers hand the notification to their own event
// loop instead of touching editor state from it.
type Watcher struct {
	repo     *Repository
	path     string
	onChange func()
	log      *slog.Logger

	watcher *fsnotify.Watcher
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
	timer   *time.Timer
}

func NewWatcher(repo *Repository, b *FileBackend, onChange func(), log *slog.Logger) *Watcher {
	if log == nil {
		log = slog.Default()
	}
	return &Watcher{
		repo:     repo,
		path:     b.Path(repo.Key()),
		onChange: onChange,
		log:      log,
	}
}

// Start begins watching the directory containing the storage file.
func (w *Watcher) Start(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	// rename-on-write replaces the file, so watch the directory
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = fw

	ctx, w.cancel = context.WithCancel(ctx)
	w.done = make(chan struct{})
	go w.loop(ctx)
	w.log.Debug("watching storage file", "path", w.path)
	return nil
}

func (w *Watcher) loop(ctx context.Context) {
	defer close(w.done)
	target, _ := filepath.Abs(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if abs, _ := filepath.Abs(event.Name); abs != target {
				continue
			}
			w.schedule(ctx)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("storage watcher", "error", err)
		}
	}
}

func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(watchDebounce, func() {
		if ctx.Err() != nil {
			return
		}
		changed, err := w.repo.Changed(ctx)
		if err != nil {
			w.log.Warn("storage watcher: read", "error", err)
			return
		}
		if changed {
			w.log.Info("storage file changed externally", "path", w.path)
			w.onChange()
		}
	})
}

// Stop ends the watch loop and releases the OS watcher.
func (w *Watcher) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.watcher.Close()
	<-w.done
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
}
