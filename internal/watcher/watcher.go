// Package watcher monitors the inbox directory and imports e-book files
// dropped into it.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/inkwellapp/inkwell/internal/epub"
)

// Handler receives a settled e-book file from the inbox. It gets the raw
// bytes plus the original file name and returns an error when the book could
// not be added.
type Handler func(ctx context.Context, data []byte, fileName string) error

// Options configures the inbox watcher.
type Options struct {
	// Dir is the inbox directory. Created if missing.
	Dir string

	// SettleDelay is how long a file must stay unchanged before it is
	// considered fully written. Copies into the inbox arrive as a burst
	// of partial writes; importing too early reads a truncated file.
	SettleDelay time.Duration
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = 2 * time.Second
	}
}

// pendingFile tracks a file that may still be changing.
type pendingFile struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// Watcher watches a single flat inbox directory. New .epub files are left
// to settle, handed to the Handler, and removed on success. Files the
// handler rejects stay in place so the user can inspect them.
type Watcher struct {
	opts    Options
	handler Handler
	logger  *slog.Logger

	fs      *fsnotify.Watcher
	pending map[string]*pendingFile
	mu      sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

// New creates an inbox watcher. The directory is created if needed.
func New(opts Options, handler Handler, logger *slog.Logger) (*Watcher, error) {
	opts.setDefaults()

	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create inbox dir: %w", err)
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fs.Add(opts.Dir); err != nil {
		fs.Close()
		return nil, fmt.Errorf("watch inbox dir: %w", err)
	}

	return &Watcher{
		opts:    opts,
		handler: handler,
		logger:  logger,
		fs:      fs,
		pending: make(map[string]*pendingFile),
		done:    make(chan struct{}),
	}, nil
}

// Start processes inbox events until the context is cancelled. Files already
// sitting in the inbox at startup are imported first.
func (w *Watcher) Start(ctx context.Context) error {
	w.logger.Info("watching inbox", "dir", w.opts.Dir, "settle_delay", w.opts.SettleDelay)

	if err := w.sweepExisting(ctx); err != nil {
		return err
	}

	w.wg.Add(1)
	go w.processEvents(ctx)

	<-ctx.Done()
	return nil
}

// Stop releases the watcher and cancels pending settle timers.
func (w *Watcher) Stop() error {
	close(w.done)

	w.mu.Lock()
	for _, p := range w.pending {
		p.timer.Stop()
	}
	clear(w.pending)
	w.mu.Unlock()

	err := w.fs.Close()
	w.wg.Wait()
	return err
}

// sweepExisting imports files that were dropped while the watcher was not
// running.
func (w *Watcher) sweepExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.opts.Dir)
	if err != nil {
		return fmt.Errorf("read inbox dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || !epub.Sniff(entry.Name()) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		w.importFile(ctx, filepath.Join(w.opts.Dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("inbox watch error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if !epub.Sniff(path) {
		return
	}

	if event.Op&fsnotify.Remove != 0 || event.Op&fsnotify.Rename != 0 {
		w.cancelPending(path)
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		w.startSettling(ctx, path)
	}
}

// startSettling arms (or re-arms) the settle timer for path.
func (w *Watcher) startSettling(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, exists := w.pending[path]; exists {
		p.timer.Stop()
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		delete(w.pending, path)
		return
	}

	p := &pendingFile{size: info.Size(), modTime: info.ModTime()}
	p.timer = time.AfterFunc(w.opts.SettleDelay, func() {
		w.checkSettled(ctx, path)
	})
	w.pending[path] = p
}

// checkSettled imports the file if its size and mtime stopped moving,
// otherwise restarts the timer.
func (w *Watcher) checkSettled(ctx context.Context, path string) {
	w.mu.Lock()

	p, exists := w.pending[path]
	if !exists {
		w.mu.Unlock()
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		delete(w.pending, path)
		w.mu.Unlock()
		return
	}

	if info.Size() != p.size || !info.ModTime().Equal(p.modTime) {
		p.size = info.Size()
		p.modTime = info.ModTime()
		p.timer = time.AfterFunc(w.opts.SettleDelay, func() {
			w.checkSettled(ctx, path)
		})
		w.mu.Unlock()
		return
	}

	delete(w.pending, path)
	w.mu.Unlock()

	select {
	case <-w.done:
		return
	case <-ctx.Done():
		return
	default:
	}

	w.importFile(ctx, path)
}

// importFile hands the file to the handler and removes it on success.
func (w *Watcher) importFile(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		w.logger.Warn("failed to read inbox file", "path", path, "error", err)
		return
	}

	if err := w.handler(ctx, data, filepath.Base(path)); err != nil {
		w.logger.Warn("inbox import rejected, leaving file in place",
			"path", path, "error", err)
		return
	}

	if err := os.Remove(path); err != nil {
		w.logger.Warn("failed to remove imported inbox file", "path", path, "error", err)
		return
	}
	w.logger.Info("imported from inbox", "file", filepath.Base(path))
}

// cancelPending drops any settle timer for path.
func (w *Watcher) cancelPending(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if p, exists := w.pending[path]; exists {
		p.timer.Stop()
		delete(w.pending, path)
	}
}
