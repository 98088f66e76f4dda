package intake

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher ingests scan files dropped into a directory by scanner
// stations. A file is processed after its writes have settled
// (debounce) and renamed with a .done suffix afterwards so a restart
// never double-ingests.
type Watcher struct {
	mu       sync.Mutex
	watcher  *fsnotify.Watcher
	service  *Service
	logger   *zap.Logger
	dir      string
	debounce time.Duration
	pending  map[string]time.Time
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
}

// NewWatcher creates a watcher over dir feeding the given service.
func NewWatcher(dir string, service *Service, logger *zap.Logger, debounce time.Duration) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{
		watcher:  fw,
		service:  service,
		logger:   logger,
		dir:      dir,
		debounce: debounce,
		pending:  make(map[string]time.Time),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching the drop directory. Non-blocking; any scan
// files already sitting in the directory are ingested first.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.logger.Info("watching scan drop directory", zap.String("dir", w.dir))

	w.ingestExisting(ctx)

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh
	w.watcher.Close()
}

// ingestExisting picks up files that arrived while the watcher was
// down.
func (w *Watcher) ingestExisting(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("failed to list drop directory", zap.Error(err))
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(w.dir, e.Name())
		if w.isScanFile(path) {
			w.ingest(ctx, path)
		}
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			if !w.isScanFile(event.Name) {
				continue
			}
			w.mu.Lock()
			w.pending[event.Name] = time.Now()
			w.mu.Unlock()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", zap.Error(err))
		case <-ticker.C:
			w.flushSettled(ctx)
		}
	}
}

// flushSettled ingests pending files whose last write is older than
// the debounce window.
func (w *Watcher) flushSettled(ctx context.Context) {
	now := time.Now()
	var ready []string
	w.mu.Lock()
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.mu.Unlock()

	for _, path := range ready {
		w.ingest(ctx, path)
	}
}

func (w *Watcher) ingest(ctx context.Context, path string) {
	n, err := w.service.ProcessFile(ctx, path)
	if err != nil {
		w.logger.Error("failed to ingest scan file",
			zap.String("path", path), zap.Error(err))
		return
	}
	if err := os.Rename(path, path+".done"); err != nil {
		w.logger.Warn("failed to mark scan file done",
			zap.String("path", path), zap.Error(err))
	}
	w.logger.Info("scan file processed",
		zap.String("path", path), zap.Int("records", n))
}

// isScanFile accepts *.txt drops only; .done files and temp files
// from scanners are ignored.
func (w *Watcher) isScanFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".txt")
}
