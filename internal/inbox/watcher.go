// Package inbox watches a drop directory and turns text files into
// notes. A dropped .txt or .md file becomes a note with its action
// items extracted and attached, then moves to a processed subdirectory
// so it is captured exactly once.
package inbox

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/notesd/internal/extract"
	"github.com/fyrsmithlabs/notesd/internal/metrics"
	"github.com/fyrsmithlabs/notesd/internal/notes"
)

// ErrWatcherFailed indicates the filesystem watcher failed to initialize.
var ErrWatcherFailed = errors.New("failed to initialize filesystem watcher")

const (
	// defaultDebounce is how long a file must stay quiet before it is
	// read. Editors and copies often emit several writes per file.
	defaultDebounce = 500 * time.Millisecond

	// maxTitleLen mirrors the note title validation cap.
	maxTitleLen = 200

	// processedDirName is the subdirectory captured files move into.
	processedDirName = "processed"
)

// Options configures a Watcher.
type Options struct {
	// Dir is the drop directory to watch. Required.
	Dir string

	// Extractor pulls action items out of dropped files. Required.
	Extractor extract.Extractor

	// Notes persists the captured notes. Required.
	Notes notes.NoteStore

	// Items persists the extracted action items. Required.
	Items notes.ItemStore

	// Debounce overrides the quiet period before a file is read.
	Debounce time.Duration

	// Logger is required.
	Logger *zap.Logger
}

// Watcher captures files dropped into a directory as notes.
type Watcher struct {
	dir       string
	processed string
	extractor extract.Extractor
	notes     notes.NoteStore
	items     notes.ItemStore
	debounce  time.Duration
	logger    *zap.Logger

	watcher *fsnotify.Watcher
	stop    chan struct{}

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// New creates a watcher for the drop directory in opts. Call Start to
// begin watching and Stop to release the filesystem watcher.
func New(opts Options) (*Watcher, error) {
	if opts.Dir == "" {
		return nil, errors.New("inbox dir is required")
	}
	if opts.Extractor == nil {
		return nil, errors.New("extractor is required")
	}
	if opts.Notes == nil {
		return nil, errors.New("note store is required")
	}
	if opts.Items == nil {
		return nil, errors.New("item store is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatcherFailed, err)
	}

	return &Watcher{
		dir:       opts.Dir,
		processed: filepath.Join(opts.Dir, processedDirName),
		extractor: opts.Extractor,
		notes:     opts.Notes,
		items:     opts.Items,
		debounce:  opts.Debounce,
		logger:    opts.Logger,
		watcher:   watcher,
		stop:      make(chan struct{}),
		timers:    make(map[string]*time.Timer),
	}, nil
}

// Start begins watching the drop directory in a background goroutine.
// Files already sitting in the directory are picked up as well.
func (w *Watcher) Start(ctx context.Context) error {
	if err := os.MkdirAll(w.processed, 0o755); err != nil {
		return fmt.Errorf("create processed dir: %w", err)
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("watch inbox dir %s: %w", w.dir, err)
	}

	w.sweep(ctx)
	go w.processEvents(ctx)

	w.logger.Info("inbox watcher started", zap.String("dir", w.dir))
	return nil
}

// Stop stops watching and releases the filesystem watcher. It is safe
// to call more than once.
func (w *Watcher) Stop() {
	select {
	case <-w.stop:
		return
	default:
		close(w.stop)
		_ = w.watcher.Close()

		w.mu.Lock()
		for path, timer := range w.timers {
			timer.Stop()
			delete(w.timers, path)
		}
		w.mu.Unlock()

		w.logger.Info("inbox watcher stopped")
	}
}

// sweep schedules files that were dropped while the watcher was not
// running.
func (w *Watcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn("failed to scan inbox dir", zap.String("dir", w.dir), zap.Error(err))
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !wantsFile(entry.Name()) {
			continue
		}
		w.schedule(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

// processEvents handles filesystem events until the watcher stops.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-w.stop:
			return

		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ctx, event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("inbox watcher error", zap.Error(err))
		}
	}
}

// handleEvent debounces writes to a dropped file and forgets files that
// disappear before their quiet period ends.
func (w *Watcher) handleEvent(ctx context.Context, event fsnotify.Event) {
	if !wantsFile(event.Name) {
		return
	}
	switch {
	case event.Op&fsnotify.Create == fsnotify.Create || event.Op&fsnotify.Write == fsnotify.Write:
		w.schedule(ctx, event.Name)
	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		w.forget(event.Name)
	}
}

// schedule arms the debounce timer for path, replacing any timer from
// an earlier event.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		select {
		case <-w.stop:
			return
		case <-ctx.Done():
			return
		default:
		}
		w.process(ctx, path)
	})
}

// forget drops the pending timer for path.
func (w *Watcher) forget(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, ok := w.timers[path]; ok {
		timer.Stop()
		delete(w.timers, path)
	}
}

// process captures one dropped file.
func (w *Watcher) process(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// Moved away before the quiet period ended.
			return
		}
		w.fail(path, fmt.Errorf("read file: %w", err))
		return
	}

	if err := w.ingest(ctx, path, string(data)); err != nil {
		w.fail(path, err)
		return
	}
	metrics.InboxFiles.WithLabelValues("processed").Inc()
}

// fail records a file that could not be captured. The file stays in the
// drop directory so it can be fixed and dropped again.
func (w *Watcher) fail(path string, err error) {
	metrics.InboxFiles.WithLabelValues("error").Inc()
	w.logger.Warn("failed to process inbox file",
		zap.String("file", path),
		zap.Error(err))
}

// ingest turns file content into a note with attached action items and
// moves the file aside.
func (w *Watcher) ingest(ctx context.Context, path, content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.New("file is empty")
	}

	found, err := w.extractor.Extract(ctx, content)
	if err != nil {
		return fmt.Errorf("extract action items: %w", err)
	}

	note := &notes.Note{
		Title:   titleFor(path, content),
		Content: content,
		Tags:    []notes.Tag{},
	}
	if err := w.notes.Create(ctx, note); err != nil {
		return fmt.Errorf("save note: %w", err)
	}

	items := make([]*notes.ActionItem, 0, len(found))
	for _, description := range found {
		items = append(items, &notes.ActionItem{Description: description, NoteID: &note.ID})
	}
	if len(items) > 0 {
		if err := w.items.CreateMany(ctx, items); err != nil {
			return fmt.Errorf("save action items: %w", err)
		}
	}

	dest, err := w.moveToProcessed(path)
	if err != nil {
		return err
	}

	w.logger.Info("captured inbox file",
		zap.String("file", filepath.Base(path)),
		zap.Int64("note_id", note.ID),
		zap.Int("items", len(items)),
		zap.String("moved_to", dest))
	return nil
}

// moveToProcessed renames the file into the processed subdirectory,
// picking a fresh name when one from an earlier drop is in the way.
func (w *Watcher) moveToProcessed(path string) (string, error) {
	base := filepath.Base(path)
	dest := filepath.Join(w.processed, base)
	if _, err := os.Stat(dest); err == nil {
		ext := filepath.Ext(base)
		stem := strings.TrimSuffix(base, ext)
		dest = filepath.Join(w.processed, stem+"-"+uuid.NewString()+ext)
	}
	if err := os.Rename(path, dest); err != nil {
		return "", fmt.Errorf("move to processed: %w", err)
	}
	return dest, nil
}

// wantsFile reports whether a path names a capturable drop file.
// Hidden files are skipped so editor temp files do not become notes.
func wantsFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	switch strings.ToLower(filepath.Ext(base)) {
	case ".txt", ".md":
		return true
	}
	return false
}

// titleFor prefers the file name as the note title and falls back to
// the first non-blank content line.
func titleFor(path, content string) string {
	base := filepath.Base(path)
	stem := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem != "" {
		return clipTitle(stem)
	}
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			return clipTitle(trimmed)
		}
	}
	return "Untitled"
}

// clipTitle truncates a candidate title to the note title limit.
func clipTitle(title string) string {
	runes := []rune(title)
	if len(runes) > maxTitleLen {
		return string(runes[:maxTitleLen])
	}
	return title
}
