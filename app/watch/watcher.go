package watch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fsnotify/fsnotify"
)

// ChangedMsg reports that the watched artifact was written or replaced.
type ChangedMsg struct {
	Path string
}

// ErrorMsg carries a watcher failure into the event loop.
type ErrorMsg struct {
	Err error
}

// Watcher watches one file for changes made by other programs. It watches the
// parent directory so editors that replace the file on save are seen too.
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  *slog.Logger
	changes chan ChangedMsg
	errs    chan error
	done    chan struct{}
}

// New creates a watcher for path. The parent directory is created if needed.
func New(path string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}
	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create watch dir: %w", err)
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsWatcher.Add(dir); err != nil {
		fsWatcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &Watcher{
		watcher: fsWatcher,
		path:    abs,
		logger:  logger,
		changes: make(chan ChangedMsg, 1),
		errs:    make(chan error, 1),
		done:    make(chan struct{}),
	}, nil
}

// Start begins forwarding events. Bursts of writes collapse into a single
// pending notification.
func (w *Watcher) Start() {
	go func() {
		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != w.path {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
					continue
				}
				w.logger.Debug("artifact event", "op", event.Op.String(), "path", event.Name)
				select {
				case w.changes <- ChangedMsg{Path: w.path}:
				default:
				}

			case err, ok := <-w.watcher.Errors:
				if !ok {
					return
				}
				w.logger.Warn("watch error", "error", err)
				select {
				case w.errs <- err:
				default:
				}

			case <-w.done:
				return
			}
		}
	}()
}

// Changes exposes pending change notifications.
func (w *Watcher) Changes() <-chan ChangedMsg { return w.changes }

// Wait returns a command that blocks until the next change or error. The
// model re-issues it after handling each message.
func (w *Watcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-w.changes:
			return msg
		case err := <-w.errs:
			return ErrorMsg{Err: err}
		case <-w.done:
			return nil
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
