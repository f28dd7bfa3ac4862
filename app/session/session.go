// Package session wires configuration, logging, history and the sync
// orchestrator for one project. Both direct commands and the TUI open one.
package session

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Guerrilla-Interactive/codebot-cli/app/history"
	"github.com/Guerrilla-Interactive/codebot-cli/app/logs"
	"github.com/Guerrilla-Interactive/codebot-cli/app/palette"
	"github.com/Guerrilla-Interactive/codebot-cli/app/params"
	"github.com/Guerrilla-Interactive/codebot-cli/app/project"
	"github.com/Guerrilla-Interactive/codebot-cli/app/workspace"
	config "github.com/Guerrilla-Interactive/codebot-cli/internal"
)

// Options controls how a session is opened.
type Options struct {
	ProjectDir string    // explicit --project; empty means detect from the working directory
	Console    io.Writer // console log sink; nil in TUI mode
	NoHistory  bool      // skip opening the revision database
	Debug      bool      // --debug overrides the configured log level
	Registry   *project.ProjectRegistry
}

// Session is an opened project.
type Session struct {
	Root      string
	Info      project.ProjectInfo
	Config    config.Config
	Logger    *slog.Logger
	Workspace *workspace.Orchestrator
	History   *history.Store // nil when history is disabled or unavailable
	Registry  *project.ProjectRegistry

	closers []io.Closer
}

// ResolveRoot returns the project root for an explicit directory or, when
// dir is empty, for the working directory.
func ResolveRoot(dir string, registry *project.ProjectRegistry) (project.ProjectInfo, error) {
	if dir != "" {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return project.ProjectInfo{}, fmt.Errorf("resolve project dir: %w", err)
		}
		info, ok := project.DetectProject(abs)
		if !ok || info.RootPath != abs {
			// An explicit directory always wins over detection further up.
			info = project.ProjectInfo{RootPath: abs, Name: filepath.Base(abs), Type: "explicit", Markers: []string{}}
		}
		return info, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return project.ProjectInfo{}, fmt.Errorf("could not determine current directory: %w", err)
	}
	return registry.Resolve(wd), nil
}

// Open resolves configuration for the project and opens its workspace.
func Open(opts Options) (*Session, error) {
	info, err := ResolveRoot(opts.ProjectDir, opts.Registry)
	if err != nil {
		return nil, err
	}

	cfg, err := config.Resolve(info.RootPath)
	if err != nil {
		return nil, err
	}

	level := cfg.LogLevel
	if opts.Debug {
		level = "debug"
	}
	logger, logCloser, err := logs.New(logs.Options{Console: opts.Console, File: cfg.LogFile, Level: level})
	if err != nil {
		return nil, err
	}

	s := &Session{
		Root:     info.RootPath,
		Info:     info,
		Config:   cfg,
		Logger:   logger.With("project", info.Name),
		Registry: opts.Registry,
		closers:  []io.Closer{logCloser},
	}

	seed := params.Defaults()
	for name, value := range cfg.Params {
		if err := seed.Set(name, value); err != nil {
			s.Logger.Warn("ignoring configured parameter", "name", name, "value", value, "error", err)
		}
	}

	wsOpts := []workspace.Option{workspace.WithLogger(s.Logger), workspace.WithParams(seed)}
	if !opts.NoHistory && cfg.HistoryDB != "" {
		store, err := history.Open(cfg.HistoryDB)
		if err != nil {
			// History is an aid, not a requirement for editing.
			s.Logger.Warn("revision history unavailable", "path", cfg.HistoryDB, "error", err)
		} else {
			s.History = store
			s.closers = append(s.closers, store)
			wsOpts = append(wsOpts, workspace.WithRecorder(store, info.RootPath))
		}
	}

	ws, err := workspace.Open(workspace.NewFileStore(cfg.ArtifactFile(info.RootPath)), wsOpts...)
	if err != nil {
		_ = s.Close()
		return nil, err
	}
	s.Workspace = ws

	if s.Registry != nil {
		s.Registry.AddOrUpdateProject(info)
		if err := s.Registry.Save(); err != nil {
			s.Logger.Debug("saving project registry failed", "error", err)
		}
	}
	s.Logger.Debug("session opened", "root", info.RootPath, "artifact", ws.Path(), "type", info.Type)
	return s, nil
}

// Palette loads the snippet palette configured for the project.
func (s *Session) Palette() (*palette.Palette, error) {
	path := s.Config.PalettePath
	if path != "" && !filepath.IsAbs(path) {
		path = filepath.Join(s.Root, path)
	}
	return palette.Load(path)
}

// MarkSaved notes a successful persist in the project registry.
func (s *Session) MarkSaved() {
	if s.Registry == nil {
		return
	}
	s.Registry.MarkSaved(s.Root)
	if err := s.Registry.Save(); err != nil {
		s.Logger.Debug("saving project registry failed", "error", err)
	}
}

// Close releases the history database and log file.
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil
	return errors.Join(errs...)
}
