package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/gerunddev/omd2tex/internal/config"
	"github.com/gerunddev/omd2tex/internal/logger"
	"github.com/gerunddev/omd2tex/internal/search"
	"github.com/gerunddev/omd2tex/internal/state"
	"github.com/gerunddev/omd2tex/internal/styles"
)

// session is what every rendering command needs: configuration, a logger and a
// finder over the vault
type session struct {
	cfg     *config.Config
	log     *logger.Logger
	finder  *search.Finder
	cleanup func()
}

func (o *rootOptions) open() (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	level := cfg.Level()
	var tee []io.Writer
	if o.verbose {
		level = log.DebugLevel
		tee = append(tee, os.Stderr)
	}

	s := &session{
		cfg:     cfg,
		finder:  search.NewFinder(cfg.SearchDir, cfg.SearchIgnoreDirs()),
		cleanup: func() {},
	}

	l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level, tee...)
	switch {
	case err == nil:
		s.log = l
		s.cleanup = cleanup
	case o.verbose:
		s.log = logger.NewWithLevel(os.Stderr, level)
	default:
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("⚠ Cannot open log file: "+err.Error()))
		s.log = logger.Discard()
	}

	s.log.ConfigLoaded(cfg.SearchDir, cfg.ExportDir, cfg.MaxFileRecursion)
	return s, nil
}

func (s *session) close() {
	s.cleanup()
}

// loadState reads the export state. A broken state file is reported and replaced
// by an empty state so exporting still works.
func (s *session) loadState() *state.State {
	st, err := state.Load(config.StateFilePath())
	if err != nil {
		s.log.StateError("load", err)
		fmt.Fprintln(os.Stderr, styles.WarningStyle.Render("⚠ Ignoring unreadable state file: "+err.Error()))
		return state.NewState()
	}
	return st
}

func (s *session) saveState(st *state.State) error {
	if err := st.Save(config.StateFilePath()); err != nil {
		s.log.StateError("save", err)
		return fmt.Errorf("error saving state: %w", err)
	}
	return nil
}

// noteName turns a command-line argument into something the finder resolves: an
// existing path becomes absolute, anything else is looked up by name in the vault.
func noteName(arg string) string {
	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		if abs, err := filepath.Abs(arg); err == nil {
			return abs
		}
	}
	return arg
}
