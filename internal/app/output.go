package app

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// outputSink is where the artifact goes. File output is staged in a
// temporary file next to the target and renamed into place on commit.
type outputSink struct {
	writer io.Writer
	label  string
	target string
	tmp    *os.File
}

func (a *App) openOutput() (*outputSink, error) {
	if a.cfg.WritesToStdout() {
		return &outputSink{writer: a.stdout, label: stdoutLabel}, nil
	}

	target, err := filepath.Abs(a.cfg.OutputFile)
	if err != nil {
		return nil, fmt.Errorf("app: invalid output path '%s': %w", a.cfg.OutputFile, err)
	}
	if info, statErr := os.Stat(target); statErr == nil && info.IsDir() {
		return nil, fmt.Errorf("app: output path '%s' is a directory", target)
	}

	dir := filepath.Dir(target)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("app: creating output in '%s': %w", dir, err)
	}
	a.log.Debug("Staging output in %s", tmp.Name())

	return &outputSink{writer: tmp, label: target, target: target, tmp: tmp}, nil
}

// paths lists the files the scan must not pick up
func (s *outputSink) paths() []string {
	if s.tmp == nil {
		return nil
	}
	return []string{s.target, s.tmp.Name()}
}

// commit moves the staged file over the target
func (s *outputSink) commit() error {
	if s.tmp == nil {
		return nil
	}
	if err := s.tmp.Chmod(0o644); err != nil {
		return fmt.Errorf("app: setting permissions on '%s': %w", s.tmp.Name(), err)
	}
	if err := s.tmp.Close(); err != nil {
		return fmt.Errorf("app: closing '%s': %w", s.tmp.Name(), err)
	}
	if err := os.Rename(s.tmp.Name(), s.target); err != nil {
		return fmt.Errorf("app: writing '%s': %w", s.target, err)
	}
	s.tmp = nil
	return nil
}

// discard drops the staged file. The target is left untouched.
func (s *outputSink) discard() {
	if s.tmp == nil {
		return
	}
	_ = s.tmp.Close()
	_ = os.Remove(s.tmp.Name())
	s.tmp = nil
}
