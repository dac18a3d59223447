package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"unicode"

	"github.com/samber/oops"
	"github.com/spf13/afero"
)

const inputFileName = "input.txt"

// errDayExists is returned when the folder for a day is already there.
var errDayExists = errors.New("day folder already exists")

// scaffolder lays out the working folder for a new day under root.
type scaffolder struct {
	fs       afero.Fs
	root     string
	template string // optional; its regular files are copied into each day
}

// buildDay creates <root>/<day>, copies the template files and writes the
// puzzle input. It returns the new folder. On failure nothing is left behind,
// so the same day can be built again.
func (s *scaffolder) buildDay(day int, payload []byte) (dir string, err error) {
	if s.template != "" {
		ok, err := afero.DirExists(s.fs, s.template)
		if err != nil {
			return "", oops.With("template", s.template).Wrapf(err, "stat template")
		}
		if !ok {
			return "", oops.With("template", s.template).Errorf("template folder not found")
		}
	}

	if err := s.fs.MkdirAll(s.root, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", s.root, err)
	}
	dir = filepath.Join(s.root, strconv.Itoa(day))
	if err := s.fs.Mkdir(dir, 0o755); err != nil {
		if errors.Is(err, os.ErrExist) {
			return "", oops.With("dir", dir).Wrap(errDayExists)
		}
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = s.fs.RemoveAll(dir)
			dir = ""
		}
	}()

	if s.template != "" {
		if err := s.copyTemplate(dir); err != nil {
			return "", err
		}
	}

	input := bytes.TrimRightFunc(payload, unicode.IsSpace)
	if err := afero.WriteFile(s.fs, filepath.Join(dir, inputFileName), input, 0o644); err != nil {
		return "", fmt.Errorf("write input: %w", err)
	}
	return dir, nil
}

func (s *scaffolder) copyTemplate(dir string) error {
	entries, err := afero.ReadDir(s.fs, s.template)
	if err != nil {
		return oops.With("template", s.template).Wrapf(err, "read template")
	}
	for _, e := range entries {
		if !e.Mode().IsRegular() {
			continue
		}
		b, err := afero.ReadFile(s.fs, filepath.Join(s.template, e.Name()))
		if err != nil {
			return fmt.Errorf("read template file: %w", err)
		}
		if err := afero.WriteFile(s.fs, filepath.Join(dir, e.Name()), b, e.Mode().Perm()); err != nil {
			return fmt.Errorf("copy template file: %w", err)
		}
	}
	return nil
}
