package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

func TestBuildDay(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &scaffolder{fs: fs, root: "/aoc"}

	dir, err := s.buildDay(3, []byte("puzzle data\n\n"))
	if err != nil {
		t.Fatalf("buildDay: %v", err)
	}
	if dir != "/aoc/3" {
		t.Errorf("dir = %q", dir)
	}
	b, err := afero.ReadFile(fs, "/aoc/3/input.txt")
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != "puzzle data" {
		t.Errorf("input = %q", b)
	}
}

func TestBuildDay_Exists(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := fs.MkdirAll("/aoc/3", 0o755); err != nil {
		t.Fatal(err)
	}
	s := &scaffolder{fs: fs, root: "/aoc"}

	if _, err := s.buildDay(3, []byte("x")); !errors.Is(err, errDayExists) {
		t.Fatalf("expected errDayExists, got %v", err)
	}
	if ok, _ := afero.Exists(fs, "/aoc/3/input.txt"); ok {
		t.Error("input written into existing folder")
	}
}

func TestBuildDay_Template(t *testing.T) {
	fs := afero.NewMemMapFs()
	_ = afero.WriteFile(fs, "/tpl/main.go", []byte("package main\n"), 0o644)
	_ = afero.WriteFile(fs, "/tpl/notes.md", []byte("# notes\n"), 0o644)
	_ = fs.MkdirAll("/tpl/nested", 0o755)
	_ = afero.WriteFile(fs, "/tpl/nested/skip.txt", []byte("skip"), 0o644)
	s := &scaffolder{fs: fs, root: "/aoc", template: "/tpl"}

	if _, err := s.buildDay(12, []byte("data")); err != nil {
		t.Fatalf("buildDay: %v", err)
	}
	for _, name := range []string{"main.go", "notes.md", "input.txt"} {
		if ok, _ := afero.Exists(fs, "/aoc/12/"+name); !ok {
			t.Errorf("%s missing", name)
		}
	}
	if ok, _ := afero.Exists(fs, "/aoc/12/nested"); ok {
		t.Error("template subfolder copied")
	}
}

func TestBuildDay_MissingTemplate(t *testing.T) {
	s := &scaffolder{fs: afero.NewMemMapFs(), root: "/aoc", template: "/nope"}
	if _, err := s.buildDay(1, []byte("x")); err == nil {
		t.Error("expected error for missing template")
	}
}

// failingWriteFs refuses to create files named input.txt.
type failingWriteFs struct {
	afero.Fs
}

func (f failingWriteFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if filepath.Base(name) == inputFileName {
		return nil, errors.New("disk full")
	}
	return f.Fs.OpenFile(name, flag, perm)
}

func TestBuildDay_FailureLeavesNoFolder(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := &scaffolder{fs: fs, root: "/aoc", template: "/nope"}

	if _, err := s.buildDay(3, []byte("data")); err == nil {
		t.Fatal("expected error for missing template")
	}
	if ok, _ := afero.Exists(fs, "/aoc/3"); ok {
		t.Fatal("day folder left behind after template error")
	}

	// Once the template exists the same day builds fine.
	_ = afero.WriteFile(fs, "/nope/main.go", []byte("package main\n"), 0o644)
	if _, err := s.buildDay(3, []byte("data")); err != nil {
		t.Fatalf("retry after fixing template: %v", err)
	}

	s = &scaffolder{fs: failingWriteFs{afero.NewMemMapFs()}, root: "/aoc"}
	if _, err := s.buildDay(4, []byte("data")); err == nil {
		t.Fatal("expected write error")
	}
	if ok, _ := afero.Exists(s.fs, "/aoc/4"); ok {
		t.Error("day folder left behind after write error")
	}
}
