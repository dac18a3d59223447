package main

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeSettings(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "settings.ini")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeSettings(t, "session=abc\nyear=2021\nday=3\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	want := appConfig{Session: "abc", Year: 2021, Day: 3}
	if cfg != want {
		t.Errorf("got %+v, want %+v", cfg, want)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing day", "session=abc\nyear=2021\n"},
		{"unknown key", "session=abc\nyear=2021\nday=3\ncolor=blue\n"},
		{"day not a number", "session=abc\nyear=2021\nday=three\n"},
		{"day zero", "session=abc\nyear=2021\nday=0\n"},
		{"empty session", "session=\nyear=2021\nday=3\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeSettings(t, tt.content))
			if !errors.Is(err, errConfig) {
				t.Errorf("expected errConfig, got %v", err)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.ini")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	t.Setenv("AOC_SESSION", "from-env")
	t.Setenv("AOC_UNRELATED", "ignored")
	path := writeSettings(t, "session=abc\nyear=2021\nday=3\n")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Session != "from-env" {
		t.Errorf("session = %q, want from-env", cfg.Session)
	}
}

func TestAdvanceDay(t *testing.T) {
	path := writeSettings(t, "session=abc\nyear=2021\nday=3\n")

	if err := advanceDay(path, appConfig{Session: "abc", Year: 2021, Day: 3}); err != nil {
		t.Fatalf("advanceDay: %v", err)
	}
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if cfg.Day != 4 || cfg.Year != 2021 || cfg.Session != "abc" {
		t.Errorf("after advance got %+v", cfg)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestAdvanceDay_KeepsFileSession(t *testing.T) {
	path := writeSettings(t, "session=keyring\nyear=2021\nday=7\n")

	if err := advanceDay(path, appConfig{Session: "resolved-token", Year: 2021, Day: 7}); err != nil {
		t.Fatalf("advanceDay: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(b), "resolved-token") {
		t.Errorf("resolved session leaked into file: %s", b)
	}
	if !strings.Contains(string(b), "day=8") {
		t.Errorf("day not advanced: %s", b)
	}
}

func TestAdvanceDay_KeepsLayout(t *testing.T) {
	path := writeSettings(t, "session=53616c74\nyear=2021\nday=3\n")

	if err := advanceDay(path, appConfig{Session: "53616c74", Year: 2021, Day: 3}); err != nil {
		t.Fatalf("advanceDay: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "session=53616c74\nyear=2021\nday=4\n"; string(b) != want {
		t.Errorf("settings = %q, want %q", b, want)
	}
}
