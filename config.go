package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Default configuration values.
const (
	defaultUA         = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:75.0) Gecko/20100101 Firefox/75.0"
	defaultConfigPath = "settings.ini"
	envPrefix         = "AOC_"
)

// Settings keys. All of them are required and no others are allowed.
const (
	keySession = "session"
	keyYear    = "year"
	keyDay     = "day"
)

var requiredKeys = []string{keySession, keyYear, keyDay}

// errConfig marks a settings file that is missing keys, has unknown keys or
// holds values of the wrong shape.
var errConfig = errors.New("settings misconfigured")

// appConfig holds the three values read from settings.ini.
type appConfig struct {
	Session string
	Year    int
	Day     int
}

// loadConfig reads path as key=value lines and applies AOC_* environment
// overrides on top.
func loadConfig(path string) (appConfig, error) {
	k := koanf.New(".")
	if err := k.Load(file.Provider(path), dotenv.Parser()); err != nil {
		return appConfig{}, oops.With("config_file", path).Wrapf(err, "load config")
	}

	keys := k.Keys()
	if unknown := lo.Without(keys, requiredKeys...); len(unknown) > 0 {
		return appConfig{}, oops.With("config_file", path).
			Wrap(fmt.Errorf("%w: unknown keys %v", errConfig, unknown))
	}
	if missing := lo.Without(requiredKeys, keys...); len(missing) > 0 {
		return appConfig{}, oops.With("config_file", path).
			Wrap(fmt.Errorf("%w: missing %v fields", errConfig, missing))
	}

	// AOC_SESSION -> session; anything outside the known keys is ignored.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		if !lo.Contains(requiredKeys, key) {
			return ""
		}
		return key
	}), nil); err != nil {
		return appConfig{}, oops.With("context", "loading environment variables").Wrap(err)
	}

	cfg := appConfig{Session: strings.TrimSpace(k.String(keySession))}
	if cfg.Session == "" {
		return appConfig{}, fmt.Errorf("%w: session is empty", errConfig)
	}
	var err error
	if cfg.Year, err = positiveInt(k.String(keyYear)); err != nil {
		return appConfig{}, fmt.Errorf("%w: year: %w", errConfig, err)
	}
	if cfg.Day, err = positiveInt(k.String(keyDay)); err != nil {
		return appConfig{}, fmt.Errorf("%w: day: %w", errConfig, err)
	}
	return cfg, nil
}

func positiveInt(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be > 0, got %d", n)
	}
	return n, nil
}

// advanceDay rewrites the day line of path to cfg.Day+1. Every other line
// is kept byte for byte, so env overrides never reach the file.
func advanceDay(path string, cfg appConfig) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return oops.With("config_file", path).Wrapf(err, "read config")
	}

	dayLine := keyDay + "=" + strconv.Itoa(cfg.Day+1)
	lines := strings.Split(strings.TrimRight(string(b), "\r\n"), "\n")
	replaced := false
	for i, line := range lines {
		kv, err := godotenv.Unmarshal(line)
		if err != nil {
			continue
		}
		if _, ok := kv[keyDay]; ok {
			lines[i] = dayLine
			replaced = true
		}
	}
	if !replaced {
		lines = append(lines, dayLine)
	}
	return writeFileAtomic(path, []byte(strings.Join(lines, "\n")+"\n"))
}

func writeFileAtomic(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o600); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}
