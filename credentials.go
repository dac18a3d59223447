package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

// Keyring coordinates for the stored session token.
const (
	keyringService = "aocfetch"
	keyringUser    = "session"

	// sessionFromKeyring as the session value in settings.ini defers the
	// token lookup to the OS keyring.
	sessionFromKeyring = "keyring"
)

var (
	keyringSet = keyring.Set
	keyringGet = keyring.Get
)

// storeSession saves token in the OS keyring.
func storeSession(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("empty session token")
	}
	if err := keyringSet(keyringService, keyringUser, token); err != nil {
		return fmt.Errorf("keyring store: %w", err)
	}
	return nil
}

func loadSession() (string, error) {
	token, err := keyringGet(keyringService, keyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", errors.New("no session in keyring: run `aocfetch login` first")
		}
		return "", fmt.Errorf("keyring load: %w", err)
	}
	return token, nil
}

// resolveSession swaps the keyring placeholder for the stored token.
func resolveSession(cfg appConfig) (appConfig, error) {
	if !strings.EqualFold(cfg.Session, sessionFromKeyring) {
		return cfg, nil
	}
	token, err := loadSession()
	if err != nil {
		return appConfig{}, err
	}
	cfg.Session = token
	return cfg, nil
}
