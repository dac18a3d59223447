package main

import (
	"testing"

	"github.com/zalando/go-keyring"
)

func TestResolveSession(t *testing.T) {
	keyring.MockInit()

	cfg := appConfig{Session: "plain", Year: 2021, Day: 1}
	got, err := resolveSession(cfg)
	if err != nil || got.Session != "plain" {
		t.Fatalf("plain session changed: %+v, %v", got, err)
	}

	cfg.Session = sessionFromKeyring
	if _, err := resolveSession(cfg); err == nil {
		t.Fatal("expected error with empty keyring")
	}

	if err := storeSession("  secret  "); err != nil {
		t.Fatalf("storeSession: %v", err)
	}
	got, err = resolveSession(cfg)
	if err != nil {
		t.Fatalf("resolveSession: %v", err)
	}
	if got.Session != "secret" {
		t.Errorf("session = %q, want secret", got.Session)
	}
}

func TestStoreSession_Empty(t *testing.T) {
	keyring.MockInit()
	if err := storeSession("   "); err == nil {
		t.Error("expected error for empty token")
	}
}
