package config_test

import (
	"os"
	"testing"

	"github.com/rs/zerolog"

	"github.com/mapforge/mapforge/config"
)

func TestHolder_Reload(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: info\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Stop()

	if h.Get().Logging.Level != "info" {
		t.Fatalf("level = %q", h.Get().Logging.Level)
	}

	var notified *config.Config
	h.OnChange(func(c *config.Config) { notified = c })

	if err := os.WriteFile(path, []byte("logging:\n  level: debug\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.Reload(); err != nil {
		t.Fatal(err)
	}
	if h.Get().Logging.Level != "debug" {
		t.Errorf("level = %q after reload", h.Get().Logging.Level)
	}
	if notified == nil || notified.Logging.Level != "debug" {
		t.Error("onChange callback not invoked with new config")
	}
}

// A failed reload keeps the previous configuration.
func TestHolder_Reload_KeepsOldOnFailure(t *testing.T) {
	path := writeConfig(t, "logging:\n  level: warn\n")

	h, err := config.NewHolder(path, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	defer h.Stop()

	if err := os.WriteFile(path, []byte("logging:\n  level: loud\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := h.Reload(); err == nil {
		t.Fatal("expected reload error")
	}
	if h.Get().Logging.Level != "warn" {
		t.Errorf("level = %q, old config must survive a bad reload", h.Get().Logging.Level)
	}
}
