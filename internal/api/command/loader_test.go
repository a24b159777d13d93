package command

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-playground/validator/v10"

	"EchoOS/internal/entity"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPhraseTable(t *testing.T) {
	validate := validator.New()

	t.Run("valid table preserves declaration order", func(t *testing.T) {
		path := writeTempFile(t, "commands.json", `{
			"categories": [
				{"category": "system", "intents": [
					{"intent": "shutdown", "phrases": ["Shut Down", "power off"]},
					{"intent": "restart", "phrases": ["restart"]}
				]},
				{"category": "volume", "intents": [
					{"intent": "up", "phrases": ["volume up"]}
				]}
			]
		}`)

		table, err := LoadPhraseTable(path, validate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(table.Categories) != 2 {
			t.Fatalf("categories = %d, want 2", len(table.Categories))
		}
		if table.Categories[0].Name != entity.CategorySystem {
			t.Errorf("first category = %s, want system", table.Categories[0].Name)
		}
		if table.Categories[0].Intents[0].Name != "shutdown" {
			t.Errorf("first intent = %s, want shutdown", table.Categories[0].Intents[0].Name)
		}
		// Phrases are lowercased on load.
		if got := table.Categories[0].Intents[0].Phrases[0]; got != "shut down" {
			t.Errorf("phrase = %q, want %q", got, "shut down")
		}
	})

	t.Run("duplicate intent fails", func(t *testing.T) {
		path := writeTempFile(t, "commands.json", `{
			"categories": [
				{"category": "system", "intents": [
					{"intent": "shutdown", "phrases": ["shut down"]},
					{"intent": "shutdown", "phrases": ["power off"]}
				]}
			]
		}`)

		if _, err := LoadPhraseTable(path, validate); err == nil {
			t.Error("expected an error for a duplicate intent")
		}
	})

	t.Run("unknown category fails", func(t *testing.T) {
		path := writeTempFile(t, "commands.json", `{
			"categories": [
				{"category": "teleport", "intents": [
					{"intent": "beam", "phrases": ["beam me up"]}
				]}
			]
		}`)

		if _, err := LoadPhraseTable(path, validate); err == nil {
			t.Error("expected an error for an unknown category")
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		if _, err := LoadPhraseTable(filepath.Join(t.TempDir(), "nope.json"), validate); err == nil {
			t.Error("expected an error for a missing phrase table")
		}
	})
}

func TestLoadAppRegistry(t *testing.T) {
	validate := validator.New()

	t.Run("valid registry lowercases names and aliases", func(t *testing.T) {
		path := writeTempFile(t, "apps.json", `{
			"apps": [
				{"name": "Chrome", "path": "/usr/bin/google-chrome", "aliases": ["Google Chrome"]}
			]
		}`)

		registry, err := LoadAppRegistry(path, validate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		entry, ok := registry.Resolve("chrome")
		if !ok {
			t.Fatal("chrome should resolve")
		}
		if entry.Path != "/usr/bin/google-chrome" {
			t.Errorf("path = %q", entry.Path)
		}

		if _, ok := registry.Resolve("google chrome"); !ok {
			t.Error("alias should resolve")
		}
		if _, ok := registry.Resolve("photoshop"); ok {
			t.Error("unknown app must not resolve")
		}
	})

	t.Run("missing file yields an empty registry", func(t *testing.T) {
		registry, err := LoadAppRegistry(filepath.Join(t.TempDir(), "nope.json"), validate)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(registry.Apps) != 0 {
			t.Errorf("apps = %d, want 0", len(registry.Apps))
		}
	})
}
