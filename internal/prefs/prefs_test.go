package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if p := Load(""); p != (Prefs{}) {
		t.Fatalf("Load = %+v, want empty prefs", p)
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "recipebox")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte("theme = \" Slate \"\nlast_username = \"cook\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Slate" {
		t.Fatalf("Theme = %q, want %q", p.Theme, "Slate")
	}
	if p.LastUsername != "cook" {
		t.Fatalf("LastUsername = %q, want %q", p.LastUsername, "cook")
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "subdir", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Kanagawa"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if got := Load(path).Theme; got != "Kanagawa" {
		t.Fatalf("Theme = %q, want %q", got, "Kanagawa")
	}
}

func TestUpdate_KeepsOtherFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Prefs{Theme: "Slate", LastUsername: "cook"}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	if err := Update(path, func(p *Prefs) { p.Theme = "Nightfox" }); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}

	p := Load(path)
	if p.Theme != "Nightfox" || p.LastUsername != "cook" {
		t.Fatalf("Load = %+v, want theme Nightfox and username cook", p)
	}
}

func TestLoad_InvalidTOMLIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if p := Load(path); p != (Prefs{}) {
		t.Fatalf("Load = %+v, want empty prefs", p)
	}
}
