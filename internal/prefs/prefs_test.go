package prefs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePrefs(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestLoad_DefaultPathUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	p, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p != Default() {
		t.Fatalf("missing file = %#v, want defaults", p)
	}

	writePrefs(t, filepath.Join(home, ".config", "atelier", "prefs.toml"), "theme = \"Paper\"\ncategory = \"badge\"\n")
	p, err = Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if p.Theme != "Paper" || p.Category != "badge" {
		t.Fatalf("prefs = %#v, want Paper/badge", p)
	}
}

func TestLoad_FileContents(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Prefs
		wantErr bool
	}{
		{"theme only", "theme = \"Paper\"\n", Prefs{Theme: "Paper"}, false},
		{"blank theme uses default", "theme = \"  \"\n", Prefs{Theme: defaultTheme}, false},
		{"category trimmed", "theme = \"Ink\"\ncategory = \" postcard \"\n", Prefs{Theme: "Ink", Category: "postcard"}, false},
		{"malformed degrades with error", "not valid toml {{{\n", Default(), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prefs.toml")
			writePrefs(t, path, tt.body)

			got, err := Load(path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Fatalf("Load = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestSave_CreatesDirsAndRoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Paper", Category: " badge "}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if loaded != (Prefs{Theme: "Paper", Category: "badge"}) {
		t.Fatalf("round trip = %#v", loaded)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestSave_OmitsEmptyCategory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := Save(path, Prefs{}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got := string(data); strings.Contains(got, "category") || !strings.Contains(got, "Ink") {
		t.Fatalf("saved file = %q", got)
	}
}
