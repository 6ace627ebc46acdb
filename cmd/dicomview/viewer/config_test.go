package viewer

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSettings_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")

	in := &Settings{
		LastDir:     "/data/series",
		Plane:       "Coronal",
		ExportSize:  640,
		WindowWidth: 350,
		WindowLevel: 40,
	}
	if err := SaveSettings(in, path); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}

	out, err := LoadSettings(path)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if *out != *in {
		t.Errorf("round trip mismatch: got %+v, want %+v", out, in)
	}
}

func TestLoadSettings_MissingFile(t *testing.T) {
	s, err := LoadSettings(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("missing file should not error, got %v", err)
	}
	if *s != (Settings{}) {
		t.Errorf("expected zero settings, got %+v", s)
	}
}

func TestLoadSettings_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	if err := os.WriteFile(path, []byte("plane: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadSettings(path); err == nil {
		t.Fatal("expected a parse error")
	}
}
