package settings

import (
	"os"
	"path/filepath"
	"testing"

	"livetiming/application"
)

func TestReaderReadSuccess(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".f1rc")
	content := "# comment\nemail driver@example.com\npassword hunter2\n\nhost live-timing.formula1.com\nauth-host auth.formula1.com\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := newReader(path).read()
	if err != nil {
		t.Fatalf("read() returned error: %v", err)
	}
	want := application.Config{
		Email:    "driver@example.com",
		Password: "hunter2",
		Host:     "live-timing.formula1.com",
		AuthHost: "auth.formula1.com",
	}
	if c != want {
		t.Errorf("read() = %+v, want %+v", c, want)
	}
}

func TestReaderMissingFileIsNotError(t *testing.T) {
	c, err := newReader(filepath.Join(t.TempDir(), "missing")).read()
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if c != (application.Config{}) {
		t.Errorf("expected zero Config, got %+v", c)
	}
}

func TestReaderIgnoresBareKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".f1rc")
	content := "email\npassword hunter2\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := newReader(path).read()
	if err != nil {
		t.Fatalf("read() returned error: %v", err)
	}
	if c.Email != "" {
		t.Errorf("expected bare key to be ignored, got Email=%q", c.Email)
	}
	if c.Password != "hunter2" {
		t.Errorf("expected password to still be read, got %q", c.Password)
	}
}

func TestReaderIgnoresUnknownKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".f1rc")
	if err := os.WriteFile(path, []byte("nickname racer\nemail a@b.com\n"), 0600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := newReader(path).read()
	if err != nil {
		t.Fatalf("read() returned error: %v", err)
	}
	if c.Email != "a@b.com" {
		t.Errorf("expected unknown keys to be skipped without error, got %+v", c)
	}
}
