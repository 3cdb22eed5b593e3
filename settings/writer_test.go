package settings

import (
	"os"
	"path/filepath"
	"testing"

	"livetiming/application"
)

func TestWriterWriteThenRead(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".f1rc")

	c := application.Config{Email: "driver@example.com", Password: "hunter2"}
	if err := newWriter(path).write(c); err != nil {
		t.Fatalf("write() returned error: %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, "..f1rc.tmp")); !os.IsNotExist(err) {
		t.Errorf("expected tmp file to be renamed away, stat err = %v", err)
	}

	got, err := newReader(path).read()
	if err != nil {
		t.Fatalf("read() returned error: %v", err)
	}
	if got.Email != c.Email || got.Password != c.Password {
		t.Errorf("read back %+v, want email/password %+v", got, c)
	}
}

func TestWriterPermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".f1rc")
	if err := newWriter(path).write(application.Config{Email: "a@b.com"}); err != nil {
		t.Fatalf("write() returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}
