package settings

import (
	"errors"
	"path/filepath"
	"testing"

	"livetiming/application"
)

type managerTestMockResolver struct {
	path string
	err  error
}

func (r managerTestMockResolver) resolve() (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return r.path, nil
}

func TestManagerLoadResolverError(t *testing.T) {
	m := NewManager()
	m.resolver = managerTestMockResolver{err: errors.New("resolver error")}
	if _, err := m.Configuration(); err == nil {
		t.Fatal("expected resolver error, got nil")
	}
}

func TestManagerSaveThenLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".f1rc")

	m := NewManager()
	m.resolver = managerTestMockResolver{path: path}

	want := application.Config{Email: "driver@example.com", Password: "hunter2"}
	if err := m.Save(want); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	got, err := m.Configuration()
	if err != nil {
		t.Fatalf("Configuration() returned error: %v", err)
	}
	if got.Email != want.Email || got.Password != want.Password {
		t.Errorf("Configuration() = %+v, want email/password %+v", got, want)
	}
}
