package settings

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

type resolver struct{}

func newResolver() resolver { return resolver{} }

// resolve returns $HOME/.f1rc (spec.md §6.1); HOME is required, matching
// original_source/src/main.c's own hard dependency on it.
func (resolver) resolve() (string, error) {
	home, ok := os.LookupEnv("HOME")
	if !ok || home == "" {
		return "", errors.New("settings: HOME is not set")
	}
	return filepath.Join(home, ".f1rc"), nil
}
