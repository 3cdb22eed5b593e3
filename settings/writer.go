package settings

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"livetiming/application"
)

type writer struct{ path string }

func newWriter(path string) writer { return writer{path: path} }

// write persists email/password atomically via a dotfile .tmp sibling
// plus rename, grounded on original_source/src/cfgfile.c's write_config
// (0600 permissions, same-directory tmpfile, rename over the target).
func (w writer) write(c application.Config) error {
	tmp := filepath.Join(filepath.Dir(w.path), "."+filepath.Base(w.path)+".tmp")

	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return errors.Wrap(err, "settings: creating temp config file")
	}
	if _, err := fmt.Fprintf(f, "email %s\npassword %s\n", c.Email, c.Password); err != nil {
		f.Close()
		return errors.Wrap(err, "settings: writing temp config file")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "settings: closing temp config file")
	}
	if err := os.Rename(tmp, w.path); err != nil {
		return errors.Wrap(err, "settings: renaming temp config file")
	}
	return nil
}
