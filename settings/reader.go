package settings

import (
	"bufio"
	"os"
	"strings"

	"github.com/pkg/errors"

	"livetiming/application"
)

type reader struct{ path string }

func newReader(path string) reader { return reader{path: path} }

// read parses a line-oriented "key value" file: blank lines and lines
// starting with "#" are ignored, keys are matched verbatim and
// case-sensitively. A bare key with no value is skipped silently rather
// than treated as an error, per original_source/src/cfgfile.c's
// read_config tolerating malformed lines.
func (r reader) read() (application.Config, error) {
	var c application.Config

	f, err := os.Open(r.path)
	if os.IsNotExist(err) {
		return c, nil
	}
	if err != nil {
		return c, errors.Wrap(err, "settings: opening config file")
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := splitKV(line)
		if !ok {
			continue
		}
		switch key {
		case "email":
			c.Email = value
		case "password":
			c.Password = value
		case "host":
			c.Host = value
		case "auth-host":
			c.AuthHost = value
		}
	}
	if err := sc.Err(); err != nil {
		return c, errors.Wrap(err, "settings: reading config file")
	}
	return c, nil
}

func splitKV(line string) (key, value string, ok bool) {
	i := strings.IndexAny(line, " \t")
	if i < 0 {
		return "", "", false
	}
	key = line[:i]
	value = strings.TrimSpace(line[i+1:])
	if value == "" {
		return "", "", false
	}
	return key, value, true
}
