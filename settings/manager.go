// Package settings implements the resolver/reader/writer split the
// teacher's client_configuration package uses, retargeted at the
// line-oriented ~/.f1rc format of spec.md §6.1 (grounded on
// original_source/src/cfgfile.c rather than the teacher's JSON format,
// since the spec's on-disk format is fixed by the original).
package settings

import "livetiming/application"

type configResolver interface {
	resolve() (string, error)
}

// Manager composes a resolver, reader, and writer, mirroring the
// teacher's client_configuration.Manager split into collaborators, and
// satisfies application.ConfigManager.
type Manager struct {
	resolver configResolver
}

// NewManager returns a Manager resolving against $HOME/.f1rc.
func NewManager() *Manager {
	return &Manager{resolver: newResolver()}
}

// Configuration reads application.Config from the resolved path. A
// missing file is not an error: it yields a zero Config (spec.md §6.1
// "a missing config file is not an error").
func (m *Manager) Configuration() (application.Config, error) {
	path, err := m.resolver.resolve()
	if err != nil {
		return application.Config{}, err
	}
	return newReader(path).read()
}

// Save persists c's email and password atomically (rename from a .tmp
// sibling). Host and AuthHost are not written.
func (m *Manager) Save(c application.Config) error {
	path, err := m.resolver.resolve()
	if err != nil {
		return err
	}
	return newWriter(path).write(c)
}
