package application

// Config is the resolved set of values read from (and, for credentials
// obtained interactively, written back to) the configuration file
// (spec.md §6, `~/.f1rc`).
type Config struct {
	Email    string
	Password string
	Host     string
	AuthHost string
}

// ConfigManager loads and persists Config, grounded on NLipatov-TunGo's
// manager/resolver/reader/writer split in
// infrastructure/PAL/client_configuration.
type ConfigManager interface {
	Configuration() (Config, error)
	Save(Config) error
}
