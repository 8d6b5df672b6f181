package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the MenuUp client.
//
// Fields:
//   - ServerURL: base URL of the recipe backend (http or https).
//   - RequestTimeout: upper bound for one backend request.
//   - ValidateTimeout: upper bound for the background token check.
//   - DBPath: SQLite file holding the persisted session.
//   - StorageSecret: when set, stored values are encrypted with a key
//     derived from it.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL       string        `env:"MENUUP_SERVER_URL"`
	RequestTimeout  time.Duration `env:"MENUUP_REQUEST_TIMEOUT"`
	ValidateTimeout time.Duration `env:"MENUUP_VALIDATE_TIMEOUT"`
	DBPath          string        `env:"MENUUP_DB_PATH"`
	StorageSecret   string        `env:"MENUUP_STORAGE_SECRET"`
	LogLevel        string        `env:"MENUUP_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000"
	c.RequestTimeout = 10 * time.Second
	c.ValidateTimeout = 10 * time.Second
	c.DBPath = "menuup.db"
	c.StorageSecret = ""
	c.LogLevel = "info"
}

// LoadConfig builds the configuration from os.Args and the environment.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load applies defaults, then the JSON file named by -c/-config in args,
// then MENUUP_* environment variables, then flags in args. Later sources
// take precedence over earlier ones.
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
