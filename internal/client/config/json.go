package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/menuup/internal/flagx"
	"github.com/dmitrijs2005/menuup/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Durations
// use timex.Duration so the file may say "10s" or give nanoseconds. Absent
// fields keep the value from the previous stage.
type JsonConfig struct {
	ServerURL       *string         `json:"server_url"`
	RequestTimeout  *timex.Duration `json:"request_timeout"`
	ValidateTimeout *timex.Duration `json:"validate_timeout"`
	DBPath          *string         `json:"db_path"`
	StorageSecret   *string         `json:"storage_secret"`
	LogLevel        *string         `json:"log_level"`
}

// parseJson overlays cfg with the JSON file given via -c or -config. No flag
// means no file and no change.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.ValidateTimeout != nil {
		cfg.ValidateTimeout = jc.ValidateTimeout.Duration
	}
	if jc.DBPath != nil {
		cfg.DBPath = *jc.DBPath
	}
	if jc.StorageSecret != nil {
		cfg.StorageSecret = *jc.StorageSecret
	}
	if jc.LogLevel != nil {
		cfg.LogLevel = *jc.LogLevel
	}
	return nil
}
