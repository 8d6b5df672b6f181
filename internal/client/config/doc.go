// Package config loads runtime configuration for the MenuUp client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via flags: -c or -config.
//  3. MENUUP_* environment variables.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   backend base URL
//	-t int      request timeout (seconds)
//	-d string   path of the local database
//	-l string   log level
//
// # JSON schema
//
// Durations may be strings like "10s" or integer nanoseconds:
//
//	{
//	  "server_url": "http://localhost:3000",
//	  "request_timeout": "10s",
//	  "validate_timeout": "5s",
//	  "db_path": "menuup.db",
//	  "storage_secret": "",
//	  "log_level": "info"
//	}
//
// # Environment
//
//	MENUUP_SERVER_URL, MENUUP_REQUEST_TIMEOUT, MENUUP_VALIDATE_TIMEOUT,
//	MENUUP_DB_PATH, MENUUP_STORAGE_SECRET, MENUUP_LOG_LEVEL
//
// Durations in the environment use Go syntax ("10s").
package config
