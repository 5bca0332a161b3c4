// Package config loads the application configuration.
//
// Values come from three sources, in increasing order of precedence:
//
//  1. Default()
//  2. a YAML file (ROLLBOOK_CONFIG_FILE, or config.yaml / configs/config.yaml)
//  3. environment variables prefixed with ROLLBOOK_, optionally read from .env
//
// Environment variable names follow the struct tags, for example:
//
//	ROLLBOOK_SERVER_PORT=9090
//	ROLLBOOK_LOGGING_LEVEL=debug
//	ROLLBOOK_ATTENDANCE_PAGE_SIZE=25
//	ROLLBOOK_SHEETS_ENABLED=true
//
// Directories are resolved to absolute paths by Config.ResolvePaths.
package config
