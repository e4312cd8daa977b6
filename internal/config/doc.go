// Package config handles configuration loading for the catalog panel tools.
//
// # Overview
//
// Configuration is loaded from YAML or TOML files with environment variable
// expansion. Every field has a default, so a missing file is not an error for
// LoadDefault.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from CATALOG_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/catalog/panel.yaml
//  3. ~/.config/catalog/panel.yaml
//
// Files ending in .toml are decoded as TOML; anything else as YAML. A .env
// file next to the config file, and one in the working directory, are loaded
// first. Variables already set in the environment win.
//
// # Environment Variable Expansion
//
// Configuration values can reference environment variables:
//
//	auth:
//	  token: "${CATALOG_TOKEN}"
//
// Syntax: ${VAR_NAME}. CATALOG_BASE_URL and CATALOG_TOKEN also override
// server.base_url and auth.token directly.
//
// # Duration Parsing
//
// Duration values use Go's time.ParseDuration syntax:
//
//	panel:
//	  search_debounce: "500ms"
//	  terminal_delay: "2s"
//
// # Configuration Sections
//
//	server:
//	  base_url: "http://localhost:8000"
//	  timeout: "30s"
//
//	panel:
//	  page_size: 50              # 1-100
//	  search_debounce: "500ms"
//	  terminal_delay: "2s"       # progress bar stays up this long after an import ends
//	  toast_duration: "4s"
//	  toast_fade: "300ms"
//
//	auth:
//	  token: ""                  # sent as a bearer token
//	  jwt_secret: ""             # fake-catalog verifies tokens when set (32+ bytes)
//
//	fake:
//	  addr: "127.0.0.1:8000"
//	  db_path: ":memory:"
//	  max_upload_bytes: 104857600
//	  progress_interval: "500ms"
//	  webhook_timeout: "10s"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// # Usage
//
//	cfg, err := config.LoadDefault()
//	if err != nil {
//	    return err
//	}
//
// Load from specific path:
//
//	cfg, err := config.Load("/etc/catalog/panel.toml")
package config
