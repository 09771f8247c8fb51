// Package config loads atelier's settings.
//
// # Resolution
//
//  1. Built-in defaults.
//  2. The TOML file at the given path, or ~/.config/atelier/config.toml.
//     A missing file is not an error.
//  3. ATELIER_* variables from a .env file in the working directory.
//  4. ATELIER_* variables from the process environment.
//
// Later steps win. Blank and non-positive values are ignored.
//
// # TOML Format
//
//	api_base = "http://localhost:3000"
//	user_id = 42
//	request_timeout = 10   # seconds
//	cache_ttl = 180        # seconds
//	poll_interval = 15     # seconds
//	log_file = "~/.local/state/atelier/atelier.log"
//
// # Environment
//
//   - ATELIER_API_BASE overrides api_base
//   - ATELIER_USER_ID overrides user_id
//   - ATELIER_LOG_FILE overrides log_file
//
// Tilde expansion is applied to the config path and log_file.
package config
