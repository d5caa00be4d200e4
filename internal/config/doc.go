// Package config loads the pwinty CLI configuration file.
//
// # Configuration Discovery
//
// Load resolves the file in this order:
//
//  1. An explicitly provided path
//  2. ~/.config/pwinty/config.toml
//  3. Built-in defaults when the file does not exist
//
// A missing file is not an error. Credentials are checked separately by
// Validate so that commands which never reach the API can still run.
//
// # TOML Format
//
//	merchant_id = "1234"
//	api_key = "abcd-efgh"
//	host = "https://sandbox.pwinty.com/v2.3/"
//	timeout_seconds = 30
//	log_file = "~/.local/state/pwinty/pwinty.log"
//	log_level = "info"
//
// Only merchant_id and api_key are needed for API calls. Tilde expansion is
// applied to the config path and log_file.
//
// # Defaults
//
//   - host: the Pwinty sandbox (pwinty.DefaultHost)
//   - timeout_seconds: 30
//   - log_file: ~/.local/state/pwinty/pwinty.log
//   - log_level: info
package config
