// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.prjct/prjct.toml or OS-specific config directory)
// 3. Project config file (prjct.toml or .prjct.toml in the working directory,
// or the file named by PRJCT_CONFIG)
// 4. Environment variables (PRJCT_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.prjct/prjct.toml (preferred)
// - Windows: %APPDATA%\prjct\prjct.toml
// - macOS: ~/Library/Application Support/prjct/prjct.toml
// - Linux/BSD: $XDG_CONFIG_HOME/prjct/prjct.toml or ~/.config/prjct/prjct.toml
package config
