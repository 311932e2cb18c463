package config

import (
	"os"
	"strings"
)

// Environment variable names for moth configuration.
const (
	EnvDir    = "MOTH_DIR"    // Path to .moth directory (or the project root holding it)
	EnvEditor = "MOTH_EDITOR" // Override editor command
	EnvDebug  = "MOTH_DEBUG"  // Enable debug logging ("1" or "true")
	EnvJSON   = "MOTH_JSON"   // Enable JSON output ("1" or "true")
)

// ApplyEnvOverrides applies MOTH_EDITOR to cfg in memory.
// Overrides are not persisted to the config file.
func ApplyEnvOverrides(cfg *Config) {
	if editor := os.Getenv(EnvEditor); editor != "" {
		cfg.Editor = editor
	}
}

// EnvBool reports whether the named variable is set to "1" or "true".
func EnvBool(name string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	return v == "1" || v == "true"
}
