// Package config handles moth configuration loading and defaults.
package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"moth/internal/issuestorage"
)

const (
	// DirName is the control directory created at the project root.
	DirName = ".moth"
	// FileName is the config file inside DirName.
	FileName = "config.yml"
)

// StatusConfig is one entry of the status list.
type StatusConfig struct {
	Name        string `yaml:"name"`
	Dir         string `yaml:"dir"`
	Prioritized bool   `yaml:"prioritized"`
}

type PriorityConfig struct {
	AutoCompact bool `yaml:"auto_compact"`
}

// Config represents the contents of .moth/config.yml.
type Config struct {
	Statuses        []StatusConfig `yaml:"statuses"`
	DefaultSeverity string         `yaml:"default_severity"`
	Editor          string         `yaml:"editor,omitempty"`
	IDLength        int            `yaml:"id_length"`
	NoEditOnNew     bool           `yaml:"no_edit_on_new"`
	Priority        PriorityConfig `yaml:"priority"`
}

// fileConfig accepts the keys older config files used.
type fileConfig struct {
	Config          `yaml:",inline"`
	DefaultPriority string `yaml:"default_priority,omitempty"`
}

// Load reads config.yml from path, applies defaults for missing fields and
// environment overrides, and validates the result.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, fmt.Errorf("config file not found at %s (run 'moth init')", path)
		}
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg := fc.Config
	if cfg.DefaultSeverity == "" {
		cfg.DefaultSeverity = fc.DefaultPriority
	}
	applyDefaults(&cfg)
	ApplyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Write writes the provided configuration to path atomically.
func Write(path string, cfg Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// WriteDefault writes the default configuration to path.
func WriteDefault(path string) error {
	return Write(path, Default())
}

// StatusByName returns the status with the given name.
func (c Config) StatusByName(name string) (StatusConfig, bool) {
	for _, s := range c.Statuses {
		if s.Name == name {
			return s, true
		}
	}
	return StatusConfig{}, false
}

// First is the status new issues are created in.
func (c Config) First() StatusConfig { return c.Statuses[0] }

// Second is the status "start" moves issues to.
func (c Config) Second() StatusConfig { return c.Statuses[1] }

// Last is the terminal status "done" moves issues to.
func (c Config) Last() StatusConfig { return c.Statuses[len(c.Statuses)-1] }

// StatusNames returns the status names in configured order.
func (c Config) StatusNames() []string {
	names := make([]string, len(c.Statuses))
	for i, s := range c.Statuses {
		names[i] = s.Name
	}
	return names
}

// StatusDefs converts the status list into the store's representation.
func (c Config) StatusDefs() []issuestorage.StatusDef {
	defs := make([]issuestorage.StatusDef, len(c.Statuses))
	for i, s := range c.Statuses {
		defs[i] = issuestorage.StatusDef{Name: s.Name, Dir: s.Dir, Orderable: s.Prioritized}
	}
	return defs
}

// Severity returns the parsed default severity. Validate guarantees it parses.
func (c Config) Severity() issuestorage.Severity {
	sev, err := issuestorage.ParseSeverity(c.DefaultSeverity)
	if err != nil {
		return issuestorage.SeverityMed
	}
	return sev
}

// EditorCommand returns the command line used to open issues:
// MOTH_EDITOR, then the configured editor, then $EDITOR, then vi.
func (c Config) EditorCommand() string {
	if e := os.Getenv(EnvEditor); e != "" {
		return e
	}
	if c.Editor != "" {
		return c.Editor
	}
	if e := os.Getenv("EDITOR"); e != "" {
		return e
	}
	return DefaultEditor
}
