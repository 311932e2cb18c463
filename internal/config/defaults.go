package config

import "moth/internal/idgen"

// DefaultEditor is used when neither the config nor the environment names one.
const DefaultEditor = "vi"

// Default returns the default configuration: ready (prioritized), doing, done.
func Default() Config {
	return Config{
		Statuses: []StatusConfig{
			{Name: "ready", Dir: "ready", Prioritized: true},
			{Name: "doing", Dir: "doing"},
			{Name: "done", Dir: "done"},
		},
		DefaultSeverity: "med",
		IDLength:        idgen.DefaultLength,
	}
}

// applyDefaults fills fields a config file left out.
// An omitted status list is replaced wholesale; a status without a dir
// uses its name.
func applyDefaults(cfg *Config) {
	def := Default()
	if len(cfg.Statuses) == 0 {
		cfg.Statuses = def.Statuses
	}
	for i := range cfg.Statuses {
		if cfg.Statuses[i].Dir == "" {
			cfg.Statuses[i].Dir = cfg.Statuses[i].Name
		}
	}
	if cfg.DefaultSeverity == "" {
		cfg.DefaultSeverity = def.DefaultSeverity
	}
	if cfg.IDLength == 0 {
		cfg.IDLength = def.IDLength
	}
}
