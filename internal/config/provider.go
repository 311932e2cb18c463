package config

import "path/filepath"

// Paths captures resolved locations for a moth project.
type Paths struct {
	ProjectRoot string // directory holding .moth
	ConfigDir   string // path to .moth directory
	ConfigFile  string // path to .moth/config.yml
}

// PathsFor builds Paths for a .moth directory.
func PathsFor(configDir string) Paths {
	return Paths{
		ProjectRoot: filepath.Dir(configDir),
		ConfigDir:   configDir,
		ConfigFile:  filepath.Join(configDir, FileName),
	}
}

// HooksDir is where lifecycle hook scripts live.
func (p Paths) HooksDir() string {
	return filepath.Join(p.ConfigDir, "hooks")
}
