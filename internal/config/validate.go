package config

import (
	"fmt"
	"strings"

	"moth/internal/idgen"
	"moth/internal/issuestorage"
)

// Validate checks the configuration. It returns an error describing every
// invalid value found, or nil if all values are valid.
func (c Config) Validate() error {
	var errs []string

	if len(c.Statuses) < 2 {
		errs = append(errs, fmt.Sprintf("statuses: need at least 2, found %d", len(c.Statuses)))
	}

	names := make(map[string]bool)
	dirs := make(map[string]bool)
	for i, s := range c.Statuses {
		switch {
		case s.Name == "":
			errs = append(errs, fmt.Sprintf("statuses[%d]: name must not be empty", i))
		case names[s.Name]:
			errs = append(errs, fmt.Sprintf("statuses[%d]: duplicate name %q", i, s.Name))
		}
		names[s.Name] = true

		if reason := badDir(s.Dir); reason != "" {
			errs = append(errs, fmt.Sprintf("statuses[%d]: dir %q %s", i, s.Dir, reason))
		} else if dirs[s.Dir] {
			errs = append(errs, fmt.Sprintf("statuses[%d]: duplicate dir %q", i, s.Dir))
		}
		dirs[s.Dir] = true
	}

	if _, err := issuestorage.ParseSeverity(c.DefaultSeverity); err != nil {
		errs = append(errs, fmt.Sprintf(
			"default_severity: invalid value %q (allowed: crit, high, med, low)", c.DefaultSeverity))
	}

	if c.IDLength < idgen.MinLength || c.IDLength > idgen.MaxLength {
		errs = append(errs, fmt.Sprintf(
			"id_length: must be between %d and %d, got %d", idgen.MinLength, idgen.MaxLength, c.IDLength))
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// badDir explains why dir cannot back a status, or returns "".
func badDir(dir string) string {
	switch {
	case dir == "":
		return "must not be empty"
	case strings.HasPrefix(dir, "."):
		return "must not be hidden"
	case strings.ContainsAny(dir, `/\`):
		return "must be a single path element"
	}
	return ""
}
