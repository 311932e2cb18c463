//go:build !unix

package hooks

import "context"

// Lifecycle hooks are shell scripts; they are skipped where sh is not assumed.
const supported = false

func (r *Runner) runScript(ctx context.Context, script string, env []string) error {
	return nil
}
