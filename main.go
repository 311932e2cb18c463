// moth is the CLI for a file-based markdown issue tracker.
package main

import (
	"errors"
	"fmt"
	"os"

	"moth/internal/cmd"
)

var (
	run    = func() error { return cmd.Execute() }
	osExit = os.Exit
)

func main() {
	err := run()
	if err == nil {
		return
	}
	var exitErr *cmd.ExitError
	if errors.As(err, &exitErr) {
		osExit(exitErr.Code)
		return
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	osExit(1)
}
