package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current version of moth. It can be overridden at build
// time via -ldflags "-X moth/internal/cmd.Version=1.2.3".
var Version = "0.4.0"

func newVersionCmd(provider *AppProvider) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if provider.JSONOutput {
				return json.NewEncoder(provider.out()).Encode(map[string]string{
					"version": Version,
				})
			}
			fmt.Fprintf(provider.out(), "moth version %s\n", Version)
			return nil
		},
	}
	return cmd
}
