// Package cache implements commands for inspecting the local mirror cache.
package cache

import (
	"github.com/spf13/cobra"
)

// Command creates the cache command group.
func Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the mirror cache",
	}

	cmd.AddCommand(listCommand())

	return cmd
}
