// Package snapshot implements the one-shot snapshot command.
package snapshot

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/webmirror/cmd/common"
	snapshotpkg "github.com/jonesrussell/webmirror/internal/snapshot"
)

// Command creates the snapshot command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Run a single refresh cycle",
		Long: `Fetch the target page and its assets into the cache once and
report whether anything changed. Useful for pre-seeding the cache or for
cron-style operation without the daemon.`,
		RunE: runSnapshot,
	}
}

// runSnapshot executes one fetch cycle and prints the outcome.
func runSnapshot(cmd *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	cfg := deps.Config
	fetcher := snapshotpkg.NewFetcher(deps.Logger, deps.Metrics, cfg.UserAgent, 0)

	res, fetchErr := fetcher.Fetch(cmd.Context(), cfg.CacheDir, cfg.TargetURL, cfg.PreloadPaths)
	if fetchErr != nil {
		return fmt.Errorf("snapshot failed: %w", fetchErr)
	}

	if res.Changed {
		fmt.Printf("snapshot changed: %s\n", res.DocumentPath)
	} else {
		fmt.Printf("snapshot unchanged: %s\n", res.DocumentPath)
	}

	return nil
}
