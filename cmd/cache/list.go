// This file contains the implementation of the ls command that displays
// the cache's contents in a formatted table.
package cache

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/webmirror/cmd/common"
)

// listCommand creates the ls command.
func listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ls",
		Short: "List cached files",
		RunE:  runList,
	}
}

// runList walks the cache root and renders one row per cached file.
func runList(_ *cobra.Command, _ []string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	root := deps.Config.CacheDir
	if _, statErr := os.Stat(root); statErr != nil {
		return fmt.Errorf("cache root %s not found: %w", root, statErr)
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Path", "Size", "Modified"})

	var totalSize int64

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}

		info, infoErr := d.Info()
		if infoErr != nil {
			return infoErr
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		totalSize += info.Size()
		t.AppendRow(table.Row{
			filepath.ToSlash(rel),
			info.Size(),
			info.ModTime().Format("2006-01-02 15:04:05"),
		})

		return nil
	})
	if walkErr != nil {
		return fmt.Errorf("walk cache root: %w", walkErr)
	}

	t.AppendFooter(table.Row{"Total", totalSize, ""})
	t.Render()

	return nil
}
