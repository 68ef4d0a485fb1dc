package cli

import (
	"fmt"

	"github.com/jlrickert/ligi/pkg/ligi"
	"github.com/jlrickert/ligi/pkg/log"
	"github.com/spf13/cobra"
)

// NewIndexCmd returns the `index` cobra command (spec §6.4).
func NewIndexCmd(deps *Deps) *cobra.Command {
	var opts ligi.IndexOptions

	cmd := &cobra.Command{
		Use:   "index",
		Short: "rebuild the local and global tag index",
		Long: `Walk the workspace's art/ tree, parse [[t/tag]] markers, and rewrite
the local and global tag indexes. Bare markers are filled in with a relative
link to their per-tag index file.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			lg := log.FromContext(ctx)

			artPath, _, err := resolveArtPath(deps)
			if err != nil {
				return err
			}
			opts.Cmd = "index"

			summary, err := ligi.RunIndex(ctx, deps.Runtime, artPath, opts)
			if err != nil {
				return err
			}

			if deps.Verbose {
				lg.Info("index complete",
					"tags", summary.TagCount,
					"files", summary.FileCount,
					"links_filled", summary.LinksFilled,
					"local_written", summary.LocalWritten,
					"global_written", summary.GlobalWritten)
				for _, w := range summary.Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", w)
				}
				for _, s := range summary.SkippedGlobals {
					fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped workspace during global rebuild: %s\n", s)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "restrict indexing to a single repo-relative source file")
	cmd.Flags().BoolVar(&opts.Global, "global", false, "also rebuild the authoritative global index across every registered workspace")

	return cmd
}
