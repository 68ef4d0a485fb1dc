package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jlrickert/ligi/pkg/ligi"
	"github.com/spf13/cobra"
)

// NewCheckCmd returns the `check` cobra command (spec §6.4).
func NewCheckCmd(deps *Deps) *cobra.Command {
	var prune bool
	var output string

	cmd := &cobra.Command{
		Use:   "check",
		Short: "report whether the local index is stale, optionally pruning dead entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			artPath, _, err := resolveArtPath(deps)
			if err != nil {
				return err
			}

			summary, err := ligi.RunCheck(ctx, deps.Runtime, artPath, ligi.CheckOptions{Prune: prune, Cmd: "check"})
			if err != nil {
				return err
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(summary)
			default:
				if summary.Stale {
					fmt.Fprintln(cmd.OutOrStdout(), "stale")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "fresh")
				}
				if prune {
					fmt.Fprintf(cmd.OutOrStdout(), "pruned %d local tag entries, %d global tag entries, %d tags, %d dead workspace roots\n",
						summary.Prune.PrunedLocalTagEntries,
						summary.Prune.PrunedGlobalTagEntries,
						summary.Prune.PrunedTags,
						summary.Prune.PrunedRepos)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&prune, "prune", false, "remove index entries whose target no longer exists")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")

	return cmd
}
