package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jlrickert/ligi/pkg/ligi"
	"github.com/spf13/cobra"
)

// NewQueryCmd returns the `query` command group: `query t <expr>` and
// `query list` (spec §6.4).
func NewQueryCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "evaluate a tag expression or list known tags",
	}
	cmd.AddCommand(newQueryTagCmd(deps), newQueryListCmd(deps))
	return cmd
}

func newQueryTagCmd(deps *Deps) *cobra.Command {
	var absolute bool
	var output string
	var useClipboard bool
	var autoIndex bool

	cmd := &cobra.Command{
		Use:   "t <tag-expr>...",
		Short: "evaluate a tag expression (tokens separated by & and |)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			artPath, workspaceRoot, err := resolveArtPath(deps)
			if err != nil {
				return err
			}

			result, err := ligi.RunQuery(ctx, deps.Runtime, artPath, workspaceRoot, args, ligi.QueryRunOptions{
				AutoIndex: autoIndex,
				Absolute:  absolute,
				Cmd:       "query",
			})
			if err != nil {
				return err
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(struct {
					Expr    string   `json:"expr"`
					Results []string `json:"results"`
				}{Expr: result.Expr, Results: result.Results})
			default:
				for _, p := range result.Results {
					fmt.Fprintln(cmd.OutOrStdout(), p)
				}
			}

			if useClipboard {
				if err := deps.Clipboard.WriteAll(strings.Join(result.Results, "\n")); err != nil {
					return ligi.NewFilesystemError("clipboard", err)
				}
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&absolute, "absolute", false, "emit absolute paths instead of repo-relative paths")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")
	cmd.Flags().BoolVar(&useClipboard, "clipboard", false, "also copy the result set to the system clipboard")
	cmd.Flags().BoolVar(&autoIndex, "index", true, "auto-reindex first if the local index is stale")

	return cmd
}

func newQueryListCmd(deps *Deps) *cobra.Command {
	var globalOnly bool
	var localOnly bool
	var output string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "list every known tag, annotated with provenance",
		RunE: func(cmd *cobra.Command, args []string) error {
			if globalOnly && localOnly {
				return ligi.NewUsageError("query list", errGlobalAndLocalOnly)
			}

			artPath, _, err := resolveArtPath(deps)
			if err != nil {
				return err
			}
			globalRoot, err := ligi.GlobalArtRoot(deps.Runtime)
			if err != nil {
				return err
			}

			entries, err := ligi.RunQueryList(deps.Runtime, artPath, globalRoot, ligi.QueryListRunOptions{Cmd: "query"})
			if err != nil {
				return err
			}

			filtered := entries[:0:0]
			for _, e := range entries {
				if globalOnly && !e.Global {
					continue
				}
				if localOnly && !e.Local {
					continue
				}
				filtered = append(filtered, e)
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				return enc.Encode(filtered)
			default:
				for _, e := range filtered {
					fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", e.Provenance, e.Tag)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&globalOnly, "global-only", false, "list only tags present in the global index")
	cmd.Flags().BoolVar(&localOnly, "local-only", false, "list only tags present in the local index")
	cmd.Flags().StringVar(&output, "output", "text", "output format: text or json")

	return cmd
}

var errGlobalAndLocalOnly = fmt.Errorf("--global-only and --local-only are mutually exclusive")
