package cli

import (
	"fmt"

	"github.com/jlrickert/ligi/pkg/ligi"
	"github.com/spf13/cobra"
)

// NewRegisterCmd returns the `register` cobra command, the thin wrapper
// around the registry-contract stub ligi init is expected to call (spec
// §1's "out of scope except for its contract to register a workspace root").
func NewRegisterCmd(deps *Deps) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register [path]",
		Short: "register a workspace root into the global workspace registry",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := deps.Root
			if len(args) == 1 {
				root = args[0]
			}
			if root == "" {
				var err error
				root, err = deps.Runtime.Getwd()
				if err != nil {
					return ligi.NewFilesystemError("register", err)
				}
			}
			if err := ligi.RegisterWorkspace(deps.Runtime, root); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "registered %s\n", root)
			return nil
		},
	}
	return cmd
}
