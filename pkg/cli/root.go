package cli

// NewRootCmd builds the root cobra command, wires persistent flags, and
// installs a context-carried logger before any subcommand runs.
import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jlrickert/cli-toolkit/toolkit"
	"github.com/jlrickert/ligi/pkg/ligi"
	"github.com/jlrickert/ligi/pkg/log"
	"github.com/spf13/cobra"
)

// Version is stamped into log output and the --version flag.
var Version = "0.2.0"

// Deps carries every external collaborator a command needs, so the whole
// tree can be exercised against a sandboxed Runtime and in-memory streams in
// tests instead of the real OS and terminal.
type Deps struct {
	Runtime   *toolkit.Runtime
	Streams   Streams
	Clipboard Clipboard

	Root    string // --root override; empty means "search from cwd"
	Verbose bool
	Quiet   bool
	LogFile string
}

// NewRootCmd builds the `ligi` root command and its subcommand tree.
func NewRootCmd(deps *Deps) *cobra.Command {
	if deps.Clipboard == nil {
		deps.Clipboard = SystemClipboard{}
	}

	cmd := &cobra.Command{
		Use:           "ligi",
		Short:         "tag indexing and query engine for a markdown art/ tree",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := slog.LevelInfo
			if deps.Verbose {
				level = slog.LevelDebug
			}
			if deps.Quiet {
				level = slog.LevelError
			}

			out := cmd.ErrOrStderr()
			var f *os.File
			if deps.LogFile != "" {
				var err error
				f, err = os.OpenFile(deps.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
				if err != nil {
					return ligi.NewFilesystemError("open log file", err)
				}
				out = f
			}
			lg, _, err := log.NewLogger(log.LoggerConfig{Out: out, Level: level, Version: Version})
			if err != nil {
				return err
			}
			cmd.SetContext(log.ContextWithLogger(cmd.Context(), lg))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&deps.Root, "root", "", "workspace root to search from (default: current directory)")
	cmd.PersistentFlags().BoolVar(&deps.Verbose, "verbose", false, "emit progress and diagnostics to stderr")
	cmd.PersistentFlags().BoolVar(&deps.Quiet, "quiet", false, "limit stderr to errors only")
	cmd.PersistentFlags().StringVar(&deps.LogFile, "log-file", "", "write diagnostics to a file instead of stderr")

	cmd.AddCommand(
		NewIndexCmd(deps),
		NewQueryCmd(deps),
		NewCheckCmd(deps),
		NewRegisterCmd(deps),
	)

	return cmd
}

// resolveArtPath locates the nearest art/ directory starting from
// deps.Root (or the process's working directory when unset), returning
// both the art/ path itself and its parent workspace root.
func resolveArtPath(deps *Deps) (artPath, workspaceRoot string, err error) {
	start := deps.Root
	if start == "" {
		start, err = deps.Runtime.Getwd()
		if err != nil {
			return "", "", ligi.NewFilesystemError("resolveArtPath", err)
		}
	}
	root, err := ligi.FindWorkspaceRoot(deps.Runtime, start)
	if err != nil {
		return "", "", err
	}
	return filepath.Join(root, "art"), root, nil
}

// Run is the single entrypoint main.go calls: build the root command,
// execute it against args, and map the resulting error to an exit code.
func Run(rt *toolkit.Runtime, streams Streams, args []string) int {
	deps := &Deps{Runtime: rt, Streams: streams}
	cmd := NewRootCmd(deps)
	cmd.SetArgs(args)
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)

	err := cmd.Execute()
	return RenderError(streams, err)
}
