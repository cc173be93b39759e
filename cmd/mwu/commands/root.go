package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/arthur-debert/mwu/cmd/mwu/commands/genconfig"
	"github.com/arthur-debert/mwu/cmd/mwu/commands/sites"
	"github.com/arthur-debert/mwu/cmd/mwu/commands/update"
	"github.com/arthur-debert/mwu/internal/version"
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "mwu",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf(MsgErrNoCommand)
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().String("format", "auto", MsgFlagFormat)

	rootCmd.AddGroup(&cobra.Group{ID: "core", Title: "COMMANDS:"})
	rootCmd.AddGroup(&cobra.Group{ID: "misc", Title: "MISC:"})

	rootCmd.AddCommand(update.NewCommand())
	rootCmd.AddCommand(sites.NewCommand())
	rootCmd.AddCommand(genconfig.NewCommand())
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newCompletionCmd())
	installTopics(rootCmd)

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "version",
		Short:   MsgVersionShort,
		Args:    cobra.NoArgs,
		GroupID: "misc",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletionV2(out, true)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
}

// PrintError writes a command failure, with its error code when it has one
func PrintError(w io.Writer, err error) {
	code := errors.GetErrorCode(err)
	lines := []string{MsgErrPrefix + " " + err.Error()}
	if code != errors.ErrUnknown {
		lines[0] = fmt.Sprintf("%s [%s] %s", MsgErrPrefix, code, errors.GetErrorMessage(err))
	}
	if path, ok := errors.GetErrorDetails(err)["path"].(string); ok && path != "" {
		lines = append(lines, fmt.Sprintf(MsgErrConfigPath, path))
	}
	if errors.IsFleetLevel(code) {
		lines = append(lines, MsgErrFleetLevel)
	}

	colored := false
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		colored = true
	}
	for i, line := range lines {
		if colored && i == 0 {
			line = pterm.Red(line)
		}
		fmt.Fprintln(w, line)
	}
}
