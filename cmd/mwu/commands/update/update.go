package update

import (
	"fmt"

	"github.com/arthur-debert/mwu/pkg/commands/update"
	"github.com/arthur-debert/mwu/pkg/display"
	"github.com/arthur-debert/mwu/pkg/ui/confirmations"
	"github.com/spf13/cobra"
)

// NewCommand creates the update command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "update [config-file]",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE:    runUpdate,
	}
	addFlags(cmd)
	return cmd
}

func runUpdate(cmd *cobra.Command, args []string) error {
	in, err := inputFromFlags(cmd, args)
	if err != nil {
		return err
	}

	formatName, _ := cmd.Flags().GetString("format")
	format, err := display.ParseFormat(formatName)
	if err != nil {
		return err
	}
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	yes, _ := cmd.Flags().GetBool("yes")

	result, err := update.Update(cmd.Context(), update.UpdateOptions{
		Input:       in,
		Confirmer:   confirmations.NewConsolePrompter(yes),
		Renderer:    display.New(cmd.OutOrStdout(), format),
		MetricsFile: metricsFile,
	})
	if err != nil {
		return err
	}

	if n := result.Aborted(); n > 0 {
		return fmt.Errorf(MsgErrAborted, n, len(result.Results))
	}
	if result.Interrupted {
		return cmd.Context().Err()
	}
	return nil
}
