package genconfig

import (
	"fmt"

	"github.com/arthur-debert/mwu/pkg/commands/genconfig"
	"github.com/arthur-debert/mwu/pkg/config"
	"github.com/spf13/cobra"
)

// NewCommand creates the genconfig command
func NewCommand() *cobra.Command {
	var opts genconfig.GenConfigOptions

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := genconfig.GenConfig(cmd.Context(), opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if !opts.Write {
				_, err := fmt.Fprint(out, result.ConfigContent)
				return err
			}
			if len(result.FilesWritten) == 0 {
				target := opts.Path
				if target == "" {
					target = config.DefaultConfigPath()
				}
				fmt.Fprintf(out, MsgExists, target)
				return nil
			}
			for _, f := range result.FilesWritten {
				fmt.Fprintf(out, MsgWritten, f)
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVarP(&opts.Write, "write", "w", false, MsgFlagWrite)
	f.StringVarP(&opts.Path, "output", "o", "", MsgFlagOutput)
	f.BoolVar(&opts.FromFleet, "from-fleet", false, MsgFlagFromFleet)
	f.BoolVar(&opts.Selectors.TeamOnly, "team", false, MsgFlagTeam)
	f.StringVar(&opts.Selectors.Organization, "org", "", MsgFlagOrg)
	f.StringVar(&opts.Selectors.NameRegex, "name", "", MsgFlagName)
	f.StringVar(&opts.Selectors.Owner, "owner", "", MsgFlagOwner)
	f.BoolVar(&opts.Cached, "cached", false, MsgFlagCached)

	return cmd
}
