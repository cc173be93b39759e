package sites

import (
	"github.com/arthur-debert/mwu/pkg/commands/sites"
	"github.com/arthur-debert/mwu/pkg/display"
	"github.com/arthur-debert/mwu/pkg/fleet"
	"github.com/spf13/cobra"
)

// NewCommand creates the sites command
func NewCommand() *cobra.Command {
	var (
		sel    fleet.Selectors
		cached bool
	)

	cmd := &cobra.Command{
		Use:     "sites",
		Short:   MsgShort,
		Long:    MsgLong,
		Example: MsgExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatName, _ := cmd.Flags().GetString("format")
			format, err := display.ParseFormat(formatName)
			if err != nil {
				return err
			}

			result, err := sites.Sites(cmd.Context(), sites.SitesOptions{
				Selectors: sel,
				Cached:    cached,
			})
			if err != nil {
				return err
			}
			return display.New(cmd.OutOrStdout(), format).Sites(result)
		},
	}

	cmd.Flags().BoolVar(&sel.TeamOnly, "team", false, MsgFlagTeam)
	cmd.Flags().StringVar(&sel.Organization, "org", "", MsgFlagOrg)
	cmd.Flags().StringVar(&sel.NameRegex, "name", "", MsgFlagName)
	cmd.Flags().StringVar(&sel.Owner, "owner", "", MsgFlagOwner)
	cmd.Flags().BoolVar(&cached, "cached", false, MsgFlagCached)

	return cmd
}
