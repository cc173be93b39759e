package genconfig

// Message constants
const (
	MsgShort = "Generate a fleet configuration file"
	MsgLong  = `Output an annotated sample fleet file, or one listing the sites picked by
the selector flags when --from-fleet is given.

With -w the file is written to the user config directory, where mwu update
finds it by default. An existing file is never overwritten.`
	MsgExample = `  mwu genconfig                        # Print the sample
  mwu genconfig --from-fleet --team    # Print a file listing team sites
  mwu genconfig --from-fleet --team -w # Write it to ~/.config/mwu/sites-config.yml`

	MsgFlagWrite     = "Write the config file instead of printing it"
	MsgFlagOutput    = "Write to this path instead of the user config directory"
	MsgFlagFromFleet = "List the selected sites from the inventory"
	MsgFlagTeam      = "Only sites the user is a team member of"
	MsgFlagOrg       = "Only sites of this organization (id or name)"
	MsgFlagName      = "Only sites whose name matches this regular expression"
	MsgFlagOwner     = "Only sites owned by this user id, or me"
	MsgFlagCached    = "Use the cached site list"

	MsgWritten = "Written %s\n"
	MsgExists  = "%s already exists, nothing written\n"
)
