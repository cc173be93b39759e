package commands

// Message constants
const (
	MsgRootShort = "Mass website updates for terminus-managed sites"
	MsgRootLong  = `mwu drives the terminus CLI to update a fleet of WordPress and Drupal sites.

For every queued site it backs up, applies upstream and package updates,
checks the site's health, commits and deploys, then reports to Slack.
Sites run one at a time; a failed site never blocks the next one.

The site list comes either from selector flags (mwu update --team) or from
a fleet file (mwu update sites-config.yml). With neither, the fleet file in
the user config directory is used.`

	MsgVersionShort    = "Print version information"
	MsgCompletionShort = "Generate shell completion script"
	MsgCompletionLong  = `Generate a completion script for bash, zsh, fish or powershell.

  source <(mwu completion bash)
  mwu completion zsh > "${fpath[1]}/_mwu"`

	MsgFlagVerbose = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagFormat  = "Output format: auto, term, text or json"

	MsgErrNoCommand  = "no command specified"
	MsgErrPrefix     = "Error:"
	MsgErrConfigPath = "  config file: %s"
	MsgErrFleetLevel = "  No site was updated."
)
