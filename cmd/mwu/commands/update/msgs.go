package update

// Message constants
const (
	MsgShort = "Update every selected site"
	MsgLong  = `Run the update workflow on each queued site, one site at a time.

Sites come from selector flags (--team, --org, --name, --owner) combined with
settings flags, or from a fleet file given as argument or with --config-file.
The two cannot be mixed. --report, --skip and --cached work with both.

Each site goes through: framework check, pending-change check, optional
confirmation, switch to SFTP, backup, upstream updates, health check,
package updates, health check, excluded package report, commit, deploy to
test then live, and back to git mode.`
	MsgExample = `  mwu update --team --backup --auto-deploy test   # Team sites, deploy to test
  mwu update --name '^acme-' --report              # Report pending updates only
  mwu update sites-config.yml --skip acme-legacy    # Use a fleet file
  mwu update                                       # Use ~/.config/mwu/sites-config.yml`

	MsgFlagConfigFile   = "Fleet configuration file"
	MsgFlagEnv          = "Environment to update (dev, test, live or a multidev)"
	MsgFlagWorkflow     = "Workflow: wordpress or drupal"
	MsgFlagBackup       = "Create a backup first: all, code, files or database (write --backup=code)"
	MsgFlagSkipBackup   = "Do not create a backup"
	MsgFlagUpstream     = "Apply upstream (core) updates"
	MsgFlagNoUpdate     = "Do not update plugins or modules"
	MsgFlagPackages     = "Only update these plugins or modules"
	MsgFlagExclude      = "Never update these plugins or modules"
	MsgFlagSecurityOnly = "Only apply security updates (drupal)"
	MsgFlagMajorUpdate  = "Allow major version updates"
	MsgFlagAutoCommit   = "Commit changes with this message, or true/false (write --auto-commit=\"msg\")"
	MsgFlagAutoDeploy   = "Deploy to these environments after committing: test, live"
	MsgFlagConfirm      = "Ask before changing each site"
	MsgFlagReport       = "Report what would be updated without changing anything"
	MsgFlagNotifyError  = "Slack users sent failures"
	MsgFlagNotifyUpdate = "Slack users sent updated sites"
	MsgFlagNotifyReport = "Slack users sent every report"
	MsgFlagTeam         = "Only sites the user is a team member of"
	MsgFlagOrg          = "Only sites of this organization (id or name)"
	MsgFlagName         = "Only sites whose name matches this regular expression"
	MsgFlagOwner        = "Only sites owned by this user id, or me"
	MsgFlagCached       = "Use the cached site list"
	MsgFlagSkip         = "Never queue these sites"
	MsgFlagMetricsFile  = "Write run metrics to this file in Prometheus text format"
	MsgFlagYes          = "Answer yes to every confirmation"

	MsgErrTooManyFiles  = "only one config file may be given"
	MsgErrDetachedValue = "%q is read as a config file after --%s; write --%s=%s to pass it as the value"
	MsgErrAborted       = "%d of %d site(s) aborted"
)
