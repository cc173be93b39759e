package sites

// Message constants
const (
	MsgShort = "List the sites a selection would queue"
	MsgLong  = `List the sites matched by the selector flags without changing anything.

Use it to check a selection before running mwu update with the same flags.
Frozen sites are listed but marked.`
	MsgExample = `  mwu sites --team
  mwu sites --org acme --name '^blog-'
  mwu sites --owner me --format json`

	MsgFlagTeam   = "Only sites the user is a team member of"
	MsgFlagOrg    = "Only sites of this organization (id or name)"
	MsgFlagName   = "Only sites whose name matches this regular expression"
	MsgFlagOwner  = "Only sites owned by this user id, or me"
	MsgFlagCached = "Use the cached site list"
)
