package update

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/mwu/pkg/config"
	"github.com/spf13/cobra"
)

// settingFlags maps flags onto settings keys. Only flags the user set are
// copied, so unset flags never shadow defaults.
var settingFlags = []struct {
	flag string
	key  string
}{
	{"env", "env"},
	{"workflow", "workflow"},
	{"backup", "backup"},
	{"upstream", "upstream"},
	{"packages", "packages"},
	{"exclude", "exclude"},
	{"security-only", "security_only"},
	{"major-update", "major_update"},
	{"auto-commit", "auto_commit"},
	{"auto-deploy", "auto_deploy"},
	{"confirm", "confirm"},
}

func addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("config-file", "", MsgFlagConfigFile)

	f.String("env", "dev", MsgFlagEnv)
	f.String("workflow", "wordpress", MsgFlagWorkflow)
	f.String("backup", "", MsgFlagBackup)
	f.Lookup("backup").NoOptDefVal = "all"
	f.Bool("skip-backup", false, MsgFlagSkipBackup)
	f.Bool("upstream", false, MsgFlagUpstream)
	f.Bool("no-update", false, MsgFlagNoUpdate)
	f.StringSlice("packages", nil, MsgFlagPackages)
	f.StringSlice("exclude", nil, MsgFlagExclude)
	f.Bool("security-only", false, MsgFlagSecurityOnly)
	f.Bool("major-update", false, MsgFlagMajorUpdate)
	f.String("auto-commit", "", MsgFlagAutoCommit)
	f.Lookup("auto-commit").NoOptDefVal = "true"
	f.StringSlice("auto-deploy", nil, MsgFlagAutoDeploy)
	f.Bool("confirm", false, MsgFlagConfirm)
	f.Bool("report", false, MsgFlagReport)
	f.StringSlice("notify-error", nil, MsgFlagNotifyError)
	f.StringSlice("notify-updated", nil, MsgFlagNotifyUpdate)
	f.StringSlice("notify-report", nil, MsgFlagNotifyReport)

	f.Bool("team", false, MsgFlagTeam)
	f.String("org", "", MsgFlagOrg)
	f.String("name", "", MsgFlagName)
	f.String("owner", "", MsgFlagOwner)

	f.Bool("cached", false, MsgFlagCached)
	f.StringSlice("skip", nil, MsgFlagSkip)
	f.String("metrics-file", "", MsgFlagMetricsFile)
	f.BoolP("yes", "y", false, MsgFlagYes)

	cmd.MarkFlagsMutuallyExclusive("backup", "skip-backup")
	_ = cmd.MarkFlagFilename("config-file", "yml", "yaml")
}

// inputFromFlags collects the run input from the parsed command line
func inputFromFlags(cmd *cobra.Command, args []string) (config.Input, error) {
	f := cmd.Flags()
	var in config.Input

	in.ConfigFile, _ = f.GetString("config-file")
	if len(args) > 0 {
		// --backup and --auto-commit take an optional value, so a value
		// after a space is parsed as the config file argument.
		for _, name := range []string{"backup", "auto-commit"} {
			fl := f.Lookup(name)
			if fl.Changed && fl.Value.String() == fl.NoOptDefVal {
				return in, fmt.Errorf(MsgErrDetachedValue, args[0], name, name, args[0])
			}
		}
		if in.ConfigFile != "" || len(args) > 1 {
			return in, fmt.Errorf(MsgErrTooManyFiles)
		}
		in.ConfigFile = args[0]
	}

	settings := map[string]interface{}{}
	for _, sf := range settingFlags {
		if !f.Changed(sf.flag) {
			continue
		}
		settings[sf.key] = flagValue(cmd, sf.flag)
	}
	if f.Changed("skip-backup") {
		if skip, _ := f.GetBool("skip-backup"); skip {
			settings["backup"] = false
		}
	}
	if f.Changed("no-update") {
		if noUpdate, _ := f.GetBool("no-update"); noUpdate {
			settings["update"] = false
		}
	}
	if v, ok := settings["auto_commit"].(string); ok {
		switch strings.ToLower(v) {
		case "true", "yes":
			settings["auto_commit"] = true
		case "false", "no":
			settings["auto_commit"] = false
		}
	}
	if v, ok := settings["auto_deploy"].([]interface{}); ok && len(v) == 1 {
		switch strings.ToLower(fmt.Sprint(v[0])) {
		case "false", "none", "no":
			settings["auto_deploy"] = false
		}
	}

	notifications := map[string]interface{}{}
	for flag, key := range map[string]string{"notify-error": "error", "notify-updated": "updated", "notify-report": "report"} {
		if f.Changed(flag) {
			notifications[key] = flagValue(cmd, flag)
		}
	}
	if len(notifications) > 0 {
		settings["notifications"] = notifications
	}
	if len(settings) > 0 {
		in.Settings = settings
	}

	in.Selectors.TeamOnly, _ = f.GetBool("team")
	in.Selectors.Organization, _ = f.GetString("org")
	in.Selectors.NameRegex, _ = f.GetString("name")
	in.Selectors.Owner, _ = f.GetString("owner")

	in.Skip, _ = f.GetStringSlice("skip")
	in.Cached, _ = f.GetBool("cached")
	in.ForceReport, _ = f.GetBool("report")
	return in, nil
}

// flagValue returns a flag value in the shape the normalizer expects
func flagValue(cmd *cobra.Command, name string) interface{} {
	f := cmd.Flags()
	switch f.Lookup(name).Value.Type() {
	case "bool":
		v, _ := f.GetBool(name)
		return v
	case "stringSlice":
		v, _ := f.GetStringSlice(name)
		out := make([]interface{}, 0, len(v))
		for _, s := range v {
			out = append(out, s)
		}
		return out
	default:
		v, _ := f.GetString(name)
		return v
	}
}
