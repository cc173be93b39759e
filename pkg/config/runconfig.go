package config

import (
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/fleet"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/types"
)

// Mode is how the run's site list is obtained
type Mode int

const (
	// ModeFlags resolves the fleet from inventory selectors
	ModeFlags Mode = iota

	// ModeFile takes the site list from a fleet configuration file
	ModeFile
)

func (m Mode) String() string {
	if m == ModeFile {
		return "file"
	}
	return "flags"
}

// Input is what the command line collected for one run
type Input struct {
	// ConfigFile is the --config-file value or the positional path
	ConfigFile string

	// Settings holds only the settings flags the user set
	Settings map[string]interface{}

	Selectors fleet.Selectors

	// Skip, Cached and ForceReport are accepted in both modes
	Skip        []string
	Cached      bool
	ForceReport bool
}

// RunConfig is the immutable configuration of one run
type RunConfig struct {
	Mode       Mode
	ConfigPath string
	Selectors  fleet.Selectors

	Defaults map[string]interface{}
	Global   map[string]interface{}

	// Sites are the per-site blocks. In file mode they are the site list.
	Sites []map[string]interface{}

	Skip        []string
	Cached      bool
	ForceReport bool
	Slack       SlackSettings
}

// Resolve selects the entry mode and loads what it needs. Settings flags
// or selectors together with a config file is CONFIG_CONFLICT. With
// neither, the default config file is read.
func Resolve(in Input) (*RunConfig, error) {
	logger := logging.GetLogger("config")

	hasFlags := len(in.Settings) > 0 || !in.Selectors.IsZero()
	if in.ConfigFile != "" && hasFlags {
		return nil, errors.New(errors.ErrConfigConflict,
			"a config file cannot be combined with settings or selector flags")
	}

	rc := &RunConfig{
		Defaults:    Defaults(),
		Skip:        in.Skip,
		Cached:      in.Cached,
		ForceReport: in.ForceReport,
	}

	if hasFlags {
		slack, err := loadSlack(nil)
		if err != nil {
			return nil, err
		}
		rc.Mode = ModeFlags
		rc.Selectors = in.Selectors
		rc.Global = withSlackRecipients(in.Settings, slack.Notifications)
		rc.Slack = slack
		logger.Debug().Interface("settings", in.Settings).Msg("Using flag mode")
		return rc, nil
	}

	path := in.ConfigFile
	if path == "" {
		path = DefaultConfigPath()
	}
	ff, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	global, err := normalizeBlock(ff.Settings)
	if err != nil {
		return nil, err
	}

	rc.Mode = ModeFile
	rc.ConfigPath = ff.Path
	rc.Global = withSlackRecipients(global, ff.Slack.Notifications)
	rc.Sites = ff.Entries
	rc.Skip = append(append([]string(nil), ff.Skip...), in.Skip...)
	rc.Slack = ff.Slack
	logger.Debug().Str("path", ff.Path).Int("entries", len(ff.Entries)).Msg("Using file mode")
	return rc, nil
}

// SettingsFor resolves the settings of one site block
func (rc *RunConfig) SettingsFor(site map[string]interface{}) (types.Settings, error) {
	s, err := Normalize(rc.Defaults, rc.Global, site)
	if err != nil {
		return s, err
	}
	if rc.ForceReport {
		s.Report = true
	}
	return s, nil
}

// SiteBlock returns the per-site block named name, or nil
func (rc *RunConfig) SiteBlock(name string) map[string]interface{} {
	for _, b := range rc.Sites {
		if BlockName(b) == name {
			return b
		}
	}
	return nil
}

// IsSkipped reports whether name is on the skip list
func (rc *RunConfig) IsSkipped(name string) bool {
	for _, s := range rc.Skip {
		if s == name {
			return true
		}
	}
	return false
}

// BlockName returns the name key of a site block
func BlockName(block map[string]interface{}) string {
	if n, ok := block["name"].(string); ok {
		return n
	}
	return ""
}

// withSlackRecipients puts the slack_settings recipients under the global
// layer so every site receives their union with its own recipients.
func withSlackRecipients(global map[string]interface{}, n types.Notifications) map[string]interface{} {
	if n.IsEmpty() {
		return global
	}
	merged := map[string]interface{}{"notifications": notificationsMap(n)}
	mergeMaps(merged, global)
	return merged
}

func notificationsMap(n types.Notifications) map[string]interface{} {
	return map[string]interface{}{
		"error":   toInterfaceSlice(n.Error),
		"updated": toInterfaceSlice(n.Updated),
		"report":  toInterfaceSlice(n.Report),
	}
}
