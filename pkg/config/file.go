package config

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigFileName is looked up under the XDG config dir
const DefaultConfigFileName = "sites-config.yml"

// FleetFile is a parsed fleet configuration file
type FleetFile struct {
	Path string

	// Settings is the raw sites.settings block
	Settings map[string]interface{}

	// Entries are the raw sites.update blocks in file order
	Entries []map[string]interface{}

	// Skip lists site names never to queue
	Skip []string

	Slack SlackSettings
}

// DefaultConfigPath returns $XDG_CONFIG_HOME/mwu/sites-config.yml
func DefaultConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "mwu", DefaultConfigFileName)
}

// LoadFile reads and parses a fleet configuration file
func LoadFile(path string) (*FleetFile, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, errors.ErrMissingConfigFile, "config file %s not found", path).
			WithDetail("path", path)
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to parse %s", path).
			WithDetail("path", path)
	}

	ff := &FleetFile{Path: path, Settings: map[string]interface{}{}}

	if raw := k.Get("sites.settings"); raw != nil {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse, "%s: sites.settings must be a map", path)
		}
		ff.Settings = m
	}

	if raw := k.Get("sites.update"); raw != nil {
		list, ok := raw.([]interface{})
		if !ok {
			return nil, errors.Newf(errors.ErrConfigParse, "%s: sites.update must be a list", path)
		}
		for i, item := range list {
			entry, ok := item.(map[string]interface{})
			if !ok {
				return nil, errors.Newf(errors.ErrConfigParse, "%s: sites.update[%d] must be a map", path, i)
			}
			ff.Entries = append(ff.Entries, entry)
		}
	}

	ff.Skip = k.Strings("sites.skip")

	var slackBlock map[string]interface{}
	if raw, ok := k.Get("slack_settings").(map[string]interface{}); ok {
		slackBlock = raw
	}
	slack, err := loadSlack(slackBlock)
	if err != nil {
		return nil, err
	}
	ff.Slack = slack

	return ff, nil
}
