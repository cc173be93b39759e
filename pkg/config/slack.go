package config

import (
	"strings"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// SlackEnvPrefix prefixes the environment overrides of slack_settings
const SlackEnvPrefix = "MWU_SLACK_"

// SlackSettings configures webhook delivery of job reports
type SlackSettings struct {
	URL       string `koanf:"url" yaml:"url,omitempty"`
	Channel   string `koanf:"channel" yaml:"channel,omitempty"`
	Username  string `koanf:"username" yaml:"username,omitempty"`
	IconEmoji string `koanf:"icon_emoji" yaml:"icon_emoji,omitempty"`

	// Notifications are added to the recipients of every site
	Notifications types.Notifications `koanf:"notifications" yaml:"notifications,omitempty"`
}

// Enabled reports whether a webhook is configured
func (s SlackSettings) Enabled() bool {
	return s.URL != ""
}

// loadSlack layers embedded defaults, the file block and MWU_SLACK_* variables
func loadSlack(fileBlock map[string]interface{}) (SlackSettings, error) {
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(defaultSlack(), "."), nil); err != nil {
		return SlackSettings{}, errors.Wrap(err, errors.ErrConfigParse, "failed to load slack defaults")
	}
	if len(fileBlock) > 0 {
		if err := k.Load(confmap.Provider(fileBlock, "."), nil); err != nil {
			return SlackSettings{}, errors.Wrap(err, errors.ErrConfigParse, "failed to load slack_settings")
		}
	}
	err := k.Load(env.Provider(SlackEnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, SlackEnvPrefix))
	}), nil)
	if err != nil {
		return SlackSettings{}, errors.Wrap(err, errors.ErrConfigParse, "failed to load slack env vars")
	}

	var s SlackSettings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToSliceHookFunc(","),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return SlackSettings{}, errors.Wrap(err, errors.ErrConfigInvalid, "failed to decode slack_settings")
	}
	s.IconEmoji = strings.Trim(s.IconEmoji, ":")
	return s, nil
}
