package config

import (
	"strings"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

var backupElements = map[string]bool{"all": true, "code": true, "files": true, "database": true}

// Normalize resolves the settings of one site from the three layers.
// Any layer may be nil.
func Normalize(defaults, global, site map[string]interface{}) (types.Settings, error) {
	merged := map[string]interface{}{}
	for _, layer := range []map[string]interface{}{defaults, global, site} {
		block, err := normalizeBlock(layer)
		if err != nil {
			return types.Settings{}, err
		}
		mergeMaps(merged, block)
	}
	delete(merged, "name")

	k := koanf.New(".")
	if err := k.Load(confmap.Provider(merged, "."), nil); err != nil {
		return types.Settings{}, errors.Wrap(err, errors.ErrConfigParse, "failed to load merged settings")
	}

	var s types.Settings
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &s,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &s, unmarshalConf); err != nil {
		return types.Settings{}, errors.Wrap(err, errors.ErrConfigInvalid, "failed to decode settings")
	}

	return postProcess(s)
}

// normalizeBlock rewrites the polymorphic YAML forms of a settings block
// into one canonical shape before merging.
func normalizeBlock(block map[string]interface{}) (map[string]interface{}, error) {
	out := make(map[string]interface{}, len(block))
	for key, val := range block {
		out[key] = val
	}

	if v, ok := out["backup"]; ok {
		switch b := v.(type) {
		case bool:
			if b {
				out["backup"] = "all"
			} else {
				out["backup"] = ""
			}
		case string:
			out["backup"] = normalizeBackup(b)
		case nil:
			out["backup"] = ""
		}
	}

	if v, ok := out["auto_commit"]; ok {
		switch c := v.(type) {
		case bool:
			if c {
				out["auto_commit"] = types.DefaultCommitMessage
			} else {
				out["auto_commit"] = ""
			}
		case nil:
			out["auto_commit"] = ""
		}
	}

	if v, ok := out["auto_deploy"]; ok {
		switch d := v.(type) {
		case bool:
			if d {
				out["auto_deploy"] = []interface{}{types.EnvTest, types.EnvLive}
			} else {
				out["auto_deploy"] = []interface{}{}
			}
		case string:
			out["auto_deploy"] = splitList(d)
		case nil:
			out["auto_deploy"] = []interface{}{}
		}
	}

	for _, key := range []string{"exclude", "packages"} {
		if s, ok := out[key].(string); ok {
			out[key] = splitList(s)
		}
	}

	if n, ok := out["notifications"]; ok {
		m, isMap := n.(map[string]interface{})
		if !isMap && n != nil {
			return nil, errors.Newf(errors.ErrConfigInvalid, "notifications must be a map of recipient lists, got %T", n)
		}
		norm := make(map[string]interface{}, len(m))
		for group, recipients := range m {
			if s, ok := recipients.(string); ok {
				norm[group] = splitList(s)
				continue
			}
			norm[group] = recipients
		}
		out["notifications"] = norm
	}

	return out, nil
}

func normalizeBackup(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "true", "yes":
		return "all"
	case "false", "no", "none", "off":
		return ""
	case "db":
		return "database"
	}
	return s
}

func splitList(s string) []interface{} {
	out := []interface{}{}
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func postProcess(s types.Settings) (types.Settings, error) {
	if s.Env == "" {
		s.Env = types.EnvDev
	}
	if s.Backup != "" && !backupElements[s.Backup] {
		return s, errors.Newf(errors.ErrConfigInvalid, "invalid backup element %q", s.Backup)
	}
	if s.Workflow != "" {
		w, err := types.ParseWorkflow(string(s.Workflow))
		if err != nil {
			return s, errors.Wrap(err, errors.ErrConfigInvalid, "invalid workflow")
		}
		s.Workflow = w
	}
	if s.BackupKeepFor <= 0 {
		s.BackupKeepFor = DefaultBackupKeepFor
	}
	s.AutoDeploy = types.DeployTargets(s.AutoDeploy)
	s.Exclude = dedupe(s.Exclude)
	s.Packages = dedupe(s.Packages)
	s.Notifications.Error = dedupe(s.Notifications.Error)
	s.Notifications.Updated = dedupe(s.Notifications.Updated)
	s.Notifications.Report = dedupe(s.Notifications.Report)
	return s, nil
}

// DefaultBackupKeepFor is the backup retention in days
const DefaultBackupKeepFor = 365

func dedupe(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
