package config

import (
	_ "embed"
	"errors"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/v2"
)

//go:embed embedded/defaults.yml
var defaultConfig []byte

//go:embed embedded/sites-config.yml
var sampleConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// DefaultsContent returns the embedded defaults file
func DefaultsContent() string {
	return string(defaultConfig)
}

// SampleContent returns an annotated example fleet file
func SampleContent() string {
	return string(sampleConfig)
}

// Defaults returns the embedded default settings block
func Defaults() map[string]interface{} {
	return section(defaultConfig, "settings")
}

// defaultSlack returns the embedded slack_settings block
func defaultSlack() map[string]interface{} {
	return section(defaultConfig, "slack_settings")
}

func section(data []byte, key string) map[string]interface{} {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: data}, yaml.Parser()); err != nil {
		return map[string]interface{}{}
	}
	if m, ok := k.Get(key).(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}
