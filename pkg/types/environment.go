package types

import (
	"fmt"
	"strings"
)

const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvLive = "live"
)

// EnvironmentRef addresses one environment of one site
type EnvironmentRef struct {
	Site string
	Env  string
}

// String renders the ref the way the platform CLI expects it: site.env
func (r EnvironmentRef) String() string {
	return r.Site + "." + r.Env
}

// WithEnv returns a ref to another environment of the same site
func (r EnvironmentRef) WithEnv(env string) EnvironmentRef {
	return EnvironmentRef{Site: r.Site, Env: env}
}

// ConnectionMode is the write mode of an environment
type ConnectionMode string

const (
	// ModeGit is the read-only resting mode
	ModeGit ConnectionMode = "git"

	// ModeSFTP makes the filesystem writable for in-place package updates
	ModeSFTP ConnectionMode = "sftp"
)

// ParseConnectionMode accepts the platform's spelling of a mode
func ParseConnectionMode(s string) (ConnectionMode, error) {
	switch ConnectionMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeGit:
		return ModeGit, nil
	case ModeSFTP:
		return ModeSFTP, nil
	}
	return "", fmt.Errorf("unknown connection mode %q", s)
}
