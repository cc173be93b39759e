// Package packages drives the site package managers (wp-cli plugins, drush
// modules) through remote commands and classifies their output.
package packages

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/types"
)

// ItemStatus is the per-package outcome reported by an update command
type ItemStatus string

const (
	ItemUpdated ItemStatus = "Updated"
	ItemError   ItemStatus = "Error"
	ItemSkipped ItemStatus = "Skipped"
)

// ItemResult is one package's outcome after the update step
type ItemResult struct {
	Name       string
	OldVersion string
	NewVersion string
	Status     ItemStatus
	Message    string
}

// UpdateOptions tunes the update command
type UpdateOptions struct {
	SecurityOnly bool
	AllowMajor   bool
}

// Manager builds package-manager commands and parses their output.
// It never talks to the gateway itself.
type Manager interface {
	Tool() gateway.Tool

	ListCommand() gateway.RemoteCommand
	ParseList(output string) ([]types.PackageStatus, error)

	// UpdateCommand targets exactly the given names
	UpdateCommand(targets []string, opts UpdateOptions) gateway.RemoteCommand

	// ParseUpdate returns per-item outcomes keyed by name. Managers that do not
	// report per-item outcomes return an empty map.
	ParseUpdate(res gateway.CommandResult) map[string]ItemResult

	InfoCommand(name string) gateway.RemoteCommand
	ParseInfo(output string) (types.PackageStatus, error)

	HealthCommand() gateway.RemoteCommand
	Healthy(res gateway.CommandResult) bool

	SupportsSecurityOnly() bool
}

// For returns the manager used by a workflow
func For(w types.Workflow) (Manager, error) {
	switch w {
	case types.WorkflowWordPress:
		return WPCLI{}, nil
	case types.WorkflowDrupal:
		return Drush{}, nil
	}
	return nil, errors.Newf(errors.ErrInvalidInput, "no package manager for workflow %q", w)
}

// decodeJSON decodes the first JSON document in output, skipping any
// warnings the remote tool printed before it.
func decodeJSON(output string, v interface{}) error {
	data := []byte(output)
	start := bytes.IndexAny(data, "[{")
	if start < 0 {
		return fmt.Errorf("no JSON document in output")
	}
	return json.NewDecoder(bytes.NewReader(data[start:])).Decode(v)
}
