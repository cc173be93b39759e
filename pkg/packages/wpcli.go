package packages

import (
	"strings"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/types"
)

var wpListFields = []string{"name", "status", "version", "update", "update_version", "update_package"}

// WPCLI manages WordPress plugins through wp-cli
type WPCLI struct{}

type wpPlugin struct {
	Name          string `json:"name"`
	Status        string `json:"status"`
	Version       string `json:"version"`
	Update        string `json:"update"`
	UpdateVersion string `json:"update_version"`
	UpdatePackage string `json:"update_package"`
}

type wpUpdateItem struct {
	Name       string `json:"name"`
	OldVersion string `json:"old_version"`
	NewVersion string `json:"new_version"`
	Status     string `json:"status"`
}

func (WPCLI) Tool() gateway.Tool { return gateway.ToolWP }

func (WPCLI) SupportsSecurityOnly() bool { return false }

func (WPCLI) ListCommand() gateway.RemoteCommand {
	return gateway.RemoteCommand{
		Tool: gateway.ToolWP,
		Args: []string{"plugin", "list", "--format=json", "--fields=" + strings.Join(wpListFields, ",")},
	}
}

func (WPCLI) ParseList(output string) ([]types.PackageStatus, error) {
	var plugins []wpPlugin
	if err := decodeJSON(output, &plugins); err != nil {
		return nil, errors.Wrap(err, errors.ErrGatewayCommand, "cannot parse wp plugin list")
	}
	out := make([]types.PackageStatus, 0, len(plugins))
	for _, p := range plugins {
		out = append(out, types.PackageStatus{
			Name:            p.Name,
			Version:         p.Version,
			UpdateVersion:   p.UpdateVersion,
			UpdateAvailable: p.Update == "available",
			HasPackage:      p.UpdatePackage != "" && p.UpdatePackage != "none",
			Status:          p.Status,
		})
	}
	return out, nil
}

func (WPCLI) UpdateCommand(targets []string, _ UpdateOptions) gateway.RemoteCommand {
	args := append([]string{"plugin", "update"}, targets...)
	return gateway.RemoteCommand{
		Tool:     gateway.ToolWP,
		Args:     append(args, "--format=json"),
		Mutating: true,
	}
}

func (WPCLI) ParseUpdate(res gateway.CommandResult) map[string]ItemResult {
	out := make(map[string]ItemResult)
	var items []wpUpdateItem
	if err := decodeJSON(res.Output, &items); err != nil {
		return out
	}
	for _, it := range items {
		out[it.Name] = ItemResult{
			Name:       it.Name,
			OldVersion: it.OldVersion,
			NewVersion: it.NewVersion,
			Status:     ItemStatus(it.Status),
		}
	}
	return out
}

func (WPCLI) InfoCommand(name string) gateway.RemoteCommand {
	return gateway.RemoteCommand{
		Tool: gateway.ToolWP,
		Args: []string{"plugin", "get", name, "--format=json"},
	}
}

func (WPCLI) ParseInfo(output string) (types.PackageStatus, error) {
	var p wpPlugin
	if err := decodeJSON(output, &p); err != nil {
		return types.PackageStatus{}, errors.Wrap(err, errors.ErrGatewayCommand, "cannot parse wp plugin get")
	}
	return types.PackageStatus{Name: p.Name, Version: p.Version, Status: p.Status}, nil
}

// HealthCommand loads every plugin; a PHP fatal makes wp-cli exit 1 or 255.
func (WPCLI) HealthCommand() gateway.RemoteCommand {
	return gateway.RemoteCommand{Tool: gateway.ToolWP, Args: []string{"plugin", "status"}}
}

func (WPCLI) Healthy(res gateway.CommandResult) bool {
	return res.Succeeded()
}
