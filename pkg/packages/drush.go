package packages

import (
	"sort"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/types"
)

// Drupal update status codes as reported by pm-updatestatus
const (
	drupalNotSecure    = 1
	drupalRevoked      = 2
	drupalNotSupported = 3
	drupalNotCurrent   = 4
)

// Drush manages Drupal contrib projects
type Drush struct{}

type drushProject struct {
	Name             string `json:"name"`
	ExistingVersion  string `json:"existing_version"`
	CandidateVersion string `json:"candidate_version"`
	Status           int    `json:"status"`
	StatusMsg        string `json:"status_msg"`
}

func (Drush) Tool() gateway.Tool { return gateway.ToolDrush }

func (Drush) SupportsSecurityOnly() bool { return true }

func (Drush) ListCommand() gateway.RemoteCommand {
	return gateway.RemoteCommand{
		Tool: gateway.ToolDrush,
		Args: []string{"pm-updatestatus", "--format=json"},
	}
}

func (Drush) ParseList(output string) ([]types.PackageStatus, error) {
	projects := map[string]drushProject{}
	if err := decodeJSON(output, &projects); err != nil {
		return nil, errors.Wrap(err, errors.ErrGatewayCommand, "cannot parse drush pm-updatestatus")
	}
	names := make([]string, 0, len(projects))
	for name := range projects {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]types.PackageStatus, 0, len(projects))
	for _, key := range names {
		p := projects[key]
		name := p.Name
		if name == "" {
			name = key
		}
		available := false
		switch p.Status {
		case drupalNotSecure, drupalRevoked, drupalNotSupported, drupalNotCurrent:
			available = p.CandidateVersion != p.ExistingVersion
		}
		out = append(out, types.PackageStatus{
			Name:            name,
			Version:         p.ExistingVersion,
			UpdateVersion:   p.CandidateVersion,
			UpdateAvailable: available,
			HasPackage:      p.CandidateVersion != "",
			Status:          p.StatusMsg,
			Security:        p.Status == drupalNotSecure,
		})
	}
	return out, nil
}

func (Drush) UpdateCommand(targets []string, opts UpdateOptions) gateway.RemoteCommand {
	args := []string{"pm-update", "-y", "--no-core"}
	if opts.SecurityOnly {
		args = append(args, "--security-only")
	}
	return gateway.RemoteCommand{
		Tool:     gateway.ToolDrush,
		Args:     append(args, targets...),
		Mutating: true,
	}
}

// ParseUpdate returns no per-item outcomes; drush prints a free-form log.
// Outcomes are derived from the status list fetched after the attempt.
func (Drush) ParseUpdate(gateway.CommandResult) map[string]ItemResult {
	return map[string]ItemResult{}
}

func (Drush) InfoCommand(name string) gateway.RemoteCommand {
	return gateway.RemoteCommand{
		Tool: gateway.ToolDrush,
		Args: []string{"pm-info", name, "--format=json", "--fields=name,version,status"},
	}
}

func (Drush) ParseInfo(output string) (types.PackageStatus, error) {
	info := map[string]struct {
		Name    string `json:"name"`
		Version string `json:"version"`
		Status  string `json:"status"`
	}{}
	if err := decodeJSON(output, &info); err != nil {
		return types.PackageStatus{}, errors.Wrap(err, errors.ErrGatewayCommand, "cannot parse drush pm-info")
	}
	for key, p := range info {
		name := p.Name
		if name == "" {
			name = key
		}
		return types.PackageStatus{Name: name, Version: p.Version, Status: p.Status}, nil
	}
	return types.PackageStatus{}, errors.New(errors.ErrNotFound, "drush pm-info returned no project")
}

func (Drush) HealthCommand() gateway.RemoteCommand {
	return gateway.RemoteCommand{
		Tool: gateway.ToolDrush,
		Args: []string{"status", "--fields=bootstrap", "--format=json"},
	}
}

// Healthy requires drush to exit cleanly and report a successful bootstrap
func (Drush) Healthy(res gateway.CommandResult) bool {
	if !res.Succeeded() {
		return false
	}
	var status struct {
		Bootstrap string `json:"bootstrap"`
	}
	if err := decodeJSON(res.Output, &status); err != nil {
		return false
	}
	return status.Bootstrap == "Successful"
}
