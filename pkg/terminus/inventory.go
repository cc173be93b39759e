package terminus

import (
	"context"
	"sort"
	"strings"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/rs/zerolog"
)

// Inventory implements fleet.Inventory with site:list, site:info and auth:whoami
type Inventory struct {
	runner Runner
	gw     *Gateway
	logger zerolog.Logger
}

// NewInventory creates an inventory over runner
func NewInventory(runner Runner) *Inventory {
	return &Inventory{
		runner: runner,
		gw:     NewGateway(runner),
		logger: logging.GetLogger("terminus.inventory"),
	}
}

type siteRow struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Framework   string      `json:"framework"`
	Owner       string      `json:"owner"`
	Memberships string      `json:"memberships"`
	Frozen      interface{} `json:"frozen"`
}

func (r siteRow) descriptor() types.SiteDescriptor {
	return types.SiteDescriptor{
		ID:          r.ID,
		Name:        r.Name,
		Framework:   r.Framework,
		Owner:       r.Owner,
		Memberships: parseMemberships(r.Memberships),
		Frozen:      truthy(r.Frozen),
	}
}

// Sites lists every site the user can reach, sorted by name
func (inv *Inventory) Sites(ctx context.Context) ([]types.SiteDescriptor, error) {
	var rows map[string]siteRow
	if err := inv.gw.runJSON(ctx, &rows, "site:list"); err != nil {
		return nil, err
	}
	sites := make([]types.SiteDescriptor, 0, len(rows))
	for id, r := range rows {
		if r.ID == "" {
			r.ID = id
		}
		sites = append(sites, r.descriptor())
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].Name < sites[j].Name })
	inv.logger.Debug().Int("sites", len(sites)).Msg("Fetched site list")
	return sites, nil
}

func (inv *Inventory) Site(ctx context.Context, name string) (types.SiteDescriptor, error) {
	var row siteRow
	if err := inv.gw.runJSON(ctx, &row, "site:info", name); err != nil {
		return types.SiteDescriptor{}, errors.Wrapf(err, errors.ErrNotFound, "site %q not found", name)
	}
	return row.descriptor(), nil
}

func (inv *Inventory) CurrentUserID(ctx context.Context) (string, error) {
	var who struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	}
	if err := inv.gw.runJSON(ctx, &who, "auth:whoami"); err != nil {
		return "", err
	}
	if who.ID == "" {
		return "", errors.New(errors.ErrGatewayCommand, "not logged in to terminus")
	}
	return who.ID, nil
}

// parseMemberships reads the site:list memberships column: comma separated
// "id: name" pairs where the name Team marks a team membership.
func parseMemberships(s string) []types.Membership {
	var out []types.Membership
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, name, found := strings.Cut(part, ":")
		if !found {
			name = id
		}
		m := types.Membership{ID: strings.TrimSpace(id), Name: strings.TrimSpace(name), Type: types.MembershipOrganization}
		if strings.EqualFold(m.Name, "team") {
			m.Type = types.MembershipTeam
		}
		out = append(out, m)
	}
	return out
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true" || t == "1"
	case float64:
		return t != 0
	}
	return false
}

func sortUpstream(rows []upstreamRow) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Datetime != rows[j].Datetime {
			return rows[i].Datetime < rows[j].Datetime
		}
		return rows[i].Hash < rows[j].Hash
	})
}
