package fleet

import (
	"context"
	"regexp"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/types"
)

// Inventory lists the sites the authenticated user can reach
type Inventory interface {
	Sites(ctx context.Context) ([]types.SiteDescriptor, error)
	CurrentUserID(ctx context.Context) (string, error)
	Site(ctx context.Context, name string) (types.SiteDescriptor, error)
}

// Selectors narrow the inventory. Zero values do not filter.
type Selectors struct {
	TeamOnly     bool
	Organization string
	NameRegex    string
	Owner        string
}

// IsZero reports whether no selector is set
func (s Selectors) IsZero() bool {
	return s == Selectors{}
}

// Resolver applies selectors to an inventory
type Resolver struct {
	inventory Inventory
}

// NewResolver creates a resolver over inv
func NewResolver(inv Inventory) *Resolver {
	return &Resolver{inventory: inv}
}

// Resolve returns the sites matching every selector, in inventory order.
// No match is an EMPTY_RESULT error.
func (r *Resolver) Resolve(ctx context.Context, sel Selectors) ([]types.SiteDescriptor, error) {
	logger := logging.GetLogger("fleet")

	var nameRe *regexp.Regexp
	if sel.NameRegex != "" {
		re, err := regexp.Compile(sel.NameRegex)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrInvalidInput, "invalid name pattern %q", sel.NameRegex)
		}
		nameRe = re
	}

	owner := sel.Owner
	if owner == types.OwnerMe {
		id, err := r.inventory.CurrentUserID(ctx)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrGatewayCommand, "failed to resolve the current user")
		}
		owner = id
	}

	sites, err := r.inventory.Sites(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrGatewayCommand, "failed to list sites")
	}
	logger.Debug().Int("sites", len(sites)).Interface("selectors", sel).Msg("Resolving fleet")

	var out []types.SiteDescriptor
	for _, s := range sites {
		if sel.TeamOnly && !s.IsTeamMember() {
			continue
		}
		if sel.Organization != "" && !s.InOrganization(sel.Organization) {
			continue
		}
		if nameRe != nil && !nameRe.MatchString(s.Name) {
			continue
		}
		if owner != "" && s.Owner != owner {
			continue
		}
		out = append(out, s)
	}

	if len(out) == 0 {
		return nil, errors.New(errors.ErrEmptyResult, "no sites matched")
	}
	logger.Info().Int("matched", len(out)).Msg("Fleet resolved")
	return out, nil
}
