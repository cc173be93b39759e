// Package sites previews which sites a set of selectors picks from the
// inventory, without touching any of them.
package sites

import (
	"context"

	"github.com/arthur-debert/mwu/pkg/fleet"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/terminus"
	"github.com/arthur-debert/mwu/pkg/types"
)

// SitesOptions holds options for the sites command
type SitesOptions struct {
	Selectors fleet.Selectors
	Cached    bool

	// Inventory overrides the terminus inventory
	Inventory fleet.Inventory
}

// Sites resolves the selectors against the inventory
func Sites(ctx context.Context, opts SitesOptions) ([]types.SiteDescriptor, error) {
	logger := logging.GetLogger("commands.sites")

	inv := opts.Inventory
	if inv == nil {
		inv = terminus.NewInventory(terminus.NewExecRunner(""))
	}
	sites, err := fleet.NewResolver(fleet.NewCachedInventory(inv, opts.Cached)).Resolve(ctx, opts.Selectors)
	if err != nil {
		return nil, err
	}

	logger.Debug().Int("count", len(sites)).Msg("Sites resolved")
	return sites, nil
}
