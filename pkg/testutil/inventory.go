package testutil

import (
	"context"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/types"
)

// FakeInventory serves a fixed list of sites
type FakeInventory struct {
	SitesList []types.SiteDescriptor
	UserID    string
	Err       error
	Fetches   int
}

func (f *FakeInventory) Sites(context.Context) ([]types.SiteDescriptor, error) {
	f.Fetches++
	if f.Err != nil {
		return nil, f.Err
	}
	return append([]types.SiteDescriptor(nil), f.SitesList...), nil
}

func (f *FakeInventory) CurrentUserID(context.Context) (string, error) {
	return f.UserID, nil
}

func (f *FakeInventory) Site(_ context.Context, name string) (types.SiteDescriptor, error) {
	for _, s := range f.SitesList {
		if s.Name == name {
			return s, nil
		}
	}
	return types.SiteDescriptor{}, errors.Newf(errors.ErrNotFound, "site %q not found", name)
}
