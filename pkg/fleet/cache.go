package fleet

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/types"
)

// cacheFile is the on-disk shape of the inventory cache
type cacheFile struct {
	FetchedAt time.Time              `json:"fetched_at"`
	UserID    string                 `json:"user_id,omitempty"`
	Sites     []types.SiteDescriptor `json:"sites"`
}

// CachedInventory serves the site list from a JSON file when UseCache is
// set and the file exists. Every live fetch rewrites the file.
type CachedInventory struct {
	Inventory Inventory
	Path      string
	UseCache  bool

	loaded *cacheFile
}

// NewCachedInventory wraps inv with a cache under the XDG cache dir
func NewCachedInventory(inv Inventory, useCache bool) *CachedInventory {
	return &CachedInventory{Inventory: inv, Path: DefaultCachePath(), UseCache: useCache}
}

// DefaultCachePath returns the inventory cache location
func DefaultCachePath() string {
	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = xdg.CacheHome
	}
	return filepath.Join(cacheHome, "mwu", "sites.json")
}

func (c *CachedInventory) Sites(ctx context.Context) ([]types.SiteDescriptor, error) {
	logger := logging.GetLogger("fleet.cache")

	if cf := c.read(); cf != nil {
		logger.Debug().Str("path", c.Path).Time("fetched_at", cf.FetchedAt).Msg("Using cached inventory")
		return cf.Sites, nil
	}

	sites, err := c.Inventory.Sites(ctx)
	if err != nil {
		return nil, err
	}
	cf := &cacheFile{FetchedAt: time.Now().UTC(), Sites: sites}
	if c.loaded != nil {
		cf.UserID = c.loaded.UserID
	}
	if err := c.write(cf); err != nil {
		logger.Warn().Err(err).Str("path", c.Path).Msg("Failed to write inventory cache")
	}
	return sites, nil
}

func (c *CachedInventory) CurrentUserID(ctx context.Context) (string, error) {
	if cf := c.read(); cf != nil && cf.UserID != "" {
		return cf.UserID, nil
	}
	id, err := c.Inventory.CurrentUserID(ctx)
	if err != nil {
		return "", err
	}
	if c.loaded == nil {
		c.loaded = &cacheFile{}
	}
	c.loaded.UserID = id
	return id, nil
}

// Site looks the name up in the cached list before asking the inventory
func (c *CachedInventory) Site(ctx context.Context, name string) (types.SiteDescriptor, error) {
	if cf := c.read(); cf != nil {
		for _, s := range cf.Sites {
			if s.Name == name {
				return s, nil
			}
		}
	}
	return c.Inventory.Site(ctx, name)
}

func (c *CachedInventory) read() *cacheFile {
	if !c.UseCache {
		return nil
	}
	if c.loaded != nil && c.loaded.Sites != nil {
		return c.loaded
	}
	data, err := os.ReadFile(c.Path)
	if err != nil {
		return nil
	}
	var cf cacheFile
	if err := json.Unmarshal(data, &cf); err != nil || cf.Sites == nil {
		logger := logging.GetLogger("fleet.cache")
		logger.Warn().Str("path", c.Path).Msg("Ignoring unreadable inventory cache")
		return nil
	}
	c.loaded = &cf
	return c.loaded
}

func (c *CachedInventory) write(cf *cacheFile) error {
	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to create cache directory")
	}
	data, err := json.MarshalIndent(cf, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to encode inventory cache")
	}
	if err := os.WriteFile(c.Path, data, 0644); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to write inventory cache")
	}
	c.loaded = cf
	return nil
}
