// Package queue turns a run configuration into the ordered list of jobs
// the orchestrator executes.
package queue

import (
	"context"

	"github.com/arthur-debert/mwu/pkg/config"
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/fleet"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/rs/zerolog"
)

// Builder builds job queues against an inventory
type Builder struct {
	inventory fleet.Inventory
}

// NewBuilder creates a builder. The inventory resolves selectors in flag
// mode and frameworks in file mode.
func NewBuilder(inv fleet.Inventory) *Builder {
	return &Builder{inventory: inv}
}

// Build returns the jobs of a run in input order: fleet order in flag
// mode, file order in file mode. An empty queue is EMPTY_RESULT.
func (b *Builder) Build(ctx context.Context, rc *config.RunConfig) ([]types.UpdateJobSpec, error) {
	var (
		jobs []types.UpdateJobSpec
		err  error
	)
	switch rc.Mode {
	case config.ModeFile:
		jobs, err = b.fromFile(ctx, rc)
	default:
		jobs, err = b.fromFleet(ctx, rc)
	}
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, errors.New(errors.ErrEmptyResult, "no sites matched")
	}
	return jobs, nil
}

func (b *Builder) fromFleet(ctx context.Context, rc *config.RunConfig) ([]types.UpdateJobSpec, error) {
	sites, err := fleet.NewResolver(b.inventory).Resolve(ctx, rc.Selectors)
	if err != nil {
		return nil, err
	}

	q := newQueue()
	for _, site := range sites {
		if rc.IsSkipped(site.Name) {
			q.logger.Info().Str("site", site.Name).Msg("Site is on the skip list")
			continue
		}
		settings, err := rc.SettingsFor(rc.SiteBlock(site.Name))
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "settings for %s", site.Name)
		}
		q.add(site.Name, site.Framework, settings)
	}
	return q.jobs, nil
}

func (b *Builder) fromFile(ctx context.Context, rc *config.RunConfig) ([]types.UpdateJobSpec, error) {
	q := newQueue()
	for i, block := range rc.Sites {
		name := config.BlockName(block)
		if name == "" {
			q.logger.Warn().Int("entry", i).Msg("Ignoring site entry without a name")
			continue
		}
		if rc.IsSkipped(name) {
			q.logger.Info().Str("site", name).Msg("Site is on the skip list")
			continue
		}
		settings, err := rc.SettingsFor(block)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigInvalid, "settings for %s", name)
		}

		framework := ""
		site, err := b.inventory.Site(ctx, name)
		if err != nil {
			q.logger.Warn().Err(err).Str("site", name).Msg("Framework lookup failed")
		} else {
			framework = site.Framework
		}
		q.add(name, framework, settings)
	}
	return q.jobs, nil
}

type queue struct {
	jobs   []types.UpdateJobSpec
	seen   map[types.EnvironmentRef]bool
	logger zerolog.Logger
}

func newQueue() *queue {
	return &queue{seen: map[types.EnvironmentRef]bool{}, logger: logging.GetLogger("queue")}
}

func (q *queue) add(site, framework string, settings types.Settings) {
	ref := types.EnvironmentRef{Site: site, Env: settings.Env}
	if q.seen[ref] {
		q.logger.Warn().Str("ref", ref.String()).Msg("Ignoring duplicate site entry")
		return
	}
	q.seen[ref] = true
	q.jobs = append(q.jobs, types.UpdateJobSpec{Ref: ref, Framework: framework, Settings: settings})
	q.logger.Debug().Str("ref", ref.String()).Str("framework", framework).Msg("Queued job")
}
