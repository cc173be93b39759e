// Package update runs the update workflow over every queued site.
package update

import (
	"context"
	"io"
	"time"

	"github.com/arthur-debert/mwu/pkg/config"
	"github.com/arthur-debert/mwu/pkg/display"
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/fleet"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/metrics"
	"github.com/arthur-debert/mwu/pkg/notify"
	"github.com/arthur-debert/mwu/pkg/orchestrator"
	"github.com/arthur-debert/mwu/pkg/queue"
	"github.com/arthur-debert/mwu/pkg/terminus"
	"github.com/google/uuid"
)

// UpdateOptions holds options for the update command
type UpdateOptions struct {
	Input config.Input

	// Runner executes terminus. Defaults to the terminus binary.
	Runner terminus.Runner

	// Gateway and Inventory override the terminus adapters
	Gateway   gateway.Gateway
	Inventory fleet.Inventory

	Confirmer orchestrator.Confirmer

	// Sender overrides the Slack webhook
	Sender notify.Sender

	Renderer *display.Renderer

	// MetricsFile receives the run's metrics in Prometheus text format
	MetricsFile string

	RunID string
}

// UpdateResult is what one run did
type UpdateResult struct {
	RunID    string
	Config   *config.RunConfig
	Results  []display.Result
	Notified int

	// Interrupted is set when the run stopped before the queue was empty
	Interrupted bool
}

// Aborted counts the jobs that ended in error
func (r *UpdateResult) Aborted() int {
	n := 0
	for _, res := range r.Results {
		if res.Report.Error {
			n++
		}
	}
	return n
}

// Update resolves the run configuration, builds the queue and runs every job
// in order. Only fleet-level problems are returned as errors; job failures
// live in the reports. Cancelling ctx stops the run between jobs.
func Update(ctx context.Context, opts UpdateOptions) (*UpdateResult, error) {
	runID := opts.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	logging.WithRunID(runID)
	logger := logging.GetLogger("commands.update")

	rc, err := config.Resolve(opts.Input)
	if err != nil {
		return nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = terminus.NewExecRunner("")
	}
	gw := opts.Gateway
	if gw == nil {
		gw = terminus.NewGateway(runner)
	}
	inv := opts.Inventory
	if inv == nil {
		inv = terminus.NewInventory(runner)
	}
	inv = fleet.NewCachedInventory(inv, rc.Cached)

	jobs, err := queue.NewBuilder(inv).Build(ctx, rc)
	if err != nil {
		return nil, err
	}

	renderer := opts.Renderer
	if renderer == nil {
		renderer = display.New(io.Discard, display.FormatText)
	}
	if err := renderer.Queue(jobs); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render queue")
	}

	var notifier *notify.Notifier
	if rc.Slack.Enabled() {
		notifier = notify.NewNotifier(rc.Slack, opts.Sender, gw, runID)
	}
	recorder := metrics.NewRecorder()
	orch := orchestrator.New(orchestrator.Options{
		Gateway:   gw,
		Confirmer: opts.Confirmer,
	})

	result := &UpdateResult{RunID: runID, Config: rc}
	for i, job := range jobs {
		if ctx.Err() != nil {
			logger.Warn().Int("remaining", len(jobs)-i).Msg("Run interrupted, skipping remaining sites")
			result.Interrupted = true
			break
		}

		start := time.Now()
		rep := orch.Run(ctx, job)
		res := display.Result{Job: job, Report: rep, Duration: time.Since(start)}
		result.Results = append(result.Results, res)
		recorder.ObserveJob(rep, res.Duration)

		if err := renderer.Job(res); err != nil {
			logger.Warn().Err(err).Msg("Failed to render job report")
		}

		if notifier != nil {
			sent, err := notifier.Notify(context.WithoutCancel(ctx), job, rep)
			recorder.ObserveNotification(sent, err)
			result.Notified += sent
		}
	}

	if err := renderer.Summary(result.Results); err != nil {
		logger.Warn().Err(err).Msg("Failed to render summary")
	}

	if opts.MetricsFile != "" {
		if err := recorder.WriteFile(opts.MetricsFile); err != nil {
			logger.Warn().Err(err).Str("path", opts.MetricsFile).Msg("Failed to write metrics")
		}
	}

	logger.Info().
		Int("jobs", len(result.Results)).
		Int("aborted", result.Aborted()).
		Int("notified", result.Notified).
		Msg("Run finished")
	return result, nil
}
