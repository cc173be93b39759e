package orchestrator

import (
	"context"
	"fmt"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/packages"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/rs/zerolog"
)

// Confirmer asks the operator a yes/no question
type Confirmer interface {
	Confirm(message string) bool
}

// Options contains configuration for the orchestrator
type Options struct {
	Gateway   gateway.Gateway
	Confirmer Confirmer

	// Managers resolves the package manager of a workflow. Defaults to packages.For.
	Managers func(types.Workflow) (packages.Manager, error)

	Logger *zerolog.Logger
}

// Orchestrator runs update jobs one at a time. It keeps no state between jobs.
type Orchestrator struct {
	gw        gateway.Gateway
	confirmer Confirmer
	managers  func(types.Workflow) (packages.Manager, error)

	// logger replaces the per-job logger when set
	logger *zerolog.Logger
}

// New creates an orchestrator
func New(opts Options) *Orchestrator {
	managers := opts.Managers
	if managers == nil {
		managers = packages.For
	}
	return &Orchestrator{
		gw:        opts.Gateway,
		confirmer: opts.Confirmer,
		managers:  managers,
		logger:    opts.Logger,
	}
}

// Run executes the workflow for one job and always returns a report.
//
// Cancellation of ctx is ignored once the job has started: remote operations
// run to completion, so callers check ctx between jobs instead.
func (o *Orchestrator) Run(ctx context.Context, job types.UpdateJobSpec) *report.Report {
	logger := logging.ForJob("orchestrator", job.Ref.Site, job.Ref.Env)
	if o.logger != nil {
		logger = *o.logger
	}
	r := &run{
		o:      o,
		ctx:    context.WithoutCancel(ctx),
		job:    job,
		ref:    job.Ref,
		logger: logger,
		rep: &report.Report{
			Ref:        job.Ref,
			ReportOnly: job.ReportOnly(),
		},
	}
	r.execute()
	return r.rep
}

// errDeclined ends the job cleanly when the operator answers no
var errDeclined = fmt.Errorf("declined")

// errStop ends the step sequence without an error
var errStop = fmt.Errorf("stop")

type step struct {
	state report.State
	guard func() bool
	run   func() error
}

// run is the per-job execution state. It is discarded when the job ends.
type run struct {
	o      *Orchestrator
	ctx    context.Context
	job    types.UpdateJobSpec
	ref    types.EnvironmentRef
	mgr    packages.Manager
	rep    *report.Report
	logger zerolog.Logger

	// statuses is the package status list the partition was built from
	statuses  []types.PackageStatus
	partition *packages.Partition

	priorMode         types.ConnectionMode
	mutationBegan     bool
	packagesAttempted bool
}

func (r *run) mutating() bool {
	return !r.job.ReportOnly()
}

func always() bool { return true }

func (r *run) steps() []step {
	return []step{
		{report.StateValidateFramework, always, r.validateFramework},
		{report.StateCheckPendingChanges, always, r.checkPendingChanges},
		{report.StateConfirmPrompt, func() bool { return r.mutating() && r.job.Confirm }, r.confirmPrompt},
		{report.StateEnsureMutableMode, r.mutating, r.ensureMutableMode},
		{report.StateBackup, func() bool { return r.mutating() && r.job.Backup != "" }, r.backup},
		{report.StateUpstreamUpdate, func() bool { return r.job.Upstream }, r.upstreamUpdate},
		{report.StateHealthCheckUpstream, always, r.healthCheck},
		{report.StatePackageUpdate, func() bool { return r.job.Update }, r.packageUpdate},
		{report.StateHealthCheckPackages, func() bool { return r.packagesAttempted }, r.healthCheck},
		{report.StateExcludedPackageReport, func() bool { return len(r.job.Exclude) > 0 }, r.excludedPackageReport},
		{report.StateCommit, func() bool { return r.mutating() && r.job.AutoCommit != "" }, r.commit},
		{report.StateAutoDeploy, func() bool { return r.mutating() && len(r.job.AutoDeploy) > 0 }, r.autoDeploy},
	}
}

func (r *run) execute() {
	r.rep.Enter(report.StateStart)
	r.logger.Info().Bool("report_only", r.job.ReportOnly()).Msg("Update started")

	for _, s := range r.steps() {
		if !s.guard() {
			continue
		}
		r.rep.Enter(s.state)
		err := s.run()
		if err == nil {
			continue
		}
		if err == errDeclined {
			r.rep.Declined = true
			r.logger.Info().Msg("Update declined by operator")
			break
		}
		if err == errStop {
			break
		}
		r.rep.Fail(err)
		r.logger.Error().Err(err).Str("state", string(s.state)).Msg("Update aborted")
		break
	}

	r.restoreGitMode()

	if r.rep.Error {
		r.rep.Enter(report.StateAborted)
		return
	}
	r.rep.Enter(report.StateCompleted)
	r.logger.Info().Msg("Update finished")
}

func (r *run) validateFramework() error {
	if !r.job.Workflow.Accepts(r.job.Framework) {
		return errors.Newf(errors.ErrInvalidFramework,
			"site %s uses framework %q, expected one of %v", r.ref.Site, r.job.Framework, r.job.Workflow.Frameworks())
	}
	if r.job.Upstream && r.ref.Env != types.EnvDev {
		return errors.Newf(errors.ErrConfigInvalid,
			"upstream updates are only applied to dev, not %s", r.ref.Env)
	}
	mgr, err := r.o.managers(r.job.Workflow)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidFramework, "no package manager for workflow")
	}
	r.mgr = mgr
	return nil
}

func (r *run) checkPendingChanges() error {
	mode, err := r.o.gw.ConnectionMode(r.ctx, r.ref)
	if err != nil {
		return errors.Wrapf(err, errors.ErrGatewayCommand, "cannot read connection mode of %s", r.ref)
	}
	r.priorMode = mode
	if mode != types.ModeSFTP {
		return nil
	}
	count, err := r.o.gw.DiffCount(r.ctx, r.ref)
	if err != nil {
		return errors.Wrapf(err, errors.ErrGatewayCommand, "cannot read pending changes of %s", r.ref)
	}
	if count > 0 {
		return errors.Newf(errors.ErrPendingChanges,
			"%s has %d uncommitted changes in sftp mode", r.ref, count).WithDetail("changes", count)
	}
	return nil
}

func (r *run) confirmPrompt() error {
	msg := fmt.Sprintf("Apply updates to %s environment of %s site?", r.ref.Env, r.ref.Site)
	if r.o.confirmer == nil || !r.o.confirmer.Confirm(msg) {
		return errDeclined
	}
	return nil
}

func (r *run) ensureMutableMode() error {
	r.mutationBegan = true
	if r.priorMode == types.ModeSFTP {
		return nil
	}
	if err := r.o.gw.SetConnectionMode(r.ctx, r.ref, types.ModeSFTP); err != nil {
		return errors.Wrapf(err, errors.ErrModeSwitchFailed, "cannot switch %s to sftp", r.ref)
	}
	return nil
}

func (r *run) backup() error {
	keep := r.job.BackupKeepFor
	sec := &report.BackupSection{Element: r.job.Backup, KeepFor: keep}
	r.rep.Sections.Backup = sec

	done := logging.LogOperationStart(r.logger, "backup")
	err := r.o.gw.CreateBackup(r.ctx, r.ref, gateway.BackupOptions{Element: r.job.Backup, KeepFor: keep})
	done()
	if err != nil {
		sec.Status = report.StepFailed
		sec.Detail = errors.GetErrorMessage(err)
		return errors.Wrapf(err, errors.ErrBackupFailed, "backup of %s failed", r.ref)
	}
	sec.Status = report.StepDone
	return nil
}

// restoreGitMode runs on every exit path once mutation began
func (r *run) restoreGitMode() {
	if !r.mutationBegan {
		return
	}
	r.rep.Enter(report.StateRestoreGitMode)
	if err := r.o.gw.SetConnectionMode(r.ctx, r.ref, types.ModeGit); err != nil {
		r.logger.Error().Err(err).Msg("Cannot restore git mode")
		r.rep.Fail(errors.Wrapf(err, errors.ErrModeSwitchFailed, "cannot restore %s to git", r.ref))
	}
}
