package orchestrator

import (
	"fmt"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/packages"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/types"
)

// upstreamUpdate lists pending upstream commits and applies them. Apply
// failures are recorded only; the following health check decides whether
// the job goes on.
func (r *run) upstreamUpdate() error {
	sec := &report.UpstreamSection{}
	r.rep.Sections.Upstream = sec

	commits, err := r.o.gw.UpstreamPendingLog(r.ctx, r.ref)
	if err != nil {
		sec.Status = report.StepFailed
		sec.Detail = errors.GetErrorMessage(err)
		r.logger.Warn().Err(err).Msg("Cannot list upstream updates")
		return nil
	}
	sec.Commits = commits
	if len(commits) == 0 {
		sec.Status = report.StepNothing
		return nil
	}
	if !r.mutating() {
		sec.Status = report.StepListed
		return nil
	}

	// The platform applies upstream updates in git mode only.
	if err := r.o.gw.SetConnectionMode(r.ctx, r.ref, types.ModeGit); err != nil {
		return errors.Wrapf(err, errors.ErrModeSwitchFailed, "cannot switch %s to git for upstream updates", r.ref)
	}

	done := logging.LogOperationStart(r.logger, "upstream")
	err = r.applyUpstream()
	done()
	if err != nil {
		sec.Status = report.StepFailed
		sec.Detail = errors.GetErrorMessage(err)
		r.logger.Warn().Err(err).Msg("Upstream apply reported a failure")
	} else {
		sec.Status = report.StepDone
	}

	if err := r.o.gw.SetConnectionMode(r.ctx, r.ref, types.ModeSFTP); err != nil {
		return errors.Wrapf(err, errors.ErrModeSwitchFailed, "cannot switch %s back to sftp", r.ref)
	}
	return nil
}

func (r *run) applyUpstream() error {
	op, err := r.o.gw.ApplyUpstreamUpdates(r.ctx, r.ref, gateway.UpstreamOptions{AcceptUpstream: true})
	if err != nil {
		return err
	}
	return op.Wait(r.ctx)
}

func (r *run) healthCheck() error {
	return r.probe(r.ref)
}

// probe runs the package manager's non-mutating status command on ref
func (r *run) probe(ref types.EnvironmentRef) error {
	res, err := r.o.gw.RunRemoteCommand(r.ctx, ref, r.mgr.HealthCommand())
	if err != nil {
		return errors.Wrapf(err, errors.ErrSiteUnhealthy, "health probe on %s could not run", ref)
	}
	if !r.mgr.Healthy(res) {
		return errors.Newf(errors.ErrSiteUnhealthy,
			"health probe on %s failed with exit status %d", ref, res.ExitStatus).
			WithDetail("output", res.Output)
	}
	r.logger.Debug().Str("target", ref.String()).Msg("Health probe passed")
	return nil
}

func (r *run) listPackages() ([]types.PackageStatus, error) {
	res, err := r.o.gw.RunRemoteCommand(r.ctx, r.ref, r.mgr.ListCommand())
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrGatewayCommand, "cannot list packages on %s", r.ref)
	}
	if !res.Succeeded() {
		return nil, errors.Newf(errors.ErrGatewayCommand,
			"package list on %s exited with %d", r.ref, res.ExitStatus)
	}
	return r.mgr.ParseList(res.Output)
}

func (r *run) packageUpdate() error {
	statuses, err := r.listPackages()
	if err != nil {
		return err
	}

	part := packages.PartitionStatuses(statuses, packages.PartitionOptions{
		Filter:       r.job.Packages,
		Exclude:      r.job.Exclude,
		AllowMajor:   r.job.MajorUpdate,
		SecurityOnly: r.job.SecurityOnly && r.mgr.SupportsSecurityOnly(),
	})
	r.statuses = statuses
	r.partition = &part
	r.rep.Sections.MajorUpdatesSkipped = &report.PackageListSection{Packages: part.MajorSkipped}

	sec := &report.PackageUpdatesSection{Unavailable: part.Unavailable}
	r.rep.Sections.PackageUpdates = sec

	if !r.mutating() {
		sec.Available = part.Targets
		return nil
	}
	if len(part.Targets) == 0 {
		r.logger.Info().Msg("No package updates to apply")
		return nil
	}

	r.packagesAttempted = true
	done := logging.LogOperationStart(r.logger, "package-update")
	r.applyPackages(part, sec)
	done()
	return nil
}

// applyPackages is the bounded retry loop. After each attempt the status
// list is fetched again and every pending target is classified: applied
// targets are done, transient failures are retried, terminal failures are
// recorded. Per-item failures never abort the job.
func (r *run) applyPackages(part packages.Partition, sec *report.PackageUpdatesSection) {
	before := make(map[string]types.PackageStatus, len(part.Targets))
	for _, t := range part.Targets {
		before[t.Name] = t
	}
	opts := packages.UpdateOptions{
		SecurityOnly: r.job.SecurityOnly && r.mgr.SupportsSecurityOnly(),
		AllowMajor:   r.job.MajorUpdate,
	}

	pending := part.TargetNames()
	for attempt := 1; attempt <= packages.MaxUpdateAttempts && len(pending) > 0; attempt++ {
		sec.Attempts = attempt
		r.logger.Info().Int("attempt", attempt).Strs("packages", pending).Msg("Updating packages")

		res, err := r.o.gw.RunRemoteCommand(r.ctx, r.ref, r.mgr.UpdateCommand(pending, opts))
		if err != nil {
			r.logger.Warn().Err(err).Int("attempt", attempt).Msg("Package update command could not run")
			res = gateway.CommandResult{ExitStatus: -1}
		}
		items := r.mgr.ParseUpdate(res)

		statuses, err := r.listPackages()
		if err != nil {
			r.logger.Error().Err(err).Msg("Cannot re-read package status after update")
			for _, name := range pending {
				sec.Failed = append(sec.Failed, failedItem(before[name], items[name], errors.GetErrorMessage(err)))
			}
			return
		}
		fresh := make(map[string]types.PackageStatus, len(statuses))
		for _, s := range statuses {
			fresh[s.Name] = s
		}

		var retry []string
		for _, name := range pending {
			item, reported := items[name]
			st, found := fresh[name]
			switch packages.Classify(item, reported, res.Succeeded(), st, found) {
			case packages.OutcomeApplied:
				newVersion := st.Version
				if newVersion == "" {
					newVersion = item.NewVersion
				}
				sec.Applied = append(sec.Applied, packages.ItemResult{
					Name:       name,
					OldVersion: before[name].Version,
					NewVersion: newVersion,
					Status:     packages.ItemUpdated,
				})
			case packages.OutcomeTransient:
				retry = append(retry, name)
			default:
				msg := "update did not apply"
				if !found {
					msg = "package no longer installed"
				}
				sec.Failed = append(sec.Failed, failedItem(before[name], item, msg))
			}
		}
		pending = retry
	}

	for _, name := range pending {
		sec.Failed = append(sec.Failed, failedItem(before[name], packages.ItemResult{},
			fmt.Sprintf("still failing after %d attempts", packages.MaxUpdateAttempts)))
	}
}

func failedItem(before types.PackageStatus, item packages.ItemResult, msg string) packages.ItemResult {
	if item.Message != "" {
		msg = item.Message
	}
	return packages.ItemResult{
		Name:       before.Name,
		OldVersion: before.Version,
		NewVersion: before.UpdateVersion,
		Status:     packages.ItemError,
		Message:    msg,
	}
}

// excludedPackageReport lists the excluded group of the partition. Excluded
// names absent from the status list are looked up one by one; a name that
// cannot be found is still listed. It is informational and never fails the job.
func (r *run) excludedPackageReport() error {
	sec := &report.PackageListSection{}
	r.rep.Sections.ExcludedPackages = sec

	listed := make(map[string]bool, len(r.statuses))
	for _, s := range r.statuses {
		listed[s.Name] = true
	}
	if r.partition != nil {
		sec.Packages = append(sec.Packages, r.partition.Excluded...)
	}

	for _, name := range r.job.Exclude {
		if listed[name] {
			continue
		}
		sec.Packages = append(sec.Packages, r.excludedInfo(name))
	}
	return nil
}

func (r *run) excludedInfo(name string) types.PackageStatus {
	res, err := r.o.gw.RunRemoteCommand(r.ctx, r.ref, r.mgr.InfoCommand(name))
	if err != nil || !res.Succeeded() {
		r.logger.Debug().Err(err).Str("package", name).Msg("Excluded package not found")
		return types.PackageStatus{Name: name}
	}
	info, err := r.mgr.ParseInfo(res.Output)
	if err != nil {
		r.logger.Debug().Err(err).Str("package", name).Msg("Cannot parse excluded package info")
		return types.PackageStatus{Name: name}
	}
	if info.Name == "" {
		info.Name = name
	}
	return info
}

func (r *run) commit() error {
	sec := &report.CommitSection{Message: r.job.AutoCommit}
	r.rep.Sections.Commit = sec

	count, err := r.o.gw.DiffCount(r.ctx, r.ref)
	if err != nil {
		sec.Status = report.StepFailed
		return errors.Wrapf(err, errors.ErrCommitFailed, "cannot read changes of %s", r.ref)
	}
	sec.Changes = count
	if count == 0 {
		sec.Status = report.StepNothing
		return errStop
	}
	if err := r.o.gw.CommitChanges(r.ctx, r.ref, r.job.AutoCommit); err != nil {
		sec.Status = report.StepFailed
		sec.Detail = errors.GetErrorMessage(err)
		return errors.Wrapf(err, errors.ErrCommitFailed, "commit on %s failed", r.ref)
	}
	sec.Status = report.StepDone
	return nil
}

func (r *run) deploySection(env string) *report.DeploySection {
	sec := &report.DeploySection{Env: env}
	switch env {
	case types.EnvTest:
		r.rep.Sections.DeployTest = sec
	case types.EnvLive:
		r.rep.Sections.DeployLive = sec
	}
	return sec
}

// autoDeploy cascades from dev. A failed deploy or an unhealthy target
// blocks every later target and fails the job. Nothing to deploy blocks
// later targets without failing it. Earlier successes stay recorded.
func (r *run) autoDeploy() error {
	if r.ref.Env != types.EnvDev {
		r.logger.Info().Msg("Deploys only cascade from dev, skipping")
		return nil
	}

	message := r.job.AutoCommit
	if message == "" {
		message = types.DefaultCommitMessage
	}

	targets := types.DeployTargets(r.job.AutoDeploy)
	for i, env := range targets {
		sec := r.deploySection(env)
		target := r.ref.WithEnv(env)

		done := logging.LogOperationStart(r.logger, "deploy-"+env)
		err := r.o.gw.Deploy(r.ctx, target, gateway.DeployOptions{
			ClearCache: true,
			UpdateDB:   true,
			Annotation: fmt.Sprintf("Deploy to %s - %s", env, message),
		})
		done()

		var failure error
		switch {
		case err == nil:
			sec.Status = report.StepDone
			sec.Detail = fmt.Sprintf("Deployed to %s environment.", env)
		case errors.IsErrorCode(err, errors.ErrNothingToDeploy):
			// Only a successful deploy moves code further, so the cascade
			// stops here without failing the job.
			sec.Status = report.StepNothing
			sec.Detail = "Nothing to deploy."
			for _, rest := range targets[i+1:] {
				blocked := r.deploySection(rest)
				blocked.Status = report.StepBlocked
				blocked.Detail = fmt.Sprintf("Deploy to %s blocked: nothing deployed to %s.", rest, env)
			}
			r.logger.Info().Str("target", target.String()).Msg("Nothing to deploy, cascade stopped")
			return nil
		default:
			sec.Status = report.StepFailed
			sec.Detail = errors.GetErrorMessage(err)
			failure = errors.Wrapf(err, errors.ErrDeployFailed, "deploy to %s failed", target)
		}
		if failure == nil {
			if perr := r.probe(target); perr != nil {
				sec.Detail += " Health probe failed."
				failure = perr
			}
		}

		if failure != nil {
			for _, rest := range targets[i+1:] {
				blocked := r.deploySection(rest)
				blocked.Status = report.StepBlocked
				blocked.Detail = fmt.Sprintf("Deploy to %s blocked by %s failure.", rest, env)
			}
			return failure
		}
	}
	return nil
}
