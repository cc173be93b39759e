// pkg/orchestrator/orchestrator_test.go
// TEST TYPE: Orchestration Test
// DEPENDENCIES: testutil.FakeGateway, simulated wp-cli site
// PURPOSE: Test step ordering, guards, mode restoration and deploy cascading

package orchestrator_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/packages"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/testutil"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_SuccessfulUpdate(t *testing.T) {
	// Arrange
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw, available("akismet", "4.1", "4.2"), &plugin{Name: "hello", Status: "active", Version: "1.7", Update: "none"})
	job := wpJob(nil)

	// Act
	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	// Assert
	require.False(t, rep.Error, rep.Detail)
	assert.Equal(t, []report.State{
		report.StateStart,
		report.StateValidateFramework,
		report.StateCheckPendingChanges,
		report.StateEnsureMutableMode,
		report.StateBackup,
		report.StateHealthCheckUpstream,
		report.StatePackageUpdate,
		report.StateHealthCheckPackages,
		report.StateCommit,
		report.StateAutoDeploy,
		report.StateRestoreGitMode,
		report.StateCompleted,
	}, rep.States)

	require.NotNil(t, rep.Sections.PackageUpdates)
	require.Len(t, rep.Sections.PackageUpdates.Applied, 1)
	assert.Equal(t, packages.ItemResult{Name: "akismet", OldVersion: "4.1", NewVersion: "4.2", Status: packages.ItemUpdated},
		rep.Sections.PackageUpdates.Applied[0])
	assert.Equal(t, 1, rep.Sections.PackageUpdates.Attempts)

	assert.Equal(t, report.StepDone, rep.Sections.Backup.Status)
	assert.Equal(t, report.StepDone, rep.Sections.Commit.Status)
	assert.Equal(t, report.StepDone, rep.Sections.DeployTest.Status)
	assert.Equal(t, report.StepDone, rep.Sections.DeployLive.Status)

	commits := gw.CallsTo("CommitChanges")
	require.Len(t, commits, 1)
	assert.Equal(t, []string{"Plugin updates"}, commits[0].Args)

	deploys := gw.CallsTo("Deploy")
	require.Len(t, deploys, 2)
	assert.Equal(t, "acme.test", deploys[0].Ref.String())
	assert.Equal(t, "acme.live", deploys[1].Ref.String())
	assert.Equal(t, []string{"Deploy to live - Plugin updates"}, deploys[1].Args)
}

func TestRun_ReportOnlyPerformsNoMutations(t *testing.T) {
	// Arrange
	gw := testutil.NewFakeGateway(types.ModeGit)
	gw.UpstreamLog = []gateway.UpstreamCommit{{Author: "Pantheon", Message: "Update to WordPress 6.4"}}
	site := newWPSite(gw,
		available("akismet", "4.1", "4.2"),
		&plugin{Name: "premium", Status: "active", Version: "1.0", Update: "available", UpdateVersion: "1.1", UpdatePackage: "none"},
		available("woocommerce", "4.9.1", "5.0.0"),
		available("jetpack", "9.0", "9.1"),
	)
	job := wpJob(func(j *types.UpdateJobSpec) {
		j.Report = true
		j.Upstream = true
		j.Confirm = true
		j.Exclude = []string{"jetpack"}
	})
	confirmer := &testutil.FakeConfirmer{}

	statuses, err := packages.WPCLI{}.ParseList(mustList(t, site))
	require.NoError(t, err)
	want := packages.PartitionStatuses(statuses, packages.PartitionOptions{Exclude: job.Exclude})

	// Act
	rep := newOrchestrator(gw, confirmer).Run(context.Background(), job)

	// Assert
	require.False(t, rep.Error, rep.Detail)
	assert.True(t, rep.ReportOnly)
	assert.Empty(t, gw.MutatingCalls(), "report-only must not mutate")
	assert.Empty(t, gw.CallsTo("SetConnectionMode"))
	assert.Empty(t, confirmer.Prompts, "report-only never prompts")

	require.NotNil(t, rep.Sections.PackageUpdates)
	assert.Equal(t, want.Targets, rep.Sections.PackageUpdates.Available)
	assert.Equal(t, want.Unavailable, rep.Sections.PackageUpdates.Unavailable)
	assert.Equal(t, want.MajorSkipped, rep.Sections.MajorUpdatesSkipped.Packages)
	assert.Empty(t, rep.Sections.PackageUpdates.Applied)

	assert.Equal(t, report.StepListed, rep.Sections.Upstream.Status)
	assert.Len(t, rep.Sections.Upstream.Commits, 1)
	assert.Equal(t, want.Excluded, rep.Sections.ExcludedPackages.Packages)
	assert.Empty(t, remoteArgs(gw.Calls, "wp plugin get"), "listed excluded names need no lookup")

	assert.Nil(t, rep.Sections.Backup)
	assert.Nil(t, rep.Sections.Commit)
	assert.Nil(t, rep.Sections.DeployTest)
	assert.False(t, rep.Visited(report.StateRestoreGitMode))
}

func mustList(t *testing.T, s *wpSite) string {
	t.Helper()
	res, err := s.remote(types.EnvironmentRef{Site: "acme", Env: "dev"}, packages.WPCLI{}.ListCommand())
	require.NoError(t, err)
	return res.Output
}

func TestRun_GitRestoreIsLastCall(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(gw *testutil.FakeGateway, site *wpSite)
		reason errors.ErrorCode
	}{
		{
			name:  "success",
			setup: func(*testutil.FakeGateway, *wpSite) {},
		},
		{
			name:   "backup_fails",
			setup:  func(gw *testutil.FakeGateway, _ *wpSite) { gw.BackupErr = errors.New(errors.ErrGatewayCommand, "workflow failed") },
			reason: errors.ErrBackupFailed,
		},
		{
			name:   "unhealthy_after_packages",
			setup:  func(_ *testutil.FakeGateway, s *wpSite) { s.unhealthyAfterUpdate = true },
			reason: errors.ErrSiteUnhealthy,
		},
		{
			name:   "commit_fails",
			setup:  func(gw *testutil.FakeGateway, _ *wpSite) { gw.CommitErr = errors.New(errors.ErrGatewayCommand, "rejected") },
			reason: errors.ErrCommitFailed,
		},
		{
			name: "deploy_fails",
			setup: func(gw *testutil.FakeGateway, _ *wpSite) {
				gw.DeployErrs[types.EnvTest] = errors.New(errors.ErrGatewayCommand, "deploy workflow failed")
			},
			reason: errors.ErrDeployFailed,
		},
		{
			name:   "test_unhealthy_after_deploy",
			setup:  func(_ *testutil.FakeGateway, s *wpSite) { s.unhealthy[types.EnvTest] = true },
			reason: errors.ErrSiteUnhealthy,
		},
		{
			name:  "already_in_sftp_without_changes",
			setup: func(gw *testutil.FakeGateway, _ *wpSite) { gw.Modes[types.EnvDev] = types.ModeSFTP },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewFakeGateway(types.ModeGit)
			site := newWPSite(gw, available("akismet", "4.1", "4.2"))
			tt.setup(gw, site)

			rep := newOrchestrator(gw, nil).Run(context.Background(), wpJob(nil))

			last := gw.LastCall()
			assert.Equal(t, "SetConnectionMode", last.Method, "last call was %s", last)
			assert.Equal(t, types.ModeGit, last.Mode)
			assert.Equal(t, "acme.dev", last.Ref.String())

			if tt.reason == "" {
				assert.False(t, rep.Error, rep.Detail)
				assert.Equal(t, report.StateCompleted, rep.Final())
			} else {
				assert.True(t, rep.Error)
				assert.Equal(t, tt.reason, rep.Reason)
				assert.Equal(t, report.StateAborted, rep.Final())
			}
		})
	}
}

func TestRun_LiveDeployRequiresHealthyTest(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(gw *testutil.FakeGateway, site *wpSite)
		wantLive   bool
		wantError  bool
		testStatus report.StepStatus
		liveStatus report.StepStatus
	}{
		{
			name:       "test_deploy_and_probe_succeed",
			setup:      func(*testutil.FakeGateway, *wpSite) {},
			wantLive:   true,
			testStatus: report.StepDone,
			liveStatus: report.StepDone,
		},
		{
			name: "test_deploy_fails",
			setup: func(gw *testutil.FakeGateway, _ *wpSite) {
				gw.DeployErrs[types.EnvTest] = errors.New(errors.ErrGatewayCommand, "failed")
			},
			wantError:  true,
			testStatus: report.StepFailed,
			liveStatus: report.StepBlocked,
		},
		{
			name:       "test_probe_fails",
			setup:      func(_ *testutil.FakeGateway, s *wpSite) { s.unhealthy[types.EnvTest] = true },
			wantError:  true,
			testStatus: report.StepDone,
			liveStatus: report.StepBlocked,
		},
		{
			name: "nothing_to_deploy_on_test_blocks_live_without_error",
			setup: func(gw *testutil.FakeGateway, _ *wpSite) {
				gw.DeployErrs[types.EnvTest] = testutil.NothingToDeploy(types.EnvTest)
			},
			testStatus: report.StepNothing,
			liveStatus: report.StepBlocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := testutil.NewFakeGateway(types.ModeGit)
			site := newWPSite(gw, available("akismet", "4.1", "4.2"))
			tt.setup(gw, site)

			rep := newOrchestrator(gw, nil).Run(context.Background(), wpJob(nil))

			var liveDeploys int
			for _, c := range gw.CallsTo("Deploy") {
				if c.Ref.Env == types.EnvLive {
					liveDeploys++
				}
			}
			if tt.wantLive {
				assert.Equal(t, 1, liveDeploys)
				probes := remoteArgs(gw.Calls, "wp plugin status")
				assert.NotEmpty(t, probes)
			} else {
				assert.Zero(t, liveDeploys)
			}
			assert.Equal(t, tt.wantError, rep.Error, rep.Detail)
			require.NotNil(t, rep.Sections.DeployTest)
			assert.Equal(t, tt.testStatus, rep.Sections.DeployTest.Status)
			require.NotNil(t, rep.Sections.DeployLive)
			assert.Equal(t, tt.liveStatus, rep.Sections.DeployLive.Status)
			assert.Equal(t, types.ModeGit, gw.LastCall().Mode)
		})
	}
}

func TestRun_NothingToDeployOnTestStopsCascade(t *testing.T) {
	// Arrange
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw, available("akismet", "4.1", "4.2"))
	gw.DeployErrs[types.EnvTest] = testutil.NothingToDeploy(types.EnvTest)

	// Act
	rep := newOrchestrator(gw, nil).Run(context.Background(), wpJob(nil))

	// Assert
	require.False(t, rep.Error, rep.Detail)
	assert.Equal(t, report.StateCompleted, rep.Final())
	deploys := gw.CallsTo("Deploy")
	require.Len(t, deploys, 1)
	assert.Equal(t, "acme.test", deploys[0].Ref.String())
	assert.Equal(t, "Deploy to live blocked: nothing deployed to test.", rep.Sections.DeployLive.Detail)
	for _, c := range gw.CallsTo("RunRemoteCommand") {
		assert.NotEqual(t, types.EnvTest, c.Ref.Env, "no probe after an empty deploy")
	}
}

func TestRun_LiveOnlyTargetStillDeploysTestFirst(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw, available("akismet", "4.1", "4.2"))
	job := wpJob(func(j *types.UpdateJobSpec) { j.AutoDeploy = []string{types.EnvLive} })

	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	require.False(t, rep.Error, rep.Detail)
	deploys := gw.CallsTo("Deploy")
	require.Len(t, deploys, 2)
	assert.Equal(t, types.EnvTest, deploys[0].Ref.Env)
	assert.Equal(t, types.EnvLive, deploys[1].Ref.Env)
}

func TestRun_PendingChangesAborts(t *testing.T) {
	// Arrange
	gw := testutil.NewFakeGateway(types.ModeSFTP)
	gw.Diffs[types.EnvDev] = 3
	newWPSite(gw, available("akismet", "4.1", "4.2"))

	// Act
	rep := newOrchestrator(gw, nil).Run(context.Background(), wpJob(nil))

	// Assert
	assert.True(t, rep.Error)
	assert.Equal(t, errors.ErrPendingChanges, rep.Reason)
	assert.Contains(t, rep.Detail, "3 uncommitted changes")
	assert.Empty(t, gw.MutatingCalls())
	assert.Empty(t, rep.Sections.Order(), "only the failure message is reported")
	assert.Equal(t, report.StateAborted, rep.Final())
	assert.False(t, rep.Visited(report.StateRestoreGitMode))
}

func TestRun_UnavailableAndExcludedNeverTargeted(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw,
		available("akismet", "4.1", "4.2"),
		&plugin{Name: "premium", Status: "active", Version: "1.0", Update: "available", UpdateVersion: "1.1", UpdatePackage: "none"},
		available("jetpack", "9.0", "9.1"),
	)
	job := wpJob(func(j *types.UpdateJobSpec) { j.Exclude = []string{"jetpack"} })

	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	require.False(t, rep.Error, rep.Detail)
	updates := remoteArgs(gw.Calls, "wp plugin update")
	require.Len(t, updates, 1)
	assert.Equal(t, []string{"wp", "plugin", "update", "akismet", "--format=json"}, updates[0])

	require.Len(t, rep.Sections.ExcludedPackages.Packages, 1)
	assert.Equal(t, "jetpack", rep.Sections.ExcludedPackages.Packages[0].Name)
	require.Len(t, rep.Sections.PackageUpdates.Unavailable, 1)
	assert.Equal(t, "premium", rep.Sections.PackageUpdates.Unavailable[0].Name)
}

func TestRun_ReportSectionsMatchPartition(t *testing.T) {
	// Arrange
	gw := testutil.NewFakeGateway(types.ModeGit)
	site := newWPSite(gw,
		available("akismet", "4.1", "4.2"),
		&plugin{Name: "premium", Status: "active", Version: "1.0", Update: "available", UpdateVersion: "1.1", UpdatePackage: "none"},
		available("woocommerce", "4.9.1", "5.0.0"),
		available("jetpack", "9.0", "9.1"),
		&plugin{Name: "hello", Status: "active", Version: "1.7", Update: "none"},
	)
	job := wpJob(func(j *types.UpdateJobSpec) {
		j.Report = true
		j.Exclude = []string{"jetpack", "hello", "retired"}
	})

	statuses, err := packages.WPCLI{}.ParseList(mustList(t, site))
	require.NoError(t, err)
	want := packages.PartitionStatuses(statuses, packages.PartitionOptions{Exclude: job.Exclude})

	// Act
	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	// Assert
	require.False(t, rep.Error, rep.Detail)
	assert.Equal(t, want.Targets, rep.Sections.PackageUpdates.Available)
	assert.Equal(t, want.Unavailable, rep.Sections.PackageUpdates.Unavailable)
	assert.Equal(t, want.MajorSkipped, rep.Sections.MajorUpdatesSkipped.Packages)

	excluded := rep.Sections.ExcludedPackages.Packages
	require.Len(t, excluded, 3)
	assert.Equal(t, want.Excluded, excluded[:2])
	assert.Equal(t, types.PackageStatus{Name: "retired"}, excluded[2], "a name that cannot be looked up is still listed")

	lookups := remoteArgs(gw.Calls, "wp plugin get")
	require.Len(t, lookups, 1, "only names absent from the status list are looked up")
	assert.Equal(t, "retired", lookups[0][3])

	reported := len(rep.Sections.PackageUpdates.Available) + len(rep.Sections.PackageUpdates.Unavailable) +
		len(rep.Sections.MajorUpdatesSkipped.Packages) + len(want.Excluded) + want.UpToDate
	assert.Equal(t, len(statuses), reported, "every listed package lands in exactly one group")
}

func TestRun_UnhealthyAfterUpstreamSkipsPackages(t *testing.T) {
	// Arrange: the upstream apply returns at once but the site breaks
	gw := testutil.NewFakeGateway(types.ModeGit)
	gw.UpstreamLog = []gateway.UpstreamCommit{{Author: "Pantheon", Message: "Update to WordPress 6.4"}}
	site := newWPSite(gw, available("akismet", "4.1", "4.2"))
	site.unhealthy[types.EnvDev] = true
	job := wpJob(func(j *types.UpdateJobSpec) { j.Upstream = true })

	// Act
	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	// Assert
	assert.True(t, rep.Error)
	assert.Equal(t, errors.ErrSiteUnhealthy, rep.Reason)
	assert.Len(t, gw.CallsTo("ApplyUpstreamUpdates"), 1)
	assert.Equal(t, report.StepDone, rep.Sections.Upstream.Status)
	assert.False(t, rep.Visited(report.StatePackageUpdate))
	assert.Nil(t, rep.Sections.PackageUpdates)
	assert.Empty(t, remoteArgs(gw.Calls, "wp plugin update"))
	assert.Empty(t, gw.CallsTo("CommitChanges"))
	assert.Equal(t, types.ModeGit, gw.LastCall().Mode)
}

func TestRun_UpstreamApplyFailureIsRecordedNotFatal(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	gw.UpstreamLog = []gateway.UpstreamCommit{{Author: "Pantheon", Message: "Update"}}
	gw.UpstreamWait = errors.New(errors.ErrGatewayCommand, "workflow failed")
	newWPSite(gw, available("akismet", "4.1", "4.2"))
	job := wpJob(func(j *types.UpdateJobSpec) { j.Upstream = true })

	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	require.False(t, rep.Error, rep.Detail)
	assert.Equal(t, report.StepFailed, rep.Sections.Upstream.Status)
	assert.Contains(t, rep.Sections.Upstream.Detail, "workflow failed")
	assert.Len(t, rep.Sections.PackageUpdates.Applied, 1)

	// git for the apply, then back to sftp for package updates
	modes := gw.CallsTo("SetConnectionMode")
	require.GreaterOrEqual(t, len(modes), 4)
	assert.Equal(t, types.ModeSFTP, modes[0].Mode)
	assert.Equal(t, types.ModeGit, modes[1].Mode)
	assert.Equal(t, types.ModeSFTP, modes[2].Mode)
}

func TestRun_UpstreamRefusedOutsideDev(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	job := wpJob(func(j *types.UpdateJobSpec) {
		j.Ref.Env = types.EnvTest
		j.Upstream = true
	})

	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	assert.True(t, rep.Error)
	assert.Equal(t, errors.ErrConfigInvalid, rep.Reason)
	assert.Empty(t, gw.Calls)
}

func TestRun_InvalidFramework(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	job := wpJob(func(j *types.UpdateJobSpec) { j.Framework = "drupal8" })

	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	assert.True(t, rep.Error)
	assert.Equal(t, errors.ErrInvalidFramework, rep.Reason)
	assert.Empty(t, gw.Calls, "nothing is touched before validation")
	assert.Equal(t, []report.State{report.StateStart, report.StateValidateFramework, report.StateAborted}, rep.States)
}

func TestRun_DeclinedConfirmationIsCleanReturn(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw, available("akismet", "4.1", "4.2"))
	confirmer := &testutil.FakeConfirmer{Answers: []bool{false}}
	job := wpJob(func(j *types.UpdateJobSpec) { j.Confirm = true })

	rep := newOrchestrator(gw, confirmer).Run(context.Background(), job)

	assert.False(t, rep.Error)
	assert.True(t, rep.Declined)
	assert.Equal(t, []string{"Apply updates to dev environment of acme site?"}, confirmer.Prompts)
	assert.Empty(t, gw.MutatingCalls())
}

func TestRun_PackageRetry(t *testing.T) {
	t.Run("transient_failures_are_retried", func(t *testing.T) {
		gw := testutil.NewFakeGateway(types.ModeGit)
		site := newWPSite(gw, available("akismet", "4.1", "4.2"), available("jetpack", "9.0", "9.1"))
		site.failures["akismet"] = 2

		rep := newOrchestrator(gw, nil).Run(context.Background(), wpJob(nil))

		require.False(t, rep.Error, rep.Detail)
		sec := rep.Sections.PackageUpdates
		assert.Equal(t, 3, sec.Attempts)
		assert.Len(t, sec.Applied, 2)
		assert.Empty(t, sec.Failed)

		updates := remoteArgs(gw.Calls, "wp plugin update")
		require.Len(t, updates, 3)
		assert.Equal(t, []string{"wp", "plugin", "update", "akismet", "--format=json"}, updates[1], "only pending targets are retried")
	})

	t.Run("retry_is_bounded", func(t *testing.T) {
		gw := testutil.NewFakeGateway(types.ModeGit)
		site := newWPSite(gw, available("akismet", "4.1", "4.2"), available("jetpack", "9.0", "9.1"))
		site.failures["akismet"] = 100

		rep := newOrchestrator(gw, nil).Run(context.Background(), wpJob(nil))

		require.False(t, rep.Error, "per-item failures never abort the job")
		sec := rep.Sections.PackageUpdates
		assert.Equal(t, packages.MaxUpdateAttempts, sec.Attempts)
		require.Len(t, sec.Failed, 1)
		assert.Equal(t, "akismet", sec.Failed[0].Name)
		assert.Contains(t, sec.Failed[0].Message, "5 attempts")
		assert.Len(t, sec.Applied, 1)
		assert.Len(t, remoteArgs(gw.Calls, "wp plugin update"), packages.MaxUpdateAttempts)
	})
}

func TestRun_NothingToCommitSkipsDeploy(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw, &plugin{Name: "hello", Status: "active", Version: "1.7", Update: "none"})

	rep := newOrchestrator(gw, nil).Run(context.Background(), wpJob(nil))

	require.False(t, rep.Error, rep.Detail)
	assert.Equal(t, report.StepNothing, rep.Sections.Commit.Status)
	assert.Empty(t, gw.CallsTo("CommitChanges"))
	assert.Empty(t, gw.CallsTo("Deploy"))
	assert.False(t, rep.Visited(report.StateAutoDeploy))
	assert.False(t, rep.Visited(report.StateHealthCheckPackages), "no update command was issued")
	assert.Equal(t, types.ModeGit, gw.LastCall().Mode)
}

func TestRun_UpdateDisabledSkipsPackageStep(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw, available("akismet", "4.1", "4.2"))
	job := wpJob(func(j *types.UpdateJobSpec) { j.Update = false })

	rep := newOrchestrator(gw, nil).Run(context.Background(), job)

	require.False(t, rep.Error, rep.Detail)
	assert.Nil(t, rep.Sections.PackageUpdates)
	assert.Empty(t, remoteArgs(gw.Calls, "wp plugin list"))
}

func TestRun_CancelledContextDoesNotInterruptJob(t *testing.T) {
	gw := testutil.NewFakeGateway(types.ModeGit)
	newWPSite(gw, available("akismet", "4.1", "4.2"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rep := newOrchestrator(gw, nil).Run(ctx, wpJob(nil))

	assert.False(t, rep.Error, rep.Detail)
	assert.Equal(t, report.StateCompleted, rep.Final())
}
