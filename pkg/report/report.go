// Package report holds the structured result of one site update job.
package report

import (
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/packages"
	"github.com/arthur-debert/mwu/pkg/types"
)

// State is one node of the orchestrator's linear workflow
type State string

const (
	StateStart                 State = "Start"
	StateValidateFramework     State = "ValidateFramework"
	StateCheckPendingChanges   State = "CheckPendingChanges"
	StateConfirmPrompt         State = "ConfirmPrompt"
	StateEnsureMutableMode     State = "EnsureMutableMode"
	StateBackup                State = "Backup"
	StateUpstreamUpdate        State = "UpstreamUpdate"
	StateHealthCheckUpstream   State = "HealthCheck1"
	StatePackageUpdate         State = "PackageUpdate"
	StateHealthCheckPackages   State = "HealthCheck2"
	StateExcludedPackageReport State = "ExcludedPackageReport"
	StateCommit                State = "Commit"
	StateAutoDeploy            State = "AutoDeploy"
	StateRestoreGitMode        State = "RestoreGitMode"
	StateCompleted             State = "Completed"
	StateAborted               State = "Aborted"
)

// StepStatus is the outcome of a reported step
type StepStatus string

const (
	StepDone    StepStatus = "done"
	StepNothing StepStatus = "nothing"
	StepListed  StepStatus = "listed"
	StepFailed  StepStatus = "failed"
	StepBlocked StepStatus = "blocked"
)

// Report accumulates the outcome of one job. It is terminal once the
// orchestrator returns.
type Report struct {
	Ref        types.EnvironmentRef
	Error      bool
	Reason     errors.ErrorCode
	Detail     string
	Declined   bool
	ReportOnly bool
	States     []State
	Sections   Sections
}

// Fail marks the report as errored. The first failure wins.
func (r *Report) Fail(err error) {
	if r.Error {
		return
	}
	r.Error = true
	r.Reason = errors.GetErrorCode(err)
	r.Detail = errors.GetErrorMessage(err)
}

// Enter appends a state to the transition trace
func (r *Report) Enter(s State) {
	r.States = append(r.States, s)
}

// Final returns the last state of the trace
func (r *Report) Final() State {
	if len(r.States) == 0 {
		return StateStart
	}
	return r.States[len(r.States)-1]
}

// Visited reports whether the trace contains s
func (r *Report) Visited(s State) bool {
	for _, v := range r.States {
		if v == s {
			return true
		}
	}
	return false
}

// BackupSection describes the backup step
type BackupSection struct {
	Status  StepStatus
	Element string
	KeepFor int
	Detail  string
}

// UpstreamSection describes the upstream step
type UpstreamSection struct {
	Status  StepStatus
	Commits []gateway.UpstreamCommit
	Detail  string
}

// PackageUpdatesSection describes the package step. In report-only mode only
// Available, Unavailable and the partition counts are filled.
type PackageUpdatesSection struct {
	Applied     []packages.ItemResult
	Failed      []packages.ItemResult
	Available   []types.PackageStatus
	Unavailable []types.PackageStatus
	Attempts    int
}

// PackageListSection is a plain list of packages with their versions
type PackageListSection struct {
	Packages []types.PackageStatus
}

// CommitSection describes the commit step
type CommitSection struct {
	Status  StepStatus
	Message string
	Changes int
	Detail  string
}

// DeploySection describes a deploy to one environment
type DeploySection struct {
	Env    string
	Status StepStatus
	Detail string
}

// Sections holds one optional entry per step. A nil field was never populated.
type Sections struct {
	Backup              *BackupSection
	Upstream            *UpstreamSection
	PackageUpdates      *PackageUpdatesSection
	MajorUpdatesSkipped *PackageListSection
	ExcludedPackages    *PackageListSection
	Commit              *CommitSection
	DeployTest          *DeploySection
	DeployLive          *DeploySection
}

// Section names in their fixed rendering order
const (
	SectionBackup              = "backup"
	SectionUpstream            = "upstream"
	SectionPackageUpdates      = "packageUpdates"
	SectionMajorUpdatesSkipped = "majorUpdatesSkipped"
	SectionExcludedPackages    = "excludedPackages"
	SectionCommit              = "commit"
	SectionDeployTest          = "deployTest"
	SectionDeployLive          = "deployLive"
)

// Entry pairs a populated section with its name
type Entry struct {
	Name  string
	Value interface{}
}

// Order yields the populated sections in fixed order
func (s Sections) Order() []Entry {
	var out []Entry
	add := func(name string, populated bool, v interface{}) {
		if populated {
			out = append(out, Entry{Name: name, Value: v})
		}
	}
	add(SectionBackup, s.Backup != nil, s.Backup)
	add(SectionUpstream, s.Upstream != nil, s.Upstream)
	add(SectionPackageUpdates, s.PackageUpdates != nil, s.PackageUpdates)
	add(SectionMajorUpdatesSkipped, s.MajorUpdatesSkipped != nil, s.MajorUpdatesSkipped)
	add(SectionExcludedPackages, s.ExcludedPackages != nil, s.ExcludedPackages)
	add(SectionCommit, s.Commit != nil, s.Commit)
	add(SectionDeployTest, s.DeployTest != nil, s.DeployTest)
	add(SectionDeployLive, s.DeployLive != nil, s.DeployLive)
	return out
}

// NonTrivial reports whether the job produced something worth notifying about.
// Backups and the excluded package listing are routine and never count.
func (s Sections) NonTrivial() bool {
	if u := s.Upstream; u != nil && (len(u.Commits) > 0 || u.Status == StepFailed) {
		return true
	}
	if p := s.PackageUpdates; p != nil && (len(p.Applied)+len(p.Failed)+len(p.Available)+len(p.Unavailable) > 0) {
		return true
	}
	if m := s.MajorUpdatesSkipped; m != nil && len(m.Packages) > 0 {
		return true
	}
	if c := s.Commit; c != nil && c.Status == StepDone {
		return true
	}
	for _, d := range []*DeploySection{s.DeployTest, s.DeployLive} {
		if d != nil && d.Status != StepNothing {
			return true
		}
	}
	return false
}
