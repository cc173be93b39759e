// Package gateway defines the capability the orchestrator uses to observe and
// mutate one site environment. Implementations block until the remote side
// reports completion.
package gateway

import (
	"context"

	"github.com/arthur-debert/mwu/pkg/types"
)

// BackupOptions scopes a backup
type BackupOptions struct {
	// Element is one of all, code, files, database
	Element string
	// KeepFor is the retention period in days
	KeepFor int
}

// UpstreamCommit is one pending upstream commit
type UpstreamCommit struct {
	Author  string `json:"author"`
	Message string `json:"message"`
}

// UpstreamOptions controls how upstream updates are applied
type UpstreamOptions struct {
	UpdateDB       bool
	AcceptUpstream bool
}

// DeployOptions controls a deploy to test or live
type DeployOptions struct {
	ClearCache bool
	UpdateDB   bool
	Annotation string
}

// Tool names the remote command-line tool to run
type Tool string

const (
	ToolWP    Tool = "wp"
	ToolDrush Tool = "drush"
)

// RemoteCommand is a package-manager or probe invocation on an environment.
// Mutating commands are never issued for report-only jobs.
type RemoteCommand struct {
	Tool     Tool
	Args     []string
	Mutating bool
}

// CommandResult carries the exit status and captured output of a remote command
type CommandResult struct {
	ExitStatus int
	Output     string
}

// Succeeded reports a zero exit status
func (r CommandResult) Succeeded() bool {
	return r.ExitStatus == 0
}

// Operation is a handle on an asynchronous remote workflow
type Operation interface {
	// Wait blocks until the remote workflow finishes
	Wait(ctx context.Context) error
}

// Gateway observes and mutates site environments.
type Gateway interface {
	ConnectionMode(ctx context.Context, ref types.EnvironmentRef) (types.ConnectionMode, error)

	// SetConnectionMode is idempotent when the environment is already in mode
	SetConnectionMode(ctx context.Context, ref types.EnvironmentRef, mode types.ConnectionMode) error

	// DiffCount returns the number of uncommitted changed paths
	DiffCount(ctx context.Context, ref types.EnvironmentRef) (int, error)

	CreateBackup(ctx context.Context, ref types.EnvironmentRef, opts BackupOptions) error
	UpstreamPendingLog(ctx context.Context, ref types.EnvironmentRef) ([]UpstreamCommit, error)
	ApplyUpstreamUpdates(ctx context.Context, ref types.EnvironmentRef, opts UpstreamOptions) (Operation, error)

	// RunRemoteCommand returns an error only when the command could not be
	// dispatched. A non-zero exit is reported in CommandResult.
	RunRemoteCommand(ctx context.Context, ref types.EnvironmentRef, cmd RemoteCommand) (CommandResult, error)

	CommitChanges(ctx context.Context, ref types.EnvironmentRef, message string) error

	// Deploy is valid for test and live only. An environment with nothing to
	// deploy returns an error coded NOTHING_TO_DEPLOY.
	Deploy(ctx context.Context, ref types.EnvironmentRef, opts DeployOptions) error

	EnvironmentURLs(ctx context.Context, site string) (map[string]string, error)
}

// DoneOperation is an Operation that has already finished
type DoneOperation struct {
	Err error
}

// Wait returns the stored result
func (o DoneOperation) Wait(context.Context) error {
	return o.Err
}
