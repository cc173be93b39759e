// Package orchestrator runs the update workflow for one site environment.
//
// The workflow is a fixed linear sequence of guarded steps:
//
//	Start → ValidateFramework → CheckPendingChanges → [ConfirmPrompt] →
//	EnsureMutableMode → Backup → UpstreamUpdate → HealthCheck1 →
//	PackageUpdate → HealthCheck2 → ExcludedPackageReport → Commit →
//	AutoDeploy → RestoreGitMode → Completed
//
// A failing step jumps to RestoreGitMode and ends in Aborted. Once
// EnsureMutableMode has been reached the environment is always returned to
// git mode, and that mode switch is the last gateway call of the job.
// Report-only jobs never mutate: no mode switch, backup, upstream apply,
// package update, commit or deploy.
package orchestrator
