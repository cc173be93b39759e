package packages

import "github.com/arthur-debert/mwu/pkg/types"

// MaxUpdateAttempts bounds the package update retry loop
const MaxUpdateAttempts = 5

// Outcome classifies one target after an update attempt
type Outcome int

const (
	// OutcomeApplied means the package no longer shows an update
	OutcomeApplied Outcome = iota
	// OutcomeTransient means the manager reported an error and the update is still pending
	OutcomeTransient
	// OutcomeTerminal means the update will not succeed by retrying
	OutcomeTerminal
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeTransient:
		return "transient"
	}
	return "terminal"
}

// Classify decides the fate of one target after an attempt.
//
// item and reported come from the update command output; reported is false
// when the manager gave no per-item result. commandOK is the command's exit
// status. fresh and found come from the status list fetched after the attempt.
func Classify(item ItemResult, reported, commandOK bool, fresh types.PackageStatus, found bool) Outcome {
	if !found {
		return OutcomeTerminal
	}
	if !fresh.UpdateAvailable {
		return OutcomeApplied
	}
	failed := item.Status == ItemError
	if !reported {
		failed = !commandOK
	}
	if failed && fresh.HasPackage {
		return OutcomeTransient
	}
	return OutcomeTerminal
}
