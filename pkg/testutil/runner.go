package testutil

import (
	"context"
	"strings"

	"github.com/arthur-debert/mwu/pkg/terminus"
)

// FakeRunner answers terminus invocations from a table keyed by the
// command name (the first argument). Unknown commands succeed with no output.
type FakeRunner struct {
	Responses map[string]terminus.Result
	Errs      map[string]error

	// Func, when set, answers before the tables are consulted
	Func func(args []string) (terminus.Result, bool)

	Invocations [][]string
}

// NewFakeRunner returns an empty runner
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{Responses: map[string]terminus.Result{}, Errs: map[string]error{}}
}

// Reply sets the stdout of a successful command
func (r *FakeRunner) Reply(command, stdout string) *FakeRunner {
	r.Responses[command] = terminus.Result{Stdout: stdout}
	return r
}

func (r *FakeRunner) Run(_ context.Context, args ...string) (terminus.Result, error) {
	r.Invocations = append(r.Invocations, append([]string(nil), args...))
	if r.Func != nil {
		if res, ok := r.Func(args); ok {
			return res, nil
		}
	}
	if len(args) == 0 {
		return terminus.Result{}, nil
	}
	if err, ok := r.Errs[args[0]]; ok {
		return terminus.Result{}, err
	}
	return r.Responses[args[0]], nil
}

// Invoked returns the invocations of command joined with spaces
func (r *FakeRunner) Invoked(command string) []string {
	var out []string
	for _, inv := range r.Invocations {
		if len(inv) > 0 && inv[0] == command {
			out = append(out, strings.Join(inv, " "))
		}
	}
	return out
}
