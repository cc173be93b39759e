package terminus

import (
	"bytes"
	"context"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/rs/zerolog"
)

// DefaultBinary is looked up on PATH unless MWU_TERMINUS is set
const DefaultBinary = "terminus"

// Result is the outcome of one terminus process
type Result struct {
	ExitStatus int
	Stdout     string
	Stderr     string
}

// Output returns stdout followed by stderr
func (r Result) Output() string {
	if r.Stderr == "" {
		return r.Stdout
	}
	if r.Stdout == "" {
		return r.Stderr
	}
	return r.Stdout + "\n" + r.Stderr
}

// Runner runs terminus with the given arguments. It returns an error only
// when the process could not be started or was interrupted.
type Runner interface {
	Run(ctx context.Context, args ...string) (Result, error)
}

// ExecRunner runs the terminus binary as a child process
type ExecRunner struct {
	Binary string
	logger zerolog.Logger
}

// NewExecRunner creates a runner for binary. An empty binary means
// $MWU_TERMINUS or terminus on PATH.
func NewExecRunner(binary string) *ExecRunner {
	if binary == "" {
		binary = os.Getenv("MWU_TERMINUS")
	}
	if binary == "" {
		binary = DefaultBinary
	}
	return &ExecRunner{Binary: binary, logger: logging.GetLogger("terminus.exec")}
}

func (r *ExecRunner) Run(ctx context.Context, args ...string) (Result, error) {
	logging.LogCommand(r.Binary, args)

	cmd := exec.CommandContext(ctx, r.Binary, withGlobalFlags(args)...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := Result{
		Stdout: strings.TrimSpace(stdout.String()),
		Stderr: strings.TrimSpace(stderr.String()),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) && ctx.Err() == nil {
			res.ExitStatus = exitErr.ExitCode()
			r.logger.Debug().
				Strs("args", args).
				Int("exit", res.ExitStatus).
				Str("stderr", res.Stderr).
				Msg("Command exited non-zero")
			return res, nil
		}
		return res, errors.Wrapf(err, errors.ErrGatewayCommand, "failed to run %s %s", r.Binary, firstArg(args))
	}

	r.logger.Trace().Strs("args", args).Str("stdout", res.Stdout).Msg("Command completed")
	return res, nil
}

// withGlobalFlags places the non-interactive flags right after the command
// name so they never end up behind a "--" separator
func withGlobalFlags(args []string) []string {
	if len(args) == 0 {
		return args
	}
	out := make([]string, 0, len(args)+2)
	out = append(out, args[0], "--yes", "--no-interaction")
	return append(out, args[1:]...)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
