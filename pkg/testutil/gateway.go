package testutil

import (
	"context"
	"strings"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/types"
)

// GatewayCall records one call made through FakeGateway
type GatewayCall struct {
	Method   string
	Ref      types.EnvironmentRef
	Mode     types.ConnectionMode
	Args     []string
	Mutating bool
}

func (c GatewayCall) String() string {
	s := c.Method + " " + c.Ref.String()
	if c.Mode != "" {
		s += " " + string(c.Mode)
	}
	if len(c.Args) > 0 {
		s += " " + strings.Join(c.Args, " ")
	}
	return s
}

// FakeGateway is a gateway.Gateway whose environments live in memory.
// Unset fields behave like a healthy site in git mode with nothing pending.
type FakeGateway struct {
	Modes map[string]types.ConnectionMode
	Diffs map[string]int

	BackupErr     error
	SetModeErr    error
	CommitErr     error
	DeployErrs    map[string]error
	UpstreamLog   []gateway.UpstreamCommit
	UpstreamErr   error
	UpstreamWait  error
	URLs          map[string]string
	Commits       int

	// RemoteFunc answers RunRemoteCommand. The default answers every command
	// with exit 0 and an empty JSON list.
	RemoteFunc func(ref types.EnvironmentRef, cmd gateway.RemoteCommand) (gateway.CommandResult, error)

	Calls []GatewayCall
}

// NewFakeGateway returns a gateway with dev in the given mode
func NewFakeGateway(devMode types.ConnectionMode) *FakeGateway {
	return &FakeGateway{
		Modes:      map[string]types.ConnectionMode{types.EnvDev: devMode},
		Diffs:      map[string]int{},
		DeployErrs: map[string]error{},
	}
}

func (g *FakeGateway) record(c GatewayCall) {
	g.Calls = append(g.Calls, c)
}

func (g *FakeGateway) ConnectionMode(_ context.Context, ref types.EnvironmentRef) (types.ConnectionMode, error) {
	g.record(GatewayCall{Method: "ConnectionMode", Ref: ref})
	if m, ok := g.Modes[ref.Env]; ok {
		return m, nil
	}
	return types.ModeGit, nil
}

func (g *FakeGateway) SetConnectionMode(_ context.Context, ref types.EnvironmentRef, mode types.ConnectionMode) error {
	g.record(GatewayCall{Method: "SetConnectionMode", Ref: ref, Mode: mode, Mutating: true})
	if g.SetModeErr != nil {
		return g.SetModeErr
	}
	if g.Modes == nil {
		g.Modes = map[string]types.ConnectionMode{}
	}
	g.Modes[ref.Env] = mode
	return nil
}

func (g *FakeGateway) DiffCount(_ context.Context, ref types.EnvironmentRef) (int, error) {
	g.record(GatewayCall{Method: "DiffCount", Ref: ref})
	return g.Diffs[ref.Env], nil
}

func (g *FakeGateway) CreateBackup(_ context.Context, ref types.EnvironmentRef, opts gateway.BackupOptions) error {
	g.record(GatewayCall{Method: "CreateBackup", Ref: ref, Args: []string{opts.Element}, Mutating: true})
	return g.BackupErr
}

func (g *FakeGateway) UpstreamPendingLog(_ context.Context, ref types.EnvironmentRef) ([]gateway.UpstreamCommit, error) {
	g.record(GatewayCall{Method: "UpstreamPendingLog", Ref: ref})
	return g.UpstreamLog, nil
}

func (g *FakeGateway) ApplyUpstreamUpdates(_ context.Context, ref types.EnvironmentRef, _ gateway.UpstreamOptions) (gateway.Operation, error) {
	g.record(GatewayCall{Method: "ApplyUpstreamUpdates", Ref: ref, Mutating: true})
	if g.UpstreamErr != nil {
		return nil, g.UpstreamErr
	}
	return gateway.DoneOperation{Err: g.UpstreamWait}, nil
}

func (g *FakeGateway) RunRemoteCommand(_ context.Context, ref types.EnvironmentRef, cmd gateway.RemoteCommand) (gateway.CommandResult, error) {
	args := append([]string{string(cmd.Tool)}, cmd.Args...)
	g.record(GatewayCall{Method: "RunRemoteCommand", Ref: ref, Args: args, Mutating: cmd.Mutating})
	if g.RemoteFunc != nil {
		return g.RemoteFunc(ref, cmd)
	}
	return gateway.CommandResult{Output: "[]"}, nil
}

func (g *FakeGateway) CommitChanges(_ context.Context, ref types.EnvironmentRef, message string) error {
	g.record(GatewayCall{Method: "CommitChanges", Ref: ref, Args: []string{message}, Mutating: true})
	if g.CommitErr != nil {
		return g.CommitErr
	}
	g.Diffs[ref.Env] = 0
	g.Commits++
	return nil
}

func (g *FakeGateway) Deploy(_ context.Context, ref types.EnvironmentRef, opts gateway.DeployOptions) error {
	g.record(GatewayCall{Method: "Deploy", Ref: ref, Args: []string{opts.Annotation}, Mutating: true})
	return g.DeployErrs[ref.Env]
}

func (g *FakeGateway) EnvironmentURLs(_ context.Context, site string) (map[string]string, error) {
	g.record(GatewayCall{Method: "EnvironmentURLs", Ref: types.EnvironmentRef{Site: site}})
	return g.URLs, nil
}

// MutatingCalls returns the calls that change remote state
func (g *FakeGateway) MutatingCalls() []GatewayCall {
	var out []GatewayCall
	for _, c := range g.Calls {
		if c.Mutating {
			out = append(out, c)
		}
	}
	return out
}

// CallsTo returns the calls made to one method
func (g *FakeGateway) CallsTo(method string) []GatewayCall {
	var out []GatewayCall
	for _, c := range g.Calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// LastCall returns the most recent call, or the zero value
func (g *FakeGateway) LastCall() GatewayCall {
	if len(g.Calls) == 0 {
		return GatewayCall{}
	}
	return g.Calls[len(g.Calls)-1]
}

// NothingToDeploy is the error the gateway returns for an environment with no new code
func NothingToDeploy(env string) error {
	return errors.Newf(errors.ErrNothingToDeploy, "nothing to deploy to %s", env)
}
