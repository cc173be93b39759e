package terminus

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/rs/zerolog"
)

// Gateway implements gateway.Gateway with terminus commands
type Gateway struct {
	runner Runner
	logger zerolog.Logger
}

var _ gateway.Gateway = (*Gateway)(nil)

// NewGateway creates a gateway over runner
func NewGateway(runner Runner) *Gateway {
	return &Gateway{runner: runner, logger: logging.GetLogger("terminus.gateway")}
}

// run executes a terminus command and turns a non-zero exit into an error
func (g *Gateway) run(ctx context.Context, args ...string) (Result, error) {
	res, err := g.runner.Run(ctx, args...)
	if err != nil {
		return res, err
	}
	if res.ExitStatus != 0 {
		return res, errors.Newf(errors.ErrGatewayCommand, "terminus %s exited with status %d: %s",
			args[0], res.ExitStatus, lastLine(res.Output())).
			WithDetail("args", args)
	}
	return res, nil
}

func (g *Gateway) runJSON(ctx context.Context, out interface{}, args ...string) error {
	res, err := g.run(ctx, append(args, "--format=json")...)
	if err != nil {
		return err
	}
	if strings.TrimSpace(res.Stdout) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(res.Stdout), out); err != nil {
		return errors.Wrapf(err, errors.ErrGatewayCommand, "unexpected output from terminus %s", args[0])
	}
	return nil
}

func (g *Gateway) ConnectionMode(ctx context.Context, ref types.EnvironmentRef) (types.ConnectionMode, error) {
	res, err := g.run(ctx, "env:info", ref.String(), "--field=connection_mode")
	if err != nil {
		return "", err
	}
	mode, err := types.ParseConnectionMode(strings.TrimSpace(res.Stdout))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrGatewayCommand, "unexpected connection mode")
	}
	return mode, nil
}

func (g *Gateway) SetConnectionMode(ctx context.Context, ref types.EnvironmentRef, mode types.ConnectionMode) error {
	g.logger.Info().Str("ref", ref.String()).Str("mode", string(mode)).Msg("Setting connection mode")
	_, err := g.run(ctx, "connection:set", ref.String(), string(mode))
	return err
}

// DiffCount counts the changed paths reported by env:diffstat. Terminus
// prints an empty list when nothing changed and an object keyed by path
// otherwise.
func (g *Gateway) DiffCount(ctx context.Context, ref types.EnvironmentRef) (int, error) {
	var raw json.RawMessage
	if err := g.runJSON(ctx, &raw, "env:diffstat", ref.String()); err != nil {
		return 0, err
	}
	if len(raw) == 0 {
		return 0, nil
	}
	var byPath map[string]json.RawMessage
	if err := json.Unmarshal(raw, &byPath); err == nil {
		return len(byPath), nil
	}
	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return 0, errors.Wrap(err, errors.ErrGatewayCommand, "unexpected env:diffstat output")
	}
	return len(list), nil
}

func (g *Gateway) CreateBackup(ctx context.Context, ref types.EnvironmentRef, opts gateway.BackupOptions) error {
	args := []string{"backup:create", ref.String()}
	if opts.Element != "" && opts.Element != "all" {
		args = append(args, "--element="+opts.Element)
	}
	if opts.KeepFor > 0 {
		args = append(args, "--keep-for="+strconv.Itoa(opts.KeepFor))
	}
	g.logger.Info().Str("ref", ref.String()).Str("element", opts.Element).Msg("Creating backup")
	_, err := g.run(ctx, args...)
	return err
}

type upstreamRow struct {
	Hash     string `json:"hash"`
	Datetime string `json:"datetime"`
	Message  string `json:"message"`
	Author   string `json:"author"`
}

// UpstreamPendingLog returns pending upstream commits. Terminus answers
// either with a list or with an object keyed by commit hash.
func (g *Gateway) UpstreamPendingLog(ctx context.Context, ref types.EnvironmentRef) ([]gateway.UpstreamCommit, error) {
	var raw json.RawMessage
	if err := g.runJSON(ctx, &raw, "upstream:updates:list", ref.String()); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var rows []upstreamRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		var byHash map[string]upstreamRow
		if err := json.Unmarshal(raw, &byHash); err != nil {
			return nil, errors.Wrap(err, errors.ErrGatewayCommand, "unexpected upstream:updates:list output")
		}
		for hash, row := range byHash {
			row.Hash = hash
			rows = append(rows, row)
		}
		sortUpstream(rows)
	}

	commits := make([]gateway.UpstreamCommit, 0, len(rows))
	for _, r := range rows {
		commits = append(commits, gateway.UpstreamCommit{Author: r.Author, Message: strings.TrimSpace(r.Message)})
	}
	return commits, nil
}

// ApplyUpstreamUpdates starts the apply workflow. Terminus blocks until the
// platform workflow finishes, so the process runs in the background and
// Wait collects its result.
func (g *Gateway) ApplyUpstreamUpdates(ctx context.Context, ref types.EnvironmentRef, opts gateway.UpstreamOptions) (gateway.Operation, error) {
	args := []string{"upstream:updates:apply", ref.String()}
	if opts.UpdateDB {
		args = append(args, "--updatedb")
	}
	if opts.AcceptUpstream {
		args = append(args, "--accept-upstream")
	}
	g.logger.Info().Str("ref", ref.String()).Msg("Applying upstream updates")

	op := &processOperation{done: make(chan struct{})}
	go func() {
		defer close(op.done)
		_, op.err = g.run(ctx, args...)
	}()
	return op, nil
}

func (g *Gateway) RunRemoteCommand(ctx context.Context, ref types.EnvironmentRef, cmd gateway.RemoteCommand) (gateway.CommandResult, error) {
	var command string
	switch cmd.Tool {
	case gateway.ToolWP:
		command = "remote:wp"
	case gateway.ToolDrush:
		command = "remote:drush"
	default:
		return gateway.CommandResult{}, errors.Newf(errors.ErrInvalidInput, "unknown remote tool %q", cmd.Tool)
	}

	args := append([]string{command, ref.String(), "--"}, cmd.Args...)
	res, err := g.runner.Run(ctx, args...)
	if err != nil {
		return gateway.CommandResult{}, err
	}
	return gateway.CommandResult{ExitStatus: res.ExitStatus, Output: res.Stdout}, nil
}

func (g *Gateway) CommitChanges(ctx context.Context, ref types.EnvironmentRef, message string) error {
	g.logger.Info().Str("ref", ref.String()).Str("message", message).Msg("Committing changes")
	_, err := g.run(ctx, "env:commit", ref.String(), "--message="+message)
	return err
}

func (g *Gateway) Deploy(ctx context.Context, ref types.EnvironmentRef, opts gateway.DeployOptions) error {
	if ref.Env != types.EnvTest && ref.Env != types.EnvLive {
		return errors.Newf(errors.ErrInvalidInput, "cannot deploy to the %s environment", ref.Env)
	}

	args := []string{"env:deploy", ref.String()}
	if opts.UpdateDB {
		args = append(args, "--updatedb")
	}
	if opts.ClearCache {
		args = append(args, "--cc")
	}
	if opts.Annotation != "" {
		args = append(args, "--note="+opts.Annotation)
	}
	g.logger.Info().Str("ref", ref.String()).Msg("Deploying")

	res, err := g.run(ctx, args...)
	if isNothingToDeploy(res.Output()) {
		return errors.Newf(errors.ErrNothingToDeploy, "there is nothing to deploy to %s", ref.Env)
	}
	return err
}

type envRow struct {
	ID     string `json:"id"`
	Domain string `json:"domain"`
}

// EnvironmentURLs returns the dashboard link and one URL per environment
func (g *Gateway) EnvironmentURLs(ctx context.Context, site string) (map[string]string, error) {
	var envs map[string]envRow
	if err := g.runJSON(ctx, &envs, "env:list", site); err != nil {
		return nil, err
	}
	urls := make(map[string]string, len(envs)+1)
	for id, e := range envs {
		if e.ID == "" {
			e.ID = id
		}
		if e.Domain != "" {
			urls[e.ID] = "https://" + e.Domain
		}
	}

	res, err := g.run(ctx, "dashboard:view", site+"."+types.EnvDev, "--print")
	if err != nil {
		g.logger.Debug().Err(err).Str("site", site).Msg("Dashboard URL unavailable")
	} else if url := strings.TrimSpace(res.Stdout); url != "" {
		urls["dashboard"] = url
	}
	return urls, nil
}

type processOperation struct {
	done chan struct{}
	err  error
}

func (o *processOperation) Wait(ctx context.Context) error {
	select {
	case <-o.done:
		return o.err
	case <-ctx.Done():
		return fmt.Errorf("waiting for upstream apply: %w", ctx.Err())
	}
}

func isNothingToDeploy(output string) bool {
	return strings.Contains(strings.ToLower(output), "nothing to deploy")
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndex(s, "\n"); i >= 0 {
		return s[i+1:]
	}
	return s
}
