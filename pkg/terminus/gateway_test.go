// pkg/terminus/gateway_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testutil.FakeRunner
// PURPOSE: Test terminus argument building and output parsing

package terminus_test

import (
	"context"
	"testing"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/terminus"
	"github.com/arthur-debert/mwu/pkg/testutil"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var dev = types.EnvironmentRef{Site: "acme", Env: "dev"}

func TestConnectionMode(t *testing.T) {
	runner := testutil.NewFakeRunner().Reply("env:info", "sftp\n")
	gw := terminus.NewGateway(runner)

	mode, err := gw.ConnectionMode(context.Background(), dev)

	require.NoError(t, err)
	assert.Equal(t, types.ModeSFTP, mode)
	assert.Equal(t, []string{"env:info acme.dev --field=connection_mode"}, runner.Invoked("env:info"))
}

func TestSetConnectionModeFailure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Responses["connection:set"] = terminus.Result{ExitStatus: 1, Stderr: "[error] Environment is locked"}
	gw := terminus.NewGateway(runner)

	err := gw.SetConnectionMode(context.Background(), dev, types.ModeGit)

	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrGatewayCommand))
	assert.Contains(t, err.Error(), "Environment is locked")
}

func TestDiffCount(t *testing.T) {
	tests := []struct {
		name     string
		stdout   string
		expected int
	}{
		{"empty list", "[]", 0},
		{"no output", "", 0},
		{"object keyed by path", `{"wp-content/plugins/a.php":{"status":"M"},"wp-content/plugins/b.php":{"status":"A"}}`, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gw := terminus.NewGateway(testutil.NewFakeRunner().Reply("env:diffstat", tt.stdout))

			n, err := gw.DiffCount(context.Background(), dev)

			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestCreateBackupArgs(t *testing.T) {
	tests := []struct {
		name     string
		opts     gateway.BackupOptions
		expected string
	}{
		{"all elements", gateway.BackupOptions{Element: "all", KeepFor: 365}, "backup:create acme.dev --keep-for=365"},
		{"database only", gateway.BackupOptions{Element: "database", KeepFor: 30}, "backup:create acme.dev --element=database --keep-for=30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := testutil.NewFakeRunner()

			require.NoError(t, terminus.NewGateway(runner).CreateBackup(context.Background(), dev, tt.opts))

			assert.Equal(t, []string{tt.expected}, runner.Invoked("backup:create"))
		})
	}
}

func TestUpstreamPendingLog(t *testing.T) {
	t.Run("list output", func(t *testing.T) {
		gw := terminus.NewGateway(testutil.NewFakeRunner().Reply("upstream:updates:list",
			`[{"hash":"a1","datetime":"2024-01-01","message":"Update to WordPress 6.4.2. ","author":"Pantheon"}]`))

		commits, err := gw.UpstreamPendingLog(context.Background(), dev)

		require.NoError(t, err)
		assert.Equal(t, []gateway.UpstreamCommit{{Author: "Pantheon", Message: "Update to WordPress 6.4.2."}}, commits)
	})

	t.Run("object keyed by hash", func(t *testing.T) {
		gw := terminus.NewGateway(testutil.NewFakeRunner().Reply("upstream:updates:list",
			`{"b2":{"datetime":"2024-02-01","message":"second","author":"x"},"a1":{"datetime":"2024-01-01","message":"first","author":"x"}}`))

		commits, err := gw.UpstreamPendingLog(context.Background(), dev)

		require.NoError(t, err)
		require.Len(t, commits, 2)
		assert.Equal(t, "first", commits[0].Message)
		assert.Equal(t, "second", commits[1].Message)
	})

	t.Run("nothing pending", func(t *testing.T) {
		gw := terminus.NewGateway(testutil.NewFakeRunner().Reply("upstream:updates:list", "[]"))

		commits, err := gw.UpstreamPendingLog(context.Background(), dev)

		require.NoError(t, err)
		assert.Empty(t, commits)
	})
}

func TestApplyUpstreamUpdates(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Responses["upstream:updates:apply"] = terminus.Result{ExitStatus: 1, Stderr: "merge conflict"}
	gw := terminus.NewGateway(runner)

	op, err := gw.ApplyUpstreamUpdates(context.Background(), dev, gateway.UpstreamOptions{AcceptUpstream: true})
	require.NoError(t, err)
	err = op.Wait(context.Background())

	assert.True(t, errors.IsErrorCode(err, errors.ErrGatewayCommand))
	assert.Equal(t, []string{"upstream:updates:apply acme.dev --accept-upstream"}, runner.Invoked("upstream:updates:apply"))
}

func TestRunRemoteCommand(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Responses["remote:wp"] = terminus.Result{ExitStatus: 255, Stdout: "PHP Fatal error"}
	gw := terminus.NewGateway(runner)

	res, err := gw.RunRemoteCommand(context.Background(), dev, gateway.RemoteCommand{Tool: gateway.ToolWP, Args: []string{"plugin", "status"}})

	require.NoError(t, err, "a failing remote command is a result")
	assert.Equal(t, 255, res.ExitStatus)
	assert.False(t, res.Succeeded())
	assert.Equal(t, []string{"remote:wp acme.dev -- plugin status"}, runner.Invoked("remote:wp"))

	_, err = gw.RunRemoteCommand(context.Background(), dev, gateway.RemoteCommand{Tool: "composer"})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestDeploy(t *testing.T) {
	test := dev.WithEnv(types.EnvTest)

	t.Run("arguments", func(t *testing.T) {
		runner := testutil.NewFakeRunner()

		err := terminus.NewGateway(runner).Deploy(context.Background(), test,
			gateway.DeployOptions{UpdateDB: true, ClearCache: true, Annotation: "Deploy to test - Site updated by MWU."})

		require.NoError(t, err)
		assert.Equal(t, []string{"env:deploy acme.test --updatedb --cc --note=Deploy to test - Site updated by MWU."}, runner.Invoked("env:deploy"))
	})

	t.Run("nothing to deploy", func(t *testing.T) {
		runner := testutil.NewFakeRunner()
		runner.Responses["env:deploy"] = terminus.Result{Stderr: "[warning] There is nothing to deploy."}

		err := terminus.NewGateway(runner).Deploy(context.Background(), test, gateway.DeployOptions{})

		assert.True(t, errors.IsErrorCode(err, errors.ErrNothingToDeploy))
	})

	t.Run("refuses dev", func(t *testing.T) {
		runner := testutil.NewFakeRunner()

		err := terminus.NewGateway(runner).Deploy(context.Background(), dev, gateway.DeployOptions{})

		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
		assert.Empty(t, runner.Invocations)
	})
}

func TestEnvironmentURLs(t *testing.T) {
	runner := testutil.NewFakeRunner().
		Reply("env:list", `{"dev":{"id":"dev","domain":"dev-acme.pantheonsite.io"},"live":{"id":"live","domain":"live-acme.pantheonsite.io"}}`).
		Reply("dashboard:view", "https://dashboard.pantheon.io/sites/1234#dev")

	urls, err := terminus.NewGateway(runner).EnvironmentURLs(context.Background(), "acme")

	require.NoError(t, err)
	assert.Equal(t, "https://dev-acme.pantheonsite.io", urls["dev"])
	assert.Equal(t, "https://live-acme.pantheonsite.io", urls["live"])
	assert.Equal(t, "https://dashboard.pantheon.io/sites/1234#dev", urls["dashboard"])
}

func TestDispatchFailure(t *testing.T) {
	runner := testutil.NewFakeRunner()
	runner.Errs["env:commit"] = errors.New(errors.ErrGatewayCommand, "terminus: executable file not found")

	err := terminus.NewGateway(runner).CommitChanges(context.Background(), dev, "msg")

	assert.True(t, errors.IsErrorCode(err, errors.ErrGatewayCommand))
}
