// pkg/packages/managers_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test wp-cli and drush command construction and output parsing

package packages_test

import (
	"testing"

	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/gateway"
	"github.com/arthur-debert/mwu/pkg/packages"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor(t *testing.T) {
	m, err := packages.For(types.WorkflowWordPress)
	require.NoError(t, err)
	assert.Equal(t, gateway.ToolWP, m.Tool())

	m, err = packages.For(types.WorkflowDrupal)
	require.NoError(t, err)
	assert.Equal(t, gateway.ToolDrush, m.Tool())

	_, err = packages.For("joomla")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestWPCLIParseList(t *testing.T) {
	output := `Warning: some PHP notice
[{"name":"akismet","status":"active","version":"4.1","update":"available","update_version":"4.2","update_package":"https://downloads.wordpress.org/akismet.4.2.zip"},
 {"name":"premium","status":"active","version":"1.0","update":"available","update_version":"1.1","update_package":"none"},
 {"name":"hello","status":"inactive","version":"1.7","update":"none","update_version":"","update_package":""}]`

	list, err := packages.WPCLI{}.ParseList(output)
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.True(t, list[0].UpdateAvailable)
	assert.True(t, list[0].HasPackage)
	assert.Equal(t, "4.2", list[0].UpdateVersion)
	assert.True(t, list[1].UpdateAvailable)
	assert.False(t, list[1].HasPackage)
	assert.False(t, list[2].UpdateAvailable)

	_, err = packages.WPCLI{}.ParseList("Error: not a WordPress install")
	assert.True(t, errors.IsErrorCode(err, errors.ErrGatewayCommand))
}

func TestWPCLIUpdate(t *testing.T) {
	cmd := packages.WPCLI{}.UpdateCommand([]string{"akismet", "jetpack"}, packages.UpdateOptions{})
	assert.True(t, cmd.Mutating)
	assert.Equal(t, []string{"plugin", "update", "akismet", "jetpack", "--format=json"}, cmd.Args)

	res := gateway.CommandResult{ExitStatus: 1, Output: `[{"name":"akismet","old_version":"4.1","new_version":"4.2","status":"Updated"},{"name":"jetpack","old_version":"9.0","new_version":"9.1","status":"Error"}]`}
	items := packages.WPCLI{}.ParseUpdate(res)
	require.Len(t, items, 2)
	assert.Equal(t, packages.ItemUpdated, items["akismet"].Status)
	assert.Equal(t, packages.ItemError, items["jetpack"].Status)

	assert.Empty(t, packages.WPCLI{}.ParseUpdate(gateway.CommandResult{Output: "timeout"}))
}

func TestWPCLIReadOnlyCommands(t *testing.T) {
	wp := packages.WPCLI{}
	assert.False(t, wp.ListCommand().Mutating)
	assert.False(t, wp.InfoCommand("akismet").Mutating)
	assert.False(t, wp.HealthCommand().Mutating)

	info, err := wp.ParseInfo(`{"name":"akismet","title":"Akismet","version":"4.1","status":"active"}`)
	require.NoError(t, err)
	assert.Equal(t, "4.1", info.Version)

	assert.True(t, wp.Healthy(gateway.CommandResult{ExitStatus: 0}))
	assert.False(t, wp.Healthy(gateway.CommandResult{ExitStatus: 255}))
}

func TestDrushParseList(t *testing.T) {
	output := `{
 "views": {"name":"views","existing_version":"7.x-3.1","candidate_version":"7.x-3.2","status":1,"status_msg":"SECURITY UPDATE available"},
 "ctools": {"name":"ctools","existing_version":"7.x-1.1","candidate_version":"7.x-1.1","status":5,"status_msg":"Up to date"},
 "custom": {"existing_version":"7.x-1.0","candidate_version":"","status":4,"status_msg":"Update available"}
}`
	list, err := packages.Drush{}.ParseList(output)
	require.NoError(t, err)
	require.Len(t, list, 3)

	// sorted by project name
	assert.Equal(t, "ctools", list[0].Name)
	assert.False(t, list[0].UpdateAvailable)

	assert.Equal(t, "custom", list[1].Name)
	assert.True(t, list[1].UpdateAvailable)
	assert.False(t, list[1].HasPackage)

	assert.Equal(t, "views", list[2].Name)
	assert.True(t, list[2].Security)
	assert.True(t, list[2].HasPackage)
}

func TestDrushCommands(t *testing.T) {
	d := packages.Drush{}
	cmd := d.UpdateCommand([]string{"views"}, packages.UpdateOptions{SecurityOnly: true})
	assert.True(t, cmd.Mutating)
	assert.Equal(t, []string{"pm-update", "-y", "--no-core", "--security-only", "views"}, cmd.Args)
	assert.Empty(t, d.ParseUpdate(gateway.CommandResult{Output: "Project views was updated successfully."}))

	assert.True(t, d.Healthy(gateway.CommandResult{Output: `{"bootstrap":"Successful"}`}))
	assert.False(t, d.Healthy(gateway.CommandResult{Output: `{"bootstrap":""}`}))
	assert.False(t, d.Healthy(gateway.CommandResult{ExitStatus: 1}))

	info, err := d.ParseInfo(`{"views":{"name":"views","version":"7.x-3.1","status":"enabled"}}`)
	require.NoError(t, err)
	assert.Equal(t, "views", info.Name)
	assert.Equal(t, "7.x-3.1", info.Version)
}
