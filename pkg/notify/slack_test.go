// pkg/notify/slack_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: testutil.FakeSender, testutil.FakeGateway
// PURPOSE: Test webhook payloads and delivery failure handling

package notify_test

import (
	"context"
	stderrors "errors"
	"testing"

	"github.com/arthur-debert/mwu/pkg/config"
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/notify"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/testutil"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func slackSettings() config.SlackSettings {
	return config.SlackSettings{URL: "https://hooks.example.com/T000", Channel: "#updates", Username: "mwu", IconEmoji: "robot_face"}
}

func TestNotifierDelivers(t *testing.T) {
	sender := &testutil.FakeSender{}
	gw := testutil.NewFakeGateway(types.ModeGit)
	gw.URLs = map[string]string{"dashboard": "https://dashboard.example.com/acme", "live": "https://live-acme.example.com"}
	n := notify.NewNotifier(slackSettings(), sender, gw, "run-42")

	sent, err := n.Notify(context.Background(), job(types.Notifications{Report: []string{"carol"}}), updatedReport())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, []string{"#updates", "@carol"}, sender.Channels())

	payload := sender.Messages[0]
	assert.Equal(t, "*Terminus update report on acme*", payload.Text)
	assert.Equal(t, ":robot_face:", payload.IconEmoji)
	assert.Equal(t, "mwu", payload.Username)
	require.Len(t, payload.Attachments, 2)
	assert.Equal(t, notify.ColorLinks, payload.Attachments[0].Color)
	require.Len(t, payload.Attachments[0].Fields, 2)
	assert.Equal(t, "Dashboard", payload.Attachments[0].Fields[0].Title)
	assert.Equal(t, "Live", payload.Attachments[0].Fields[1].Title)
	assert.Equal(t, notify.ColorSuccess, payload.Attachments[1].Color)
	assert.Contains(t, payload.Attachments[1].Footer, "run-42")
	assert.Contains(t, payload.Attachments[1].Text, "akismet")
}

func TestNotifierSuppressed(t *testing.T) {
	sender := &testutil.FakeSender{}
	n := notify.NewNotifier(slackSettings(), sender, nil, "")

	sent, err := n.Notify(context.Background(), job(types.Notifications{}), &report.Report{})

	require.NoError(t, err)
	assert.Equal(t, 0, sent)
	assert.Empty(t, sender.Messages)
}

func TestNotifierDeliveryFailure(t *testing.T) {
	sender := &testutil.FakeSender{Fail: map[string]error{"@alice": stderrors.New("channel_not_found")}}
	n := notify.NewNotifier(slackSettings(), sender, nil, "")
	rep := &report.Report{}
	rep.Fail(errors.New(errors.ErrDeployFailed, "deploy to test failed"))

	sent, err := n.Notify(context.Background(), job(types.Notifications{Error: []string{"alice", "bob"}}), rep)

	assert.Equal(t, 2, sent, "other destinations still receive the report")
	assert.True(t, errors.IsErrorCode(err, errors.ErrNotifyFailed))
	assert.Equal(t, []string{"#updates", "@bob"}, sender.Channels())
	assert.Equal(t, notify.ColorError, sender.Messages[0].Attachments[0].Color, "no link attachment without URLs")
}
