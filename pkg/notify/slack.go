package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/arthur-debert/mwu/pkg/config"
	"github.com/arthur-debert/mwu/pkg/errors"
	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/rs/zerolog"
	"github.com/slack-go/slack"
)

// Sender delivers one webhook payload
type Sender interface {
	Send(ctx context.Context, msg *slack.WebhookMessage) error
}

// WebhookSender posts to a Slack incoming webhook
type WebhookSender struct {
	URL string
}

func (s WebhookSender) Send(ctx context.Context, msg *slack.WebhookMessage) error {
	return slack.PostWebhookContext(ctx, s.URL, msg)
}

// URLSource provides dashboard and environment links for a site
type URLSource interface {
	EnvironmentURLs(ctx context.Context, site string) (map[string]string, error)
}

// Notifier formats, routes and delivers job reports
type Notifier struct {
	settings config.SlackSettings
	sender   Sender
	urls     URLSource
	runID    string
	now      func() time.Time
	logger   zerolog.Logger
}

// NewNotifier creates a notifier. A nil sender posts to settings.URL. urls
// may be nil.
func NewNotifier(settings config.SlackSettings, sender Sender, urls URLSource, runID string) *Notifier {
	if sender == nil {
		sender = WebhookSender{URL: settings.URL}
	}
	return &Notifier{
		settings: settings,
		sender:   sender,
		urls:     urls,
		runID:    runID,
		now:      time.Now,
		logger:   logging.GetLogger("notify"),
	}
}

// Notify delivers the job's message to every routed destination and
// returns how many deliveries succeeded. Failures are logged and reported
// as one NOTIFY_FAILED error, which callers only log.
func (n *Notifier) Notify(ctx context.Context, job types.UpdateJobSpec, rep *report.Report) (int, error) {
	dest := Route(job, rep)
	if len(dest) == 0 {
		n.logger.Debug().Str("ref", job.Ref.String()).Msg("Nothing worth notifying")
		return 0, nil
	}

	msg := Format(job, rep)
	if n.urls != nil {
		urls, err := n.urls.EnvironmentURLs(ctx, job.Ref.Site)
		if err != nil {
			n.logger.Warn().Err(err).Str("site", job.Ref.Site).Msg("Environment URLs unavailable")
		}
		msg.URLs = urls
	}

	sent := 0
	var failed []string
	for _, d := range dest {
		payload := n.Payload(msg, d)
		if err := n.sender.Send(ctx, payload); err != nil {
			n.logger.Warn().Err(err).Str("channel", payload.Channel).Str("site", job.Ref.Site).Msg("Slack delivery failed")
			failed = append(failed, payload.Channel)
			continue
		}
		sent++
	}
	n.logger.Info().Str("site", job.Ref.Site).Int("sent", sent).Msg("Report delivered")

	if len(failed) > 0 {
		return sent, errors.Newf(errors.ErrNotifyFailed, "delivery failed for %s", strings.Join(failed, ", ")).
			WithDetail("site", job.Ref.Site)
	}
	return sent, nil
}

// Payload builds the webhook message for one destination
func (n *Notifier) Payload(msg Message, destination string) *slack.WebhookMessage {
	channel := destination
	if channel == ChannelDefault {
		channel = n.settings.Channel
	}

	links := slack.Attachment{Color: ColorLinks}
	for _, f := range []struct{ title, key string }{
		{"Dashboard", "dashboard"},
		{"Dev", types.EnvDev},
		{"Test", types.EnvTest},
		{"Live", types.EnvLive},
	} {
		if u, ok := msg.URLs[f.key]; ok && u != "" {
			links.Fields = append(links.Fields, slack.AttachmentField{Title: f.title, Value: u, Short: true})
		}
	}

	footer := "Update time"
	if n.runID != "" {
		footer += " | run " + n.runID
	}
	updates := slack.Attachment{
		Color:      msg.Color(),
		Title:      "Updates Log",
		Text:       msg.Body(),
		Fallback:   msg.Title,
		MarkdownIn: []string{"text"},
		Footer:     footer,
		Ts:         jsonTimestamp(n.now()),
	}

	payload := &slack.WebhookMessage{
		Username: n.settings.Username,
		Channel:  channel,
		Text:     "*" + msg.Title + "*",
	}
	if n.settings.IconEmoji != "" {
		payload.IconEmoji = ":" + n.settings.IconEmoji + ":"
	}
	if len(links.Fields) > 0 {
		payload.Attachments = append(payload.Attachments, links)
	}
	payload.Attachments = append(payload.Attachments, updates)
	return payload
}

func jsonTimestamp(t time.Time) json.Number {
	return json.Number(strconv.FormatInt(t.Unix(), 10))
}
