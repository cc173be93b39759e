package testutil

import (
	"context"

	"github.com/slack-go/slack"
)

// FakeSender captures webhook payloads instead of posting them
type FakeSender struct {
	Messages []*slack.WebhookMessage

	// Fail lists channels whose delivery fails
	Fail map[string]error
}

func (s *FakeSender) Send(_ context.Context, msg *slack.WebhookMessage) error {
	if err, ok := s.Fail[msg.Channel]; ok {
		return err
	}
	s.Messages = append(s.Messages, msg)
	return nil
}

// Channels returns the channel of every delivered message in order
func (s *FakeSender) Channels() []string {
	out := make([]string, 0, len(s.Messages))
	for _, m := range s.Messages {
		out = append(out, m.Channel)
	}
	return out
}
