package notify

import (
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/types"
)

// ChannelDefault addresses the configured channel (or the webhook's own)
const ChannelDefault = ""

// Route returns where a job's message goes. Nil suppresses the message.
//
// Failed jobs always notify. Successful jobs notify only when a section
// has something to say. The channel always receives the message; recipients
// of the error group get a direct copy on failure, the updated group when
// the site changed, and the report group on every notification.
func Route(job types.UpdateJobSpec, rep *report.Report) []string {
	if rep.Declined && !rep.Error {
		return nil
	}
	if !rep.Error && !rep.Sections.NonTrivial() {
		return nil
	}

	dest := []string{ChannelDefault}
	seen := map[string]bool{ChannelDefault: true}
	add := func(users []string) {
		for _, u := range users {
			if u == "" {
				continue
			}
			d := directChannel(u)
			if seen[d] {
				continue
			}
			seen[d] = true
			dest = append(dest, d)
		}
	}

	n := job.Notifications
	if rep.Error {
		add(n.Error)
	} else if updated(rep) {
		add(n.Updated)
	}
	add(n.Report)
	return dest
}

func directChannel(user string) string {
	if user[0] == '@' || user[0] == '#' {
		return user
	}
	return "@" + user
}
