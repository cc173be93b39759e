package notify

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/types"
)

const (
	ColorError   = "#dd0d0d"
	ColorSuccess = "#117bf3"
	ColorLinks   = "#ffb305"
)

// Message is a formatted job notification, independent of the transport
type Message struct {
	Site  string
	Title string

	// Lines are the report lines, rendered inside a code block
	Lines []string
	Error bool

	// URLs maps dashboard and environment names to links
	URLs map[string]string
}

// Color is red for failed jobs and blue otherwise
func (m Message) Color() string {
	if m.Error {
		return ColorError
	}
	return ColorSuccess
}

// Body renders the lines as a Slack code block
func (m Message) Body() string {
	return "```\n" + strings.Join(m.Lines, "\n") + "\n```"
}

// Format renders one message per job: a title line and one block of lines
// per populated section in fixed order. The error detail comes last.
func Format(job types.UpdateJobSpec, rep *report.Report) Message {
	f := formatter{noun: "plugin"}
	if job.Workflow == types.WorkflowDrupal {
		f.noun = "module"
	}

	m := Message{
		Site:  job.Ref.Site,
		Title: fmt.Sprintf("Terminus update report on %s", job.Ref.Site),
		Error: rep.Error,
	}
	if job.Ref.Env != "" && job.Ref.Env != types.EnvDev {
		m.Title += fmt.Sprintf(" (%s)", job.Ref.Env)
	}
	if rep.ReportOnly {
		f.line("Report only. No changes were made.")
	}
	if rep.Declined {
		f.line("Update declined.")
	}

	for _, e := range rep.Sections.Order() {
		switch v := e.Value.(type) {
		case *report.BackupSection:
			f.backup(v)
		case *report.UpstreamSection:
			f.upstream(v)
		case *report.PackageUpdatesSection:
			f.packageUpdates(v)
		case *report.PackageListSection:
			if e.Name == report.SectionMajorUpdatesSkipped {
				f.majorSkipped(v)
			} else {
				f.excluded(v)
			}
		case *report.CommitSection:
			f.commit(v)
		case *report.DeploySection:
			f.deploy(v)
		}
	}

	if rep.Error {
		f.line("ERROR [%s] %s", rep.Reason, rep.Detail)
	}
	m.Lines = f.lines
	return m
}

type formatter struct {
	noun  string
	lines []string
}

func (f *formatter) line(format string, args ...interface{}) {
	f.lines = append(f.lines, "=> "+fmt.Sprintf(format, args...))
}

func (f *formatter) item(format string, args ...interface{}) {
	f.lines = append(f.lines, "   "+fmt.Sprintf(format, args...))
}

func (f *formatter) backup(s *report.BackupSection) {
	switch s.Status {
	case report.StepDone:
		f.line("Created %s backup, kept for %d days.", s.Element, s.KeepFor)
	case report.StepFailed:
		f.line("Backup failed: %s", s.Detail)
	}
}

func (f *formatter) upstream(s *report.UpstreamSection) {
	switch s.Status {
	case report.StepDone:
		f.line("Updated site upstream.")
	case report.StepListed:
		f.line("Upstream updates available:")
	case report.StepFailed:
		f.line("Upstream update failed: %s", s.Detail)
	default:
		f.line("Upstream update is not available.")
		return
	}
	for _, c := range s.Commits {
		f.item("[ %s ] %s", c.Author, c.Message)
	}
}

func (f *formatter) packageUpdates(s *report.PackageUpdatesSection) {
	empty := true
	if len(s.Applied) > 0 || len(s.Failed) > 0 {
		empty = false
		f.line("Minor %s updates applied:", f.noun)
		for _, it := range s.Applied {
			f.item("%s    %s", versionChange(it.OldVersion, it.NewVersion), it.Name)
		}
		for _, it := range s.Failed {
			f.item("%s    %s    ERROR", versionChange(it.OldVersion, it.NewVersion), it.Name)
		}
	}
	if len(s.Available) > 0 {
		empty = false
		f.line("Available minor %s updates:", f.noun)
		for _, p := range s.Available {
			f.item("%s    %s | Package: available", versionChange(p.Version, p.UpdateVersion), p.Name)
		}
	}
	if len(s.Unavailable) > 0 {
		empty = false
		f.line("%s updates without a package:", strings.ToUpper(f.noun[:1])+f.noun[1:])
		for _, p := range s.Unavailable {
			f.item("%s    %s | Package: not available", versionChange(p.Version, p.UpdateVersion), p.Name)
		}
	}
	if empty {
		f.line("No minor %s updates available.", f.noun)
	}
}

func (f *formatter) majorSkipped(s *report.PackageListSection) {
	if len(s.Packages) == 0 {
		f.line("No major %s updates available.", f.noun)
		return
	}
	f.line("Skipped major %s updates: To apply them, run mwu with --major-update", f.noun)
	for _, p := range s.Packages {
		f.item("%s    %s", versionChange(p.Version, p.UpdateVersion), p.Name)
	}
}

func (f *formatter) excluded(s *report.PackageListSection) {
	if len(s.Packages) == 0 {
		f.line("No excluded %ss are installed.", f.noun)
		return
	}
	f.line("Excluded %s updates:", f.noun)
	for _, p := range s.Packages {
		f.item("[ %s ]    %s", FormatVersion(p.Version), p.Name)
	}
}

func (f *formatter) commit(s *report.CommitSection) {
	switch s.Status {
	case report.StepDone:
		f.line("Committed changes: %s", s.Message)
	case report.StepNothing:
		f.line("No changes detected. Nothing to commit.")
	case report.StepFailed:
		f.line("Commit failed: %s", s.Detail)
	}
}

func (f *formatter) deploy(s *report.DeploySection) {
	if s.Detail != "" {
		f.line("%s", s.Detail)
		return
	}
	f.line("Deploy to %s: %s", s.Env, s.Status)
}

// FormatVersion normalizes a version for display. Versions that are not
// semver-like are shown as they are.
func FormatVersion(v string) string {
	if v == "" {
		return "-"
	}
	sv, err := semver.NewVersion(v)
	if err != nil {
		return v
	}
	return sv.String()
}

func versionChange(from, to string) string {
	return fmt.Sprintf("[ %s ] -> [ %s ]", FormatVersion(from), FormatVersion(to))
}

// updated reports whether the job changed the site
func updated(rep *report.Report) bool {
	s := rep.Sections
	if s.Upstream != nil && s.Upstream.Status == report.StepDone {
		return true
	}
	if s.PackageUpdates != nil && len(s.PackageUpdates.Applied) > 0 {
		return true
	}
	if s.Commit != nil && s.Commit.Status == report.StepDone {
		return true
	}
	return false
}
