package display

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/arthur-debert/mwu/pkg/notify"
	"github.com/arthur-debert/mwu/pkg/report"
	"github.com/arthur-debert/mwu/pkg/types"
	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Result is one finished job
type Result struct {
	Job      types.UpdateJobSpec
	Report   *report.Report
	Duration time.Duration
}

// Renderer writes command output in one format
type Renderer struct {
	w      io.Writer
	format Format
}

// New creates a renderer. FormatAuto is resolved against stdout.
func New(w io.Writer, f Format) *Renderer {
	if f == FormatAuto {
		f = DetectFormat(os.Stdout)
	}
	return &Renderer{w: w, format: f}
}

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Bold(true)
)

// Sites lists resolved sites
func (r *Renderer) Sites(sites []types.SiteDescriptor) error {
	switch r.format {
	case FormatJSON:
		return r.json(sites)
	case FormatTerminal:
		data := pterm.TableData{{"Name", "Framework", "Owner", "Team", "Frozen"}}
		for _, s := range sites {
			data = append(data, []string{s.Name, s.Framework, s.Owner, yesNo(s.IsTeamMember()), yesNo(s.Frozen)})
		}
		out, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(r.w, out)
		return err
	default:
		for _, s := range sites {
			if _, err := fmt.Fprintf(r.w, "%s\t%s\t%s\n", s.Name, s.Framework, s.Owner); err != nil {
				return err
			}
		}
		return nil
	}
}

// Queue prints the jobs about to run
func (r *Renderer) Queue(jobs []types.UpdateJobSpec) error {
	if r.format == FormatJSON {
		return nil
	}
	header := fmt.Sprintf("%d site(s) queued", len(jobs))
	if r.format == FormatTerminal {
		header = pterm.DefaultSection.Sprint(header)
	}
	if _, err := fmt.Fprintln(r.w, header); err != nil {
		return err
	}
	for i, j := range jobs {
		if _, err := fmt.Fprintf(r.w, "  %d. %s (%s)%s\n", i+1, j.Ref, frameworkOrUnknown(j.Framework), jobFlags(j)); err != nil {
			return err
		}
	}
	return nil
}

// Job prints one job report as soon as it finishes
func (r *Renderer) Job(res Result) error {
	msg := notify.Format(res.Job, res.Report)
	switch r.format {
	case FormatJSON:
		return r.json(jobView(res))
	case FormatTerminal:
		color := lipgloss.Color(msg.Color())
		title := titleStyle.Foreground(color).Render(msg.Title)
		body := strings.Join(msg.Lines, "\n")
		if body == "" {
			body = "=> Nothing to report."
		}
		_, err := fmt.Fprintln(r.w, boxStyle.BorderForeground(color).Render(title+"\n"+body))
		return err
	default:
		if _, err := fmt.Fprintln(r.w, msg.Title); err != nil {
			return err
		}
		for _, l := range msg.Lines {
			if _, err := fmt.Fprintln(r.w, l); err != nil {
				return err
			}
		}
		return nil
	}
}

// Summary prints the run totals
func (r *Renderer) Summary(results []Result) error {
	var completed, aborted, declined int
	for _, res := range results {
		switch {
		case res.Report.Error:
			aborted++
		case res.Report.Declined:
			declined++
		default:
			completed++
		}
	}
	if r.format == FormatJSON {
		return r.json(map[string]int{"completed": completed, "aborted": aborted, "declined": declined})
	}
	line := fmt.Sprintf("%d completed, %d aborted, %d declined", completed, aborted, declined)
	if r.format == FormatTerminal {
		if aborted > 0 {
			line = pterm.Error.Sprint(line)
		} else {
			line = pterm.Success.Sprint(line)
		}
	}
	_, err := fmt.Fprintln(r.w, line)
	return err
}

func (r *Renderer) json(v interface{}) error {
	enc := json.NewEncoder(r.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type jobJSON struct {
	Ref      string           `json:"ref"`
	Error    bool             `json:"error"`
	Reason   string           `json:"reason,omitempty"`
	Detail   string           `json:"detail,omitempty"`
	Declined bool             `json:"declined,omitempty"`
	States   []report.State   `json:"states"`
	Lines    []string         `json:"lines"`
	Seconds  float64          `json:"seconds"`
	Sections *report.Sections `json:"sections"`
}

func jobView(res Result) jobJSON {
	return jobJSON{
		Ref:      res.Job.Ref.String(),
		Error:    res.Report.Error,
		Reason:   string(res.Report.Reason),
		Detail:   res.Report.Detail,
		Declined: res.Report.Declined,
		States:   res.Report.States,
		Lines:    notify.Format(res.Job, res.Report).Lines,
		Seconds:  res.Duration.Seconds(),
		Sections: &res.Report.Sections,
	}
}

func jobFlags(j types.UpdateJobSpec) string {
	var flags []string
	if j.ReportOnly() {
		flags = append(flags, "report only")
	}
	if j.Backup != "" {
		flags = append(flags, "backup")
	}
	if j.Upstream {
		flags = append(flags, "upstream")
	}
	if len(j.AutoDeploy) > 0 {
		flags = append(flags, "deploy "+strings.Join(j.AutoDeploy, ","))
	}
	if len(flags) == 0 {
		return ""
	}
	return " [" + strings.Join(flags, ", ") + "]"
}

func frameworkOrUnknown(fw string) string {
	if fw == "" {
		return "unknown framework"
	}
	return fw
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
