// Package confirmations asks the operator yes/no questions before a job
// mutates a site.
package confirmations

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/arthur-debert/mwu/pkg/logging"
	"github.com/mattn/go-isatty"
	"github.com/pterm/pterm"
)

// ConsolePrompter implements the orchestrator's Confirmer. On a terminal it
// shows an interactive pterm confirm; otherwise it reads one answer per line
// from In. Anything but y or yes is a no.
type ConsolePrompter struct {
	In  io.Reader
	Out io.Writer

	// AssumeYes answers every prompt with yes without asking
	AssumeYes bool

	interactive bool
	reader      *bufio.Reader
}

// NewConsolePrompter prompts on stdin and stdout
func NewConsolePrompter(assumeYes bool) *ConsolePrompter {
	fd := os.Stdin.Fd()
	return &ConsolePrompter{
		In:          os.Stdin,
		Out:         os.Stdout,
		AssumeYes:   assumeYes,
		interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd),
	}
}

// Confirm asks message and returns the answer
func (p *ConsolePrompter) Confirm(message string) bool {
	logger := logging.GetLogger("ui.confirmations")
	if p.AssumeYes {
		logger.Debug().Str("prompt", message).Msg("Assuming yes")
		return true
	}

	if p.interactive {
		ok, err := pterm.DefaultInteractiveConfirm.WithDefaultValue(false).Show(message)
		if err != nil {
			logger.Warn().Err(err).Msg("Interactive confirm failed, treating as no")
			return false
		}
		return ok
	}

	if p.reader == nil {
		p.reader = bufio.NewReader(p.In)
	}
	fmt.Fprintf(p.Out, "%s [y/N]: ", message)
	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		logger.Debug().Err(err).Msg("No answer available, treating as no")
		fmt.Fprintln(p.Out)
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
