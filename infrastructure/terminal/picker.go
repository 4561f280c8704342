package terminal

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/service"
)

// maxAttempts is how many invalid answers are accepted before giving up.
const maxAttempts = 3

// ErrNoSelection indicates the user gave no valid answer.
var ErrNoSelection = errors.New("no composer selected")

// Picker implements service.ComposerSelector by asking on a terminal.
type Picker struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	highlight   lipgloss.Style
}

// NewPicker creates a Picker reading from stdin and writing to stderr.
// It is interactive only when both are terminals.
func NewPicker() *Picker {
	return NewPickerWithIO(os.Stdin, os.Stderr, IsTerminal(os.Stdin) && IsTerminal(os.Stderr))
}

// NewPickerWithIO creates a Picker over the given streams.
func NewPickerWithIO(in io.Reader, out io.Writer, interactive bool) *Picker {
	return &Picker{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: interactive,
		highlight:   lipgloss.NewRenderer(out).NewStyle().Bold(true),
	}
}

// SelectComposer lists composers and returns the id of the one chosen.
func (p *Picker) SelectComposer(ctx context.Context, composers []chat.Composer) (string, error) {
	if !p.interactive {
		return "", service.ErrNotInteractive
	}
	if len(composers) == 0 {
		return "", ErrNoSelection
	}

	fmt.Fprintln(p.out, p.highlight.Render("Several composers found:"))
	for i, c := range composers {
		name := c.Name()
		if name == "" {
			name = c.ComposerID()
		}
		updated := time.UnixMilli(c.LastUpdatedAt()).UTC().Format(time.RFC3339)
		fmt.Fprintf(p.out, "  %d) %s (updated %s)\n", i+1, name, updated)
	}

	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		fmt.Fprintf(p.out, "Select a composer [1-%d]: ", len(composers))

		line, err := p.in.ReadString('\n')
		if errors.Is(err, io.EOF) && strings.TrimSpace(line) == "" {
			return "", service.ErrNotInteractive
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read selection: %w", err)
		}

		n, convErr := strconv.Atoi(strings.TrimSpace(line))
		if convErr == nil && n >= 1 && n <= len(composers) {
			return composers[n-1].ComposerID(), nil
		}
		fmt.Fprintln(p.out, "Please enter a number from the list.")
	}
	return "", ErrNoSelection
}

// Ensure Picker implements service.ComposerSelector.
var _ service.ComposerSelector = (*Picker)(nil)
