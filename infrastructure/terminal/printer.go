// Package terminal renders command output and asks the user questions.
package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/pullrequest"
	"github.com/mattn/go-isatty"
)

// PreviewLength is the number of characters shown per prompt preview.
const PreviewLength = 150

// PreviewCount is the number of prompts previewed after extraction.
const PreviewCount = 3

// Printer writes human-readable command output.
type Printer struct {
	out     io.Writer
	success lipgloss.Style
	section lipgloss.Style
	failure lipgloss.Style
}

// NewPrinter creates a Printer writing to out. Styles are dropped when out
// is not a colour terminal.
func NewPrinter(out io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		success: r.NewStyle().Foreground(lipgloss.Color("2")),
		section: r.NewStyle().Foreground(lipgloss.Color("6")),
		failure: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Summary prints the metadata and hunk ranges of a summary.
func (p *Printer) Summary(s pullrequest.Summary) {
	pr := s.PullRequest()
	hunks := s.Diff().Hunks()

	fmt.Fprintln(p.out, "\n"+p.success.Render("✨ Successfully gathered diff data:"))
	fmt.Fprintln(p.out, "\n"+p.section.Render("PR Info:"))
	fmt.Fprintf(p.out, "Title: %s\n", pr.Title())
	if pr.Number() > 0 {
		fmt.Fprintf(p.out, "Number: %d\n", pr.Number())
	}
	fmt.Fprintf(p.out, "Labels: %s\n", strings.Join(pr.Labels(), ", "))
	commit := s.CommitURL()
	if commit == "" {
		commit = pr.Ref()
	}
	fmt.Fprintf(p.out, "Commit: %s\n", commit)

	fmt.Fprintln(p.out, "\n"+p.section.Render("Diff Summary:"))
	fmt.Fprintf(p.out, "Total hunks: %d\n", len(hunks))
	for i, h := range hunks {
		fmt.Fprintf(p.out, "\nHunk %d:\n", i+1)
		if h.File() != "" {
			fmt.Fprintf(p.out, "File: %s\n", h.File())
		}
		fmt.Fprintf(p.out, "Lines: %d-%d (%d lines)\n", h.StartLine(), h.EndLine(), h.LineCount())
	}
}

// Prompts reports where the prompts were saved and previews the first few.
func (p *Printer) Prompts(path string, prompts []chat.Prompt) {
	if path != "" {
		fmt.Fprintln(p.out, "\n"+p.success.Render(fmt.Sprintf("✅ Saved %d prompts to %s", len(prompts), path)))
	} else {
		fmt.Fprintln(p.out, "\n"+p.success.Render(fmt.Sprintf("✅ Extracted %d prompts", len(prompts))))
	}
	if len(prompts) == 0 {
		return
	}

	fmt.Fprintln(p.out, "\nPrompt preview:")
	for i, prompt := range prompts {
		if i == PreviewCount {
			break
		}
		fmt.Fprintln(p.out, "\n"+p.section.Render(fmt.Sprintf("Prompt %d:", i+1)))
		fmt.Fprintln(p.out, Preview(prompt.Text(), PreviewLength))
	}
}

// Markdown prints rendered Markdown as is.
func (p *Printer) Markdown(md string) {
	fmt.Fprintln(p.out, md)
}

// Success prints a confirmation line.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.out, p.success.Render("✅ "+msg))
}

// Error prints the single line reported when a command fails.
func (p *Printer) Error(err error) {
	fmt.Fprintln(p.out, "\n"+p.failure.Render("❌ Error:")+" "+err.Error())
}

// Preview truncates text to n characters, marking the cut with "...".
func Preview(text string, n int) string {
	runes := []rune(text)
	if len(runes) <= n {
		return text
	}
	return string(runes[:n]) + "..."
}
