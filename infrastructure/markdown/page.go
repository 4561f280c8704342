package markdown

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/helixml/hackai-log/domain/chat"
	"github.com/helixml/hackai-log/domain/diff"
	"github.com/helixml/hackai-log/domain/pullrequest"
	"gopkg.in/yaml.v3"
)

// frontMatter is the YAML header of a generated page.
type frontMatter struct {
	Title    string   `yaml:"title"`
	PR       int      `yaml:"pr"`
	Labels   []string `yaml:"labels,omitempty"`
	Branch   string   `yaml:"branch,omitempty"`
	Commit   string   `yaml:"commit"`
	MergedAt string   `yaml:"mergedAt,omitempty"`
}

// Page renders a pull request summary and its conversations as an MDX
// document with YAML front matter.
type Page struct {
	renderer           Renderer
	characterThreshold int
}

// NewPage creates a Page.
func NewPage(renderer Renderer, characterThreshold int) Page {
	return Page{renderer: renderer, characterThreshold: characterThreshold}
}

// Render returns the page text.
func (p Page) Render(summary pullrequest.Summary, chats []chat.FormattedChat) (string, error) {
	pr := summary.PullRequest()

	fm := frontMatter{
		Title:  pr.Title(),
		PR:     pr.Number(),
		Labels: pr.Labels(),
		Branch: pr.HeadRef(),
		Commit: summary.CommitURL(),
	}
	if len(fm.Labels) == 0 {
		fm.Labels = nil
	}
	if t := pr.MergedAt(); t != nil {
		fm.MergedAt = t.UTC().Format(time.RFC3339)
	}

	header, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(header)
	buf.WriteString("---\n\n")

	fmt.Fprintf(&buf, "# %s\n\n", escapeMDX(pr.Title()))
	if body := strings.TrimSpace(pr.Body()); body != "" {
		buf.WriteString(escapeMDX(body))
		buf.WriteString("\n\n")
	}

	buf.WriteString("## Changes\n\n")
	if url := summary.CommitURL(); url != "" {
		fmt.Fprintf(&buf, "[View commit](%s)\n\n", url)
	}
	for _, h := range summary.Diff().Hunks() {
		writeHunk(&buf, h)
	}

	rendered := make([]string, 0, len(chats))
	for _, c := range chats {
		if c.Empty() {
			continue
		}
		rendered = append(rendered, p.renderer.Render(c, p.characterThreshold))
	}
	if len(rendered) > 0 {
		buf.WriteString("## Chats\n\n")
		buf.WriteString(strings.Join(rendered, "\n\n"))
		buf.WriteString("\n")
	}

	return buf.String(), nil
}

func writeHunk(buf *bytes.Buffer, h diff.Hunk) {
	name := h.File()
	if name == "" {
		name = "unknown file"
	}
	fmt.Fprintf(buf, "### `%s` (lines %d-%d)\n\n", name, h.StartLine(), h.EndLine())
	fence := codeFence(h.Content())
	fmt.Fprintf(buf, "%sdiff\n%s\n%s\n\n", fence, h.Content(), fence)
}

// codeFence returns a backtick fence longer than any backtick run in s.
func codeFence(s string) string {
	longest, run := 0, 0
	for _, r := range s {
		if r == '`' {
			run++
			if run > longest {
				longest = run
			}
			continue
		}
		run = 0
	}
	if longest < 3 {
		return "```"
	}
	return strings.Repeat("`", longest+1)
}

var mdxEscaper = strings.NewReplacer("{", `\{`, "}", `\}`, "<", `\<`)

// escapeMDX escapes characters MDX would parse as JSX.
func escapeMDX(s string) string {
	return mdxEscaper.Replace(s)
}
