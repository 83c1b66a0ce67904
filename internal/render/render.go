// Package render turns symbols and diagnostics into human output: hover
// documentation as markdown (optionally rendered to ANSI for terminals)
// and styled one-line diagnostics.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"stubdex/internal/lint"
	"stubdex/internal/logging"
	"stubdex/internal/stub"
)

// HoverMarkdown assembles the hover/help text for a symbol: heading,
// declaration line, prose, and any embedded examples as fenced code.
func HoverMarkdown(sym stub.Symbol) string {
	var b strings.Builder

	fmt.Fprintf(&b, "## `%s`\n\n", sym.QName)
	fmt.Fprintf(&b, "```ruby\n%s\n```\n\n", sym.Signature)

	doc := docFromText(sym.Doc)
	if prose := proseText(doc); prose != "" {
		b.WriteString(prose)
		b.WriteString("\n\n")
	}
	for _, example := range doc.Examples() {
		b.WriteString("```ruby\n")
		b.WriteString(strings.Join(example, "\n"))
		b.WriteString("\n```\n\n")
	}

	fmt.Fprintf(&b, "*%s — %s:%d*\n", sym.Kind, sym.Path, sym.Line)
	return b.String()
}

// docFromText reconstructs a DocComment from the flattened text the index
// stores (DocComment.Text output).
func docFromText(text string) stub.DocComment {
	if text == "" {
		return stub.DocComment{}
	}
	lines := strings.Split(text, "\n")
	// Text() trimmed the single leading space; restore it so the
	// example-line heuristic sees the original indentation.
	restored := make([]string, len(lines))
	for i, l := range lines {
		if l == "" {
			restored[i] = ""
		} else {
			restored[i] = " " + l
		}
	}
	return stub.DocComment{Lines: restored}
}

// proseText returns the non-example doc lines as paragraphs.
func proseText(doc stub.DocComment) string {
	var out []string
	for _, l := range doc.Lines {
		if strings.HasPrefix(l, "   ") && strings.TrimSpace(l) != "" {
			continue // example line, emitted separately
		}
		out = append(out, strings.TrimSpace(l))
	}
	text := strings.Join(out, "\n")
	return strings.TrimSpace(text)
}

// ANSI renders markdown for terminal display.
func ANSI(markdown string, width int) (string, error) {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", fmt.Errorf("create renderer: %w", err)
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	logging.Render("rendered %d bytes of markdown", len(markdown))
	return out, nil
}

var (
	pathStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	qnameStyle = lipgloss.NewStyle().Bold(true)
	kindStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// Diagnostic formats one lint finding for terminal output.
func Diagnostic(d lint.Diagnostic) string {
	sev := warnStyle.Render(string(d.Severity))
	if d.Severity == lint.SeverityError {
		sev = errStyle.Render(string(d.Severity))
	}
	return fmt.Sprintf("%s %s %s %s",
		pathStyle.Render(fmt.Sprintf("%s:%d:%d:", d.Path, d.Line, d.Col)),
		sev,
		ruleStyle.Render("["+d.Rule+"]"),
		d.Message,
	)
}

// Completion formats one completion candidate for terminal output.
func Completion(sym stub.Symbol) string {
	return fmt.Sprintf("%s  %s", qnameStyle.Render(sym.QName), kindStyle.Render(string(sym.Kind)))
}
