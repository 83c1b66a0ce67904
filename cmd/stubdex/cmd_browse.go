package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"stubdex/internal/index"
	"stubdex/internal/render"
	"stubdex/internal/stub"
)

// browseCmd opens an interactive symbol browser over the index.
var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Interactively browse the symbol index",
	Long: `Opens a terminal UI: type a qualified-name prefix to filter
symbols, arrow keys to move, enter to show documentation, esc to quit.`,
	RunE: runBrowse,
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := index.Open(indexPath(cfg))
	if err != nil {
		return err
	}
	defer store.Close()

	m := newBrowseModel(store)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

const browseLimit = 30

var (
	browsePromptStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true)
	browseCursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	browseKindStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	browsePreviewBorder = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1)
	browseErrStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// browseModel is the bubbletea model for the symbol browser.
type browseModel struct {
	store   *index.Store
	input   textinput.Model
	results []stub.Symbol
	cursor  int
	preview string
	width   int
	height  int
	err     error
}

func newBrowseModel(store *index.Store) browseModel {
	ti := textinput.New()
	ti.Placeholder = "String#g, ENV., Kernel ..."
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()

	m := browseModel{store: store, input: ti}
	m.query("")
	return m
}

func (m *browseModel) query(prefix string) {
	syms, err := m.store.Complete(prefix, browseLimit)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.results = syms
	if m.cursor >= len(m.results) {
		m.cursor = 0
	}
	m.preview = ""
}

func (m browseModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down":
			if m.cursor < len(m.results)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.cursor < len(m.results) {
				m.showPreview(m.results[m.cursor])
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	before := m.input.Value()
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.query(m.input.Value())
	}
	return m, cmd
}

func (m *browseModel) showPreview(sym stub.Symbol) {
	width := m.width - 4
	if width <= 0 {
		width = 76
	}
	out, err := render.ANSI(render.HoverMarkdown(sym), width)
	if err != nil {
		m.err = err
		return
	}
	m.preview = strings.TrimRight(out, "\n")
}

func (m browseModel) View() string {
	var b strings.Builder

	b.WriteString(browsePromptStyle.Render("stubdex browse"))
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(browseErrStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	if len(m.results) == 0 {
		b.WriteString(browseKindStyle.Render("no matches"))
		b.WriteString("\n")
	}
	for i, sym := range m.results {
		marker := "  "
		line := fmt.Sprintf("%-40s %s", sym.QName, browseKindStyle.Render(string(sym.Kind)))
		if i == m.cursor {
			marker = browseCursorStyle.Render("> ")
			line = browseCursorStyle.Render(fmt.Sprintf("%-40s", sym.QName)) +
				" " + browseKindStyle.Render(string(sym.Kind))
		}
		b.WriteString(marker)
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.preview != "" {
		b.WriteString("\n")
		b.WriteString(browsePreviewBorder.Render(m.preview))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(browseKindStyle.Render("up/down: move  enter: docs  esc: quit"))
	return b.String()
}
