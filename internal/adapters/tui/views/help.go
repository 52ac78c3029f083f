package views

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"orderdesk/internal/adapters/tui/styles"
)

// HelpKeyMap defines key bindings for the help view
type HelpKeyMap struct {
	Close key.Binding
}

var HelpKeys = HelpKeyMap{
	Close: key.NewBinding(
		key.WithKeys("esc", "q", "?"),
		key.WithHelp("esc/q/?", "close"),
	),
}

// HelpModel is the model for the help view
type HelpModel struct {
	width  int
	height int
}

// NewHelpModel creates a new help view model
func NewHelpModel() *HelpModel {
	return &HelpModel{}
}

// Init initializes the help view
func (m *HelpModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions
func (m *HelpModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// Update handles messages for the help view
func (m *HelpModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, HelpKeys.Close) {
			return m, func() tea.Msg {
				return SwitchToBoardMsg{}
			}
		}
	}

	return m, nil
}

// View renders the help view
func (m *HelpModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Orderdesk Help"))
	b.WriteString("\n\n")

	b.WriteString(styles.Subtitle.Render("Restaurant Order Tracker"))
	b.WriteString("\n\n")

	b.WriteString(styles.DetailLabel.Render("Navigation"))
	b.WriteString("\n")
	b.WriteString(helpLine("j / k / ↑ / ↓", "Move up/down within a column"))
	b.WriteString(helpLine("h / l / ← / →", "Switch column"))
	b.WriteString("\n")

	b.WriteString(styles.DetailLabel.Render("Actions"))
	b.WriteString("\n")
	b.WriteString(helpLine("enter / s", "Advance order (pending → in progress → completed)"))
	b.WriteString(helpLine("u", "Undo last transition for the selected order"))
	b.WriteString(helpLine("x", "Cancel order (archives it, removes source file)"))
	b.WriteString(helpLine("r", "Rescan the orders directory"))
	b.WriteString(helpLine("a", "Toggle auto-refresh of discovered orders"))
	b.WriteString(helpLine("y", "Copy selected order summary to clipboard"))
	b.WriteString("\n")

	b.WriteString(styles.DetailLabel.Render("Other"))
	b.WriteString("\n")
	b.WriteString(helpLine("?", "Toggle this help"))
	b.WriteString(helpLine("q / ctrl+c", "Quit"))

	return styles.App.Render(b.String())
}

func helpLine(keys, desc string) string {
	return styles.HelpKey.Render(keys) + "  " + styles.HelpDesc.Render(desc) + "\n"
}
