package views

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"orderdesk/internal/adapters/tui/styles"
	"orderdesk/internal/application"
	"orderdesk/internal/domain"
)

// BoardKeyMap defines key bindings for the board view
type BoardKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Advance     key.Binding
	Undo        key.Binding
	Cancel      key.Binding
	Refresh     key.Binding
	AutoRefresh key.Binding
	Yank        key.Binding
	Help        key.Binding
	Quit        key.Binding
}

var BoardKeys = BoardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("k", "up"),
		key.WithHelp("k/↑", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("j", "down"),
		key.WithHelp("j/↓", "down"),
	),
	Left: key.NewBinding(
		key.WithKeys("h", "left"),
		key.WithHelp("h/←", "previous column"),
	),
	Right: key.NewBinding(
		key.WithKeys("l", "right", "tab"),
		key.WithHelp("l/→", "next column"),
	),
	Advance: key.NewBinding(
		key.WithKeys("enter", "s"),
		key.WithHelp("enter", "advance order"),
	),
	Undo: key.NewBinding(
		key.WithKeys("u"),
		key.WithHelp("u", "undo"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "cancel order"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	AutoRefresh: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "toggle auto-refresh"),
	),
	Yank: key.NewBinding(
		key.WithKeys("y"),
		key.WithHelp("y", "copy summary"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// SwitchToHelpMsg asks the app to show the help view
type SwitchToHelpMsg struct{}

// SwitchToBoardMsg asks the app to return to the board view
type SwitchToBoardMsg struct{}

// RefreshRequestMsg asks the app to rescan the orders directory
type RefreshRequestMsg struct{}

type column int

const (
	columnPending column = iota
	columnInProgress
	columnCompleted
)

var columnTitles = [...]string{"Pending", "In Progress", "Completed"}

// BoardModel renders the three workflow columns with a details pane
type BoardModel struct {
	board *application.Board

	rows     [3][]*domain.Order
	focus    column
	selected [3]int

	width      int
	height     int
	message    string
	messageErr bool
}

// NewBoardModel creates the board view over the given board state
func NewBoardModel(board *application.Board) *BoardModel {
	m := &BoardModel{board: board}
	m.Reload()
	return m
}

// Init initializes the board view
func (m *BoardModel) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions
func (m *BoardModel) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetMessage sets the status line message
func (m *BoardModel) SetMessage(msg string, isErr bool) {
	m.message = msg
	m.messageErr = isErr
}

// Reload re-reads the three collections from the board and clamps the
// selection into range.
func (m *BoardModel) Reload() {
	m.rows[columnPending] = m.board.Pending()
	m.rows[columnInProgress] = m.board.InProgress()
	m.rows[columnCompleted] = m.board.Completed()
	for c := range m.rows {
		if m.selected[c] >= len(m.rows[c]) {
			m.selected[c] = max(len(m.rows[c])-1, 0)
		}
	}
}

func (m *BoardModel) current() *domain.Order {
	rows := m.rows[m.focus]
	if len(rows) == 0 {
		return nil
	}
	return rows[m.selected[m.focus]]
}

// Update handles messages for the board view
func (m *BoardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, BoardKeys.Quit):
		return m, tea.Quit

	case key.Matches(keyMsg, BoardKeys.Help):
		return m, func() tea.Msg { return SwitchToHelpMsg{} }

	case key.Matches(keyMsg, BoardKeys.Up):
		if m.selected[m.focus] > 0 {
			m.selected[m.focus]--
		}

	case key.Matches(keyMsg, BoardKeys.Down):
		if m.selected[m.focus] < len(m.rows[m.focus])-1 {
			m.selected[m.focus]++
		}

	case key.Matches(keyMsg, BoardKeys.Left):
		if m.focus > columnPending {
			m.focus--
		}

	case key.Matches(keyMsg, BoardKeys.Right):
		if m.focus < columnCompleted {
			m.focus++
		}

	case key.Matches(keyMsg, BoardKeys.Advance):
		m.advance()

	case key.Matches(keyMsg, BoardKeys.Undo):
		m.undo()

	case key.Matches(keyMsg, BoardKeys.Cancel):
		m.cancel()

	case key.Matches(keyMsg, BoardKeys.Refresh):
		return m, func() tea.Msg { return RefreshRequestMsg{} }

	case key.Matches(keyMsg, BoardKeys.AutoRefresh):
		m.board.SetAutoRefresh(!m.board.AutoRefresh())
		if m.board.AutoRefresh() {
			m.SetMessage("Auto-refresh enabled", false)
		} else {
			m.SetMessage("Auto-refresh disabled", false)
		}

	case key.Matches(keyMsg, BoardKeys.Yank):
		m.yank()
	}

	return m, nil
}

func (m *BoardModel) advance() {
	order := m.current()
	if order == nil {
		return
	}
	var err error
	switch m.focus {
	case columnPending:
		err = m.board.Start(order)
	case columnInProgress:
		err = m.board.Complete(order)
	default:
		m.SetMessage("Order already completed", false)
		return
	}
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.Reload()
	m.SetMessage(fmt.Sprintf("Order from %s moved to %s", order.SourceOrDefault(), order.Status), false)
}

func (m *BoardModel) undo() {
	order := m.current()
	if order == nil {
		return
	}
	var err error
	switch m.focus {
	case columnInProgress:
		err = m.board.UndoStart(order)
	case columnCompleted:
		err = m.board.UndoComplete(order)
	default:
		m.SetMessage("Nothing to undo for a pending order", false)
		return
	}
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.Reload()
	m.SetMessage(fmt.Sprintf("Order from %s moved back to %s", order.SourceOrDefault(), order.Status), false)
}

func (m *BoardModel) cancel() {
	order := m.current()
	if order == nil {
		return
	}
	result, err := m.board.Cancel(order)
	if err != nil {
		m.SetMessage(err.Error(), true)
		return
	}
	m.Reload()
	switch {
	case result.FileDeleted:
		m.SetMessage("Order canceled and source file removed", false)
	default:
		m.SetMessage("Order canceled (source file not found)", false)
	}
}

func (m *BoardModel) yank() {
	order := m.current()
	if order == nil {
		return
	}
	summary := fmt.Sprintf("%s | %s | %s | %s",
		order.TypeOrDefault(), order.SourceOrDefault(),
		domain.FormatDate(order.OrderDate), domain.FormatTotal(order))
	if err := clipboard.WriteAll(summary); err != nil {
		m.SetMessage("Clipboard unavailable", true)
		return
	}
	m.SetMessage("Order summary copied", false)
}

// View renders the board view
func (m *BoardModel) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Order Tracking"))
	b.WriteString("\n")

	columns := make([]string, 0, 3)
	for c := columnPending; c <= columnCompleted; c++ {
		columns = append(columns, m.renderColumn(c))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, columns...))
	b.WriteString("\n")

	b.WriteString(m.renderDetails())
	b.WriteString("\n")

	if m.message != "" {
		if m.messageErr {
			b.WriteString(styles.ErrorMsg.Render(m.message))
		} else {
			b.WriteString(styles.Success.Render(m.message))
		}
		b.WriteString("\n")
	}

	auto := "ON"
	if !m.board.AutoRefresh() {
		auto = "OFF"
	}
	b.WriteString(styles.MutedText.Render(
		fmt.Sprintf("auto-refresh: %s  •  ? help  •  q quit", auto)))

	return styles.App.Render(b.String())
}

func (m *BoardModel) renderColumn(c column) string {
	colWidth := max(m.width/3-6, 24)

	var b strings.Builder
	header := fmt.Sprintf("%s (%d)", columnTitles[c], len(m.rows[c]))
	b.WriteString(styles.ColumnHeader.Foreground(styles.StatusColor(statusFor(c))).Render(header))
	b.WriteString("\n")

	if len(m.rows[c]) == 0 {
		b.WriteString(styles.MutedText.Render("empty"))
	}
	for i, order := range m.rows[c] {
		line := fmt.Sprintf("%s  %s  %s",
			truncate(order.TypeOrDefault(), 10),
			truncate(order.SourceOrDefault(), 14),
			domain.FormatTotal(order))
		if c == m.focus && i == m.selected[c] {
			line = styles.RowSelected.Render(line)
		} else {
			line = styles.Row.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	style := styles.Column
	if c == m.focus {
		style = styles.ColumnFocused
	}
	return style.Width(colWidth).Render(b.String())
}

func (m *BoardModel) renderDetails() string {
	order := m.current()
	if order == nil {
		return styles.MutedText.Render("No order selected")
	}

	var b strings.Builder
	b.WriteString(styles.DetailLabel.Render("Type: "))
	b.WriteString(order.TypeOrDefault())
	b.WriteString("  ")
	b.WriteString(styles.DetailLabel.Render("Source: "))
	b.WriteString(order.SourceOrDefault())
	b.WriteString("  ")
	b.WriteString(styles.DetailLabel.Render("Date: "))
	b.WriteString(domain.FormatDate(order.OrderDate))
	b.WriteString("  ")
	b.WriteString(styles.DetailLabel.Render("Total: "))
	b.WriteString(domain.FormatTotal(order))
	b.WriteString("\n")
	for _, it := range order.Items {
		fmt.Fprintf(&b, "  %dx %s  %s\n", it.Quantity(), it.Name(), domain.FormatCurrency(it.Price()))
	}
	return b.String()
}

func statusFor(c column) domain.Status {
	switch c {
	case columnInProgress:
		return domain.StatusInProgress
	case columnCompleted:
		return domain.StatusCompleted
	default:
		return domain.StatusPending
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
