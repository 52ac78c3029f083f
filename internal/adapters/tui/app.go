package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"orderdesk/internal/adapters/tui/views"
	"orderdesk/internal/application"
	"orderdesk/internal/ingest"
)

// ViewState represents the current view
type ViewState int

const (
	ViewBoard ViewState = iota
	ViewHelp
)

// pipelineEventMsg wraps a pipeline event for the update loop.
type pipelineEventMsg ingest.Event

// App is the main TUI application model. All board mutation happens
// inside Update, so the bubbletea loop is the single owner of the
// shared order state; watcher events arrive here as messages.
type App struct {
	board    *application.Board
	pipeline *ingest.Pipeline
	sub      *ingest.Subscription
	watchDir string

	state     ViewState
	boardView *views.BoardModel
	help      *views.HelpModel

	width  int
	height int
}

// NewApp creates a new TUI application
func NewApp(board *application.Board, pipeline *ingest.Pipeline, watchDir string) *App {
	return &App{
		board:     board,
		pipeline:  pipeline,
		sub:       pipeline.Subscribe(16),
		watchDir:  watchDir,
		state:     ViewBoard,
		boardView: views.NewBoardModel(board),
		help:      views.NewHelpModel(),
	}
}

// Init initializes the application
func (a *App) Init() tea.Cmd {
	return a.waitForEvent()
}

// waitForEvent blocks on the pipeline subscription and re-arms after
// each delivery.
func (a *App) waitForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-a.sub.Events()
		if !ok {
			return nil
		}
		return pipelineEventMsg(ev)
	}
}

// Update handles messages for the application
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.boardView.SetSize(msg.Width, msg.Height)
		a.help.SetSize(msg.Width, msg.Height)
		return a, nil

	case pipelineEventMsg:
		a.applyEvent(ingest.Event(msg))
		return a, a.waitForEvent()

	case views.SwitchToHelpMsg:
		a.state = ViewHelp
		return a, nil

	case views.SwitchToBoardMsg:
		a.state = ViewBoard
		return a, nil

	case views.RefreshRequestMsg:
		orders := a.pipeline.ScanOnce(a.watchDir)
		admitted := a.board.Admit(orders)
		a.boardView.Reload()
		a.boardView.SetMessage(fmt.Sprintf("%d new order(s) loaded", len(admitted)), false)
		return a, nil
	}

	var cmd tea.Cmd
	switch a.state {
	case ViewBoard:
		_, cmd = a.boardView.Update(msg)
	case ViewHelp:
		_, cmd = a.help.Update(msg)
	}

	return a, cmd
}

// applyEvent folds a pipeline event into the board. Discovered orders
// are ignored while auto-refresh is off; a reload signal always
// refreshes the view.
func (a *App) applyEvent(ev ingest.Event) {
	switch ev.Kind {
	case ingest.EventOrdersDiscovered:
		if !a.board.AutoRefresh() {
			return
		}
		admitted := a.board.Admit(ev.Orders)
		if len(admitted) > 0 {
			a.boardView.Reload()
			a.boardView.SetMessage(fmt.Sprintf("%d new order(s) discovered", len(admitted)), false)
		}
	case ingest.EventOrdersReloaded:
		a.boardView.Reload()
	}
}

// View renders the current view
func (a *App) View() string {
	switch a.state {
	case ViewHelp:
		return a.help.View()
	default:
		return a.boardView.View()
	}
}
