// Package tui renders a feed session in the terminal and maps keys onto
// its query transitions.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"jobfeed-engine/internal/domain"
	"jobfeed-engine/internal/events"
	"jobfeed-engine/internal/feed"
	"jobfeed-engine/internal/paginate"
	"jobfeed-engine/internal/query"
)

// Session is satisfied by *feed.Session.
type Session interface {
	View() feed.View
	SetFilter(aboveOnly bool)
	SetSort(by domain.SortBy) error
	SetPage(p int) error
	NextPage() error
	PrevPage() error
	LastPage() error
	Refresh()
}

type App struct {
	session Session
	updates chan string

	view    feed.View
	spinner spinner.Model
	note    string

	width  int
	height int
}

// NewApp renders s and redraws on every message received from updates,
// which is normally a subscription to the session's event hub.
func NewApp(s Session, updates chan string) *App {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	return &App{
		session: s,
		updates: updates,
		view:    s.View(),
		spinner: sp,
	}
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(waitForEvent(a.updates), a.spinner.Tick)
}

func waitForEvent(ch chan string) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		raw, ok := <-ch
		if !ok {
			return eventsClosedMsg{}
		}
		ev, _ := events.Parse(raw)
		return feedEventMsg{event: ev}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear the sticky note on any keypress
		a.note = ""
		return a.handleKey(msg)

	case feedEventMsg:
		a.view = a.session.View()
		return a, waitForEvent(a.updates)

	case eventsClosedMsg:
		a.updates = nil
		return a, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		// Also catches transitions whose event was dropped by the hub.
		a.view = a.session.View()
		return a, cmd
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var err error
	switch msg.String() {
	case "q", "ctrl+c":
		return a, tea.Quit
	case "a":
		a.session.SetFilter(false)
	case "h":
		a.session.SetFilter(true)
	case "s":
		next := domain.SortByScore
		if a.view.Query.SortBy == domain.SortByScore {
			next = domain.SortByTime
		}
		err = a.session.SetSort(next)
	case "right", "n":
		err = a.session.NextPage()
	case "left", "p":
		err = a.session.PrevPage()
	case "g", "home":
		err = a.session.SetPage(1)
	case "G", "end":
		err = a.session.LastPage()
	case "r":
		a.session.Refresh()
	default:
		p, ok := pageKey(msg.String())
		if !ok {
			return a, nil
		}
		// Digits pick from the selector row on screen.
		if !paginate.Offers(a.view.Pages, p) {
			a.note = fmt.Sprintf("page %d is not in the pager", p)
			return a, nil
		}
		err = a.session.SetPage(p)
	}

	switch {
	case errors.Is(err, query.ErrPageOutOfRange):
		a.note = "no more pages"
	case err != nil:
		a.note = err.Error()
	}
	a.view = a.session.View()
	return a, nil
}

func pageKey(k string) (int, bool) {
	if len(k) != 1 || k[0] < '1' || k[0] > '9' {
		return 0, false
	}
	return int(k[0] - '0'), true
}

func (a *App) View() string {
	loading := ""
	if a.view.IsLoading {
		loading = a.spinner.View()
	}
	return render(a.view, a.width, loading, a.note)
}
