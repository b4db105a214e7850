package tui

import "jobfeed-engine/internal/events"

// feedEventMsg carries one hub event; the view is re-read from the session.
type feedEventMsg struct {
	event events.Event
}

// eventsClosedMsg means the hub shut down.
type eventsClosedMsg struct{}
