package runner

import (
	"context"

	"github.com/aretw0/courier/pkg/domain"
)

// EventType classifies the events a Runner hands to its IOHandler.
type EventType string

const (
	EventPlan     EventType = "plan"
	EventNotice   EventType = "notice"
	EventDeliver  EventType = "deliver"
	EventFinished EventType = "finished"
)

// Event is one observable moment of a simulation.
type Event struct {
	Type    EventType           `json:"type"`
	Plan    *domain.PlanEvent   `json:"plan,omitempty"`
	Notice  *domain.Notice      `json:"notice,omitempty"`
	Channel string              `json:"channel,omitempty"`
	Step    *domain.RouteStep   `json:"step,omitempty"`
	Diff    *domain.SessionDiff `json:"diff,omitempty"`
	Session *domain.Session     `json:"session,omitempty"`
}

// IOHandler is the strategy for talking to the user.
// It allows switching between Text (CLI/TUI) and JSON (structured) modes.
type IOHandler interface {
	// Output presents a simulation event.
	Output(ctx context.Context, event Event) error

	// Input reads a line of input from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (prompts, status updates).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer draws the current session, typically as a grid.
// It lets terminal rendering live outside this package.
type ContentRenderer func(s *domain.Session) (string, error)
