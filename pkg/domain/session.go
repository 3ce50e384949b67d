package domain

import "time"

// SessionStatus defines the lifecycle stage of a simulation session.
type SessionStatus string

const (
	StatusPlanned   SessionStatus = "planned"   // Route computed, nothing delivered yet
	StatusRunning   SessionStatus = "running"   // Playback in progress
	StatusCompleted SessionStatus = "completed" // Every queued event delivered
	StatusCancelled SessionStatus = "cancelled" // Playback stopped before draining
)

// Session is the persisted record of a simulation.
type Session struct {
	// ID identifies the session in a SessionStore.
	ID string `json:"id"`

	// Input is the raw text the session was created from, if any.
	Input string `json:"input,omitempty"`

	Rows   int     `json:"rows"`
	Cols   int     `json:"cols"`
	Points []Point `json:"points"`

	// Route is the planned direction string.
	Route string `json:"route"`

	// Result is the direction string delivered so far.
	Result string `json:"result"`

	// Current is the last delivered position.
	Current Point `json:"current"`

	Status    SessionStatus `json:"status"`
	UpdatedAt time.Time     `json:"updated_at"`

	// Sealed carries the encrypted session when it was stored through an
	// encrypting store. Every other field except ID and Status is then empty.
	Sealed string `json:"sealed,omitempty"`
}

// NewSession creates a clean session positioned at the origin.
func NewSession(id string) *Session {
	return &Session{
		ID:        id,
		Points:    []Point{},
		Current:   Origin,
		Status:    StatusPlanned,
		UpdatedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy of the session.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.Points = make([]Point, len(s.Points))
	copy(c.Points, s.Points)
	return &c
}

// IsDone reports whether the session reached a final status.
func (s *Session) IsDone() bool {
	return s.Status == StatusCompleted || s.Status == StatusCancelled
}
