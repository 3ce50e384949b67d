package domain

import "strings"

// SessionDiff represents the changes between two session snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SessionDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	// Current is set when the courier moved.
	Current *Point `json:"current,omitempty"`

	// Status changed?
	Status *SessionStatus `json:"status,omitempty"`

	// Appended contains the direction codes delivered since the old snapshot.
	Appended string `json:"appended,omitempty"`

	// Reset is true when the result log was rewritten (a new run started).
	// Clients should discard their local result before applying Appended.
	Reset bool `json:"reset,omitempty"`
}

// Diff calculates the difference between oldSession and newSession.
// If oldSession is nil, it returns a diff representing the entire newSession (initial load).
// It returns nil when nothing changed.
func Diff(oldSession, newSession *Session) *SessionDiff {
	if newSession == nil {
		return nil
	}

	diff := &SessionDiff{
		SessionID: newSession.ID,
	}

	if oldSession == nil || !oldSession.Current.Equal(newSession.Current) {
		cur := newSession.Current
		diff.Current = &cur
	}
	if oldSession == nil || oldSession.Status != newSession.Status {
		st := newSession.Status
		diff.Status = &st
	}

	diff.Appended, diff.Reset = diffResult(oldSession, newSession)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffResult assumes append-only behavior for the result log.
func diffResult(old, new *Session) (string, bool) {
	if old == nil {
		return new.Result, false
	}
	if strings.HasPrefix(new.Result, old.Result) {
		return new.Result[len(old.Result):], false
	}
	// Prefix mismatch means the log was cleared by a new run.
	return new.Result, true
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SessionDiff) IsEmpty() bool {
	return d.Current == nil &&
		d.Status == nil &&
		d.Appended == "" &&
		!d.Reset
}
