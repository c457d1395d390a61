package model

// Session is a remote conversation thread, identified by (user, session).
// Sessions are owned and mutated exclusively by the agent engine; the
// client only ever holds read-only copies.
type Session struct {
	ID             string      `json:"id"`
	LastUpdateTime EpochString `json:"lastUpdateTime"`
	Events         []Event     `json:"events"`
}

// SessionSummary is the listing form of a Session. IsNew and IsCurrent are
// per-render display flags; they are never sent to or stored on the remote
// service.
type SessionSummary struct {
	ID             string      `json:"id"`
	LastUpdateTime EpochString `json:"lastUpdateTime"`

	IsNew     bool `json:"-"`
	IsCurrent bool `json:"-"`
}

// Summary projects a full session down to its listing form.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:             s.ID,
		LastUpdateTime: s.LastUpdateTime,
	}
}

// Turn is one displayable chat exchange entry: the role it renders under
// and the parts that make it up. The turn list is a display cache only;
// Session.Events remains authoritative.
type Turn struct {
	Role  string
	Parts []Part
}
