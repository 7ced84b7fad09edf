package sessions

import "time"

// Session is the project-local descriptor of a telemetry-tracked session.
// It is created before any hook fires; hooks treat it as read-only.
type Session struct {
	SessionID     string    `json:"sessionId"`
	RedactPrompts bool      `json:"redactPrompts"`
	TicketID      string    `json:"ticketId,omitempty"`
	StartedAt     time.Time `json:"startedAt,omitempty"`
}

// TicketPointer is the home-scoped "current ticket" pointer. It only applies
// to projects at or below ProjectPath.
type TicketPointer struct {
	ProjectPath string    `json:"projectPath"`
	TicketID    string    `json:"ticketId"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}
