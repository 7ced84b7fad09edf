package queue

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxErrorLength is the number of characters of a tool error kept in an event.
const MaxErrorLength = 500

// TimestampFormat is ISO-8601 with millisecond precision.
const TimestampFormat = "2006-01-02T15:04:05.000Z07:00"

// Tool event kinds, carried in the "event" field.
const (
	KindStart      = "start"
	KindEnd        = "end"
	KindDeny       = "deny"
	KindSessionEnd = "sessionEnd"
)

// PromptEventType is carried in the "eventType" field of prompt events.
const PromptEventType = "prompt"

// Event is one immutable queue record.
type Event interface {
	session() string
}

// PromptEvent records a submitted prompt, raw or digested.
type PromptEvent struct {
	SessionID    string `json:"sessionId" jsonschema:"minLength=1"`
	EventType    string `json:"eventType" jsonschema:"enum=prompt"`
	Prompt       string `json:"prompt"`
	PromptLength int    `json:"promptLength" jsonschema:"minimum=0"`
	Redacted     bool   `json:"redacted"`
	Timestamp    string `json:"timestamp" jsonschema:"format=date-time"`
}

// ToolEvent records a tool start, end or admission denial.
type ToolEvent struct {
	SessionID     string `json:"sessionId" jsonschema:"minLength=1"`
	Event         string `json:"event" jsonschema:"enum=start,enum=end,enum=deny"`
	ToolName      string `json:"toolName"`
	CorrelationID string `json:"correlationId"`
	DurationMs    int64  `json:"durationMs"`
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty" jsonschema:"maxLength=500"`
	Reason        string `json:"reason,omitempty"`
	Timestamp     string `json:"timestamp" jsonschema:"format=date-time"`
}

// SessionEndEvent marks the end of a session.
type SessionEndEvent struct {
	SessionID    string `json:"sessionId" jsonschema:"minLength=1"`
	Event        string `json:"event" jsonschema:"enum=sessionEnd"`
	QueuedEvents int    `json:"queuedEvents" jsonschema:"minimum=0"`
	Timestamp    string `json:"timestamp" jsonschema:"format=date-time"`
}

func (e PromptEvent) session() string     { return e.SessionID }
func (e ToolEvent) session() string       { return e.SessionID }
func (e SessionEndEvent) session() string { return e.SessionID }

// Timestamp formats t in UTC with millisecond precision.
func Timestamp(t time.Time) string {
	return t.UTC().Format(TimestampFormat)
}

// Digest returns the hex SHA-256 of a prompt.
func Digest(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}

// Truncate cuts s to at most n characters. Invalid UTF-8 is replaced first
// so the cut never splits a sequence.
func Truncate(s string, n int) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "�")
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// NewPromptEvent builds a prompt event. With redact set the stored prompt is
// its digest; promptLength always counts the characters of the original.
func NewPromptEvent(sessionID, prompt string, redact bool, at time.Time) PromptEvent {
	ev := PromptEvent{
		SessionID:    sessionID,
		EventType:    PromptEventType,
		Prompt:       prompt,
		PromptLength: utf8.RuneCountInString(prompt),
		Timestamp:    Timestamp(at),
	}
	if redact {
		ev.Prompt = Digest(prompt)
		ev.Redacted = true
	}
	return ev
}

// NewEndEvent builds the end event of a tool. An empty errText means success.
func NewEndEvent(sessionID, toolName, correlationID string, durationMs int64, errText string, at time.Time) ToolEvent {
	return ToolEvent{
		SessionID:     sessionID,
		Event:         KindEnd,
		ToolName:      toolName,
		CorrelationID: correlationID,
		DurationMs:    durationMs,
		Success:       errText == "",
		Error:         Truncate(errText, MaxErrorLength),
		Timestamp:     Timestamp(at),
	}
}

// NewStartEvent builds the start event of an admitted tool.
func NewStartEvent(sessionID, toolName, correlationID string, at time.Time) ToolEvent {
	return ToolEvent{
		SessionID:     sessionID,
		Event:         KindStart,
		ToolName:      toolName,
		CorrelationID: correlationID,
		Success:       true,
		Timestamp:     Timestamp(at),
	}
}

// NewDenyEvent records an admission denial.
func NewDenyEvent(sessionID, toolName, reason string, at time.Time) ToolEvent {
	return ToolEvent{
		SessionID: sessionID,
		Event:     KindDeny,
		ToolName:  toolName,
		Reason:    reason,
		Timestamp: Timestamp(at),
	}
}

// NewSessionEndEvent marks the end of a session with the number of events
// queued before it.
func NewSessionEndEvent(sessionID string, queued int, at time.Time) SessionEndEvent {
	return SessionEndEvent{
		SessionID:    sessionID,
		Event:        KindSessionEnd,
		QueuedEvents: queued,
		Timestamp:    Timestamp(at),
	}
}
