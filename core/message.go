// Package core contains the shared domain types of the group chat: rooms,
// participants, messages and the per-room session that owns the transcript.
// Higher level packages (transcript, turn, server) depend on core; core
// depends on nothing but the standard library and uuid.
package core

import "github.com/google/uuid"

// Kind classifies message authorship.
type Kind string

const (
	// KindHuman marks a message written by the human user.
	KindHuman Kind = "human"
	// KindAI marks a message produced by an AI participant.
	KindAI Kind = "ai"
)

// Message is one entry of a room transcript.
//
// IDs are monotonic per room and serve both ordering and client-side list
// reconciliation. Content is mutable only while Open is true (placeholder →
// progressively filled by the streaming relay); Commit freezes it. The turn
// orchestrator exclusively owns an open message; once committed, ownership
// passes to the session transcript.
type Message struct {
	ID         int64  `json:"id"`
	AuthorID   string `json:"author_id"`
	AuthorName string `json:"author_name"`
	Content    string `json:"content"`
	Kind       Kind   `json:"kind"`
	Turn       int64  `json:"turn"`
	Open       bool   `json:"-"`
}

// ChatMessage is a role/content pair in the shape expected by completion
// endpoints. The transcript builder produces these; completion clients
// consume them verbatim.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// TurnEvent is one entry of the append-only feed consumed by the
// presentation boundary. A non-final event carries the accumulated content
// so far for the given message; the final event carries the committed text
// (which may be the sentinel failure text).
type TurnEvent struct {
	MessageID int64  `json:"message_id"`
	AuthorID  string `json:"author_id"`
	Content   string `json:"content"`
	Final     bool   `json:"final"`
}

// EventSink receives turn events in emission order. Implementations must not
// retain the event past the call.
type EventSink func(TurnEvent)

// NewID generates a unique identifier for rooms, turns and custom characters.
func NewID() string { return uuid.NewString() }
