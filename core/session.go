package core

import (
	"errors"
	"sync"
	"time"
)

// ErrTurnInFlight is returned by BeginTurn while another turn owns the
// session transcript.
var ErrTurnInFlight = errors.New("turn already in flight")

// Session is the mutable per-room chat state: the transcript, the mute set
// and the single-turn guard. It is safe for concurrent access.
//
// Contract:
//   - message IDs are monotonic within the session
//   - at most one turn is in flight at a time; only that turn may append
//   - Transcript returns a defensive copy of committed messages, never open
//     (still streaming) placeholders
//   - an open message's content may be replaced in place; Commit freezes it
type Session struct {
	RoomID  string
	Created time.Time
	Updated time.Time

	mu         sync.RWMutex
	members    []Participant
	muted      map[string]bool
	messages   []Message
	nextID     int64
	turnSeq    int64
	turnActive bool
}

// NewSession creates a session for a room with its resolved member roster.
func NewSession(roomID string, members []Participant) *Session {
	now := time.Now().UTC()
	return &Session{
		RoomID:  roomID,
		Created: now,
		Updated: now,
		members: append([]Participant(nil), members...),
		muted:   map[string]bool{},
	}
}

// Members returns the roster in invitation order.
func (s *Session) Members() []Participant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Participant, len(s.members))
	copy(out, s.members)
	return out
}

// Mute silences a participant for future turns. A turn already in flight
// keeps its snapshot and is unaffected.
func (s *Session) Mute(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.muted[id] = true
	s.Updated = time.Now().UTC()
}

// Unmute reverses Mute.
func (s *Session) Unmute(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.muted, id)
	s.Updated = time.Now().UTC()
}

// IsMuted reports whether a participant is currently muted.
func (s *Session) IsMuted(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.muted[id]
}

// BeginTurn claims the session for a new turn and returns its sequence
// number. It fails with ErrTurnInFlight if another turn is active; nothing
// is appended in that case.
func (s *Session) BeginTurn() (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.turnActive {
		return 0, ErrTurnInFlight
	}
	s.turnActive = true
	s.turnSeq++
	return s.turnSeq, nil
}

// EndTurn releases the session for the next turn.
func (s *Session) EndTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turnActive = false
}

// AppendHuman appends a committed user message and returns it.
func (s *Session) AppendHuman(authorName, content string, turn int64) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(Message{
		AuthorID:   "user",
		AuthorName: authorName,
		Content:    content,
		Kind:       KindHuman,
		Turn:       turn,
	})
}

// AppendPlaceholder appends an open AI message holding the transient marker
// text. The caller owns it until Commit.
func (s *Session) AppendPlaceholder(p Participant, turn int64, marker string) Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendLocked(Message{
		AuthorID:   p.ID,
		AuthorName: p.Name,
		Content:    marker,
		Kind:       KindAI,
		Turn:       turn,
		Open:       true,
	})
}

func (s *Session) appendLocked(m Message) Message {
	s.nextID++
	m.ID = s.nextID
	s.messages = append(s.messages, m)
	s.Updated = time.Now().UTC()
	return m
}

// SetOpenContent replaces the content of a still-open message (progressive
// reveal). Committed messages are immutable and left untouched.
func (s *Session) SetOpenContent(id int64, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id && s.messages[i].Open {
			s.messages[i].Content = content
			s.Updated = time.Now().UTC()
			return
		}
	}
}

// Commit writes the final content of an open message and freezes it.
func (s *Session) Commit(id int64, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.messages {
		if s.messages[i].ID == id && s.messages[i].Open {
			s.messages[i].Content = content
			s.messages[i].Open = false
			s.Updated = time.Now().UTC()
			return
		}
	}
}

// Transcript returns a copy of all committed messages in order. Open
// placeholders are excluded so context building never sees a partial reply.
func (s *Session) Transcript() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, 0, len(s.messages))
	for _, m := range s.messages {
		if m.Open {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Messages returns a copy of the full message list including open
// placeholders, for rendering.
func (s *Session) Messages() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.messages))
	copy(out, s.messages)
	return out
}
