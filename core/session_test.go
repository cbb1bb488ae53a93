package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *Session {
	return NewSession("room-1", []Participant{
		{ID: "ai1", Name: "Echo"},
		{ID: "ai2", Name: "Sage"},
	})
}

func TestSession_MonotonicIDs(t *testing.T) {
	sess := newTestSession()

	m1 := sess.AppendHuman("Me", "hello", 1)
	m2 := sess.AppendPlaceholder(Participant{ID: "ai1", Name: "Echo"}, 1, "...")
	m3 := sess.AppendHuman("Me", "again", 2)

	assert.Equal(t, int64(1), m1.ID)
	assert.Equal(t, int64(2), m2.ID)
	assert.Equal(t, int64(3), m3.ID)
}

func TestSession_TranscriptExcludesOpenMessages(t *testing.T) {
	sess := newTestSession()

	sess.AppendHuman("Me", "hello", 1)
	ph := sess.AppendPlaceholder(Participant{ID: "ai1", Name: "Echo"}, 1, "...")

	transcript := sess.Transcript()
	require.Len(t, transcript, 1)
	assert.Equal(t, "hello", transcript[0].Content)

	sess.Commit(ph.ID, "done")
	transcript = sess.Transcript()
	require.Len(t, transcript, 2)
	assert.Equal(t, "done", transcript[1].Content)
}

func TestSession_CommitFreezesContent(t *testing.T) {
	sess := newTestSession()
	ph := sess.AppendPlaceholder(Participant{ID: "ai1", Name: "Echo"}, 1, "...")

	sess.SetOpenContent(ph.ID, "partial")
	sess.Commit(ph.ID, "final")
	sess.SetOpenContent(ph.ID, "mutated after commit")

	msgs := sess.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "final", msgs[0].Content)
	assert.False(t, msgs[0].Open)
}

func TestSession_SingleTurnGuard(t *testing.T) {
	sess := newTestSession()

	seq, err := sess.BeginTurn()
	require.NoError(t, err)
	assert.Equal(t, int64(1), seq)

	_, err = sess.BeginTurn()
	assert.ErrorIs(t, err, ErrTurnInFlight)

	sess.EndTurn()
	seq, err = sess.BeginTurn()
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

func TestSession_Mute(t *testing.T) {
	sess := newTestSession()

	assert.False(t, sess.IsMuted("ai1"))
	sess.Mute("ai1")
	assert.True(t, sess.IsMuted("ai1"))
	sess.Unmute("ai1")
	assert.False(t, sess.IsMuted("ai1"))
}

func TestSession_MembersIsACopy(t *testing.T) {
	sess := newTestSession()

	members := sess.Members()
	members[0].Name = "changed"

	assert.Equal(t, "Echo", sess.Members()[0].Name)
}
