// Package turn implements the multi-agent turn orchestrator: the sequencing
// engine that, given one user message, invokes every active AI participant
// in order, relays partial output to the presentation layer, feeds completed
// replies back into the shared transcript for the next participant, and
// degrades individual failures without aborting the whole turn.
package turn

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/parlorhq/parlor/character"
	"github.com/parlorhq/parlor/completion"
	"github.com/parlorhq/parlor/core"
	"github.com/parlorhq/parlor/logging"
	"github.com/parlorhq/parlor/transcript"
)

// State names one phase of a running turn.
type State int

const (
	// Idle means no turn is in flight.
	Idle State = iota
	// Dispatching means a placeholder was created and the participant's
	// completion is about to be invoked.
	Dispatching
	// Streaming means increments are being relayed for the current
	// participant.
	Streaming
	// Committed means the current participant's reply (or its failure
	// sentinel) has been written to the transcript.
	Committed
	// TurnComplete means every snapshotted participant was visited, or the
	// turn was cancelled.
	TurnComplete
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dispatching:
		return "dispatching"
	case Streaming:
		return "streaming"
	case Committed:
		return "committed"
	case TurnComplete:
		return "turn_complete"
	default:
		return "unknown"
	}
}

var (
	// ErrEmptyMessage rejects a turn start on a blank user message.
	ErrEmptyMessage = errors.New("empty user message")
	// ErrNoParticipants rejects a turn start when every participant is
	// muted or the room has no members. Nothing is appended.
	ErrNoParticipants = errors.New("no active participants")
)

const (
	// DefaultThinkingMarker is the transient placeholder content shown
	// while a participant's stream is opening.
	DefaultThinkingMarker = "Thinking..."
	// DefaultFailureText replaces the reply of a participant whose
	// completion failed. The rest of the room continues unaffected.
	DefaultFailureText = "⚠️ This member can't respond right now."
	// DefaultPacing is the artificial pause between participants, purely
	// presentational. Zero disables it.
	DefaultPacing = 800 * time.Millisecond
	// DefaultStreamTimeout bounds one participant's completion; expiry is
	// handled exactly like a terminal stream error.
	DefaultStreamTimeout = 90 * time.Second
)

// Options tune an Orchestrator.
type Options struct {
	ThinkingMarker string
	FailureText    string
	Pacing         time.Duration
	StreamTimeout  time.Duration
	Logger         logging.Logger
}

// Orchestrator drives turns. It is stateless between runs and safe to share
// across rooms; per-turn state lives on the stack of Run, so turns of
// distinct rooms proceed concurrently without coordination.
type Orchestrator struct {
	registry *character.Registry
	client   completion.Client
	builder  *transcript.Builder
	opts     Options
}

// NewOrchestrator wires the orchestrator's collaborators.
func NewOrchestrator(registry *character.Registry, client completion.Client, builder *transcript.Builder, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		ThinkingMarker: DefaultThinkingMarker,
		FailureText:    DefaultFailureText,
		Pacing:         DefaultPacing,
		StreamTimeout:  DefaultStreamTimeout,
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{registry: registry, client: client, builder: builder, opts: opts}
}

// Run executes one turn: it appends the user message, snapshots the active
// (non-muted) participants in invitation order, then visits each in
// sequence. Cancelling ctx commits whatever the streaming participant has
// accumulated and ends the turn early.
//
// Only turn-start validation errors are returned (empty message, no active
// participants, a turn already in flight); in those cases nothing was
// appended. Per-participant failures never propagate — they are committed as
// the failure sentinel and the turn continues.
func (o *Orchestrator) Run(ctx context.Context, sess *core.Session, userName, userMsg string, sink core.EventSink) error {
	if strings.TrimSpace(userMsg) == "" {
		return ErrEmptyMessage
	}

	// Snapshot before claiming the turn: muting a participant after this
	// point does not retroactively change the activation list.
	active := lo.Filter(sess.Members(), func(p core.Participant, _ int) bool {
		return !sess.IsMuted(p.ID)
	})
	if len(active) == 0 {
		return ErrNoParticipants
	}

	seq, err := sess.BeginTurn()
	if err != nil {
		return err
	}
	defer sess.EndTurn()

	log := o.opts.Logger
	userMessage := sess.AppendHuman(userName, userMsg, seq)
	sink(core.TurnEvent{MessageID: userMessage.ID, AuthorID: userMessage.AuthorID, Content: userMessage.Content, Final: true})
	log.Info("turn started", "room", sess.RoomID, "turn", seq, "participants", len(active))

	state := Idle
	for i, p := range active {
		state = Dispatching
		placeholder := sess.AppendPlaceholder(p, seq, o.opts.ThinkingMarker)
		sink(core.TurnEvent{MessageID: placeholder.ID, AuthorID: p.ID, Content: o.opts.ThinkingMarker})

		state = Streaming
		text, streamErr := o.streamOne(ctx, sess, placeholder, p, userMessage.ID, userMsg, i, sink)

		switch {
		case streamErr == nil:
			sess.Commit(placeholder.ID, text)
			sink(core.TurnEvent{MessageID: placeholder.ID, AuthorID: p.ID, Content: text, Final: true})
			log.Info("participant committed", "room", sess.RoomID, "turn", seq, "participant", p.ID, "state", state.String())
		case ctx.Err() != nil:
			// External cancellation: keep the partial text, skip the rest.
			sess.Commit(placeholder.ID, text)
			sink(core.TurnEvent{MessageID: placeholder.ID, AuthorID: p.ID, Content: text, Final: true})
			log.Info("turn cancelled", "room", sess.RoomID, "turn", seq, "participant", p.ID)
			state = TurnComplete
			return nil
		default:
			sess.Commit(placeholder.ID, o.opts.FailureText)
			sink(core.TurnEvent{MessageID: placeholder.ID, AuthorID: p.ID, Content: o.opts.FailureText, Final: true})
			log.Warn("participant failed", "room", sess.RoomID, "turn", seq, "participant", p.ID, "error", streamErr.Error())
		}
		state = Committed

		if i < len(active)-1 && o.opts.Pacing > 0 {
			select {
			case <-time.After(o.opts.Pacing):
			case <-ctx.Done():
				state = TurnComplete
				return nil
			}
		}
	}
	state = TurnComplete
	log.Info("turn complete", "room", sess.RoomID, "turn", seq, "state", state.String())
	return nil
}

// streamOne resolves the participant's configuration, builds its context and
// relays the completion stream into the open placeholder. It returns the
// accumulated text plus a terminal error, if any; on error the accumulated
// partial is still returned so cancellation can commit it.
func (o *Orchestrator) streamOne(ctx context.Context, sess *core.Session, placeholder core.Message, p core.Participant, userMessageID int64, userMsg string, index int, sink core.EventSink) (string, error) {
	cfg, err := o.registry.Resolve(ctx, p.ID)
	if err != nil {
		return "", err
	}

	// The user message anchors by reply count, so it is excluded from
	// history and re-inserted at its computed position.
	history := lo.Filter(sess.Transcript(), func(m core.Message, _ int) bool {
		return m.ID != userMessageID
	})
	msgs := o.builder.Build(cfg.BasePrompt, cfg.Name, history, userMsg, index)

	streamCtx, cancel := context.WithTimeout(ctx, o.opts.StreamTimeout)
	defer cancel()

	incCh, errCh := o.client.Stream(streamCtx, completion.Request{
		Provider: cfg.Provider,
		Model:    cfg.Model,
		BaseURL:  cfg.BaseURL,
		APIKey:   cfg.APIKey,
		Messages: msgs,
	})

	var buf strings.Builder
loop:
	for {
		select {
		case inc, ok := <-incCh:
			if !ok {
				break loop
			}
			buf.WriteString(inc)
			sess.SetOpenContent(placeholder.ID, buf.String())
			sink(core.TurnEvent{MessageID: placeholder.ID, AuthorID: p.ID, Content: buf.String()})
		case <-streamCtx.Done():
			return buf.String(), streamCtx.Err()
		}
	}
	// Natural end of increments; a terminal error may still be queued.
	if err, ok := <-errCh; ok && err != nil {
		return buf.String(), err
	}
	return buf.String(), nil
}
