// Package transcript converts a room's message history plus the new user
// message into the ordered message list handed to a completion endpoint.
// Building is a pure transformation: same inputs, same output, no failure
// mode.
package transcript

import (
	"fmt"

	"github.com/parlorhq/parlor/core"
)

const (
	// DefaultWindow is the trailing history window handed to a model.
	// Older messages are silently dropped, not summarized.
	DefaultWindow = 10
	// DefaultReplyBudget is the rough character ceiling stated in the
	// identity block.
	DefaultReplyBudget = 50
)

// identityBlock is appended to every participant's base prompt with its
// display name substituted. The rules are fixed: identity pinning, no
// self-naming prefix, strict game answers, group-chat brevity.
const identityBlock = `Important rules:
1. Your name in this room is %q. Stay in that identity.
2. Do not prefix your output with "%s:" or any other name tag.
3. If the user starts a game (such as a word chain), follow its rules exactly and answer tersely instead of rambling.
4. Keep the group chat style: hold every reply to roughly %d characters, the shorter the better (news summaries excepted).`

// Builder renders invocation contexts. The zero value is not usable; use
// NewBuilder.
type Builder struct {
	window      int
	replyBudget int
}

// Options configure a Builder.
type Options struct {
	Window      int
	ReplyBudget int
}

// NewBuilder creates a Builder with the default window and reply budget.
func NewBuilder(optFns ...func(o *Options)) *Builder {
	opts := Options{Window: DefaultWindow, ReplyBudget: DefaultReplyBudget}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Builder{window: opts.Window, replyBudget: opts.ReplyBudget}
}

// Build produces [system, ...history, user] for one participant invocation.
//
// history is the room transcript excluding the new user message but
// including replies already committed by earlier participants in the same
// turn. index is the participant's zero-based position in the activation
// order, which equals the number of sibling replies already landed: index 0
// appends the user message last, otherwise it is inserted at
// len(list)-index so it appears before those sibling replies.
func (b *Builder) Build(basePrompt, name string, history []core.Message, userMsg string, index int) []core.ChatMessage {
	msgs := make([]core.ChatMessage, 0, b.window+2)
	msgs = append(msgs, core.ChatMessage{Role: "system", Content: b.systemPrompt(basePrompt, name)})

	start := 0
	if len(history) > b.window {
		start = len(history) - b.window
	}
	for _, m := range history[start:] {
		role := "user"
		if m.Kind == core.KindAI {
			role = "assistant"
		}
		msgs = append(msgs, core.ChatMessage{Role: role, Content: m.AuthorName + ": " + m.Content})
	}

	user := core.ChatMessage{Role: "user", Content: userMsg}
	if index <= 0 {
		return append(msgs, user)
	}
	pos := len(msgs) - index
	if pos < 1 {
		// Never displace the system entry.
		pos = 1
	}
	msgs = append(msgs, core.ChatMessage{})
	copy(msgs[pos+1:], msgs[pos:])
	msgs[pos] = user
	return msgs
}

func (b *Builder) systemPrompt(basePrompt, name string) string {
	rules := fmt.Sprintf(identityBlock, name, name, b.replyBudget)
	if basePrompt == "" {
		return rules
	}
	return basePrompt + "\n" + rules
}
