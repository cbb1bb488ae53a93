package completion

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/parlorhq/parlor/core"
)

// anthropicMaxTokens bounds a single reply; replies are capped to a short
// character budget by the system prompt anyway.
const anthropicMaxTokens = 1024

// Anthropic streams messages from the Anthropic API. System entries are
// lifted out of the message list into the request's system blocks as the API
// requires.
type Anthropic struct{}

// NewAnthropic creates the Anthropic adapter.
func NewAnthropic() *Anthropic { return &Anthropic{} }

// Stream implements Client.
func (a *Anthropic) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		client := anthropic.NewClient(option.WithAPIKey(req.APIKey))

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(req.Model),
			MaxTokens: anthropicMaxTokens,
			Messages:  buildAnthropicMessages(req.Messages),
		}
		if sys := extractSystem(req.Messages); sys != "" {
			params.System = []anthropic.TextBlockParam{{Text: sys}}
		}

		stream := client.Messages.NewStreaming(ctx, params)
		for stream.Next() {
			switch ev := stream.Current().AsAny().(type) {
			case anthropic.ContentBlockDeltaEvent:
				switch delta := ev.Delta.AsAny().(type) {
				case anthropic.TextDelta:
					if delta.Text == "" {
						continue
					}
					select {
					case out <- delta.Text:
					case <-ctx.Done():
						errCh <- ctx.Err()
						return
					}
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("anthropic streaming error: %w", err)
		}
	}()

	return out, errCh
}

func extractSystem(msgs []core.ChatMessage) string {
	for _, m := range msgs {
		if m.Role == "system" {
			return m.Content
		}
	}
	return ""
}

func buildAnthropicMessages(msgs []core.ChatMessage) []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "assistant":
			out = append(out, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		case "user":
			out = append(out, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}
	return out
}
