package completion

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/parlorhq/parlor/core"
)

// OpenAI streams chat completions from the OpenAI API or any
// OpenAI-compatible endpoint selected by Request.BaseURL. A fresh SDK client
// is assembled per call because credentials and endpoints vary per
// participant.
type OpenAI struct{}

// NewOpenAI creates the OpenAI-compatible adapter.
func NewOpenAI() *OpenAI { return &OpenAI{} }

// Stream implements Client.
func (o *OpenAI) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	out := make(chan string, 32)
	errCh := make(chan error, 1)

	go func() {
		defer close(out)
		defer close(errCh)

		opts := []option.RequestOption{option.WithAPIKey(req.APIKey)}
		if req.BaseURL != "" {
			opts = append(opts, option.WithBaseURL(req.BaseURL))
		}
		client := openai.NewClient(opts...)

		params := openai.ChatCompletionNewParams{
			Model:    req.Model,
			Messages: buildOpenAIMessages(req.Messages),
		}

		stream := client.Chat.Completions.NewStreaming(ctx, params)
		for stream.Next() {
			ck := stream.Current()
			for _, ch := range ck.Choices {
				if ch.Delta.Content == "" {
					continue
				}
				select {
				case out <- ch.Delta.Content:
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
		}
		if err := stream.Err(); err != nil {
			errCh <- fmt.Errorf("openai streaming error: %w", err)
		}
	}()

	return out, errCh
}

func buildOpenAIMessages(msgs []core.ChatMessage) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
