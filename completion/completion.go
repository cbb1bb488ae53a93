// Package completion wraps one outbound request to a model endpoint and
// exposes its output as an incremental text sequence.
//
// The Client contract is narrow: a lazy, finite, non-restartable
// stream of text deltas over a channel pair. The increments channel closes on
// natural end of stream; fatal conditions (auth rejected, endpoint
// unreachable, malformed response, context expiry) surface as a single value
// on the error channel instead of further increments. Clients perform no
// retries and no buffering beyond the network layer; accumulating the full
// reply is the caller's job.
package completion

import (
	"context"
	"fmt"

	"github.com/parlorhq/parlor/core"
)

// Supported provider identifiers.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Request carries everything needed for one streaming completion call.
// BaseURL is optional for ProviderOpenAI and selects OpenAI-compatible
// third-party endpoints; it is ignored by ProviderAnthropic.
type Request struct {
	Provider string
	Model    string
	BaseURL  string
	APIKey   string
	Messages []core.ChatMessage
}

// Client opens one streaming completion request.
type Client interface {
	Stream(ctx context.Context, req Request) (<-chan string, <-chan error)
}

// Router dispatches requests to the adapter matching Request.Provider. An
// empty provider falls back to OpenAI, matching how custom characters are
// stored (OpenAI-compatible endpoints only).
type Router struct {
	openai    Client
	anthropic Client
}

// NewRouter builds a Router over the two real provider adapters.
func NewRouter() *Router {
	return &Router{openai: NewOpenAI(), anthropic: NewAnthropic()}
}

// NewRouterFromClients builds a Router over explicit adapters (tests).
func NewRouterFromClients(openai, anthropic Client) *Router {
	return &Router{openai: openai, anthropic: anthropic}
}

// Stream implements Client.
func (r *Router) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	switch req.Provider {
	case ProviderAnthropic:
		return r.anthropic.Stream(ctx, req)
	case ProviderOpenAI, "":
		return r.openai.Stream(ctx, req)
	default:
		out := make(chan string)
		errCh := make(chan error, 1)
		errCh <- fmt.Errorf("unknown completion provider %q", req.Provider)
		close(out)
		close(errCh)
		return out, errCh
	}
}
