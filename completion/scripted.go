package completion

import (
	"context"
	"sync"
	"time"
)

// Script describes one canned streaming reply for the Scripted client.
// Increments are emitted in order (optionally spaced by Delay), then either
// Err is raised as the terminal error or the stream ends naturally.
type Script struct {
	Increments []string
	Err        error
	Delay      time.Duration
}

// Scripted is an in-memory Client for tests. Scripts are consumed in call
// order; when the queue is empty a single-increment echo reply is produced.
// All received requests are recorded for inspection.
type Scripted struct {
	mu      sync.Mutex
	scripts []Script
	calls   []Request
}

// NewScripted constructs an empty scripted client.
func NewScripted(scripts ...Script) *Scripted {
	return &Scripted{scripts: scripts}
}

// Add appends a script to the queue.
func (s *Scripted) Add(script Script) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scripts = append(s.scripts, script)
}

// Calls returns a copy of all requests received so far, in order.
func (s *Scripted) Calls() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.calls))
	copy(out, s.calls)
	return out
}

// Stream implements Client.
func (s *Scripted) Stream(ctx context.Context, req Request) (<-chan string, <-chan error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	script := Script{Increments: []string{"scripted reply"}}
	if len(s.scripts) > 0 {
		script = s.scripts[0]
		s.scripts = s.scripts[1:]
	}
	s.mu.Unlock()

	out := make(chan string)
	errCh := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errCh)
		for _, inc := range script.Increments {
			if script.Delay > 0 {
				select {
				case <-time.After(script.Delay):
				case <-ctx.Done():
					errCh <- ctx.Err()
					return
				}
			}
			select {
			case out <- inc:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		if script.Err != nil {
			errCh <- script.Err
		}
	}()
	return out, errCh
}
