package completion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, incCh <-chan string, errCh <-chan error) ([]string, error) {
	t.Helper()
	var incs []string
	for inc := range incCh {
		incs = append(incs, inc)
	}
	select {
	case err := <-errCh:
		return incs, err
	case <-time.After(time.Second):
		t.Fatal("error channel never settled")
		return nil, nil
	}
}

func TestScripted_ReplaysIncrementsInOrder(t *testing.T) {
	client := NewScripted(Script{Increments: []string{"a", "b", "c"}})

	incCh, errCh := client.Stream(context.Background(), Request{Model: "m"})
	incs, err := collect(t, incCh, errCh)

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, incs)
	require.Len(t, client.Calls(), 1)
	assert.Equal(t, "m", client.Calls()[0].Model)
}

func TestScripted_TerminalErrorAfterIncrements(t *testing.T) {
	wantErr := errors.New("boom")
	client := NewScripted(Script{Increments: []string{"partial"}, Err: wantErr})

	incCh, errCh := client.Stream(context.Background(), Request{})
	incs, err := collect(t, incCh, errCh)

	assert.Equal(t, []string{"partial"}, incs)
	assert.ErrorIs(t, err, wantErr)
}

func TestScripted_FallsBackWhenQueueEmpty(t *testing.T) {
	client := NewScripted()

	incCh, errCh := client.Stream(context.Background(), Request{})
	incs, err := collect(t, incCh, errCh)

	require.NoError(t, err)
	assert.NotEmpty(t, incs)
}

func TestScripted_ContextCancellation(t *testing.T) {
	client := NewScripted(Script{Increments: []string{"a", "b"}, Delay: 50 * time.Millisecond})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	incCh, errCh := client.Stream(ctx, Request{})
	incs, err := collect(t, incCh, errCh)

	assert.Empty(t, incs)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRouter_UnknownProvider(t *testing.T) {
	router := NewRouterFromClients(NewScripted(), NewScripted())

	incCh, errCh := router.Stream(context.Background(), Request{Provider: "nope"})
	incs, err := collect(t, incCh, errCh)

	assert.Empty(t, incs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown completion provider")
}

func TestRouter_DefaultsToOpenAI(t *testing.T) {
	openaiFake := NewScripted(Script{Increments: []string{"via openai"}})
	anthropicFake := NewScripted(Script{Increments: []string{"via anthropic"}})
	router := NewRouterFromClients(openaiFake, anthropicFake)

	incCh, errCh := router.Stream(context.Background(), Request{})
	incs, err := collect(t, incCh, errCh)

	require.NoError(t, err)
	assert.Equal(t, []string{"via openai"}, incs)
	assert.Len(t, openaiFake.Calls(), 1)
	assert.Empty(t, anthropicFake.Calls())
}

func TestRouter_RoutesAnthropic(t *testing.T) {
	openaiFake := NewScripted()
	anthropicFake := NewScripted(Script{Increments: []string{"via anthropic"}})
	router := NewRouterFromClients(openaiFake, anthropicFake)

	incCh, errCh := router.Stream(context.Background(), Request{Provider: ProviderAnthropic})
	incs, err := collect(t, incCh, errCh)

	require.NoError(t, err)
	assert.Equal(t, []string{"via anthropic"}, incs)
	assert.Empty(t, openaiFake.Calls())
}
