package handlers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandEvent(t *testing.T) *handler.CommandEvent {
	t.Helper()
	payload := `{
		"id": "1",
		"type": 2,
		"application_id": "1",
		"token": "t",
		"version": 1,
		"user": {"id": "5", "username": "tester"},
		"data": {"type": 1, "id": "1", "name": "ping"}
	}`
	var interaction discord.ApplicationCommandInteraction
	require.NoError(t, json.Unmarshal([]byte(payload), &interaction))
	return &handler.CommandEvent{
		ApplicationCommandInteractionCreate: &events.ApplicationCommandInteractionCreate{
			GenericEvent:                  events.NewGenericEvent(nil, 0, 0),
			ApplicationCommandInteraction: interaction,
		},
		Ctx: context.Background(),
	}
}

func TestWrapPassesDeadlineContext(t *testing.T) {
	var sawDeadline bool
	wrapped := WrapWithLogging("ping", nil, func(e *handler.CommandEvent) error {
		_, sawDeadline = e.Ctx.Deadline()
		return nil
	})

	require.NoError(t, wrapped(commandEvent(t)))
	assert.True(t, sawDeadline)
}

func TestWrapTimeoutCancelsHandler(t *testing.T) {
	prev := responseTimeout
	responseTimeout = 50 * time.Millisecond
	t.Cleanup(func() { responseTimeout = prev })

	var cancelled atomic.Bool
	wrapped := WrapWithLogging("slow", nil, func(e *handler.CommandEvent) error {
		// Block past the deadline; the wrapper's cancellation is what
		// lets us return, so a late run can't respond a second time.
		<-e.Ctx.Done()
		cancelled.Store(true)
		return e.Ctx.Err()
	})

	err := wrapped(commandEvent(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")

	assert.Eventually(t, cancelled.Load, time.Second, 5*time.Millisecond)
}

func TestWrapReturnsHandlerError(t *testing.T) {
	wantErr := errors.New("boom")
	wrapped := WrapWithLogging("boom", nil, func(e *handler.CommandEvent) error {
		return wantErr
	})

	err := wrapped(commandEvent(t))
	assert.ErrorIs(t, err, wantErr)
}
