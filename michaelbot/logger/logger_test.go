package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHandlerLevelGate(t *testing.T) {
	ctx := context.Background()

	info := NewHandler(slog.LevelInfo)
	assert.False(t, info.Enabled(ctx, slog.LevelDebug))
	assert.True(t, info.Enabled(ctx, slog.LevelInfo))
	assert.True(t, info.Enabled(ctx, slog.LevelError))

	debug := NewHandler(slog.LevelDebug)
	assert.True(t, debug.Enabled(ctx, slog.LevelDebug))
}

func TestHandlerWithAttrsKeepsLevel(t *testing.T) {
	h := NewHandler(slog.LevelWarn).WithAttrs([]slog.Attr{slog.String("k", "v")})
	assert.False(t, h.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, h.Enabled(context.Background(), slog.LevelWarn))
}

func TestSkipsGatewayChatter(t *testing.T) {
	r := slog.NewRecord(time.Now(), slog.LevelDebug, "received gateway message", 0)
	assert.True(t, shouldSkipLog(&r))

	r = slog.NewRecord(time.Now(), slog.LevelInfo, "Command completed", 0)
	assert.False(t, shouldSkipLog(&r))
}
