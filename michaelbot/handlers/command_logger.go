// Package handlers carries the dispatch middleware shared by the slash
// and prefix command surfaces.
package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"
)

// responseTimeout bounds a single command run.
var responseTimeout = 10 * time.Second

// CommandObserver receives the outcome of every command run; the guild
// log pipeline implements it.
type CommandObserver interface {
	LogCommand(guildID snowflake.ID, userID snowflake.ID, command string, cmdErr error)
}

// WrapWithLogging wraps a command handler with timing, structured logs
// and the per-guild command log.
func WrapWithLogging(name string, observer CommandObserver, h handler.CommandHandler) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		start := time.Now()

		slog.Info("Command started",
			slog.String("type", "cmd"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.String("user_name", e.User().Username),
		)

		// The handler runs against a deadline-bound context so that a
		// run still going when the timeout path returns gets cancelled
		// instead of racing it with a second interaction response.
		ctx, cancel := context.WithTimeout(e.Ctx, responseTimeout)
		defer cancel()
		timed := *e
		timed.Ctx = ctx

		done := make(chan error, 1)
		go func() {
			done <- h(&timed)
		}()

		select {
		case err := <-done:
			duration := time.Since(start)

			attrs := []any{
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()),
				slog.Duration("took", duration),
			}
			if err != nil {
				slog.Error("Command failed", append(attrs, slog.Any("error", err))...)
			} else if duration > 2*time.Second {
				slog.Warn("Command executed slowly", attrs...)
			} else {
				slog.Info("Command completed", attrs...)
			}

			if observer != nil && e.GuildID() != nil {
				observer.LogCommand(*e.GuildID(), e.User().ID, name, err)
			}
			return err

		case <-ctx.Done():
			slog.Error("Command timed out",
				slog.String("type", "cmd"),
				slog.String("name", name),
				slog.String("user_id", e.User().ID.String()))
			return fmt.Errorf("command timed out after %s", responseTimeout)
		}
	}
}

// WrapComponentWithLogging is the component-interaction variant.
func WrapComponentWithLogging(name string, h handler.ComponentHandler) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		start := time.Now()
		err := h(e)

		attrs := []any{
			slog.String("type", "component"),
			slog.String("name", name),
			slog.String("user_id", e.User().ID.String()),
			slog.Duration("took", time.Since(start)),
		}
		if err != nil {
			slog.Error("Component interaction failed", append(attrs, slog.Any("error", err))...)
		} else {
			slog.Info("Component interaction completed", attrs...)
		}
		return err
	}
}
