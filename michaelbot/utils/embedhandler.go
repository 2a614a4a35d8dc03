package utils

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
)

// ResponseHandler provides standardized response methods for commands
// and components.
type ResponseHandler struct{}

var EH = &ResponseHandler{}

// prefix and color per error kind.
func kindPrefix(kind errs.Kind) string {
	switch kind {
	case errs.Validation:
		return "⚠️"
	case errs.NotFound:
		return "🔍"
	case errs.Precondition:
		return "⏰"
	case errs.Upstream:
		return "🌐"
	default:
		return "❌"
	}
}

func kindColor(kind errs.Kind) int {
	switch kind {
	case errs.Validation, errs.Precondition:
		return WarningColor
	case errs.NotFound:
		return InfoColor
	default:
		return ErrorColor
	}
}

// CreateSuccessEmbed creates a standard success embed.
func (h *ResponseHandler) CreateSuccessEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       SuccessColor,
		}},
	})
}

// CreateInfoEmbed creates a standard info embed.
func (h *ResponseHandler) CreateInfoEmbed(event *handler.CommandEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: message,
			Color:       InfoColor,
		}},
	})
}

// userMessage picks what the invoking user sees: the core's own
// message for user-facing kinds, a generic line otherwise (the detail
// stays in the logs).
func userMessage(err error) string {
	if errs.UserFacing(err) {
		return err.Error()
	}
	return "Something went wrong. Try again later."
}

// ErrorEmbed renders err with the prefix and color of its kind. It is
// the embed shared by both command surfaces.
func ErrorEmbed(err error) discord.Embed {
	kind := errs.KindOf(err)
	return discord.Embed{
		Description: kindPrefix(kind) + " " + userMessage(err),
		Color:       kindColor(kind),
	}
}

// CreateErrorEmbed renders err with the prefix and color of its kind.
func (h *ResponseHandler) CreateErrorEmbed(event *handler.CommandEvent, err error) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{ErrorEmbed(err)},
	})
}

// CreateError creates a detailed error embed with title and description.
func (h *ResponseHandler) CreateError(event *handler.CommandEvent, title, description string) error {
	return event.CreateMessage(discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       "❌ " + title,
			Description: fmt.Sprintf("```diff\n- %s\n```", description),
			Color:       ErrorColor,
		}},
	})
}

// CreateEphemeralError creates an ephemeral error message for
// component events.
func (h *ResponseHandler) CreateEphemeralError(event *handler.ComponentEvent, err error) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: kindPrefix(errs.KindOf(err)) + " " + userMessage(err),
		Flags:   discord.MessageFlagEphemeral,
	})
}

// CreateEphemeralSuccess creates an ephemeral success message for
// component events.
func (h *ResponseHandler) CreateEphemeralSuccess(event *handler.ComponentEvent, message string) error {
	return event.CreateMessage(discord.MessageCreate{
		Content: "✅ " + message,
		Flags:   discord.MessageFlagEphemeral,
	})
}

// HandleError provides centralized error handling for different event
// types.
func (h *ResponseHandler) HandleError(event interface{}, err error) error {
	switch e := event.(type) {
	case *handler.CommandEvent:
		return h.CreateErrorEmbed(e, err)
	case *handler.ComponentEvent:
		return h.CreateEphemeralError(e, err)
	default:
		return fmt.Errorf("unsupported event type for error handling")
	}
}

// UpdateInteractionResponse replaces a deferred response with an error.
func (h *ResponseHandler) UpdateInteractionResponse(event *handler.CommandEvent, title, description string) error {
	_, err := event.UpdateInteractionResponse(discord.MessageUpdate{
		Embeds: &[]discord.Embed{
			{
				Title:       "❌ " + title,
				Description: fmt.Sprintf("```diff\n- %s\n```", description),
				Color:       ErrorColor,
			},
		},
	})
	return err
}
