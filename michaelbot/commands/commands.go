// Package commands implements the bot's command surface. Every
// command is reachable two ways: as a slash command (the handlers are
// here, wired in main) and through the prefix dispatcher, which parses
// a text message into the same core logic.
package commands

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/handlers"
)

// Commands is the slash-command registry synced at startup.
var Commands []discord.ApplicationCommandCreate

// cooldowns is shared by both invocation surfaces so switching surface
// does not dodge a cooldown.
var cooldowns = handlers.NewCooldowns()

// PrefixContext is what a prefix invocation carries: the author, where
// it happened, and the whitespace-split arguments after the command
// word.
type PrefixContext struct {
	GuildID   snowflake.ID
	ChannelID snowflake.ID
	Author    discord.User
	Args      []string
}

// PrefixRunner executes one prefix command and returns the reply.
type PrefixRunner func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error)

type PrefixCommand struct {
	Name    string
	Aliases []string
	Run     PrefixRunner
}

// prefixCommands indexes name and aliases to the command.
var prefixCommands = map[string]*PrefixCommand{}

func registerPrefix(cmd PrefixCommand) {
	c := cmd
	prefixCommands[c.Name] = &c
	for _, alias := range c.Aliases {
		prefixCommands[alias] = &c
	}
}

// LookupPrefix resolves a prefix command word.
func LookupPrefix(name string) (*PrefixCommand, bool) {
	cmd, ok := prefixCommands[name]
	return cmd, ok
}
