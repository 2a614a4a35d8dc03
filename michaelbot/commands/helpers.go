package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

const commandTimeout = 10 * time.Second

// respond turns a core result into the interaction reply, rendering
// core errors with their kind's styling.
func respond(e *handler.CommandEvent, msg discord.MessageCreate, err error) error {
	if err != nil {
		return utils.EH.CreateErrorEmbed(e, err)
	}
	return e.CreateMessage(msg)
}

// ensureUser guarantees the invoking user has a row and cache entry.
func ensureUser(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, name string) error {
	_, err := b.Users.GetOrCreate(ctx, userID, name)
	return err
}

// amountAndItem parses the "[n] <item>" argument form shared by craft,
// brew, market and usepotion: a leading integer is the amount, the
// rest is the item lookup string.
func amountAndItem(args []string) (int, string, error) {
	if len(args) == 0 {
		return 0, "", errs.New(errs.Validation, "which item?")
	}
	amount := 1
	if n, err := strconv.Atoi(args[0]); err == nil {
		if n < 1 {
			return 0, "", errs.New(errs.Validation, "amount must be at least 1")
		}
		amount = n
		args = args[1:]
		if len(args) == 0 {
			return 0, "", errs.New(errs.Validation, "which item?")
		}
	}
	return amount, strings.Join(args, " "), nil
}

func successEmbed(description string) discord.MessageCreate {
	return discord.MessageCreate{
		Embeds: []discord.Embed{{
			Description: description,
			Color:       utils.SuccessColor,
		}},
	}
}

func infoEmbed(title, description string) discord.MessageCreate {
	return discord.MessageCreate{
		Embeds: []discord.Embed{{
			Title:       title,
			Description: description,
			Color:       utils.InfoColor,
		}},
	}
}

// itemLine renders "emoji Name x N".
func itemLine(cat *catalog.Catalog, itemID string, amount int) string {
	if item, ok := cat.Get(itemID); ok {
		return fmt.Sprintf("%s x %d", item.Display(), amount)
	}
	return fmt.Sprintf("%s x %d", itemID, amount)
}
