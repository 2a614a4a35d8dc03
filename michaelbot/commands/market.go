package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/snowflake/v2"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/economy"
	"github.com/MikeJollie2707/michaelbot/michaelbot/errs"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var Market = discord.SlashCommandCreate{
	Name:        "market",
	Description: "🏪 The fixed-price item market",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "view",
			Description: "Browse everything on sale",
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "buy",
			Description: "Buy items at the listed price",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "Item to buy",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "How many (default 1)",
					Required:    false,
					MinValue:    intPtr(1),
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "sell",
			Description: "Sell items at the listed price",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionString{
					Name:        "item",
					Description: "Item to sell",
					Required:    true,
				},
				discord.ApplicationCommandOptionInt{
					Name:        "amount",
					Description: "How many (default 1)",
					Required:    false,
					MinValue:    intPtr(1),
				},
			},
		},
	},
}

var Trade = discord.SlashCommandCreate{
	Name:        "trade",
	Description: "🤝 Rotating trades, Overworld only",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "offer",
			Description: "Offer number to execute",
			Required:    false,
			MinValue:    intPtr(1),
		},
		discord.ApplicationCommandOptionInt{
			Name:        "times",
			Description: "How many times to run it (default 1)",
			Required:    false,
			MinValue:    intPtr(1),
		},
	},
}

var Barter = discord.SlashCommandCreate{
	Name:        "barter",
	Description: "🔥 Rotating gold barters, Nether only",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "offer",
			Description: "Offer number to execute",
			Required:    false,
			MinValue:    intPtr(1),
		},
		discord.ApplicationCommandOptionInt{
			Name:        "times",
			Description: "How many times to run it (default 1)",
			Required:    false,
			MinValue:    intPtr(1),
		},
	},
}

func init() {
	Commands = append(Commands, Market, Trade, Barter)
	registerPrefix(PrefixCommand{Name: "market", Aliases: []string{"shop"}, Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		if len(pc.Args) == 0 || pc.Args[0] == "view" {
			return runMarketView(b), nil
		}
		sub := pc.Args[0]
		amount, query, err := amountAndItem(pc.Args[1:])
		if err != nil {
			return discord.MessageCreate{}, err
		}
		switch sub {
		case "buy":
			return runMarketBuy(ctx, b, pc.Author.ID, pc.Author.Username, query, amount)
		case "sell":
			return runMarketSell(ctx, b, pc.Author.ID, pc.Author.Username, query, amount)
		}
		return discord.MessageCreate{}, errs.New(errs.Validation, "market view, market buy or market sell?")
	}})
	registerPrefix(PrefixCommand{Name: "trade", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return prefixBoard(ctx, b, pc, false)
	}})
	registerPrefix(PrefixCommand{Name: "barter", Run: func(ctx context.Context, b *michaelbot.Bot, pc PrefixContext) (discord.MessageCreate, error) {
		return prefixBoard(ctx, b, pc, true)
	}})
}

// prefixBoard handles "trade"/"barter" with optional "<offer> [times]".
func prefixBoard(ctx context.Context, b *michaelbot.Bot, pc PrefixContext, barter bool) (discord.MessageCreate, error) {
	if len(pc.Args) == 0 {
		return runBoardView(b, barter), nil
	}
	offer, err := strconv.Atoi(pc.Args[0])
	if err != nil {
		return discord.MessageCreate{}, errs.New(errs.Validation, "offer must be a number")
	}
	times := 1
	if len(pc.Args) > 1 {
		times, err = strconv.Atoi(pc.Args[1])
		if err != nil {
			return discord.MessageCreate{}, errs.New(errs.Validation, "times must be a number")
		}
	}
	return runBoardExecute(ctx, b, pc.Author.ID, pc.Author.Username, barter, offer, times)
}

func runMarketView(b *michaelbot.Bot) discord.MessageCreate {
	var sb strings.Builder
	for _, item := range b.Catalog.Items() {
		if item.BuyPrice == nil && item.SellPrice == nil {
			continue
		}
		fmt.Fprintf(&sb, "%s — ", item.Display())
		if item.BuyPrice != nil {
			fmt.Fprintf(&sb, "buy %s", utils.FormatMoney(*item.BuyPrice))
		}
		if item.SellPrice != nil {
			if item.BuyPrice != nil {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "sell %s", utils.FormatMoney(*item.SellPrice))
		}
		sb.WriteString("\n")
	}
	return infoEmbed("🏪 Market", sb.String())
}

func runMarketBuy(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName, query string, amount int) (discord.MessageCreate, error) {
	item, err := b.Catalog.Lookup(query)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	res, err := b.Economy.Buy(ctx, userID, item.ID, amount)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	return successEmbed(fmt.Sprintf("Bought %s for %s.",
		itemLine(b.Catalog, res.ItemID, res.Amount), utils.FormatMoney(res.Money))), nil
}

func runMarketSell(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName, query string, amount int) (discord.MessageCreate, error) {
	item, err := b.Catalog.Lookup(query)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	res, err := b.Economy.Sell(ctx, userID, item.ID, amount)
	if err != nil {
		return discord.MessageCreate{}, err
	}
	lines := []string{fmt.Sprintf("Sold %s for %s.",
		itemLine(b.Catalog, res.ItemID, res.Amount), utils.FormatMoney(res.Money))}
	if res.Bonus {
		lines = append(lines, "Your badge earned you a 5% bonus!")
	}
	return successEmbed(strings.Join(lines, "\n")), nil
}

func MarketHandler(b *michaelbot.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		data := e.SlashCommandInteractionData()
		amount := 1
		if n, ok := data.OptInt("amount"); ok {
			amount = n
		}
		var msg discord.MessageCreate
		var err error
		switch *data.SubCommandName {
		case "view":
			msg = runMarketView(b)
		case "buy":
			msg, err = runMarketBuy(ctx, b, e.User().ID, e.User().Username, data.String("item"), amount)
		case "sell":
			msg, err = runMarketSell(ctx, b, e.User().ID, e.User().Username, data.String("item"), amount)
		}
		return respond(e, msg, err)
	}
}

func runBoardView(b *michaelbot.Bot, barter bool) discord.MessageCreate {
	board := b.Economy.TradeBoard()
	title := "🤝 Trades"
	currency := func(price int64) string { return utils.FormatMoney(price) }
	if barter {
		board = b.Economy.BarterBoard()
		title = "🔥 Barters"
		currency = func(price int64) string { return fmt.Sprintf("%d gold", price) }
	}

	offers := board.Offers()
	if len(offers) == 0 {
		return infoEmbed(title, "The board is empty right now, check back soon.")
	}
	var sb strings.Builder
	for i, offer := range offers {
		verb := "sell"
		if offer.IsBuy {
			verb = "buy"
		}
		fmt.Fprintf(&sb, "**%d.** %s %s for %s\n",
			i+1, verb, itemLine(b.Catalog, offer.ItemID, offer.Amount), currency(offer.Price))
	}
	next := board.RefreshedAt().Add(economy.RefreshPeriod)
	fmt.Fprintf(&sb, "\nNext rotation %s", utils.Timestamp(next))
	return infoEmbed(title, sb.String())
}

func runBoardExecute(ctx context.Context, b *michaelbot.Bot, userID snowflake.ID, userName string, barter bool, offer, times int) (discord.MessageCreate, error) {
	if err := ensureUser(ctx, b, userID, userName); err != nil {
		return discord.MessageCreate{}, err
	}
	var res *economy.TradeResult
	var err error
	if barter {
		res, err = b.Economy.ExecuteBarter(ctx, userID, offer-1, times)
	} else {
		res, err = b.Economy.ExecuteTrade(ctx, userID, offer-1, times)
	}
	if err != nil {
		return discord.MessageCreate{}, err
	}

	currency := utils.FormatMoney(res.Price)
	if barter {
		currency = fmt.Sprintf("%d gold", res.Price)
	}
	if res.Offer.IsBuy {
		return successEmbed(fmt.Sprintf("Paid %s for %s.",
			currency, itemLine(b.Catalog, res.Offer.ItemID, res.Items))), nil
	}
	return successEmbed(fmt.Sprintf("Handed over %s for %s.",
		itemLine(b.Catalog, res.Offer.ItemID, res.Items), currency)), nil
}

func boardHandler(b *michaelbot.Bot, barter bool) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(e.Ctx, commandTimeout)
		defer cancel()
		data := e.SlashCommandInteractionData()
		offer, ok := data.OptInt("offer")
		if !ok {
			return respond(e, runBoardView(b, barter), nil)
		}
		times := 1
		if n, tok := data.OptInt("times"); tok {
			times = n
		}
		msg, err := runBoardExecute(ctx, b, e.User().ID, e.User().Username, barter, offer, times)
		return respond(e, msg, err)
	}
}

func TradeHandler(b *michaelbot.Bot) handler.CommandHandler  { return boardHandler(b, false) }
func BarterHandler(b *michaelbot.Bot) handler.CommandHandler { return boardHandler(b, true) }
