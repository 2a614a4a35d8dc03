package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"
	"github.com/joho/godotenv"

	"github.com/MikeJollie2707/michaelbot/michaelbot"
	"github.com/MikeJollie2707/michaelbot/michaelbot/api"
	"github.com/MikeJollie2707/michaelbot/michaelbot/cache"
	"github.com/MikeJollie2707/michaelbot/michaelbot/catalog"
	"github.com/MikeJollie2707/michaelbot/michaelbot/commands"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database"
	"github.com/MikeJollie2707/michaelbot/michaelbot/database/repositories"
	"github.com/MikeJollie2707/michaelbot/michaelbot/economy"
	"github.com/MikeJollie2707/michaelbot/michaelbot/handlers"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logger"
	"github.com/MikeJollie2707/michaelbot/michaelbot/logging"
	"github.com/MikeJollie2707/michaelbot/michaelbot/moderation"
	"github.com/MikeJollie2707/michaelbot/michaelbot/music"
	"github.com/MikeJollie2707/michaelbot/michaelbot/reminders"
	"github.com/MikeJollie2707/michaelbot/michaelbot/scheduler"
	"github.com/MikeJollie2707/michaelbot/michaelbot/utils"
)

var version = "dev"

func main() {
	slog.SetDefault(slog.New(logger.NewHandler(slog.LevelInfo)))

	// optional, profiles.json is the real config
	_ = godotenv.Load()

	configDir := flag.String("config", ".", "directory holding profiles.json and the secret files")
	profileName := flag.String("profile", "michaelbot", "profile to launch")
	syncCommands := flag.Bool("sync-commands", false, "whether to sync slash commands to discord")
	flag.Parse()

	cfg, err := michaelbot.LoadConfig(*configDir, *profileName)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}
	if cfg.Profile.Version != "" {
		version = cfg.Profile.Version
	}
	if cfg.Debug() {
		slog.SetDefault(slog.New(logger.NewHandler(slog.LevelDebug)))
	}
	slog.Info("Starting MichaelBot",
		slog.String("version", version),
		slog.String("profile", *profileName),
		slog.Bool("debug", cfg.Debug()))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStart := time.Now()
	db, err := database.New(ctx, database.Config{
		Host:         cfg.Secrets.DB.Host,
		Port:         cfg.Secrets.DB.Port,
		User:         cfg.Secrets.DB.User,
		Password:     cfg.Secrets.DB.Password,
		Database:     cfg.Secrets.DB.Database,
		PoolSize:     cfg.Secrets.DB.PoolSize,
		MaxIdleConns: cfg.Secrets.DB.MaxIdleConns,
		MaxLifetime:  cfg.Secrets.DB.MaxLifetime,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(dbStart)))
		os.Exit(-1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.Any("error", err))
		os.Exit(-1)
	}
	slog.Info("Database ready",
		slog.String("database", cfg.Secrets.DB.Database),
		slog.Duration("took", time.Since(dbStart)))

	b := michaelbot.New(*cfg, version)
	b.DB = db
	b.Store = repositories.NewStore(db.BunDB())

	b.Catalog = catalog.New()
	if err := b.Catalog.Reconcile(ctx, b.Store.Items(), b.Store.Badges()); err != nil {
		slog.Error("Failed to reconcile the item catalog", slog.Any("error", err))
		os.Exit(-1)
	}

	b.Guilds = cache.NewGuilds(b.Store)
	b.Users = cache.NewUsers(b.Store)
	if err := b.Guilds.Hydrate(ctx); err != nil {
		slog.Error("Failed to hydrate the guild cache", slog.Any("error", err))
		os.Exit(-1)
	}
	if err := b.Users.Hydrate(ctx); err != nil {
		slog.Error("Failed to hydrate the user cache", slog.Any("error", err))
		os.Exit(-1)
	}

	b.Scheduler = scheduler.New()
	b.Economy = economy.NewEngine(b.Store, b.Catalog, b.Users, nil)
	b.Reminders = reminders.NewService(b.Store, b.Scheduler, b)
	b.Mutes = moderation.NewService(b.Store, b.Scheduler, b)
	b.API = api.NewClient(cfg.Secrets.WeatherAPIKey)

	var archive *logging.Archive
	if cfg.Secrets.Archive.Bucket != "" {
		archive, err = logging.NewArchive(
			cfg.Secrets.Archive.Key,
			cfg.Secrets.Archive.Secret,
			cfg.Secrets.Archive.Region,
			cfg.Secrets.Archive.Endpoint,
			cfg.Secrets.Archive.Bucket,
		)
		if err != nil {
			slog.Error("Failed to set up the log archive", slog.Any("error", err))
			os.Exit(-1)
		}
	}
	b.Logging = logging.NewPipeline(b.Guilds, archive)

	h := handler.New()
	route := func(name string, hd handler.CommandHandler) {
		h.Command("/"+name, handlers.WrapWithLogging(name, b.Logging, hd))
	}

	// economy
	route("balance", commands.BalanceHandler(b))
	route("daily", commands.DailyHandler(b))
	route("inventory", commands.InventoryHandler(b))
	route("iteminfo", commands.ItemInfoHandler(b))
	route("leaderboard", commands.LeaderboardHandler(b))
	route("badges", commands.BadgesHandler(b))
	route("adventure", commands.AdventureHandler(b))
	route("chop", commands.ChopHandler(b))
	route("mine", commands.MineHandler(b))
	route("travelto", commands.TravelToHandler(b))
	route("market", commands.MarketHandler(b))
	route("trade", commands.TradeHandler(b))
	route("barter", commands.BarterHandler(b))
	route("craft", commands.CraftHandler(b))
	route("brew", commands.BrewHandler(b))
	route("recipes", commands.RecipesHandler(b))
	route("equip", commands.EquipHandler(b))
	route("equipments", commands.EquipmentsHandler(b))
	route("usepotion", commands.UsePotionHandler(b))

	// moderation
	route("ban", commands.BanHandler(b))
	route("hackban", commands.HackbanHandler(b))
	route("unban", commands.UnbanHandler(b))
	route("kick", commands.KickHandler(b))
	route("tempmute", commands.TempmuteHandler(b))
	route("unmute", commands.UnmuteHandler(b))

	// utility
	route("remindme", commands.RemindMeHandler(b))
	route("logs", commands.LogsHandler(b))
	route("ccmd", commands.CCmdHandler(b))
	route("help", commands.HelpHandler(b))
	route("info", commands.InfoHandler(b))
	route("ping", commands.PingHandler(b))
	route("prefix", commands.PrefixHandler(b))
	route("report", commands.ReportHandler(b))
	route("changelog", commands.ChangelogHandler(b))

	// fun
	route("dadjoke", commands.DadJokeHandler(b))
	route("uwuify", commands.UwuifyHandler(b))
	route("urban", commands.UrbanHandler(b))
	route("weather", commands.WeatherHandler(b))

	// music
	route("join", commands.JoinHandler(b))
	route("leave", commands.LeaveHandler(b))
	route("play", commands.PlayHandler(b))
	route("search", commands.SearchHandler(b))
	route("pause", commands.PauseHandler(b))
	route("seek", commands.SeekHandler(b))
	route("repeat", commands.RepeatHandler(b))
	route("volume", commands.VolumeHandler(b))
	route("queue", commands.QueueHandler(b))
	route("skip", commands.SkipHandler(b))
	route("stop", commands.StopHandler(b))

	if err := b.SetupBot(h, commands.PrefixDispatcher(b)); err != nil {
		slog.Error("Failed to set up the bot", slog.Any("error", err))
		os.Exit(-1)
	}

	b.Music = music.NewManager(b.Client.ApplicationID(), b.Client, func(channelID snowflake.ID, track lavalink.Track) {
		if _, err := b.Client.Rest().CreateMessage(channelID, discord.MessageCreate{
			Embeds: []discord.Embed{{
				Description: "🎵 Now playing **" + track.Info.Title + "**",
				Color:       utils.InfoColor,
			}},
		}); err != nil {
			slog.Error("Failed to announce the track", slog.Any("error", err))
		}
	})
	if cfg.Secrets.Lavalink.Address != "" {
		nodeCtx, nodeCancel := context.WithTimeout(context.Background(), 15*time.Second)
		if err := b.Music.AddNode(nodeCtx,
			cfg.Secrets.Lavalink.Name,
			cfg.Secrets.Lavalink.Address,
			cfg.Secrets.Lavalink.Password,
			cfg.Secrets.Lavalink.Secure); err != nil {
			slog.Error("Lavalink node unavailable, music stays off", slog.Any("error", err))
		}
		nodeCancel()
	}

	// rotate the boards now and then every period
	b.Economy.RefreshTrade()
	b.Economy.RefreshBarter()
	if err := b.Scheduler.Every("board-refresh", economy.RefreshPeriod, func(context.Context) error {
		b.Economy.RefreshTrade()
		b.Economy.RefreshBarter()
		return nil
	}); err != nil {
		slog.Error("Failed to schedule board refresh", slog.Any("error", err))
		os.Exit(-1)
	}
	if err := b.Reminders.Start(); err != nil {
		slog.Error("Failed to schedule the reminder sweep", slog.Any("error", err))
		os.Exit(-1)
	}
	if err := b.Mutes.Start(); err != nil {
		slog.Error("Failed to schedule the mute sweep", slog.Any("error", err))
		os.Exit(-1)
	}
	b.Scheduler.Start()
	defer b.Scheduler.Stop()

	if *syncCommands {
		var guilds []snowflake.ID
		if cfg.Debug() {
			guilds = cfg.Secrets.DevGuilds
		}
		slog.Info("Syncing commands", slog.Any("guild_ids", guilds))
		if err := handler.SyncCommands(b.Client, commands.Commands, guilds); err != nil {
			slog.Error("Failed to sync commands", slog.Any("error", err))
		}
	}

	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer closeCancel()
		b.Music.Close()
		b.Client.Close(closeCtx)
	}()

	gwCtx, gwCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer gwCancel()
	if err := b.Client.OpenGateway(gwCtx); err != nil {
		slog.Error("Failed to open the gateway", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.Info("MichaelBot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down...")
}
