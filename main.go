package main

import (
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/brensch/whoson/config"
	"github.com/brensch/whoson/discord"
	"github.com/brensch/whoson/log"
	"github.com/brensch/whoson/router"
)

func main() {
	// Load configuration
	cfg := config.Get()

	// Configure pretty colored logging.
	opts := log.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: log.ParseLevel(cfg.Log.Level),
		},
	}
	if cfg.Log.TimeZone != "" {
		tz, err := time.LoadLocation(cfg.Log.TimeZone)
		if err != nil {
			slog.Warn("unknown log timezone, using local time", "timezone", cfg.Log.TimeZone, "error", err)
		} else {
			opts.TimeZone = tz
		}
	}
	handler := log.NewPrettyHandler(os.Stdout, opts)
	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Log startup message.
	slog.Info("Discord Bot Starting")

	discordCfg := discord.BotConfig{
		AppID:    cfg.Discord.AppID,
		BotToken: cfg.Discord.Token,
	}

	bot, err := discord.NewBot(discordCfg)
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}

	bot.Register(router.New(bot, router.Config{
		AnnounceChannel: cfg.Announce.Channel,
		CommandPhrase:   cfg.Command.Phrase,
	}))
	bot.AddFunctions(bot.WhoOnFunction())

	if err := bot.Open(); err != nil {
		slog.Error("Failed to open bot", "error", err)
		os.Exit(1)
	}

	// Log successful startup.
	slog.Info("Bot is now running", "announce_channel", cfg.Announce.Channel, "command", cfg.Command.Phrase)

	// Wait for an interrupt signal to gracefully shut down.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	// Shut down the bot.
	slog.Info("Disconnecting...")
	if err := bot.Close(); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
}
