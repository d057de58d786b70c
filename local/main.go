// Command local runs the bot from a checkout with source-annotated tint logs
// and the token read from ./.env.
package main

import (
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"

	"github.com/brensch/whoson/discord"
	"github.com/brensch/whoson/router"
)

func main() {
	// Configure pretty colored logging with tint.
	handler := tint.NewHandler(colorable.NewColorableStdout(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05.000",
		AddSource:  true,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	// Get bot token from environment.
	botToken := os.Getenv("DISCORD_TOKEN")
	if botToken == "" {
		slog.Error("DISCORD_TOKEN environment variable not set")
		os.Exit(1)
	}

	slog.Info("Initializing bot", "token_prefix", botToken[:min(5, len(botToken))]+"...")

	bot, err := discord.NewBot(discord.BotConfig{BotToken: botToken})
	if err != nil {
		slog.Error("Failed to create bot", "error", err)
		os.Exit(1)
	}
	bot.Register(router.New(bot, router.Config{
		AnnounceChannel: os.Getenv("APP_ANNOUNCE_CHANNEL"),
	}))
	bot.AddFunctions(bot.WhoOnFunction())

	if err := bot.Open(); err != nil {
		slog.Error("Failed to open bot", "error", err)
		os.Exit(1)
	}

	slog.Info("Bot is now running")

	// Wait for an interrupt signal to gracefully shut down.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	// Shut down the bot.
	slog.Info("Shutting down bot...")
	if err := bot.Close(); err != nil {
		slog.Error("Error during shutdown", "error", err)
	}
}
