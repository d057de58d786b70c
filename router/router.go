// Package router turns platform events into announcements, friend DMs and the
// "who on?" listing.
package router

import (
	"context"
	"log/slog"
	"strings"

	"github.com/brensch/whoson/games"
)

const (
	DefaultAnnounceChannel = "testing"
	DefaultCommandPhrase   = "who on?"
)

// Handler receives the events the bot cares about. The platform adapter calls
// these one at a time.
type Handler interface {
	OnReady(ctx context.Context, self games.User)
	OnPresenceUpdate(ctx context.Context, before, after games.Member)
	OnMessage(ctx context.Context, msg Message)
}

// Sender delivers outbound text.
type Sender interface {
	SendChannel(ctx context.Context, channelID, content string) error
	SendDirect(ctx context.Context, userID, content string) error
}

// Message is an incoming chat message.
type Message struct {
	Author    games.User
	Content   string
	ChannelID string
	// Server is nil for direct messages.
	Server *games.Server
	// FromSelf is set when the bot itself wrote the message.
	FromSelf bool
}

// Config controls the router's text surface.
type Config struct {
	AnnounceChannel string
	CommandPhrase   string
}

// Router implements Handler.
type Router struct {
	sender Sender
	config Config
}

var _ Handler = (*Router)(nil)

// New creates a Router sending through sender. Empty config fields fall back to
// the defaults.
func New(sender Sender, cfg Config) *Router {
	if cfg.AnnounceChannel == "" {
		cfg.AnnounceChannel = DefaultAnnounceChannel
	}
	if cfg.CommandPhrase == "" {
		cfg.CommandPhrase = DefaultCommandPhrase
	}
	cfg.CommandPhrase = strings.ToLower(strings.TrimSpace(cfg.CommandPhrase))

	return &Router{
		sender: sender,
		config: cfg,
	}
}

// OnReady logs that the gateway session is up.
func (r *Router) OnReady(ctx context.Context, self games.User) {
	slog.Info("joined server as " + self.Name)
}

// OnPresenceUpdate announces a newly started game and tells the member which
// friends are already playing it.
func (r *Router) OnPresenceUpdate(ctx context.Context, before, after games.Member) {
	if len(after.Activities) == 0 {
		return
	}

	game, ok := games.DetectNewGame(before, after)
	if !ok {
		return
	}

	slog.Debug("member started playing", "member", after.Name, "game", game.Name)

	channel, ok := after.Server.ChannelByName(r.config.AnnounceChannel)
	if !ok {
		slog.Error("couldn't find announcement channel", "channel", r.config.AnnounceChannel, "member", after.Name)
	} else if err := r.sender.SendChannel(ctx, channel.ID, FormatAnnouncement(after, game)); err != nil {
		slog.Error("failed to send announcement", "channel", channel.ID, "error", err)
	}

	friends := games.Without(games.FindPlaying(game, after.Server), after.ID)
	if len(friends) == 0 {
		return
	}

	if err := r.sender.SendDirect(ctx, after.ID, FormatFriends(game, friends)); err != nil {
		slog.Error("failed to send friends message", "member", after.Name, "error", err)
	}
}

// OnMessage answers the "who on?" command.
func (r *Router) OnMessage(ctx context.Context, msg Message) {
	if msg.FromSelf {
		slog.Info(msg.Content)
		return
	}

	if !r.IsCommand(msg.Content) {
		return
	}

	slog.Info(msg.Author.Name + " says: " + msg.Content)

	if msg.Server == nil {
		slog.Warn("command outside of a server", "author", msg.Author.Name)
		return
	}

	sessions := games.ActiveGames(msg.Server)
	if len(sessions) == 0 {
		return
	}

	if err := r.sender.SendChannel(ctx, msg.ChannelID, FormatSessions(sessions)); err != nil {
		slog.Error("failed to send active games", "channel", msg.ChannelID, "error", err)
	}
}

// IsCommand reports whether content is the command phrase.
func (r *Router) IsCommand(content string) bool {
	return strings.ToLower(strings.TrimSpace(content)) == r.config.CommandPhrase
}
