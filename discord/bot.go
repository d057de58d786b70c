package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/brensch/whoson/games"
	"github.com/brensch/whoson/router"
)

// Bot encapsulates the discordgo session, configuration, the event handler and
// registered slash commands.
type Bot struct {
	session   *discordgo.Session
	config    BotConfig
	handler   router.Handler
	functions []BotFunctionI
	presences *presenceCache

	ctx    context.Context
	cancel context.CancelFunc
}

// BotConfig contains configuration for the bot.
type BotConfig struct {
	// AppID is used to register slash commands. Defaults to the bot user's id.
	AppID    string
	BotToken string
}

var _ router.Sender = (*Bot)(nil)

// NewBot creates the session and wires the gateway handlers. Nothing is sent
// or received until Open.
func NewBot(cfg BotConfig) (*Bot, error) {
	// Create a new Discord session using the provided bot token.
	dg, err := discordgo.New("Bot " + cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	// Presences and members are privileged intents and must be enabled for the
	// application in the developer portal.
	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildPresences |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsMessageContent

	// Handle one event at a time, in gateway order.
	dg.SyncEvents = true

	ctx, cancel := context.WithCancel(context.Background())
	bot := &Bot{
		session:   dg,
		config:    cfg,
		presences: newPresenceCache(),
		ctx:       ctx,
		cancel:    cancel,
	}

	// Register event handlers.
	dg.AddHandler(bot.onReady)
	dg.AddHandler(bot.onGuildCreate)
	dg.AddHandler(bot.onGuildDelete)
	dg.AddHandler(bot.onPresenceUpdate)
	dg.AddHandler(bot.onMessageCreate)
	dg.AddHandler(bot.onInteractionCreate)

	return bot, nil
}

// Register sets the handler that receives ready, presence and message events.
func (b *Bot) Register(h router.Handler) {
	b.handler = h
}

// AddFunctions adds slash commands. They are registered with Discord on Open.
func (b *Bot) AddFunctions(functions ...BotFunctionI) {
	b.functions = append(b.functions, functions...)
}

// Open connects to the gateway and re-registers slash commands in every guild.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open gateway connection: %w", err)
	}

	appID := b.config.AppID
	if appID == "" && b.session.State.User != nil {
		appID = b.session.State.User.ID
	}

	// For each guild, delete all existing bot commands and register new ones.
	for _, guild := range b.session.State.Guilds {
		if err := b.registerCommands(appID, guild.ID); err != nil {
			return err
		}
	}

	return nil
}

func (b *Bot) registerCommands(appID, guildID string) error {
	existingCommands, err := b.session.ApplicationCommands(appID, guildID)
	if err != nil {
		slog.Error("failed to get commands for guild", "guild", guildID, "error", err)
		return nil
	}
	for _, cmd := range existingCommands {
		err := b.session.ApplicationCommandDelete(appID, guildID, cmd.ID)
		if err != nil {
			slog.Error("failed to delete command", "guild", guildID, "command", cmd.Name, "error", err)
		} else {
			slog.Debug("deleted command", "guild", guildID, "command", cmd.Name)
		}
	}

	for _, fn := range b.functions {
		options, err := structToCommandOptions(fn.GetRequestPrototype())
		if err != nil {
			return fmt.Errorf("failed to generate command options for %s: %w", fn.GetName(), err)
		}
		slog.Debug("initialising function", "name", fn.GetName(), "guild", guildID, "options", len(options))
		newCmd := &discordgo.ApplicationCommand{
			Name:        fn.GetName(),
			Description: fn.GetDescription(),
			Options:     options,
		}
		if _, err := b.session.ApplicationCommandCreate(appID, guildID, newCmd); err != nil {
			return fmt.Errorf("failed to create guild slash command %s in %s: %w", fn.GetName(), guildID, err)
		}
	}
	return nil
}

// server snapshots a guild from the session state.
func (b *Bot) server(guildID string) (*games.Server, error) {
	guild, err := b.session.State.Guild(guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to find guild %s in state: %w", guildID, err)
	}

	b.session.State.RLock()
	defer b.session.State.RUnlock()
	return serverFromGuild(guild), nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	slog.Debug("gateway ready", "guilds", len(r.Guilds), "session", r.SessionID)
	if b.handler == nil {
		return
	}
	b.handler.OnReady(b.ctx, toUser(r.User))
}

// onGuildCreate snapshots presences so the first update of each member has
// something to compare against.
func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	if g.Guild == nil || g.Unavailable {
		return
	}
	server := serverFromGuild(g.Guild)
	b.presences.seed(server)
	slog.Debug("guild available", "guild", g.ID, "name", g.Name, "members", len(server.Members), "presences", len(g.Presences))
}

func (b *Bot) onGuildDelete(s *discordgo.Session, g *discordgo.GuildDelete) {
	if g.Guild == nil {
		return
	}
	b.presences.forget(g.ID)
}

// onPresenceUpdate pairs the update with the last activities seen for the user.
func (b *Bot) onPresenceUpdate(s *discordgo.Session, p *discordgo.PresenceUpdate) {
	if p.User == nil {
		return
	}

	activities := toActivities(p.Activities)
	previous := b.presences.swap(p.GuildID, p.User.ID, activities)

	if b.handler == nil {
		return
	}

	server, err := b.server(p.GuildID)
	if err != nil {
		slog.Warn("presence update for unknown guild", "guild", p.GuildID, "error", err)
		return
	}

	after, ok := memberByID(server, p.User.ID)
	if !ok {
		m, err := s.GuildMember(p.GuildID, p.User.ID, discordgo.WithContext(b.ctx))
		if err != nil {
			slog.Warn("failed to look up member", "guild", p.GuildID, "user", p.User.ID, "error", err)
			return
		}
		after = toMember(m, nil, server)
	}
	after.Activities = activities

	before := after
	before.Activities = previous

	slog.Debug("presence update", "guild", p.GuildID, "member", after.Name, "before", len(before.Activities), "after", len(after.Activities))
	b.handler.OnPresenceUpdate(b.ctx, before, after)
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || b.handler == nil {
		return
	}

	slog.Debug("message received",
		"author", m.Author.Username,
		"author_id", m.Author.ID,
		"channel_id", m.ChannelID,
		"content", m.Content)

	msg := router.Message{
		Author:    toUser(m.Author),
		Content:   m.Content,
		ChannelID: m.ChannelID,
		FromSelf:  s.State.User != nil && m.Author.ID == s.State.User.ID,
	}
	if m.GuildID != "" {
		server, err := b.server(m.GuildID)
		if err != nil {
			slog.Warn("message from unknown guild", "guild", m.GuildID, "error", err)
		} else {
			msg.Server = server
		}
	}

	b.handler.OnMessage(b.ctx, msg)
}

// onInteractionCreate routes interactions to the correct BotFunction based on the command name.
func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand && i.Type != discordgo.InteractionApplicationCommandAutocomplete {
		return
	}
	cmdData := i.ApplicationCommandData()

	slog.Debug("received interaction", "cmd", cmdData.Name, "type", i.Type)

	inv := Invocation{GuildID: i.GuildID, ChannelID: i.ChannelID}
	if i.Member != nil && i.Member.User != nil {
		inv.UserID = i.Member.User.ID
	} else if i.User != nil {
		inv.UserID = i.User.ID
	}

	// Find the registered function with a matching name.
	var fn BotFunctionI
	for _, f := range b.functions {
		if f.GetName() == cmdData.Name {
			fn = f
			break
		}
	}
	if fn == nil {
		slog.Warn("received unknown command", "command", cmdData.Name)
		b.respondError(i, fmt.Errorf("unknown command: %s", cmdData.Name))
		return
	}

	if i.Type == discordgo.InteractionApplicationCommandAutocomplete {
		choices, err := fn.HandleAutocomplete(inv, &cmdData)
		if err != nil {
			slog.Error("failed to autocomplete", "command", fn.GetName(), "error", err)
		}
		err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionApplicationCommandAutocompleteResult,
			Data: &discordgo.InteractionResponseData{Choices: choices},
		}, discordgo.WithContext(b.ctx))
		if err != nil {
			slog.Error("failed to respond to autocomplete", "command", fn.GetName(), "error", err)
		}
		return
	}

	// Execute the function's handler using the interaction data.
	respData, err := fn.HandleInteraction(inv, &cmdData)
	if err != nil {
		slog.Error("failed to execute command", "command", fn.GetName(), "error", err)
		b.respondError(i, err)
		return
	}

	// Respond to the interaction using the returned response data.
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: respData,
	}, discordgo.WithContext(b.ctx))
	if err != nil {
		slog.Error("failed to respond to command", "command", fn.GetName(), "error", err)
	}
}

func (b *Bot) respondError(i *discordgo.InteractionCreate, err error) {
	errorEmbed := &discordgo.MessageEmbed{
		Title:       "Error",
		Description: fmt.Sprintf("```%v```", err),
		Color:       0xFF0000,
	}
	respErr := b.session.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{errorEmbed},
			Flags:  discordgo.MessageFlagsEphemeral,
		},
	}, discordgo.WithContext(b.ctx))
	if respErr != nil {
		slog.Error("failed to send error response", "error", respErr)
	}
}

// Close gracefully closes the Discord session.
func (b *Bot) Close() error {
	slog.Info("shutting down bot")
	err := b.session.Close()
	b.cancel()
	return err
}
