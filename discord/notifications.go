package discord

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/bwmarrin/discordgo"
)

// SendChannel posts a plain text message to a channel.
func (b *Bot) SendChannel(ctx context.Context, channelID, content string) error {
	msg, err := b.session.ChannelMessageSend(channelID, content, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to send message to channel %s: %w", channelID, err)
	}
	slog.Info("Message sent", "channel", channelID, "message", msg.ID)
	return nil
}

// SendDirect opens (or reuses) the DM channel with a user and posts to it.
func (b *Bot) SendDirect(ctx context.Context, userID, content string) error {
	channel, err := b.session.UserChannelCreate(userID, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to open direct channel with %s: %w", userID, err)
	}
	return b.SendChannel(ctx, channel.ID, content)
}
