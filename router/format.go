package router

import (
	"fmt"
	"strings"

	"github.com/brensch/whoson/games"
)

// FormatAnnouncement is the channel message for a member starting a game.
func FormatAnnouncement(m games.Member, game games.Activity) string {
	return fmt.Sprintf("%s is now playing %s", m.DisplayName, game.Name)
}

// FormatFriends is the direct message listing friends in the same game.
func FormatFriends(game games.Activity, friends []games.Member) string {
	var sb strings.Builder
	sb.WriteString("Friends also playing " + game.Name)
	for _, f := range friends {
		sb.WriteString("\n - " + f.DisplayName)
	}
	return sb.String()
}

// FormatSessions renders the "who on?" listing.
func FormatSessions(sessions []games.GameSession) string {
	var sb strings.Builder
	for _, s := range sessions {
		fmt.Fprintf(&sb, "\n%s:", s.Game.Name)
		for _, p := range s.Players {
			fmt.Fprintf(&sb, "\n\t - %s", p.DisplayName)
		}
	}
	return sb.String()
}
