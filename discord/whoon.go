package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/brensch/whoson/games"
	"github.com/brensch/whoson/router"
)

const (
	nobodyPlaying = "Nobody is playing anything right now."
	// Discord rejects more than 25 autocomplete choices.
	maxChoices = 25
)

// WhoOnRequest is the /whoon command's input.
type WhoOnRequest struct {
	Game string `discord:"optional,autocomplete,description:Only list players of this game"`
}

// rosterFunc returns a snapshot of a guild.
type rosterFunc func(guildID string) (*games.Server, error)

// WhoOnFunction is the /whoon slash command, the interactive twin of "who on?".
func (b *Bot) WhoOnFunction() BotFunctionI {
	return newWhoOnFunction(b.server)
}

func newWhoOnFunction(roster rosterFunc) BotFunctionI {
	return NewBotFunction("whoon", "List the games being played right now", whoOnHandler(roster), gameCompleter{roster: roster})
}

func whoOnHandler(roster rosterFunc) func(Invocation, WhoOnRequest) (*discordgo.InteractionResponseData, error) {
	return func(inv Invocation, req WhoOnRequest) (*discordgo.InteractionResponseData, error) {
		if inv.GuildID == "" {
			return nil, errors.New("whoon only works inside a server")
		}

		server, err := roster(inv.GuildID)
		if err != nil {
			return nil, err
		}

		sessions := games.ActiveGames(server)
		if req.Game != "" {
			want := games.Playing(req.Game)
			var filtered []games.GameSession
			for _, s := range sessions {
				if games.Equal(s.Game, want) {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
		}

		if len(sessions) == 0 {
			return &discordgo.InteractionResponseData{Content: nobodyPlaying}, nil
		}
		return &discordgo.InteractionResponseData{Content: router.FormatSessions(sessions)}, nil
	}
}

// gameCompleter suggests the games currently played in the guild.
type gameCompleter struct {
	roster rosterFunc
}

func (c gameCompleter) Complete(inv Invocation, option, input string) ([]*discordgo.ApplicationCommandOptionChoice, error) {
	if option != "game" || inv.GuildID == "" {
		return nil, nil
	}

	server, err := c.roster(inv.GuildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load roster for autocomplete: %w", err)
	}

	prefix := strings.ToLower(input)
	choices := []*discordgo.ApplicationCommandOptionChoice{}
	for _, s := range games.ActiveGames(server) {
		if !strings.HasPrefix(strings.ToLower(s.Game.Name), prefix) {
			continue
		}
		choices = append(choices, &discordgo.ApplicationCommandOptionChoice{
			Name:  s.Game.Name,
			Value: s.Game.Name,
		})
		if len(choices) == maxChoices {
			break
		}
	}
	return choices, nil
}
