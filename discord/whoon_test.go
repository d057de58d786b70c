package discord

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"

	"github.com/brensch/whoson/games"
)

func fakeRoster(servers map[string]*games.Server) rosterFunc {
	return func(guildID string) (*games.Server, error) {
		s, ok := servers[guildID]
		if !ok {
			return nil, errors.New("unknown guild")
		}
		return s, nil
	}
}

func rosterServer() *games.Server {
	return serverFromGuild(&discordgo.Guild{
		ID: "g1",
		Members: []*discordgo.Member{
			{User: &discordgo.User{ID: "u1", Username: "alice"}},
			{User: &discordgo.User{ID: "u2", Username: "bob"}},
		},
		Presences: []*discordgo.Presence{
			{User: &discordgo.User{ID: "u1"}, Activities: []*discordgo.Activity{{Name: "Chess", Type: discordgo.ActivityTypeGame}}},
			{User: &discordgo.User{ID: "u2"}, Activities: []*discordgo.Activity{
				{Name: "Go", Type: discordgo.ActivityTypeGame},
				{Name: "Chess", Type: discordgo.ActivityTypeGame},
			}},
		},
	})
}

func whoOnData(game string) *discordgo.ApplicationCommandInteractionData {
	data := &discordgo.ApplicationCommandInteractionData{Name: "whoon"}
	if game != "" {
		data.Options = []*discordgo.ApplicationCommandInteractionDataOption{
			{Name: "game", Type: discordgo.ApplicationCommandOptionString, Value: game},
		}
	}
	return data
}

func TestWhoOnListsEverything(t *testing.T) {
	fn := newWhoOnFunction(fakeRoster(map[string]*games.Server{"g1": rosterServer()}))

	resp, err := fn.HandleInteraction(Invocation{GuildID: "g1"}, whoOnData(""))
	if err != nil {
		t.Fatalf("HandleInteraction: %v", err)
	}
	want := "\nChess:\n\t - alice\n\t - bob\nGo:\n\t - bob"
	if resp.Content != want {
		t.Fatalf("got %q, want %q", resp.Content, want)
	}
}

func TestWhoOnFilteredByGame(t *testing.T) {
	fn := newWhoOnFunction(fakeRoster(map[string]*games.Server{"g1": rosterServer()}))

	resp, err := fn.HandleInteraction(Invocation{GuildID: "g1"}, whoOnData("Go"))
	if err != nil {
		t.Fatalf("HandleInteraction: %v", err)
	}
	if resp.Content != "\nGo:\n\t - bob" {
		t.Fatalf("got %q", resp.Content)
	}

	resp, err = fn.HandleInteraction(Invocation{GuildID: "g1"}, whoOnData("Tetris"))
	if err != nil {
		t.Fatalf("HandleInteraction: %v", err)
	}
	if resp.Content != nobodyPlaying {
		t.Fatalf("got %q, want %q", resp.Content, nobodyPlaying)
	}
}

func TestWhoOnErrors(t *testing.T) {
	fn := newWhoOnFunction(fakeRoster(nil))

	if _, err := fn.HandleInteraction(Invocation{}, whoOnData("")); err == nil {
		t.Error("expected an error outside a guild")
	}
	if _, err := fn.HandleInteraction(Invocation{GuildID: "missing"}, whoOnData("")); err == nil {
		t.Error("expected an error for an unknown guild")
	}
}

func TestWhoOnAutocomplete(t *testing.T) {
	completer := gameCompleter{roster: fakeRoster(map[string]*games.Server{"g1": rosterServer()})}

	choices, err := completer.Complete(Invocation{GuildID: "g1"}, "game", "")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(choices) != 2 || choices[0].Name != "Chess" || choices[1].Name != "Go" {
		t.Fatalf("got %v", choices)
	}

	choices, err = completer.Complete(Invocation{GuildID: "g1"}, "game", "g")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if len(choices) != 1 || choices[0].Value != "Go" {
		t.Fatalf("got %v", choices)
	}

	if choices, _ := completer.Complete(Invocation{GuildID: "g1"}, "other", ""); choices != nil {
		t.Fatalf("unexpected choices for another option: %v", choices)
	}
	if _, err := completer.Complete(Invocation{GuildID: "missing"}, "game", ""); err == nil {
		t.Fatal("expected an error for an unknown guild")
	}
}

func TestWhoOnCommandOptions(t *testing.T) {
	fn := newWhoOnFunction(fakeRoster(nil))
	options, err := structToCommandOptions(fn.GetRequestPrototype())
	if err != nil {
		t.Fatalf("structToCommandOptions: %v", err)
	}
	if len(options) != 1 || options[0].Name != "game" || options[0].Required || !options[0].Autocomplete {
		t.Fatalf("unexpected options %+v", options)
	}
}
