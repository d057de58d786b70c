package discord

import (
	"github.com/bwmarrin/discordgo"

	"github.com/brensch/whoson/games"
)

// toActivities converts discordgo activities, keeping their order.
func toActivities(list []*discordgo.Activity) []games.Activity {
	out := make([]games.Activity, 0, len(list))
	for _, a := range list {
		if a == nil {
			continue
		}
		kind := games.KindOther
		if a.Type == discordgo.ActivityTypeGame {
			kind = games.KindPlaying
		}
		out = append(out, games.Activity{Kind: kind, Name: a.Name})
	}
	return out
}

func toUser(u *discordgo.User) games.User {
	if u == nil {
		return games.User{}
	}
	return games.User{ID: u.ID, Name: u.String(), Bot: u.Bot}
}

// displayName prefers the server nickname, then the global name, then the username.
func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User == nil {
		return ""
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

func toMember(m *discordgo.Member, activities []*discordgo.Activity, server *games.Server) games.Member {
	member := games.Member{
		DisplayName: displayName(m),
		Activities:  toActivities(activities),
		Server:      server,
	}
	if m.User != nil {
		member.ID = m.User.ID
		member.Name = m.User.Username
		member.Bot = m.User.Bot
	}
	return member
}

// serverFromGuild snapshots a guild. Members without a presence have no
// activities. Only text channels are kept since nothing else can be sent to.
func serverFromGuild(g *discordgo.Guild) *games.Server {
	server := &games.Server{ID: g.ID, Name: g.Name}

	presences := make(map[string][]*discordgo.Activity, len(g.Presences))
	for _, p := range g.Presences {
		if p == nil || p.User == nil {
			continue
		}
		presences[p.User.ID] = p.Activities
	}

	for _, c := range g.Channels {
		if c == nil || c.Type != discordgo.ChannelTypeGuildText {
			continue
		}
		server.Channels = append(server.Channels, games.Channel{ID: c.ID, Name: c.Name})
	}

	server.Members = make([]games.Member, 0, len(g.Members))
	for _, m := range g.Members {
		if m == nil || m.User == nil {
			continue
		}
		server.Members = append(server.Members, toMember(m, presences[m.User.ID], server))
	}

	return server
}

// memberByID returns the member of server with the given id.
func memberByID(server *games.Server, id string) (games.Member, bool) {
	for _, m := range server.Members {
		if m.ID == id {
			return m, true
		}
	}
	return games.Member{}, false
}
