// Package games holds the decision logic of the bot: which game a member just
// started, who else is playing it, and what is being played in a server.
// Everything here works on plain values and knows nothing about Discord.
package games

// Kind is the kind of an activity.
type Kind int

const (
	// KindOther covers streaming, listening, custom status and the rest.
	KindOther Kind = iota
	// KindPlaying is a game.
	KindPlaying
)

func (k Kind) String() string {
	if k == KindPlaying {
		return "playing"
	}
	return "other"
}

// Activity is one entry of a member's presence.
type Activity struct {
	Kind Kind
	Name string
}

// Playing returns a playing activity with the given name.
func Playing(name string) Activity {
	return Activity{Kind: KindPlaying, Name: name}
}

// User identifies an account.
type User struct {
	ID   string
	Name string
	Bot  bool
}

// Member is a user as seen in one server, together with its current activities.
type Member struct {
	ID          string
	Name        string
	DisplayName string
	Bot         bool
	Activities  []Activity
	Server      *Server
}

// Channel is a server channel.
type Channel struct {
	ID   string
	Name string
}

// Server is a read-only view of a guild.
type Server struct {
	ID       string
	Name     string
	Members  []Member
	Channels []Channel
}

// ChannelByName returns the first channel with the exact given name.
func (s *Server) ChannelByName(name string) (Channel, bool) {
	if s == nil {
		return Channel{}, false
	}
	for _, c := range s.Channels {
		if c.Name == name {
			return c, true
		}
	}
	return Channel{}, false
}

// GameSession is a game together with the members currently playing it.
type GameSession struct {
	Game    Activity
	Players []Member
}

// Equal reports whether two activities are the same game. Only names are
// compared, so snapshots taken at different times compare equal.
func Equal(a, b Activity) bool {
	return a.Name == b.Name
}

func contains(list []Activity, a Activity) bool {
	for _, x := range list {
		if Equal(x, a) {
			return true
		}
	}
	return false
}

func playing(list []Activity) []Activity {
	var out []Activity
	for _, a := range list {
		if a.Kind == KindPlaying {
			out = append(out, a)
		}
	}
	return out
}
