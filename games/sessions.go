package games

// ActiveGames lists the distinct games played by the non-bot members of roster,
// in the order they are first seen. Players are matched against the whole
// roster, so a bot playing a game a human started shows up as a player.
func ActiveGames(roster *Server) []GameSession {
	if roster == nil {
		return nil
	}

	var seen []Activity
	for _, m := range roster.Members {
		if m.Bot {
			continue
		}
		for _, game := range playing(m.Activities) {
			if !contains(seen, game) {
				seen = append(seen, game)
			}
		}
	}

	sessions := make([]GameSession, 0, len(seen))
	for _, game := range seen {
		sessions = append(sessions, GameSession{
			Game:    game,
			Players: FindPlaying(game, roster),
		})
	}
	return sessions
}
