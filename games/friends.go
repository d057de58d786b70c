package games

// FindPlaying returns the members of roster with an activity equal to game,
// in roster order. Bots and the asking member are not filtered out.
func FindPlaying(game Activity, roster *Server) []Member {
	if roster == nil {
		return nil
	}

	var out []Member
	for _, m := range roster.Members {
		if contains(m.Activities, game) {
			out = append(out, m)
		}
	}
	return out
}

// Without returns members minus the one with the given id.
func Without(members []Member, id string) []Member {
	var out []Member
	for _, m := range members {
		if m.ID != id {
			out = append(out, m)
		}
	}
	return out
}
