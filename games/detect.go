package games

// DetectNewGame reports the first playing activity of after that before did not
// have. Callers are expected to skip members with no activities at all.
func DetectNewGame(before, after Member) (Activity, bool) {
	var diff []Activity
	for _, a := range after.Activities {
		if !contains(before.Activities, a) {
			diff = append(diff, a)
		}
	}

	started := playing(diff)
	if len(started) == 0 {
		return Activity{}, false
	}
	return started[0], true
}
