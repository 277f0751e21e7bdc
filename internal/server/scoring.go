package server

// Derived scoring values. Nothing here is stored back; dugout shares,
// bonus math and winners are recomputed from the entities on read.

// round2BonusFor counts the answers revealed with a team attribution and
// returns the count, the multiplier (0 below three, 2 at three, 3 at four
// or more) and the sum of those answers' stored values.
func round2BonusFor(question *Question) (count, multiplier, sum int) {
	for _, answer := range question.Answers {
		if !answer.Revealed || !teamAttribution(answer.Attribution) {
			continue
		}
		count++
		sum += answer.Value
	}
	switch {
	case count >= 4:
		multiplier = 3
	case count >= 3:
		multiplier = 2
	}
	return count, multiplier, sum
}

// dugoutShare is the per-person payout for a team: score split across the
// dugout, zero when the dugout is empty.
func dugoutShare(score, dugoutCount int) int {
	if dugoutCount <= 0 {
		return 0
	}
	return score / dugoutCount
}

// winningTeams returns every team at the top score; more than one entry
// means a shared win.
func winningTeams(teams []Team) []string {
	if len(teams) == 0 {
		return nil
	}
	best := teams[0].Score
	for _, team := range teams[1:] {
		if team.Score > best {
			best = team.Score
		}
	}
	winners := make([]string, 0, 1)
	for _, team := range teams {
		if team.Score == best {
			winners = append(winners, team.ID)
		}
	}
	return winners
}

// playingTeam derives the "is playing" banner: the round-1 guessing team
// while round 1 is live, else the round-2 active team while a round-2
// question is up. At most one applies.
func playingTeam(state GameState) string {
	if state.Round1Active && state.Round1GuessingTeam != "" {
		return state.Round1GuessingTeam
	}
	if state.Round2State != nil && state.Round2Team != "" {
		return state.Round2Team
	}
	return ""
}
