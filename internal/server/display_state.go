package server

// buildDisplayStage derives the public display's headline for the current
// round and sub-phase. Overlays take precedence over round copy.
func buildDisplayStage(state GameState) map[string]any {
	title, status := displayStage(state)
	return map[string]any{
		"title":  title,
		"status": status,
	}
}

func displayStage(state GameState) (string, string) {
	if state.LogoOnly {
		return "", ""
	}
	if state.ShowEndScreen {
		return "That's the show!", "Thanks for playing."
	}
	switch state.CurrentRound {
	case roundPreShow:
		if state.AudienceWindow {
			return "Pick your team", "Voting is open. Join a dugout from your phone."
		}
		return "Starting soon", "The show is about to begin."
	case roundOne:
		if !state.Round1Active {
			return "Round 1", "Get ready."
		}
		if state.Round1GuessingTeam != "" {
			return "Round 1", teamDisplayName(state.Round1GuessingTeam) + " team is guessing."
		}
		return "Round 1", "Waiting for a guessing team."
	case roundTwo:
		if state.Round2State == nil {
			if len(state.Round2Options) > 0 {
				return "Round 2", "Pick a question from the board."
			}
			return "Round 2", "Setting up the question pool."
		}
		if state.Round2State.Phase == round2PhaseReveal {
			return "Round 2", "Revealing answers."
		}
		name := teamDisplayName(state.Round2Team)
		if name == "" {
			return "Round 2", "Question in play."
		}
		if state.TimerActive {
			return "Round 2", name + " team is on the clock."
		}
		return "Round 2", name + " team is playing."
	case roundThree:
		return "Round 3", "Final board in play."
	case roundFinal:
		return "Final", "Counting the scores."
	}
	return "Stand by", ""
}

func teamDisplayName(id string) string {
	switch id {
	case teamRed:
		return "Red"
	case teamGreen:
		return "Green"
	case teamBlue:
		return "Blue"
	}
	return ""
}
