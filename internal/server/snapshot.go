package server

import "time"

// snapshotForRole builds the push payload for one client role. Control
// sees everything; display and audience get unrevealed answers masked so a
// projector view-source never leaks the board.
func (s *Server) snapshotForRole(role string) map[string]any {
	state := s.store.State()
	teams := s.store.Teams()

	teamPayload := make([]map[string]any, 0, len(teams))
	for _, team := range teams {
		teamPayload = append(teamPayload, map[string]any{
			"id":           team.ID,
			"name":         team.Name,
			"color":        team.Color,
			"score":        team.Score,
			"dugout_count": team.DugoutCount,
			"dugout_share": dugoutShare(team.Score, team.DugoutCount),
		})
	}

	var questionPayload map[string]any
	if state.CurrentQuestionID != "" {
		if question, ok := s.store.Question(state.CurrentQuestionID); ok {
			questionPayload = questionSnapshot(question, role == wsRoleControl)
		}
	}

	timerStartedAt := ""
	if !state.TimerStartedAt.IsZero() {
		timerStartedAt = state.TimerStartedAt.UTC().Format(time.RFC3339)
	}

	var round2State map[string]any
	if state.Round2State != nil {
		round2State = map[string]any{
			"phase":          state.Round2State.Phase,
			"question_id":    state.Round2State.QuestionID,
			"timer_duration": state.Round2State.TimerDuration,
		}
	}

	payload := map[string]any{
		"type":              "snapshot",
		"current_round":     state.CurrentRound,
		"question":          questionPayload,
		"question_revealed": state.QuestionRevealed,
		"reveal_mode":       state.RevealMode,
		"guess_mode":        state.GuessMode,
		"round1": map[string]any{
			"active":        state.Round1Active,
			"guessing_team": state.Round1GuessingTeam,
			"strikes":       state.Round1Strikes,
		},
		"round2": map[string]any{
			"team":          state.Round2Team,
			"options":       state.Round2Options,
			"used":          round2UsedIDs(state),
			"state":         round2State,
			"bonus_applied": state.Round2BonusApplied,
		},
		"timer": map[string]any{
			"active":     state.TimerActive,
			"started_at": timerStartedAt,
			"duration":   state.TimerDuration,
		},
		"overlays": map[string]bool{
			overlayBigX:      state.BigX,
			overlayLogoOnly:  state.LogoOnly,
			overlayScorecard: state.ScorecardOverlay,
			overlayVoteShift: state.VoteShiftOverlay,
			overlayEndScreen: state.ShowEndScreen,
		},
		"audience_window": state.AudienceWindow,
		"voting_round":    state.VotingRound,
		"episode_info":    state.EpisodeInfo,
		"teams":           teamPayload,
		"playing_team":    playingTeam(state),
		"display":         buildDisplayStage(state),
	}
	if state.ShowEndScreen {
		payload["winners"] = winningTeams(teams)
	}
	if state.VoteShiftOverlay || role == wsRoleControl {
		payload["vote_shifts"] = voteShiftPayload(s.store.VoteShifts())
	}
	if role == wsRoleControl {
		payload["audience_count"] = len(s.store.AudienceMembers())
	}
	return payload
}

func round2UsedIDs(state GameState) []string {
	used := make([]string, 0, len(state.Round2Used))
	for id := range state.Round2Used {
		used = append(used, id)
	}
	return used
}

func questionSnapshot(question Question, full bool) map[string]any {
	answers := make([]map[string]any, 0, len(question.Answers))
	for _, answer := range question.Answers {
		entry := map[string]any{
			"id":       answer.ID,
			"revealed": answer.Revealed,
		}
		if answer.Revealed || full {
			entry["text"] = answer.Text
			entry["value"] = answer.Value
		}
		if answer.Revealed {
			entry["attribution"] = answer.Attribution
			if answer.RevealedAt != nil {
				entry["revealed_at"] = answer.RevealedAt.UTC().Format(time.RFC3339)
			}
		}
		answers = append(answers, entry)
	}
	return map[string]any{
		"id":           question.ID,
		"text":         question.Text,
		"display_text": question.DisplayText,
		"answer_count": question.AnswerCount,
		"answers":      answers,
	}
}

func voteShiftPayload(shifts []VoteShift) []map[string]any {
	payload := make([]map[string]any, 0, len(shifts))
	for _, shift := range shifts {
		payload = append(payload, map[string]any{
			"from":  shift.From,
			"to":    shift.To,
			"count": shift.Count,
		})
	}
	return payload
}
