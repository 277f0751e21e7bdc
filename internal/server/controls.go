package server

import "time"

// Operator controls that cut across rounds.

func (s *Store) SetRound(round string) (GameState, error) {
	if !validRound(round) {
		return GameState{}, validationErrorf("unknown round %q", round)
	}
	return s.UpdateState(func(state *GameState) error {
		state.CurrentRound = round
		return nil
	})
}

// SetCurrentQuestion puts a question on stage for rounds 1 and 3. Answers
// are hidden as part of selection so a reused question starts clean.
func (s *Store) SetCurrentQuestion(id string) (GameState, error) {
	if _, ok := s.Question(id); !ok {
		return GameState{}, notFound("question", id)
	}
	if _, err := s.HideAllAnswers(id); err != nil {
		return GameState{}, err
	}
	return s.UpdateState(func(state *GameState) error {
		state.CurrentQuestionID = id
		state.QuestionRevealed = true
		return nil
	})
}

func (s *Store) ClearCurrentQuestion() (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.CurrentQuestionID = ""
		state.QuestionRevealed = false
		return nil
	})
}

func (s *Store) SetRevealMode(mode string) (GameState, error) {
	if mode != revealModeOneByOne && mode != revealModeAllAtOnce {
		return GameState{}, validationErrorf("unknown reveal mode %q", mode)
	}
	return s.UpdateState(func(state *GameState) error {
		state.RevealMode = mode
		return nil
	})
}

func (s *Store) SetGuessMode(enabled bool) (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.GuessMode = enabled
		return nil
	})
}

func (s *Store) SetEpisodeInfo(text string) (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.EpisodeInfo = text
		return nil
	})
}

func (s *Store) ToggleOverlay(name string, enabled bool) (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		switch name {
		case overlayBigX:
			state.BigX = enabled
		case overlayLogoOnly:
			state.LogoOnly = enabled
		case overlayScorecard:
			state.ScorecardOverlay = enabled
		case overlayVoteShift:
			state.VoteShiftOverlay = enabled
		case overlayEndScreen:
			state.ShowEndScreen = enabled
		default:
			return validationErrorf("unknown overlay %q", name)
		}
		return nil
	})
}

// UpdateTeamScore applies an operator delta; negative totals are allowed.
func (s *Store) UpdateTeamScore(teamID string, delta int) (Team, error) {
	return s.UpdateTeam(teamID, func(team *Team) error {
		team.Score += delta
		return nil
	})
}

// StartTimer records the shared epoch clients count down from.
func (s *Store) StartTimer(seconds int) (GameState, error) {
	if seconds <= 0 {
		return GameState{}, validationErrorf("timer duration must be positive")
	}
	return s.UpdateState(func(state *GameState) error {
		state.TimerActive = true
		state.TimerStartedAt = timeNowUTC()
		state.TimerDuration = seconds
		return nil
	})
}

func (s *Store) StopTimer() (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.TimerActive = false
		state.TimerStartedAt = time.Time{}
		return nil
	})
}
