package server

// Round 1 per question-cycle: the operator selects a guessing team, then
// resolves each guess as correct (reveal + score) or wrong (strike).

func (s *Store) StartRound1() (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.CurrentRound = roundOne
		state.Round1Active = true
		return nil
	})
}

func (s *Store) EndRound1() (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.Round1Active = false
		state.Round1GuessingTeam = ""
		state.Round1Strikes = 0
		return nil
	})
}

// SelectGuessingTeam may be called at any time during round 1 and simply
// overwrites the previous selection.
func (s *Store) SelectGuessingTeam(team string) (GameState, error) {
	if !validTeamID(team) {
		return GameState{}, notFound("team", team)
	}
	return s.UpdateState(func(state *GameState) error {
		state.Round1GuessingTeam = team
		return nil
	})
}

// ResetStrikes clears the wrong-guess count and the team selection. Scores
// are untouched.
func (s *Store) ResetStrikes() (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.Round1Strikes = 0
		state.Round1GuessingTeam = ""
		return nil
	})
}

type GuessResult struct {
	Correct         bool
	Team            Team
	Answer          Answer
	ScoreDelta      int
	Strikes         int
	AlreadyRevealed bool
}

// EvaluateGuess resolves the current guess. A correct guess requires a
// selected team and an unrevealed answer of the current question; the
// answer is revealed with the team's attribution and the team scores the
// answer's value, or manualAmount when the operator supplied one > 0. A
// wrong guess adds a strike and drops the team selection.
func (s *Store) EvaluateGuess(correct bool, matchedAnswerID string, manualAmount int) (GuessResult, error) {
	s.mu.Lock()
	if !correct {
		s.state.Round1Strikes++
		s.state.Round1GuessingTeam = ""
		result := GuessResult{Strikes: s.state.Round1Strikes}
		s.mu.Unlock()
		s.notify(topicState)
		return result, nil
	}

	teamID := s.state.Round1GuessingTeam
	if teamID == "" {
		s.mu.Unlock()
		return GuessResult{}, validationErrorf("no guessing team selected")
	}
	if matchedAnswerID == "" {
		s.mu.Unlock()
		return GuessResult{}, validationErrorf("correct guess requires a matched answer")
	}
	questionID := s.state.CurrentQuestionID
	if questionID == "" {
		s.mu.Unlock()
		return GuessResult{}, validationErrorf("no current question")
	}
	question, ok := s.questions[questionID]
	if !ok {
		s.mu.Unlock()
		return GuessResult{}, notFound("question", questionID)
	}
	answer := findAnswer(question, matchedAnswerID)
	if answer == nil {
		s.mu.Unlock()
		return GuessResult{}, notFound("answer", matchedAnswerID)
	}
	if answer.Revealed {
		s.mu.Unlock()
		return GuessResult{}, validationErrorf("answer already revealed")
	}

	now := timeNowUTC()
	answer.Revealed = true
	answer.Attribution = teamID
	answer.RevealedAt = &now

	delta := answer.Value
	if manualAmount > 0 {
		delta = manualAmount
	}
	team := s.teams[teamID]
	team.Score += delta

	result := GuessResult{
		Correct:    true,
		Team:       *team,
		Answer:     *answer,
		ScoreDelta: delta,
		Strikes:    s.state.Round1Strikes,
	}
	s.mu.Unlock()
	s.notify(topicQuestions, topicTeams)
	return result, nil
}

// OpenReveal shows an answer nobody guessed, credited to the host with no
// score effect. Already-revealed answers are left alone.
func (s *Store) OpenReveal(answerID string) (RevealResult, error) {
	questionID := s.State().CurrentQuestionID
	if questionID == "" {
		return RevealResult{}, validationErrorf("no current question")
	}
	return s.RevealAnswer(questionID, answerID, attributionNeutral, 0)
}
