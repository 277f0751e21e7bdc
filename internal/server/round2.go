package server

import "time"

// Round 2: teams draw sequentially from a pool of exactly three questions.
// The operator sets a pool, picks the playing team and a question, runs the
// countdown, reveals answers, then finishes the cycle and returns to the
// selection screen until the pool is exhausted.

func (s *Store) StartRound2() (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.CurrentRound = roundTwo
		return nil
	})
}

// SetRound2Options stages the undecided pool. Exactly three question ids
// are required, none already played.
func (s *Store) SetRound2Options(ids []string) (GameState, error) {
	if len(ids) != round2OptionCount {
		return GameState{}, validationErrorf("round 2 needs exactly %d questions, got %d", round2OptionCount, len(ids))
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			return GameState{}, validationErrorf("duplicate question %s in pool", id)
		}
		seen[id] = struct{}{}
	}
	s.mu.Lock()
	for _, id := range ids {
		if _, ok := s.questions[id]; !ok {
			s.mu.Unlock()
			return GameState{}, notFound("question", id)
		}
		if _, used := s.state.Round2Used[id]; used {
			s.mu.Unlock()
			return GameState{}, validationErrorf("question %s already played", id)
		}
	}
	s.state.Round2Options = append([]string(nil), ids...)
	s.state.Round2State = nil
	result := copyState(s.state)
	s.mu.Unlock()
	s.notify(topicState)
	return result, nil
}

func (s *Store) SelectRound2Team(team string) (GameState, error) {
	if !validTeamID(team) {
		return GameState{}, notFound("team", team)
	}
	return s.UpdateState(func(state *GameState) error {
		state.Round2Team = team
		return nil
	})
}

// SelectRound2Question takes a question out of the pool, marks it used,
// resets its answers and opens the question phase with the 60-second timer
// armed but not running.
func (s *Store) SelectRound2Question(id string, timerSeconds int) (GameState, error) {
	if timerSeconds <= 0 {
		timerSeconds = 60
	}
	s.mu.Lock()
	index := -1
	for i, optionID := range s.state.Round2Options {
		if optionID == id {
			index = i
			break
		}
	}
	if index < 0 {
		s.mu.Unlock()
		return GameState{}, validationErrorf("question %s is not in the round 2 pool", id)
	}
	question, ok := s.questions[id]
	if !ok {
		s.mu.Unlock()
		return GameState{}, notFound("question", id)
	}

	hideAllAnswersOf(question)
	s.state.Round2Options = append(s.state.Round2Options[:index], s.state.Round2Options[index+1:]...)
	s.state.Round2Used[id] = struct{}{}
	s.state.CurrentQuestionID = id
	s.state.QuestionRevealed = true
	s.state.Round2BonusApplied = false
	s.state.Round2State = &Round2State{
		Phase:         round2PhaseQuestion,
		QuestionID:    id,
		TimerDuration: timerSeconds,
	}
	result := copyState(s.state)
	s.mu.Unlock()
	s.notify(topicState, topicQuestions)
	return result, nil
}

// FinishRound2Question clears the play sub-state and stops any running
// timer. The pool keeps whatever is left for the next pick.
func (s *Store) FinishRound2Question() (GameState, error) {
	return s.UpdateState(func(state *GameState) error {
		state.Round2State = nil
		state.Round2Team = ""
		state.CurrentQuestionID = ""
		state.QuestionRevealed = false
		state.Round2BonusApplied = false
		state.TimerActive = false
		state.TimerStartedAt = time.Time{}
		return nil
	})
}

type BonusResult struct {
	Applied        bool
	AnswerCount    int
	Multiplier     int
	Bonus          int
	Team           Team
	AlreadyApplied bool
}

// ApplyRound2Bonus counts the current question's answers revealed with a
// team attribution. Three or more earn a bonus of 2x their summed values,
// four or more 3x, credited once to the active team.
func (s *Store) ApplyRound2Bonus() (BonusResult, error) {
	s.mu.Lock()
	teamID := s.state.Round2Team
	if teamID == "" {
		s.mu.Unlock()
		return BonusResult{}, validationErrorf("no active round 2 team")
	}
	questionID := s.state.CurrentQuestionID
	if questionID == "" {
		s.mu.Unlock()
		return BonusResult{}, validationErrorf("no current question")
	}
	question, ok := s.questions[questionID]
	if !ok {
		s.mu.Unlock()
		return BonusResult{}, notFound("question", questionID)
	}
	if s.state.Round2BonusApplied {
		result := BonusResult{AlreadyApplied: true}
		s.mu.Unlock()
		return result, nil
	}

	count, multiplier, sum := round2BonusFor(question)
	if multiplier == 0 {
		result := BonusResult{AnswerCount: count}
		s.mu.Unlock()
		return result, nil
	}

	bonus := multiplier * sum
	team := s.teams[teamID]
	team.Score += bonus
	s.state.Round2BonusApplied = true
	result := BonusResult{
		Applied:     true,
		AnswerCount: count,
		Multiplier:  multiplier,
		Bonus:       bonus,
		Team:        *team,
	}
	s.mu.Unlock()
	s.notify(topicState, topicTeams)
	return result, nil
}
