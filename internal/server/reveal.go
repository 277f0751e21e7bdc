package server

type RevealResult struct {
	Question        Question
	Answer          Answer
	Team            Team
	ScoreDelta      int
	AlreadyRevealed bool
}

// RevealAnswer reveals one answer with an attribution. Team attributions
// award the answer's value to that team; a manual override > 0 replaces the
// score delta without touching the stored value. Revealing an
// already-revealed answer is an idempotent no-op.
func (s *Store) RevealAnswer(questionID, answerID, attribution string, manualValue int) (RevealResult, error) {
	if !validAttribution(attribution) {
		return RevealResult{}, validationErrorf("invalid attribution %q", attribution)
	}
	s.mu.Lock()
	question, ok := s.questions[questionID]
	if !ok {
		s.mu.Unlock()
		return RevealResult{}, notFound("question", questionID)
	}
	answer := findAnswer(question, answerID)
	if answer == nil {
		s.mu.Unlock()
		return RevealResult{}, notFound("answer", answerID)
	}
	if answer.Revealed {
		result := RevealResult{Question: copyQuestion(*question), Answer: *answer, AlreadyRevealed: true}
		s.mu.Unlock()
		return result, nil
	}

	now := timeNowUTC()
	answer.Revealed = true
	answer.Attribution = attribution
	answer.RevealedAt = &now

	result := RevealResult{Answer: *answer}
	if teamAttribution(attribution) {
		delta := answer.Value
		if manualValue > 0 {
			delta = manualValue
		}
		team := s.teams[attribution]
		team.Score += delta
		result.ScoreDelta = delta
		result.Team = *team
	}
	if s.state.Round2State != nil && s.state.Round2State.QuestionID == questionID {
		s.state.Round2State.Phase = round2PhaseReveal
	}
	result.Question = copyQuestion(*question)
	s.mu.Unlock()

	topics := []string{topicQuestions}
	if result.ScoreDelta != 0 {
		topics = append(topics, topicTeams)
	}
	s.notify(topics...)
	return result, nil
}

// HideAnswer puts an answer back behind its card. Attribution is cleared
// with it; any score already awarded stays and is the operator's to adjust.
func (s *Store) HideAnswer(questionID, answerID string) (Question, error) {
	return s.UpdateQuestion(questionID, func(question *Question) error {
		for i := range question.Answers {
			if question.Answers[i].ID == answerID {
				hideAnswerAt(question, i)
				return nil
			}
		}
		return notFound("answer", answerID)
	})
}

func (s *Store) HideAllAnswers(questionID string) (Question, error) {
	return s.UpdateQuestion(questionID, func(question *Question) error {
		hideAllAnswersOf(question)
		return nil
	})
}

// RevealAllAnswers shows every answer without attribution and without any
// score effect, for the guess-the-question display mode.
func (s *Store) RevealAllAnswers(questionID string) (Question, error) {
	now := timeNowUTC()
	return s.UpdateQuestion(questionID, func(question *Question) error {
		for i := range question.Answers {
			answer := &question.Answers[i]
			if answer.Revealed {
				continue
			}
			answer.Revealed = true
			answer.Attribution = attributionNone
			at := now
			answer.RevealedAt = &at
		}
		return nil
	})
}

func findAnswer(question *Question, answerID string) *Answer {
	for i := range question.Answers {
		if question.Answers[i].ID == answerID {
			return &question.Answers[i]
		}
	}
	return nil
}

func hideAnswerAt(question *Question, i int) {
	question.Answers[i].Revealed = false
	question.Answers[i].Attribution = attributionNone
	question.Answers[i].RevealedAt = nil
}

func hideAllAnswersOf(question *Question) {
	for i := range question.Answers {
		hideAnswerAt(question, i)
	}
}
