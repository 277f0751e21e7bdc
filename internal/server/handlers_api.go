package server

import (
	"log"
	"net/http"
)

type roundRequest struct {
	Round string `json:"round"`
}

type questionRequest struct {
	QuestionID string `json:"question_id"`
}

type revealModeRequest struct {
	Mode string `json:"mode"`
}

type guessModeRequest struct {
	Enabled bool `json:"enabled"`
}

type episodeRequest struct {
	Text string `json:"text"`
}

type teamRequest struct {
	Team string `json:"team"`
}

type guessEvalRequest struct {
	Correct      bool   `json:"correct"`
	AnswerID     string `json:"answer_id"`
	ManualAmount int    `json:"manual_amount"`
}

type answerRequest struct {
	AnswerID string `json:"answer_id"`
}

type optionsRequest struct {
	QuestionIDs []string `json:"question_ids"`
}

type timerRequest struct {
	Seconds int `json:"seconds"`
}

type revealRequest struct {
	QuestionID  string `json:"question_id"`
	AnswerID    string `json:"answer_id"`
	Attribution string `json:"attribution"`
	ManualValue int    `json:"manual_value"`
}

type hideRequest struct {
	QuestionID string `json:"question_id"`
	AnswerID   string `json:"answer_id"`
}

type bulkAnswerRequest struct {
	QuestionID string `json:"question_id"`
}

type scoreRequest struct {
	Team  string `json:"team"`
	Delta int    `json:"delta"`
}

type overlayRequest struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
}

func (s *Server) handleGetShow(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotForRole(wsRoleControl))
}

func (s *Server) handleVoteShifts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"shifts": voteShiftPayload(s.store.VoteShifts()),
	})
}

func (s *Server) handleSetRound(w http.ResponseWriter, r *http.Request) {
	var req roundRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := s.store.SetRound(req.Round)
	if err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round set round=%s", state.CurrentRound)
	s.reportStoreWrite(w, s.persistEvent("round_set", EventPayload{Round: state.CurrentRound}))
}

func (s *Server) handleSetQuestion(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := s.store.SetCurrentQuestion(req.QuestionID)
	if err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("question staged question_id=%s", state.CurrentQuestionID)
	s.reportStoreWrite(w, s.persistEvent("question_staged", EventPayload{QuestionID: state.CurrentQuestionID}))
}

func (s *Server) handleClearQuestion(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ClearCurrentQuestion(); err != nil {
		writeOpError(w, err)
		return
	}
	s.reportStoreWrite(w, s.persistEvent("question_cleared", EventPayload{}))
}

func (s *Server) handleRevealMode(w http.ResponseWriter, r *http.Request) {
	var req revealModeRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.SetRevealMode(req.Mode); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reveal_mode": req.Mode})
}

func (s *Server) handleGuessMode(w http.ResponseWriter, r *http.Request) {
	var req guessModeRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.SetGuessMode(req.Enabled); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"guess_mode": req.Enabled})
}

func (s *Server) handleEpisodeInfo(w http.ResponseWriter, r *http.Request) {
	var req episodeRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.SetEpisodeInfo(req.Text); err != nil {
		writeOpError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"episode_info": req.Text})
}

func (s *Server) handleResetGame(w http.ResponseWriter, r *http.Request) {
	s.cancelCountdown()
	s.store.ResetGame()
	log.Printf("game reset")
	if err := s.purgeAudienceMembers(); err != nil {
		log.Printf("audience purge failed error=%v", err)
		writeError(w, http.StatusInternalServerError, "failed to clear audience records")
		return
	}
	s.reportStoreWrite(w, s.persistEvent("game_reset", EventPayload{}))
}

func (s *Server) handleRound1Start(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.StartRound1(); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round1 started")
	s.reportStoreWrite(w, s.persistEvent("round1_started", EventPayload{Round: roundOne}))
}

func (s *Server) handleRound1End(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.EndRound1(); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round1 ended")
	s.reportStoreWrite(w, s.persistEvent("round1_ended", EventPayload{Round: roundOne}))
}

func (s *Server) handleRound1Team(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.SelectGuessingTeam(req.Team); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("guessing team selected team=%s", req.Team)
	writeJSON(w, http.StatusOK, map[string]string{"guessing_team": req.Team})
}

func (s *Server) handleRound1Guess(w http.ResponseWriter, r *http.Request) {
	var req guessEvalRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.store.EvaluateGuess(req.Correct, req.AnswerID, req.ManualAmount)
	if err != nil {
		writeOpError(w, err)
		return
	}
	if result.Correct {
		log.Printf("guess correct team=%s answer_id=%s delta=%d", result.Team.ID, result.Answer.ID, result.ScoreDelta)
		if err := s.persistTeam(result.Team); err != nil {
			log.Printf("team persist failed team=%s error=%v", result.Team.ID, err)
		}
		s.reportStoreWrite(w, s.persistEvent("guess_correct", EventPayload{
			Team:     result.Team.ID,
			AnswerID: result.Answer.ID,
			Delta:    result.ScoreDelta,
		}))
		return
	}
	log.Printf("guess wrong strikes=%d", result.Strikes)
	s.reportStoreWrite(w, s.persistEvent("guess_wrong", EventPayload{Strikes: result.Strikes}))
}

func (s *Server) handleRound1OpenReveal(w http.ResponseWriter, r *http.Request) {
	var req answerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.store.OpenReveal(req.AnswerID)
	if err != nil {
		writeOpError(w, err)
		return
	}
	s.reportStoreWrite(w, s.persistEvent("answer_opened", EventPayload{
		QuestionID: result.Question.ID,
		AnswerID:   req.AnswerID,
	}))
}

func (s *Server) handleResetStrikes(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.ResetStrikes(); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("strikes reset")
	s.reportStoreWrite(w, s.persistEvent("strikes_reset", EventPayload{}))
}

func (s *Server) handleRound2Start(w http.ResponseWriter, r *http.Request) {
	if _, err := s.store.StartRound2(); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round2 started")
	s.reportStoreWrite(w, s.persistEvent("round2_started", EventPayload{Round: roundTwo}))
}

func (s *Server) handleRound2Options(w http.ResponseWriter, r *http.Request) {
	var req optionsRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := s.store.SetRound2Options(req.QuestionIDs)
	if err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round2 pool set count=%d", len(state.Round2Options))
	s.reportStoreWrite(w, s.persistEvent("round2_pool_set", EventPayload{Count: len(state.Round2Options)}))
}

func (s *Server) handleRound2Team(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.SelectRound2Team(req.Team); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round2 team selected team=%s", req.Team)
	writeJSON(w, http.StatusOK, map[string]string{"round2_team": req.Team})
}

func (s *Server) handleRound2Question(w http.ResponseWriter, r *http.Request) {
	var req questionRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	state, err := s.store.SelectRound2Question(req.QuestionID, s.cfg.Round2TimerSeconds)
	if err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round2 question selected question_id=%s remaining=%d", req.QuestionID, len(state.Round2Options))
	s.reportStoreWrite(w, s.persistEvent("round2_question_selected", EventPayload{QuestionID: req.QuestionID}))
}

func (s *Server) handleRound2Finish(w http.ResponseWriter, r *http.Request) {
	s.cancelCountdown()
	if _, err := s.store.FinishRound2Question(); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("round2 question finished")
	s.reportStoreWrite(w, s.persistEvent("round2_question_finished", EventPayload{}))
}

func (s *Server) handleRound2Bonus(w http.ResponseWriter, r *http.Request) {
	result, err := s.store.ApplyRound2Bonus()
	if err != nil {
		writeOpError(w, err)
		return
	}
	if result.AlreadyApplied {
		writeJSON(w, http.StatusOK, map[string]any{"applied": false, "reason": "already applied"})
		return
	}
	if !result.Applied {
		writeJSON(w, http.StatusOK, map[string]any{"applied": false, "answer_count": result.AnswerCount})
		return
	}
	log.Printf("round2 bonus applied team=%s multiplier=%d bonus=%d", result.Team.ID, result.Multiplier, result.Bonus)
	if err := s.persistTeam(result.Team); err != nil {
		log.Printf("team persist failed team=%s error=%v", result.Team.ID, err)
	}
	if err := s.persistEvent("round2_bonus", EventPayload{
		Team:       result.Team.ID,
		Bonus:      result.Bonus,
		Multiplier: result.Multiplier,
		Count:      result.AnswerCount,
	}); err != nil {
		log.Printf("event persist failed error=%v", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"applied":      true,
		"answer_count": result.AnswerCount,
		"multiplier":   result.Multiplier,
		"bonus":        result.Bonus,
	})
}

func (s *Server) handleTimerStart(w http.ResponseWriter, r *http.Request) {
	var req timerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	seconds := req.Seconds
	if seconds <= 0 {
		seconds = s.cfg.Round2TimerSeconds
	}
	state, err := s.startCountdown(seconds)
	if err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("timer started seconds=%d", seconds)
	writeJSON(w, http.StatusOK, map[string]any{
		"timer_active": true,
		"started_at":   state.TimerStartedAt,
		"duration":     state.TimerDuration,
	})
}

func (s *Server) handleTimerStop(w http.ResponseWriter, r *http.Request) {
	if _, err := s.stopCountdown(); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("timer stopped")
	writeJSON(w, http.StatusOK, map[string]bool{"timer_active": false})
}

func (s *Server) handleRevealAnswer(w http.ResponseWriter, r *http.Request) {
	var req revealRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	result, err := s.store.RevealAnswer(req.QuestionID, req.AnswerID, req.Attribution, req.ManualValue)
	if err != nil {
		writeOpError(w, err)
		return
	}
	if result.AlreadyRevealed {
		writeJSON(w, http.StatusOK, map[string]bool{"already_revealed": true})
		return
	}
	log.Printf("answer revealed question_id=%s answer_id=%s attribution=%s delta=%d",
		req.QuestionID, req.AnswerID, req.Attribution, result.ScoreDelta)
	if result.ScoreDelta != 0 {
		if err := s.persistTeam(result.Team); err != nil {
			log.Printf("team persist failed team=%s error=%v", result.Team.ID, err)
		}
	}
	s.reportStoreWrite(w, s.persistEvent("answer_revealed", EventPayload{
		QuestionID:  req.QuestionID,
		AnswerID:    req.AnswerID,
		Attribution: req.Attribution,
		Delta:       result.ScoreDelta,
	}))
}

func (s *Server) handleHideAnswer(w http.ResponseWriter, r *http.Request) {
	var req hideRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.HideAnswer(req.QuestionID, req.AnswerID); err != nil {
		writeOpError(w, err)
		return
	}
	s.reportStoreWrite(w, s.persistEvent("answer_hidden", EventPayload{
		QuestionID: req.QuestionID,
		AnswerID:   req.AnswerID,
	}))
}

func (s *Server) handleHideAllAnswers(w http.ResponseWriter, r *http.Request) {
	var req bulkAnswerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.HideAllAnswers(req.QuestionID); err != nil {
		writeOpError(w, err)
		return
	}
	s.reportStoreWrite(w, s.persistEvent("answers_hidden", EventPayload{QuestionID: req.QuestionID}))
}

func (s *Server) handleRevealAllAnswers(w http.ResponseWriter, r *http.Request) {
	var req bulkAnswerRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.RevealAllAnswers(req.QuestionID); err != nil {
		writeOpError(w, err)
		return
	}
	s.reportStoreWrite(w, s.persistEvent("answers_revealed", EventPayload{QuestionID: req.QuestionID}))
}

func (s *Server) handleTeamScore(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	team, err := s.store.UpdateTeamScore(req.Team, req.Delta)
	if err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("score adjusted team=%s delta=%d score=%d", team.ID, req.Delta, team.Score)
	if err := s.persistTeam(team); err != nil {
		log.Printf("team persist failed team=%s error=%v", team.ID, err)
	}
	s.reportStoreWrite(w, s.persistEvent("score_adjusted", EventPayload{Team: team.ID, Delta: req.Delta}))
}

func (s *Server) handleOverlay(w http.ResponseWriter, r *http.Request) {
	var req overlayRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if _, err := s.store.ToggleOverlay(req.Name, req.Enabled); err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("overlay toggled name=%s enabled=%t", req.Name, req.Enabled)
	s.reportStoreWrite(w, s.persistEvent("overlay_toggled", EventPayload{Overlay: req.Name, Enabled: req.Enabled}))
}

func (s *Server) handleVotingOpen(w http.ResponseWriter, r *http.Request) {
	// The reload must reach audience clients before the snapshot that
	// flips the window open, so they refetch instead of patching stale
	// local state.
	if !s.store.State().AudienceWindow {
		s.broadcastAudienceReload()
	}
	state, changed, err := s.store.OpenVoting()
	if err != nil {
		writeOpError(w, err)
		return
	}
	if changed {
		log.Printf("voting opened voting_round=%d", state.VotingRound)
	}
	s.reportStoreWrite(w, s.persistEvent("voting_opened", EventPayload{VotingRound: state.VotingRound}))
}

func (s *Server) handleVotingClose(w http.ResponseWriter, r *http.Request) {
	state, changed, err := s.store.CloseVoting()
	if err != nil {
		writeOpError(w, err)
		return
	}
	if changed {
		log.Printf("voting closed voting_round=%d", state.VotingRound)
		if err := s.persistTeams(); err != nil {
			log.Printf("team persist failed error=%v", err)
		}
	}
	s.reportStoreWrite(w, s.persistEvent("voting_closed", EventPayload{VotingRound: state.VotingRound}))
}

func (s *Server) handleAudienceVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := readJSON(r.Body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateVoteRequest(&req); err != nil {
		writeOpError(w, err)
		return
	}
	result, err := s.store.SubmitVote(VoteSubmission{
		DeviceID: req.DeviceID,
		AuthUID:  req.AuthUID,
		Name:     req.Name,
		Phone:    req.Phone,
		UPIID:    req.UPIID,
		Team:     req.Team,
	})
	if err != nil {
		writeOpError(w, err)
		return
	}
	log.Printf("vote accepted member_id=%d team=%s new=%t switched=%t",
		result.Member.ID, result.Member.Team, result.NewVoter, result.Switched)
	if err := s.persistAudienceMember(result.Member); err != nil {
		log.Printf("audience persist failed member_id=%d error=%v", result.Member.ID, err)
	}
	if err := s.persistEvent("vote_accepted", EventPayload{
		Team:        result.Member.Team,
		FromTeam:    result.FromTeam,
		MemberID:    result.Member.ID,
		VotingRound: result.Member.VotingRound,
	}); err != nil {
		log.Printf("event persist failed error=%v", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"device_id":    result.Member.DeviceID,
		"team":         result.Member.Team,
		"voting_round": result.Member.VotingRound,
		"new_voter":    result.NewVoter,
	})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions := s.store.Questions()
	payload := make([]map[string]any, 0, len(questions))
	for _, question := range questions {
		payload = append(payload, questionSnapshot(question, true))
	}
	writeJSON(w, http.StatusOK, map[string]any{"questions": payload})
}

func (s *Server) handleImportQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := ReadQuestionsCSV(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid csv: "+err.Error())
		return
	}
	for _, question := range questions {
		s.store.AddQuestion(question)
		if err := s.persistQuestion(question); err != nil {
			log.Printf("question persist failed question_id=%s error=%v", question.ID, err)
			writeError(w, http.StatusInternalServerError, "failed to persist questions")
			return
		}
	}
	log.Printf("questions imported count=%d", len(questions))
	writeJSON(w, http.StatusOK, map[string]int{"imported": len(questions)})
}

// reportStoreWrite finishes a command: persistence failures surface to the
// operator for a manual retry, success returns the control snapshot.
func (s *Server) reportStoreWrite(w http.ResponseWriter, err error) {
	if err != nil {
		log.Printf("store write failed error=%v", err)
		writeError(w, http.StatusInternalServerError, "failed to persist change, retry the action")
		return
	}
	writeJSON(w, http.StatusOK, s.snapshotForRole(wsRoleControl))
}
