package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"showtime/internal/config"
	"showtime/internal/db"

	"gorm.io/gorm"
)

type Server struct {
	store   *Store
	db      *gorm.DB
	ws      *wsHub
	cfg     config.Config
	timerMu sync.Mutex
	timer   *time.Timer
}

func New(conn *gorm.DB, cfg config.Config) *Server {
	s := &Server{
		store: NewStore(),
		db:    conn,
		ws:    newWSHub(),
		cfg:   cfg,
	}
	if cfg.EpisodeInfo != "" {
		_, _ = s.store.SetEpisodeInfo(cfg.EpisodeInfo)
	}
	if err := s.loadQuestions(); err != nil {
		log.Printf("question bank load failed error=%v", err)
	}
	for _, topic := range []string{topicState, topicTeams, topicQuestions, topicAudience} {
		s.store.Subscribe(topic, s.broadcastShowUpdate)
	}
	return s
}

// loadQuestions hydrates the in-memory question bank from the database,
// with all answers hidden regardless of how they were stored.
func (s *Server) loadQuestions() error {
	if s.db == nil {
		return nil
	}
	var records []db.Question
	if err := s.db.Order("id").Find(&records).Error; err != nil {
		return err
	}
	for _, record := range records {
		question := Question{
			ID:          record.QuestionID,
			Text:        record.Text,
			DisplayText: record.DisplayText,
			AnswerCount: record.AnswerCount,
			DBID:        record.ID,
		}
		if err := json.Unmarshal(record.Answers, &question.Answers); err != nil {
			return err
		}
		hideAllAnswersOf(&question)
		s.store.AddQuestion(question)
	}
	log.Printf("question bank loaded count=%d", len(records))
	return nil
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/show", s.handleGetShow)
	mux.HandleFunc("GET /api/show/vote-shifts", s.handleVoteShifts)
	mux.HandleFunc("POST /api/show/round", s.handleSetRound)
	mux.HandleFunc("POST /api/show/question", s.handleSetQuestion)
	mux.HandleFunc("POST /api/show/question/clear", s.handleClearQuestion)
	mux.HandleFunc("POST /api/show/reveal-mode", s.handleRevealMode)
	mux.HandleFunc("POST /api/show/guess-mode", s.handleGuessMode)
	mux.HandleFunc("POST /api/show/episode", s.handleEpisodeInfo)
	mux.HandleFunc("POST /api/show/reset", s.handleResetGame)

	mux.HandleFunc("POST /api/show/round1/start", s.handleRound1Start)
	mux.HandleFunc("POST /api/show/round1/end", s.handleRound1End)
	mux.HandleFunc("POST /api/show/round1/team", s.handleRound1Team)
	mux.HandleFunc("POST /api/show/round1/guess", s.handleRound1Guess)
	mux.HandleFunc("POST /api/show/round1/reveal-open", s.handleRound1OpenReveal)
	mux.HandleFunc("POST /api/show/round1/strikes/reset", s.handleResetStrikes)

	mux.HandleFunc("POST /api/show/round2/start", s.handleRound2Start)
	mux.HandleFunc("POST /api/show/round2/options", s.handleRound2Options)
	mux.HandleFunc("POST /api/show/round2/team", s.handleRound2Team)
	mux.HandleFunc("POST /api/show/round2/question", s.handleRound2Question)
	mux.HandleFunc("POST /api/show/round2/finish", s.handleRound2Finish)
	mux.HandleFunc("POST /api/show/round2/bonus", s.handleRound2Bonus)

	mux.HandleFunc("POST /api/show/timer/start", s.handleTimerStart)
	mux.HandleFunc("POST /api/show/timer/stop", s.handleTimerStop)

	mux.HandleFunc("POST /api/show/answers/reveal", s.handleRevealAnswer)
	mux.HandleFunc("POST /api/show/answers/hide", s.handleHideAnswer)
	mux.HandleFunc("POST /api/show/answers/hide-all", s.handleHideAllAnswers)
	mux.HandleFunc("POST /api/show/answers/reveal-all", s.handleRevealAllAnswers)

	mux.HandleFunc("POST /api/show/teams/score", s.handleTeamScore)
	mux.HandleFunc("POST /api/show/overlays", s.handleOverlay)

	mux.HandleFunc("POST /api/show/voting/open", s.handleVotingOpen)
	mux.HandleFunc("POST /api/show/voting/close", s.handleVotingClose)

	mux.HandleFunc("GET /api/questions", s.handleListQuestions)
	mux.HandleFunc("POST /api/questions/import", s.handleImportQuestions)

	mux.HandleFunc("POST /api/audience/votes", s.handleAudienceVote)
	mux.HandleFunc("GET /api/audience/export", s.handleAudienceExport)

	mux.HandleFunc("GET /join/qr", s.handleJoinQR)
	mux.HandleFunc("GET /ws", s.handleWebsocket)
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))
	return mux
}
