package server

import (
	"log"
	"time"
)

// startCountdown records the shared timer epoch and arms a server-side
// expiry so displays converge even if the operator never presses stop.
// Clients compute the remaining time locally from started_at + duration.
func (s *Server) startCountdown(seconds int) (GameState, error) {
	state, err := s.store.StartTimer(seconds)
	if err != nil {
		return GameState{}, err
	}
	startedAt := state.TimerStartedAt

	s.timerMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(time.Duration(seconds)*time.Second, func() {
		s.expireCountdown(startedAt)
	})
	s.timerMu.Unlock()
	return state, nil
}

func (s *Server) stopCountdown() (GameState, error) {
	s.cancelCountdown()
	return s.store.StopTimer()
}

func (s *Server) cancelCountdown() {
	s.timerMu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.timerMu.Unlock()
}

// expireCountdown clears the timer only if it is still the run that was
// scheduled; a restarted timer has a fresh epoch and is left alone.
func (s *Server) expireCountdown(startedAt time.Time) {
	_, err := s.store.UpdateState(func(state *GameState) error {
		if !state.TimerActive || !state.TimerStartedAt.Equal(startedAt) {
			return validationErrorf("timer restarted")
		}
		state.TimerActive = false
		return nil
	})
	if err != nil {
		return
	}
	log.Printf("timer expired started_at=%s", startedAt.Format(time.RFC3339))
}
