package server

import (
	"sort"

	"github.com/google/uuid"
)

type VoteSubmission struct {
	DeviceID string
	AuthUID  string
	Name     string
	Phone    string
	UPIID    string
	Team     string
}

type VoteResult struct {
	Member   AudienceMember
	NewVoter bool
	Switched bool
	FromTeam string
}

// SubmitVote accepts a vote while the window is open. A first-time voter
// must bring name, phone and UPI id and is only admitted during voting
// round 1; a returning voter (matched by device id or auth uid) just
// switches teams. Member records are updated in place, never duplicated.
func (s *Store) SubmitVote(sub VoteSubmission) (VoteResult, error) {
	if !validTeamID(sub.Team) {
		return VoteResult{}, validationErrorf("invalid team %q", sub.Team)
	}
	s.mu.Lock()
	if !s.state.AudienceWindow {
		s.mu.Unlock()
		return VoteResult{}, validationErrorf("voting is closed")
	}

	if member := s.findAudienceMemberLocked(sub.DeviceID, sub.AuthUID); member != nil {
		from := member.Team
		member.Team = sub.Team
		member.VotingRound = s.state.VotingRound
		if sub.AuthUID != "" && member.AuthUID == "" {
			member.AuthUID = sub.AuthUID
		}
		switched := from != sub.Team
		if switched {
			s.switches[TeamSwitch{From: from, To: sub.Team}]++
		}
		s.recomputeDugoutsLocked()
		result := VoteResult{Member: *member, Switched: switched, FromTeam: from}
		s.mu.Unlock()
		s.notify(topicAudience, topicTeams)
		return result, nil
	}

	if s.state.VotingRound > 1 {
		s.mu.Unlock()
		return VoteResult{}, validationErrorf("new voters can only join in the first voting round")
	}
	if sub.Name == "" || sub.Phone == "" || sub.UPIID == "" {
		s.mu.Unlock()
		return VoteResult{}, validationErrorf("name, phone and UPI id are required for a first vote")
	}

	member := AudienceMember{
		ID:          s.nextAudienceID,
		DeviceID:    sub.DeviceID,
		AuthUID:     sub.AuthUID,
		Name:        sub.Name,
		Phone:       sub.Phone,
		UPIID:       sub.UPIID,
		Team:        sub.Team,
		VotingRound: s.state.VotingRound,
	}
	if member.DeviceID == "" {
		member.DeviceID = uuid.NewString()
	}
	s.nextAudienceID++
	s.audience = append(s.audience, member)
	s.recomputeDugoutsLocked()
	result := VoteResult{Member: member, NewVoter: true}
	s.mu.Unlock()
	s.notify(topicAudience, topicTeams)
	return result, nil
}

// OpenVoting reports whether the window actually transitioned; the caller
// signals audience clients to reload on a fresh opening.
func (s *Store) OpenVoting() (GameState, bool, error) {
	changed := false
	state, err := s.UpdateState(func(state *GameState) error {
		if !state.AudienceWindow {
			state.AudienceWindow = true
			changed = true
		}
		return nil
	})
	return state, changed, err
}

// CloseVoting shuts the window, advances the voting round by exactly one
// and recomputes dugout counts from current standing membership. Closing
// an already-closed window is a no-op.
func (s *Store) CloseVoting() (GameState, bool, error) {
	s.mu.Lock()
	if !s.state.AudienceWindow {
		result := copyState(s.state)
		s.mu.Unlock()
		return result, false, nil
	}
	s.state.AudienceWindow = false
	s.state.VotingRound++
	s.recomputeDugoutsLocked()
	s.switches = make(map[TeamSwitch]int)
	result := copyState(s.state)
	s.mu.Unlock()
	s.notify(topicState, topicTeams)
	return result, true, nil
}

// VoteShifts aggregates team switches since the window last closed, for
// the vote-shift overlay. Reporting only; no core invariant depends on it.
func (s *Store) VoteShifts() []VoteShift {
	s.mu.Lock()
	shifts := make([]VoteShift, 0, len(s.switches))
	for pair, count := range s.switches {
		shifts = append(shifts, VoteShift{From: pair.From, To: pair.To, Count: count})
	}
	s.mu.Unlock()
	sort.Slice(shifts, func(i, j int) bool {
		if shifts[i].From != shifts[j].From {
			return shifts[i].From < shifts[j].From
		}
		return shifts[i].To < shifts[j].To
	})
	return shifts
}
