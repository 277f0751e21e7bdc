package server

type EventPayload struct {
	Round       string `json:"round,omitempty"`
	Team        string `json:"team,omitempty"`
	FromTeam    string `json:"from_team,omitempty"`
	QuestionID  string `json:"question_id,omitempty"`
	AnswerID    string `json:"answer_id,omitempty"`
	Attribution string `json:"attribution,omitempty"`
	Delta       int    `json:"delta,omitempty"`
	Bonus       int    `json:"bonus,omitempty"`
	Multiplier  int    `json:"multiplier,omitempty"`
	Strikes     int    `json:"strikes,omitempty"`
	VotingRound int    `json:"voting_round,omitempty"`
	MemberID    int    `json:"member_id,omitempty"`
	Overlay     string `json:"overlay,omitempty"`
	Enabled     bool   `json:"enabled,omitempty"`
	Seconds     int    `json:"seconds,omitempty"`
	Reason      string `json:"reason,omitempty"`
	Count       int    `json:"count,omitempty"`
}
