package server

import "time"

const (
	roundPreShow = "pre-show"
	roundOne     = "round1"
	roundTwo     = "round2"
	roundThree   = "round3"
	roundFinal   = "final"
)

const (
	teamRed   = "red"
	teamGreen = "green"
	teamBlue  = "blue"
)

const (
	attributionNone    = ""
	attributionRed     = "red"
	attributionGreen   = "green"
	attributionBlue    = "blue"
	attributionHost    = "host"
	attributionNeutral = "neutral"
)

const (
	revealModeOneByOne  = "one-by-one"
	revealModeAllAtOnce = "all-at-once"
)

const (
	round2PhaseQuestion = "question"
	round2PhaseReveal   = "reveal"
)

const (
	wsRoleControl  = "control"
	wsRoleDisplay  = "display"
	wsRoleAudience = "audience"
)

const (
	overlayBigX      = "big-x"
	overlayLogoOnly  = "logo-only"
	overlayScorecard = "scorecard"
	overlayVoteShift = "vote-shift"
	overlayEndScreen = "end-screen"
)

const round2OptionCount = 3

// Round2State exists only while a round-2 question is being played.
// Clearing it means the operator is back on the selection screen.
type Round2State struct {
	Phase         string
	QuestionID    string
	TimerDuration int
}

type GameState struct {
	CurrentRound      string
	CurrentQuestionID string
	QuestionRevealed  bool
	RevealMode        string
	GuessMode         bool

	Round1Active       bool
	Round1GuessingTeam string
	Round1Strikes      int

	Round2Team         string
	Round2Options      []string
	Round2Used         map[string]struct{}
	Round2State        *Round2State
	Round2BonusApplied bool

	TimerActive    bool
	TimerStartedAt time.Time
	TimerDuration  int

	BigX             bool
	LogoOnly         bool
	ScorecardOverlay bool
	VoteShiftOverlay bool
	ShowEndScreen    bool

	AudienceWindow bool
	VotingRound    int

	EpisodeInfo string
}

type Team struct {
	ID          string
	Name        string
	Color       string
	Score       int
	DugoutCount int
	DBID        uint
}

type Question struct {
	ID          string
	Text        string
	DisplayText string
	AnswerCount int
	Answers     []Answer
	DBID        uint
}

type Answer struct {
	ID          string
	Text        string
	Value       int
	Revealed    bool
	Attribution string
	RevealedAt  *time.Time
}

// AudienceMember identity: a submission belongs to an existing member when
// either its device id or its auth uid matches.
type AudienceMember struct {
	ID          int
	DeviceID    string
	AuthUID     string
	Name        string
	Phone       string
	UPIID       string
	Team        string
	VotingRound int
	DBID        uint
}

type TeamSwitch struct {
	From string
	To   string
}

type VoteShift struct {
	From  string
	To    string
	Count int
}

func validTeamID(id string) bool {
	return id == teamRed || id == teamGreen || id == teamBlue
}

func validAttribution(attribution string) bool {
	switch attribution {
	case attributionRed, attributionGreen, attributionBlue, attributionHost, attributionNeutral:
		return true
	}
	return false
}

func teamAttribution(attribution string) bool {
	return attribution == attributionRed || attribution == attributionGreen || attribution == attributionBlue
}

func validRound(round string) bool {
	switch round {
	case roundPreShow, roundOne, roundTwo, roundThree, roundFinal:
		return true
	}
	return false
}

func timeNowUTC() time.Time {
	return time.Now().UTC()
}
