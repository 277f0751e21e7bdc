package server

import "sync"

const (
	topicState     = "state"
	topicTeams     = "teams"
	topicQuestions = "questions"
	topicAudience  = "audience"
)

// Store holds the single show's shared state behind one mutex. Mutations go
// through update closures that either fully apply or leave the documents
// untouched; subscribers are notified after the lock is released.
type Store struct {
	mu             sync.Mutex
	state          GameState
	teams          map[string]*Team
	teamOrder      []string
	questions      map[string]*Question
	questionOrder  []string
	audience       []AudienceMember
	nextAudienceID int
	switches       map[TeamSwitch]int

	subMu  sync.Mutex
	subs   map[string]map[int]func()
	nextID int
}

func NewStore() *Store {
	store := &Store{
		questions: make(map[string]*Question),
		switches:  make(map[TeamSwitch]int),
		subs:      make(map[string]map[int]func()),
	}
	store.resetLocked()
	return store
}

func defaultState() GameState {
	return GameState{
		CurrentRound: roundPreShow,
		RevealMode:   revealModeOneByOne,
		Round2Used:   make(map[string]struct{}),
		VotingRound:  1,
	}
}

func defaultTeams() map[string]*Team {
	return map[string]*Team{
		teamRed:   {ID: teamRed, Name: "Red", Color: "#e53935"},
		teamGreen: {ID: teamGreen, Name: "Green", Color: "#43a047"},
		teamBlue:  {ID: teamBlue, Name: "Blue", Color: "#1e88e5"},
	}
}

func (s *Store) resetLocked() {
	s.state = defaultState()
	s.teams = defaultTeams()
	s.teamOrder = []string{teamRed, teamGreen, teamBlue}
	s.audience = nil
	s.nextAudienceID = 1
	s.switches = make(map[TeamSwitch]int)
	for _, question := range s.questions {
		hideAllAnswersOf(question)
	}
}

// ResetGame restores pre-show state, zeroes scores and dugouts, hides every
// answer and deletes the audience registry. Questions stay loaded.
func (s *Store) ResetGame() {
	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	s.notify(topicState, topicTeams, topicQuestions, topicAudience)
}

// Subscribe registers a handler for a topic and returns an unsubscribe
// token. Ordering across topics is not guaranteed.
func (s *Store) Subscribe(topic string, handler func()) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	group := s.subs[topic]
	if group == nil {
		group = make(map[int]func())
		s.subs[topic] = group
	}
	id := s.nextID
	s.nextID++
	group[id] = handler
	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subs[topic], id)
	}
}

func (s *Store) notify(topics ...string) {
	s.subMu.Lock()
	handlers := make([]func(), 0)
	for _, topic := range topics {
		for _, handler := range s.subs[topic] {
			handlers = append(handlers, handler)
		}
	}
	s.subMu.Unlock()
	for _, handler := range handlers {
		handler()
	}
}

func (s *Store) State() GameState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

func copyState(state GameState) GameState {
	copied := state
	copied.Round2Options = append([]string(nil), state.Round2Options...)
	copied.Round2Used = make(map[string]struct{}, len(state.Round2Used))
	for id := range state.Round2Used {
		copied.Round2Used[id] = struct{}{}
	}
	if state.Round2State != nil {
		value := *state.Round2State
		copied.Round2State = &value
	}
	return copied
}

// UpdateState applies a mutation to the game state document atomically.
// Validation errors from the closure leave the state unchanged.
func (s *Store) UpdateState(update func(state *GameState) error) (GameState, error) {
	s.mu.Lock()
	staged := copyState(s.state)
	if err := update(&staged); err != nil {
		s.mu.Unlock()
		return GameState{}, err
	}
	s.state = staged
	result := copyState(s.state)
	s.mu.Unlock()
	s.notify(topicState)
	return result, nil
}

func (s *Store) Teams() []Team {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.teamsLocked()
}

func (s *Store) teamsLocked() []Team {
	list := make([]Team, 0, len(s.teamOrder))
	for _, id := range s.teamOrder {
		list = append(list, *s.teams[id])
	}
	return list
}

func (s *Store) Team(id string) (Team, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	team, ok := s.teams[id]
	if !ok {
		return Team{}, false
	}
	return *team, true
}

func (s *Store) UpdateTeam(id string, update func(team *Team) error) (Team, error) {
	s.mu.Lock()
	team, ok := s.teams[id]
	if !ok {
		s.mu.Unlock()
		return Team{}, notFound("team", id)
	}
	staged := *team
	if err := update(&staged); err != nil {
		s.mu.Unlock()
		return Team{}, err
	}
	*team = staged
	result := *team
	s.mu.Unlock()
	s.notify(topicTeams)
	return result, nil
}

func (s *Store) AddQuestion(question Question) {
	s.mu.Lock()
	if _, exists := s.questions[question.ID]; !exists {
		s.questionOrder = append(s.questionOrder, question.ID)
	}
	stored := copyQuestion(question)
	s.questions[question.ID] = &stored
	s.mu.Unlock()
	s.notify(topicQuestions)
}

func copyQuestion(question Question) Question {
	copied := question
	copied.Answers = append([]Answer(nil), question.Answers...)
	return copied
}

func (s *Store) Question(id string) (Question, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	question, ok := s.questions[id]
	if !ok {
		return Question{}, false
	}
	return copyQuestion(*question), true
}

func (s *Store) Questions() []Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]Question, 0, len(s.questionOrder))
	for _, id := range s.questionOrder {
		list = append(list, copyQuestion(*s.questions[id]))
	}
	return list
}

// UpdateQuestion rewrites the question's answer list wholesale under the
// lock; partial-field updates are not offered.
func (s *Store) UpdateQuestion(id string, update func(question *Question) error) (Question, error) {
	s.mu.Lock()
	question, ok := s.questions[id]
	if !ok {
		s.mu.Unlock()
		return Question{}, notFound("question", id)
	}
	staged := copyQuestion(*question)
	if err := update(&staged); err != nil {
		s.mu.Unlock()
		return Question{}, err
	}
	*question = staged
	result := copyQuestion(*question)
	s.mu.Unlock()
	s.notify(topicQuestions)
	return result, nil
}

func (s *Store) AudienceMembers() []AudienceMember {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]AudienceMember(nil), s.audience...)
}

func (s *Store) findAudienceMemberLocked(deviceID, authUID string) *AudienceMember {
	for i := range s.audience {
		member := &s.audience[i]
		if deviceID != "" && member.DeviceID == deviceID {
			return member
		}
		if authUID != "" && member.AuthUID == authUID {
			return member
		}
	}
	return nil
}

func (s *Store) recomputeDugoutsLocked() {
	counts := make(map[string]int, len(s.teams))
	for _, member := range s.audience {
		counts[member.Team]++
	}
	for id, team := range s.teams {
		team.DugoutCount = counts[id]
	}
}
