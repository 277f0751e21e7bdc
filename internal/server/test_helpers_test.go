package server

import "testing"

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore()
	seedQuestions(store)
	return store
}

func seedQuestions(store *Store) {
	store.AddQuestion(Question{
		ID:          "q1",
		Text:        "Name something you bring to a picnic",
		AnswerCount: 4,
		Answers: []Answer{
			{ID: "q1-a1", Text: "Sandwiches", Value: 40},
			{ID: "q1-a2", Text: "Blanket", Value: 25},
			{ID: "q1-a3", Text: "Lemonade", Value: 10},
			{ID: "q1-a4", Text: "Frisbee", Value: 5},
		},
	})
	store.AddQuestion(Question{
		ID:          "q2",
		Text:        "Name a reason to be late for work",
		AnswerCount: 3,
		Answers: []Answer{
			{ID: "q2-a1", Text: "Traffic", Value: 50},
			{ID: "q2-a2", Text: "Overslept", Value: 30},
			{ID: "q2-a3", Text: "Lost keys", Value: 20},
		},
	})
	store.AddQuestion(Question{
		ID:          "q3",
		Text:        "Name something in a toolbox",
		AnswerCount: 3,
		Answers: []Answer{
			{ID: "q3-a1", Text: "Hammer", Value: 45},
			{ID: "q3-a2", Text: "Screwdriver", Value: 35},
			{ID: "q3-a3", Text: "Tape", Value: 20},
		},
	})
	store.AddQuestion(Question{
		ID:          "q4",
		Text:        "Name a noisy animal",
		AnswerCount: 2,
		Answers: []Answer{
			{ID: "q4-a1", Text: "Dog", Value: 60},
			{ID: "q4-a2", Text: "Rooster", Value: 40},
		},
	})
}

// checkAnswerInvariant asserts the reveal invariant across the whole bank:
// an unrevealed answer never carries an attribution or a timestamp.
func checkAnswerInvariant(t *testing.T, store *Store) {
	t.Helper()
	for _, question := range store.Questions() {
		for _, answer := range question.Answers {
			if answer.Revealed {
				continue
			}
			if answer.Attribution != attributionNone {
				t.Fatalf("hidden answer %s has attribution %q", answer.ID, answer.Attribution)
			}
			if answer.RevealedAt != nil {
				t.Fatalf("hidden answer %s has a reveal timestamp", answer.ID)
			}
		}
	}
}

func mustVote(t *testing.T, store *Store, sub VoteSubmission) VoteResult {
	t.Helper()
	result, err := store.SubmitVote(sub)
	if err != nil {
		t.Fatalf("vote rejected: %v", err)
	}
	return result
}
