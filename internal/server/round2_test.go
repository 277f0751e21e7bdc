package server

import (
	"errors"
	"testing"
)

func TestSetRound2OptionsRequiresThree(t *testing.T) {
	store := newTestStore(t)
	_, err := store.SetRound2Options([]string{"q1", "q2"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(store.State().Round2Options) != 0 {
		t.Fatal("pool changed on rejected options")
	}
}

func TestSetRound2OptionsRejectsUsedQuestion(t *testing.T) {
	store := newTestStore(t)
	if _, err := store.SetRound2Options([]string{"q1", "q2", "q3"}); err != nil {
		t.Fatalf("set options: %v", err)
	}
	if _, err := store.SelectRound2Question("q1", 60); err != nil {
		t.Fatalf("select question: %v", err)
	}
	store.FinishRound2Question()

	_, err := store.SetRound2Options([]string{"q1", "q3", "q4"})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error for used question, got %v", err)
	}
}

func TestSelectRound2QuestionMovesPoolAndResetsAnswers(t *testing.T) {
	store := newTestStore(t)
	// Leave a fingerprint on q2's answers to prove selection wipes them.
	store.RevealAnswer("q2", "q2-a1", attributionRed, 0)
	store.SetRound2Options([]string{"q1", "q2", "q3"})
	store.SelectRound2Team(teamGreen)

	state, err := store.SelectRound2Question("q2", 60)
	if err != nil {
		t.Fatalf("select question: %v", err)
	}
	if len(state.Round2Options) != 2 {
		t.Fatalf("expected 2 options left, got %d", len(state.Round2Options))
	}
	if _, used := state.Round2Used["q2"]; !used {
		t.Fatal("q2 not marked used")
	}
	if state.CurrentQuestionID != "q2" || !state.QuestionRevealed {
		t.Fatalf("question not staged: %+v", state)
	}
	if state.Round2State == nil || state.Round2State.Phase != round2PhaseQuestion {
		t.Fatalf("expected question phase, got %+v", state.Round2State)
	}
	if state.Round2State.TimerDuration != 60 {
		t.Fatalf("expected 60s timer, got %d", state.Round2State.TimerDuration)
	}
	question, _ := store.Question("q2")
	for _, answer := range question.Answers {
		if answer.Revealed {
			t.Fatalf("answer %s not reset on selection", answer.ID)
		}
	}
	checkAnswerInvariant(t, store)
}

func TestSelectRound2QuestionOutsidePoolRejected(t *testing.T) {
	store := newTestStore(t)
	store.SetRound2Options([]string{"q1", "q2", "q3"})

	_, err := store.SelectRound2Question("q4", 60)
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestFinishRound2QuestionClearsSubState(t *testing.T) {
	store := newTestStore(t)
	store.SetRound2Options([]string{"q1", "q2", "q3"})
	store.SelectRound2Team(teamRed)
	store.SelectRound2Question("q1", 60)
	store.StartTimer(60)

	state, err := store.FinishRound2Question()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	if state.Round2State != nil {
		t.Fatal("round2 state not cleared")
	}
	if state.Round2Team != "" || state.CurrentQuestionID != "" || state.QuestionRevealed {
		t.Fatalf("play state not cleared: %+v", state)
	}
	if state.TimerActive {
		t.Fatal("timer still active after finish")
	}
	if len(state.Round2Options) != 2 {
		t.Fatalf("pool lost entries: %d", len(state.Round2Options))
	}
}

func TestRound2BonusFourAnswersTriplesSum(t *testing.T) {
	store := newTestStore(t)
	store.SetRound2Options([]string{"q1", "q2", "q3"})
	store.SelectRound2Team(teamGreen)
	store.SelectRound2Question("q1", 60)

	store.RevealAnswer("q1", "q1-a1", attributionRed, 0)
	store.RevealAnswer("q1", "q1-a2", attributionRed, 0)
	store.RevealAnswer("q1", "q1-a3", attributionGreen, 0)
	store.RevealAnswer("q1", "q1-a4", attributionBlue, 0)

	greenBefore, _ := store.Team(teamGreen)

	result, err := store.ApplyRound2Bonus()
	if err != nil {
		t.Fatalf("apply bonus: %v", err)
	}
	if !result.Applied {
		t.Fatal("bonus not applied")
	}
	if result.Multiplier != 3 {
		t.Fatalf("expected multiplier 3, got %d", result.Multiplier)
	}
	wantBonus := 3 * (40 + 25 + 10 + 5)
	if result.Bonus != wantBonus {
		t.Fatalf("expected bonus %d, got %d", wantBonus, result.Bonus)
	}
	greenAfter, _ := store.Team(teamGreen)
	if greenAfter.Score != greenBefore.Score+wantBonus {
		t.Fatalf("expected green %d, got %d", greenBefore.Score+wantBonus, greenAfter.Score)
	}
}

func TestRound2BonusThreeAnswersDoublesSum(t *testing.T) {
	store := newTestStore(t)
	store.SetRound2Options([]string{"q2", "q3", "q4"})
	store.SelectRound2Team(teamBlue)
	store.SelectRound2Question("q2", 60)

	store.RevealAnswer("q2", "q2-a1", attributionBlue, 0)
	store.RevealAnswer("q2", "q2-a2", attributionBlue, 0)
	store.RevealAnswer("q2", "q2-a3", attributionRed, 0)

	result, err := store.ApplyRound2Bonus()
	if err != nil {
		t.Fatalf("apply bonus: %v", err)
	}
	if result.Multiplier != 2 {
		t.Fatalf("expected multiplier 2, got %d", result.Multiplier)
	}
	if result.Bonus != 2*(50+30+20) {
		t.Fatalf("unexpected bonus %d", result.Bonus)
	}
}

func TestRound2BonusNeutralRevealsDoNotCount(t *testing.T) {
	store := newTestStore(t)
	store.SetRound2Options([]string{"q1", "q2", "q3"})
	store.SelectRound2Team(teamRed)
	store.SelectRound2Question("q1", 60)

	store.RevealAnswer("q1", "q1-a1", attributionRed, 0)
	store.RevealAnswer("q1", "q1-a2", attributionNeutral, 0)
	store.RevealAnswer("q1", "q1-a3", attributionHost, 0)
	store.RevealAnswer("q1", "q1-a4", attributionGreen, 0)

	result, err := store.ApplyRound2Bonus()
	if err != nil {
		t.Fatalf("apply bonus: %v", err)
	}
	if result.Applied {
		t.Fatalf("bonus applied with only %d team answers", result.AnswerCount)
	}
	if result.AnswerCount != 2 {
		t.Fatalf("expected 2 team answers, got %d", result.AnswerCount)
	}
}

func TestRound2BonusAppliedOnce(t *testing.T) {
	store := newTestStore(t)
	store.SetRound2Options([]string{"q2", "q3", "q4"})
	store.SelectRound2Team(teamRed)
	store.SelectRound2Question("q2", 60)
	store.RevealAnswer("q2", "q2-a1", attributionRed, 0)
	store.RevealAnswer("q2", "q2-a2", attributionRed, 0)
	store.RevealAnswer("q2", "q2-a3", attributionRed, 0)

	first, err := store.ApplyRound2Bonus()
	if err != nil || !first.Applied {
		t.Fatalf("first bonus: applied=%t err=%v", first.Applied, err)
	}
	scoreAfterFirst, _ := store.Team(teamRed)

	second, err := store.ApplyRound2Bonus()
	if err != nil {
		t.Fatalf("second bonus: %v", err)
	}
	if second.Applied || !second.AlreadyApplied {
		t.Fatalf("second application not guarded: %+v", second)
	}
	scoreAfterSecond, _ := store.Team(teamRed)
	if scoreAfterSecond.Score != scoreAfterFirst.Score {
		t.Fatalf("score changed on second application: %d -> %d", scoreAfterFirst.Score, scoreAfterSecond.Score)
	}
}

func TestRevealFlipsRound2PhaseToReveal(t *testing.T) {
	store := newTestStore(t)
	store.SetRound2Options([]string{"q1", "q2", "q3"})
	store.SelectRound2Team(teamRed)
	store.SelectRound2Question("q1", 60)

	store.RevealAnswer("q1", "q1-a1", attributionRed, 0)
	state := store.State()
	if state.Round2State == nil || state.Round2State.Phase != round2PhaseReveal {
		t.Fatalf("expected reveal phase, got %+v", state.Round2State)
	}
}
