package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"showtime/internal/config"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s := New(nil, config.Default())
	seedQuestions(s.store)
	return s
}

func postJSON(t *testing.T, handler http.Handler, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return body
}

func TestVoteEndpointFlow(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	// Closed window: vote rejected.
	rec := postJSON(t, handler, "/api/audience/votes", map[string]any{
		"device_id": "d1", "name": "Ada", "phone": "5550001111", "upi_id": "ada@upi", "team": "red",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("closed window vote: status %d", rec.Code)
	}

	rec = postJSON(t, handler, "/api/show/voting/open", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("open voting: status %d body=%s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, handler, "/api/audience/votes", map[string]any{
		"device_id": "d1", "name": "Ada", "phone": "5550001111", "upi_id": "ada@upi", "team": "red",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("vote: status %d body=%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["team"] != "red" || body["new_voter"] != true {
		t.Fatalf("unexpected vote response: %v", body)
	}

	// Switch teams on the same device.
	rec = postJSON(t, handler, "/api/audience/votes", map[string]any{
		"device_id": "d1", "team": "blue",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("switch: status %d body=%s", rec.Code, rec.Body.String())
	}
	body = decodeBody(t, rec)
	if body["new_voter"] != false || body["team"] != "blue" {
		t.Fatalf("unexpected switch response: %v", body)
	}
}

func TestVoteEndpointRejectsBadPayload(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()
	postJSON(t, handler, "/api/show/voting/open", map[string]any{})

	cases := []struct {
		name    string
		payload map[string]any
	}{
		{"unknown team", map[string]any{"device_id": "d1", "team": "purple"}},
		{"upi missing at sign", map[string]any{
			"device_id": "d1", "name": "Ada", "phone": "5550001111", "upi_id": "ada-upi", "team": "red",
		}},
		{"phone too short", map[string]any{
			"device_id": "d1", "name": "Ada", "phone": "123", "upi_id": "ada@upi", "team": "red",
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postJSON(t, handler, "/api/audience/votes", tc.payload)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
			}
		})
	}
}

func TestVoteEndpointLateJoinerRejected(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()
	postJSON(t, handler, "/api/show/voting/open", map[string]any{})
	postJSON(t, handler, "/api/show/voting/close", map[string]any{})
	postJSON(t, handler, "/api/show/voting/open", map[string]any{})

	rec := postJSON(t, handler, "/api/audience/votes", map[string]any{
		"device_id": "d9", "name": "Late", "phone": "5550009999", "upi_id": "late@upi", "team": "green",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("late joiner: status %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRound1GuessEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	postJSON(t, handler, "/api/show/round1/start", map[string]any{})
	postJSON(t, handler, "/api/show/question", map[string]any{"question_id": "q1"})

	// Guessing without a team selected is a client error.
	rec := postJSON(t, handler, "/api/show/round1/guess", map[string]any{
		"correct": true, "answer_id": "q1-a1",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("teamless guess: status %d body=%s", rec.Code, rec.Body.String())
	}

	postJSON(t, handler, "/api/show/round1/team", map[string]any{"team": "red"})
	rec = postJSON(t, handler, "/api/show/round1/guess", map[string]any{
		"correct": true, "answer_id": "q1-a1",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("guess: status %d body=%s", rec.Code, rec.Body.String())
	}

	team, _ := s.store.Team(teamRed)
	if team.Score != 40 {
		t.Fatalf("expected red score 40, got %d", team.Score)
	}
}

func TestRound2OptionsEndpointRejectsWrongCount(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	rec := postJSON(t, handler, "/api/show/round2/options", map[string]any{
		"question_ids": []string{"q1", "q2"},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRevealEndpointIdempotent(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	rec := postJSON(t, handler, "/api/show/answers/reveal", map[string]any{
		"question_id": "q1", "answer_id": "q1-a1", "attribution": "red",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("first reveal: status %d body=%s", rec.Code, rec.Body.String())
	}

	rec = postJSON(t, handler, "/api/show/answers/reveal", map[string]any{
		"question_id": "q1", "answer_id": "q1-a1", "attribution": "green",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("second reveal: status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["already_revealed"] != true {
		t.Fatalf("expected already_revealed response, got %v", body)
	}

	rec = postJSON(t, handler, "/api/show/answers/reveal", map[string]any{
		"question_id": "nope", "answer_id": "q1-a1", "attribution": "red",
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown question: status %d", rec.Code)
	}
}

func TestShowSnapshotMasksUnrevealedAnswers(t *testing.T) {
	s := newTestServer(t)
	s.store.SetCurrentQuestion("q1")
	s.store.RevealAnswer("q1", "q1-a1", attributionRed, 0)

	display := s.snapshotForRole(wsRoleDisplay)
	question, ok := display["question"].(map[string]any)
	if !ok {
		t.Fatalf("no question in snapshot: %v", display["question"])
	}
	answers := question["answers"].([]map[string]any)
	if len(answers) != 4 {
		t.Fatalf("expected 4 answers, got %d", len(answers))
	}
	if _, leaked := answers[1]["text"]; leaked {
		t.Fatal("unrevealed answer text leaked to display role")
	}
	if answers[0]["text"] != "Sandwiches" || answers[0]["attribution"] != attributionRed {
		t.Fatalf("revealed answer missing detail: %v", answers[0])
	}

	control := s.snapshotForRole(wsRoleControl)
	answers = control["question"].(map[string]any)["answers"].([]map[string]any)
	if answers[1]["text"] != "Blanket" {
		t.Fatalf("control role should see hidden answers, got %v", answers[1])
	}
	if _, present := control["audience_count"]; !present {
		t.Fatal("control snapshot missing audience count")
	}
	if _, present := display["audience_count"]; present {
		t.Fatal("display snapshot carries audience count")
	}
}

func TestShowEndpointReturnsControlSnapshot(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	req := httptest.NewRequest(http.MethodGet, "/api/show", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["type"] != "snapshot" || body["current_round"] != roundPreShow {
		t.Fatalf("unexpected snapshot: type=%v round=%v", body["type"], body["current_round"])
	}
}

func TestQuestionImportEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()

	csv := strings.Join([]string{
		"QuestionID,QuestionText,AnswerCount,Answer1,Value1,Answer2,Value2",
		"q9,Name a musical instrument,2,Guitar,55,Piano,45",
	}, "\n")
	req := httptest.NewRequest(http.MethodPost, "/api/questions/import", strings.NewReader(csv))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("import: status %d body=%s", rec.Code, rec.Body.String())
	}

	question, ok := s.store.Question("q9")
	if !ok {
		t.Fatal("imported question not in bank")
	}
	if len(question.Answers) != 2 || question.Answers[0].ID != "q9-a1" {
		t.Fatalf("unexpected answers: %+v", question.Answers)
	}
}

func TestAudienceExportEndpoint(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()
	postJSON(t, handler, "/api/show/voting/open", map[string]any{})
	postJSON(t, handler, "/api/audience/votes", map[string]any{
		"device_id": "d1", "name": "Ada", "phone": "5550001111", "upi_id": "ada@upi", "team": "red",
	})

	req := httptest.NewRequest(http.MethodGet, "/api/audience/export", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("export: status %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/csv" {
		t.Fatalf("content type %q", got)
	}
	if !strings.Contains(rec.Body.String(), "d1,,Ada,5550001111,ada@upi,red,1") {
		t.Fatalf("member row missing from export:\n%s", rec.Body.String())
	}
}

func TestResetEndpointClearsEverything(t *testing.T) {
	s := newTestServer(t)
	handler := s.Handler()
	postJSON(t, handler, "/api/show/teams/score", map[string]any{"team": "red", "delta": 50})
	postJSON(t, handler, "/api/show/voting/open", map[string]any{})
	postJSON(t, handler, "/api/audience/votes", map[string]any{
		"device_id": "d1", "name": "Ada", "phone": "5550001111", "upi_id": "ada@upi", "team": "red",
	})

	rec := postJSON(t, handler, "/api/show/reset", map[string]any{})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: status %d body=%s", rec.Code, rec.Body.String())
	}
	team, _ := s.store.Team(teamRed)
	if team.Score != 0 || team.DugoutCount != 0 {
		t.Fatalf("team not reset: %+v", team)
	}
	if len(s.store.AudienceMembers()) != 0 {
		t.Fatal("audience survived reset")
	}
}
