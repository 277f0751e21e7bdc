package server

import (
	"bytes"
	"strings"
	"testing"
)

func TestReadQuestionsCSV(t *testing.T) {
	input := strings.Join([]string{
		"QuestionID,QuestionText,DisplayText,AnswerCount,Answer1,Value1,Answer2,Value2,Answer3,Value3",
		"q1,Name a breakfast food,Breakfast foods,3,Eggs,50,Toast,30,Cereal,20",
		"q2,Name a chore,,2,Dishes,60,,0,Laundry,40",
		",Missing id row,,1,Skip,10,,,,",
		"q3,Answer count too high,,9,Only,100,,,,",
	}, "\n")

	questions, err := ReadQuestionsCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(questions) != 3 {
		t.Fatalf("expected 3 questions, got %d", len(questions))
	}

	first := questions[0]
	if first.ID != "q1" || first.DisplayText != "Breakfast foods" || first.AnswerCount != 3 {
		t.Fatalf("unexpected first question: %+v", first)
	}
	if len(first.Answers) != 3 || first.Answers[0].ID != "q1-a1" || first.Answers[0].Value != 50 {
		t.Fatalf("unexpected answers: %+v", first.Answers)
	}

	// Blank answer cells are skipped but the column numbering is kept.
	second := questions[1]
	if len(second.Answers) != 2 {
		t.Fatalf("expected 2 answers, got %d", len(second.Answers))
	}
	if second.Answers[1].ID != "q2-a3" || second.Answers[1].Text != "Laundry" {
		t.Fatalf("unexpected second answer: %+v", second.Answers[1])
	}

	// A declared count above the real answer list falls back to the list.
	third := questions[2]
	if third.AnswerCount != 1 {
		t.Fatalf("expected answer count 1, got %d", third.AnswerCount)
	}
}

func TestReadQuestionsCSVMissingColumn(t *testing.T) {
	input := "QuestionText,Answer1\nNo ids here,Something"
	if _, err := ReadQuestionsCSV(strings.NewReader(input)); err == nil {
		t.Fatal("expected error for missing QuestionID column")
	}
}

func TestWriteAudienceCSV(t *testing.T) {
	members := []AudienceMember{
		{DeviceID: "d1", AuthUID: "u1", Name: "Ada", Phone: "5550001111", UPIID: "ada@upi", Team: teamRed, VotingRound: 1},
		{DeviceID: "d2", Name: "Bob", Phone: "5550002222", UPIID: "bob@upi", Team: teamBlue, VotingRound: 2},
	}
	var buf bytes.Buffer
	if err := WriteAudienceCSV(&buf, members); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d lines", len(lines))
	}
	if lines[0] != "DeviceID,AuthUID,Name,Phone,UPIID,Team,VotingRound" {
		t.Fatalf("unexpected header: %s", lines[0])
	}
	if lines[2] != "d2,,Bob,5550002222,bob@upi,blue,2" {
		t.Fatalf("unexpected row: %s", lines[2])
	}
}
