package server

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ReadQuestionsCSV parses the question bank format: a header row of
// QuestionID,QuestionText,DisplayText,AnswerCount,Answer1..N,Value1..N,
// one question per row. Rows missing an id or text are skipped; answers
// come from the paired Answer{i}/Value{i} columns, blanks skipped.
func ReadQuestionsCSV(r io.Reader) ([]Question, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	columns := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		columns[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{"QuestionID", "QuestionText"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("missing column %s", required)
		}
	}

	cell := func(row []string, name string) string {
		index, ok := columns[name]
		if !ok || index >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[index])
	}

	var questions []Question
	for _, row := range rows[1:] {
		id := cell(row, "QuestionID")
		text := cell(row, "QuestionText")
		if id == "" || text == "" {
			continue
		}
		question := Question{
			ID:          id,
			Text:        text,
			DisplayText: cell(row, "DisplayText"),
		}
		for i := 1; ; i++ {
			answerColumn := fmt.Sprintf("Answer%d", i)
			if _, ok := columns[answerColumn]; !ok {
				break
			}
			answerText := cell(row, answerColumn)
			if answerText == "" {
				continue
			}
			value, _ := strconv.Atoi(cell(row, fmt.Sprintf("Value%d", i)))
			question.Answers = append(question.Answers, Answer{
				ID:    fmt.Sprintf("%s-a%d", id, i),
				Text:  answerText,
				Value: value,
			})
		}
		question.AnswerCount = len(question.Answers)
		if declared, err := strconv.Atoi(cell(row, "AnswerCount")); err == nil && declared > 0 && declared <= len(question.Answers) {
			question.AnswerCount = declared
		}
		questions = append(questions, question)
	}
	return questions, nil
}

// WriteAudienceCSV exports one row per audience member with the metadata
// captured at their first vote.
func WriteAudienceCSV(w io.Writer, members []AudienceMember) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"DeviceID", "AuthUID", "Name", "Phone", "UPIID", "Team", "VotingRound"}); err != nil {
		return err
	}
	for _, member := range members {
		row := []string{
			member.DeviceID,
			member.AuthUID,
			member.Name,
			member.Phone,
			member.UPIID,
			member.Team,
			strconv.Itoa(member.VotingRound),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}
