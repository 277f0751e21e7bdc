package server

import (
	"encoding/json"
	"errors"

	"showtime/internal/db"

	"github.com/jackc/pgconn"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// Write-behind persistence from the in-memory store. Every helper is a
// no-op without a database so the state logic is testable on its own, and
// failures are reported to the caller without touching the live state.

func (s *Server) persistEvent(eventType string, payload EventPayload) error {
	if s.db == nil {
		return nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	event := db.Event{
		Type:    eventType,
		Payload: datatypes.JSON(data),
	}
	return s.db.Create(&event).Error
}

func (s *Server) persistTeam(team Team) error {
	if s.db == nil {
		return nil
	}
	record := db.Team{
		TeamID:      team.ID,
		Name:        team.Name,
		Color:       team.Color,
		Score:       team.Score,
		DugoutCount: team.DugoutCount,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"score", "dugout_count", "updated_at"}),
	}).Create(&record).Error
}

func (s *Server) persistTeams() error {
	for _, team := range s.store.Teams() {
		if err := s.persistTeam(team); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) persistQuestion(question Question) error {
	if s.db == nil {
		return nil
	}
	answers, err := json.Marshal(question.Answers)
	if err != nil {
		return err
	}
	record := db.Question{
		QuestionID:  question.ID,
		Text:        question.Text,
		DisplayText: question.DisplayText,
		AnswerCount: question.AnswerCount,
		Answers:     datatypes.JSON(answers),
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "question_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"text", "display_text", "answer_count", "answers", "updated_at"}),
	}).Create(&record).Error
}

// persistAudienceMember upserts by device id. Two submissions racing on the
// same device resolve through the unique index rather than a second row.
func (s *Server) persistAudienceMember(member AudienceMember) error {
	if s.db == nil {
		return nil
	}
	record := db.AudienceMember{
		DeviceID:    member.DeviceID,
		AuthUID:     member.AuthUID,
		Name:        member.Name,
		Phone:       member.Phone,
		UPIID:       member.UPIID,
		Team:        member.Team,
		VotingRound: member.VotingRound,
	}
	err := s.db.Create(&record).Error
	if err == nil {
		return nil
	}
	if !isUniqueViolation(err) {
		return err
	}
	return s.db.Model(&db.AudienceMember{}).
		Where("device_id = ?", member.DeviceID).
		Updates(map[string]any{
			"team":         member.Team,
			"voting_round": member.VotingRound,
			"auth_uid":     member.AuthUID,
		}).Error
}

func (s *Server) purgeAudienceMembers() error {
	if s.db == nil {
		return nil
	}
	return s.db.Where("1 = 1").Delete(&db.AudienceMember{}).Error
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
