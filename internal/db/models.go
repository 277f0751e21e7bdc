package db

import (
	"time"

	"gorm.io/datatypes"
)

type Team struct {
	ID          uint      `gorm:"primaryKey"`
	TeamID      string    `gorm:"size:8;uniqueIndex;not null"`
	Name        string    `gorm:"size:64;not null"`
	Color       string    `gorm:"size:16;not null"`
	Score       int       `gorm:"not null;default:0"`
	DugoutCount int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type Question struct {
	ID          uint           `gorm:"primaryKey"`
	QuestionID  string         `gorm:"size:64;uniqueIndex;not null"`
	Text        string         `gorm:"size:280;not null"`
	DisplayText string         `gorm:"size:280"`
	AnswerCount int            `gorm:"not null"`
	Answers     datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt   time.Time      `gorm:"not null"`
	UpdatedAt   time.Time      `gorm:"not null"`
}

type AudienceMember struct {
	ID          uint      `gorm:"primaryKey"`
	DeviceID    string    `gorm:"size:64;uniqueIndex;not null"`
	AuthUID     string    `gorm:"size:64;index"`
	Name        string    `gorm:"size:64;not null"`
	Phone       string    `gorm:"size:20;not null"`
	UPIID       string    `gorm:"size:64;not null"`
	Team        string    `gorm:"size:8;not null;index"`
	VotingRound int       `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

type Event struct {
	ID        uint           `gorm:"primaryKey"`
	Type      string         `gorm:"size:64;not null"`
	Payload   datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"not null"`
}
