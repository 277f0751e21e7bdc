package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"showtime/internal/config"
	"showtime/internal/db"
	"showtime/internal/server"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

func main() {
	filePath := flag.String("file", "questions.csv", "path to questions csv")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	conn, err := db.Open()
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("failed to open %s: %v", *filePath, err)
	}
	defer file.Close()

	questions, err := server.ReadQuestionsCSV(file)
	if err != nil {
		log.Fatalf("failed to read questions: %v", err)
	}

	for _, question := range questions {
		answers, err := json.Marshal(question.Answers)
		if err != nil {
			log.Fatalf("failed to encode answers for %s: %v", question.ID, err)
		}
		record := db.Question{
			QuestionID:  question.ID,
			Text:        question.Text,
			DisplayText: question.DisplayText,
			AnswerCount: question.AnswerCount,
			Answers:     datatypes.JSON(answers),
		}
		if err := conn.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "question_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"text", "display_text", "answer_count", "answers", "updated_at"}),
		}).Create(&record).Error; err != nil {
			log.Fatalf("failed to upsert question %s: %v", question.ID, err)
		}
	}

	log.Printf("loaded %d questions", len(questions))
}
