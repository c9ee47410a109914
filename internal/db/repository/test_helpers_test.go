package repository

import sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"

func sampleQuestion(id, category int32) sqlcgen.Question {
	return sqlcgen.Question{
		ID:         id,
		Question:   "Question?",
		Answer:     "Answer",
		Category:   category,
		Difficulty: 2,
	}
}
