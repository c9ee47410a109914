package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// Sessions hands out repositories bound to a single pooled connection.
type Sessions struct {
	pool *pgxpool.Pool
}

// NewSessions constructs a session factory over pool.
func NewSessions(pool *pgxpool.Pool) *Sessions {
	return &Sessions{pool: pool}
}

// Do acquires one connection for the lifetime of fn and releases it when fn returns.
func (s *Sessions) Do(ctx context.Context, fn func(*QuestionRepository) error) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	return fn(NewQuestionRepository(sqlcgen.New(conn)))
}
