package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

type mockQuestionStore struct {
	mock.Mock
}

func (m *mockQuestionStore) ListQuestions(ctx context.Context) ([]sqlcgen.Question, error) {
	args := m.Called(ctx)
	return args.Get(0).([]sqlcgen.Question), args.Error(1)
}

func (m *mockQuestionStore) SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error) {
	args := m.Called(ctx, pattern)
	return args.Get(0).([]sqlcgen.Question), args.Error(1)
}

func (m *mockQuestionStore) ListQuestionsByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	args := m.Called(ctx, category)
	return args.Get(0).([]sqlcgen.Question), args.Error(1)
}

func (m *mockQuestionStore) ListQuizCandidates(ctx context.Context, arg sqlcgen.ListQuizCandidatesParams) ([]sqlcgen.Question, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).([]sqlcgen.Question), args.Error(1)
}

func (m *mockQuestionStore) InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (int32, error) {
	args := m.Called(ctx, arg)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockQuestionStore) DeleteQuestion(ctx context.Context, id int32) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockQuestionStore) ListCategories(ctx context.Context) ([]sqlcgen.Category, error) {
	args := m.Called(ctx)
	return args.Get(0).([]sqlcgen.Category), args.Error(1)
}

func TestQuestionRepository_List(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	expect := []sqlcgen.Question{sampleQuestion(1, 1), sampleQuestion(2, 3)}
	store.On("ListQuestions", mock.Anything).Return(expect, nil)

	got, err := repo.List(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}

func TestQuestionRepository_SearchWrapsAndEscapesTerm(t *testing.T) {
	cases := map[string]string{
		"":        "%%",
		"Tom":     "%Tom%",
		"100%":    `%100\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for term, pattern := range cases {
		store := new(mockQuestionStore)
		repo := NewQuestionRepository(store)
		store.On("SearchQuestions", mock.Anything, pattern).Return([]sqlcgen.Question{}, nil)

		_, err := repo.Search(context.Background(), term)
		assert.NoError(t, err, term)
		store.AssertExpectations(t)
	}
}

func TestQuestionRepository_QuizCandidatesWithoutCategory(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	params := sqlcgen.ListQuizCandidatesParams{Excluded: []int32{}}
	store.On("ListQuizCandidates", mock.Anything, params).Return([]sqlcgen.Question{sampleQuestion(4, 2)}, nil)

	got, err := repo.QuizCandidates(context.Background(), nil, nil)
	assert.NoError(t, err)
	assert.Len(t, got, 1)
	store.AssertExpectations(t)
}

func TestQuestionRepository_QuizCandidatesWithCategory(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	category := int32(1)
	params := sqlcgen.ListQuizCandidatesParams{
		Category: pgtype.Int4{Int32: 1, Valid: true},
		Excluded: []int32{20, 21},
	}
	store.On("ListQuizCandidates", mock.Anything, params).Return([]sqlcgen.Question{sampleQuestion(22, 1)}, nil)

	got, err := repo.QuizCandidates(context.Background(), &category, []int32{20, 21})
	assert.NoError(t, err)
	assert.Equal(t, int32(22), got[0].ID)
	store.AssertExpectations(t)
}

func TestQuestionRepository_Insert(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	params := sqlcgen.InsertQuestionParams{
		Question:   "Who is the richest person in the world?",
		Answer:     "Jeff Bezos",
		Category:   5,
		Difficulty: 2,
	}
	store.On("InsertQuestion", mock.Anything, params).Return(int32(42), nil)

	id, err := repo.Insert(context.Background(), params)
	assert.NoError(t, err)
	assert.Equal(t, int32(42), id)
	store.AssertExpectations(t)
}

func TestQuestionRepository_Delete(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	store.On("DeleteQuestion", mock.Anything, int32(5)).Return(int64(1), nil)
	store.On("DeleteQuestion", mock.Anything, int32(999)).Return(int64(0), nil)

	assert.NoError(t, repo.Delete(context.Background(), 5))
	assert.ErrorIs(t, repo.Delete(context.Background(), 999), ErrNotFound)
	store.AssertExpectations(t)
}

func TestQuestionRepository_DeletePropagatesStoreError(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	boom := errors.New("connection reset")
	store.On("DeleteQuestion", mock.Anything, int32(5)).Return(int64(0), boom)

	err := repo.Delete(context.Background(), 5)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestQuestionRepository_Categories(t *testing.T) {
	store := new(mockQuestionStore)
	repo := NewQuestionRepository(store)

	expect := []sqlcgen.Category{{ID: 1, Type: "Science"}, {ID: 2, Type: "Art"}}
	store.On("ListCategories", mock.Anything).Return(expect, nil)

	got, err := repo.Categories(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, expect, got)
	store.AssertExpectations(t)
}
