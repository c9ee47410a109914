package repository

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgtype"

	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// ErrNotFound is returned when a statement matched no rows.
var ErrNotFound = errors.New("repository: no matching rows")

type questionStore interface {
	ListQuestions(ctx context.Context) ([]sqlcgen.Question, error)
	SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error)
	ListQuestionsByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error)
	ListQuizCandidates(ctx context.Context, arg sqlcgen.ListQuizCandidatesParams) ([]sqlcgen.Question, error)
	InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (int32, error)
	DeleteQuestion(ctx context.Context, id int32) (int64, error)
	ListCategories(ctx context.Context) ([]sqlcgen.Category, error)
}

// QuestionRepository wraps sqlc queries for question and category access.
type QuestionRepository struct {
	store questionStore
}

func NewQuestionRepository(store questionStore) *QuestionRepository {
	return &QuestionRepository{store: store}
}

// List returns every question ordered by id.
func (r *QuestionRepository) List(ctx context.Context) ([]sqlcgen.Question, error) {
	return r.store.ListQuestions(ctx)
}

// Search matches term as a literal, case-insensitive substring of the question text.
// An empty term matches everything.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]sqlcgen.Question, error) {
	return r.store.SearchQuestions(ctx, "%"+escapeLike(term)+"%")
}

// ByCategory returns questions whose category equals id. Unknown ids yield an empty result.
func (r *QuestionRepository) ByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	return r.store.ListQuestionsByCategory(ctx, category)
}

// QuizCandidates returns questions eligible for a quiz round. A nil category disables
// the category filter.
func (r *QuestionRepository) QuizCandidates(ctx context.Context, category *int32, exclude []int32) ([]sqlcgen.Question, error) {
	params := sqlcgen.ListQuizCandidatesParams{
		// NOT (id = ANY(NULL)) filters every row, so never send a nil array.
		Excluded: make([]int32, 0, len(exclude)),
	}
	params.Excluded = append(params.Excluded, exclude...)
	if category != nil {
		params.Category = pgtype.Int4{Int32: *category, Valid: true}
	}
	return r.store.ListQuizCandidates(ctx, params)
}

// Insert stores a new question and returns its id.
func (r *QuestionRepository) Insert(ctx context.Context, params sqlcgen.InsertQuestionParams) (int32, error) {
	return r.store.InsertQuestion(ctx, params)
}

// Delete removes a question, returning ErrNotFound when id does not exist.
func (r *QuestionRepository) Delete(ctx context.Context, id int32) error {
	affected, err := r.store.DeleteQuestion(ctx, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Categories returns every category ordered by id.
func (r *QuestionRepository) Categories(ctx context.Context) ([]sqlcgen.Category, error) {
	return r.store.ListCategories(ctx)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}
