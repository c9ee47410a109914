package question

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

// memStore is an in-memory stand-in for the sqlc queries.
type memStore struct {
	mu         sync.Mutex
	questions  []sqlcgen.Question
	categories []sqlcgen.Category
	nextID     int32
	err        error
}

func newMemStore(categories []sqlcgen.Category, questions []sqlcgen.Question) *memStore {
	s := &memStore{categories: categories, questions: questions, nextID: 1}
	for _, q := range questions {
		if q.ID >= s.nextID {
			s.nextID = q.ID + 1
		}
	}
	return s
}

func (s *memStore) filter(keep func(sqlcgen.Question) bool) ([]sqlcgen.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	var out []sqlcgen.Question
	for _, q := range s.questions {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out, nil
}

func (s *memStore) ListQuestions(ctx context.Context) ([]sqlcgen.Question, error) {
	return s.filter(func(sqlcgen.Question) bool { return true })
}

func (s *memStore) SearchQuestions(ctx context.Context, pattern string) ([]sqlcgen.Question, error) {
	needle := strings.ToLower(unescapeLike(strings.TrimSuffix(strings.TrimPrefix(pattern, "%"), "%")))
	return s.filter(func(q sqlcgen.Question) bool {
		return strings.Contains(strings.ToLower(q.Question), needle)
	})
}

func (s *memStore) ListQuestionsByCategory(ctx context.Context, category int32) ([]sqlcgen.Question, error) {
	return s.filter(func(q sqlcgen.Question) bool { return q.Category == category })
}

func (s *memStore) ListQuizCandidates(ctx context.Context, arg sqlcgen.ListQuizCandidatesParams) ([]sqlcgen.Question, error) {
	excluded := make(map[int32]bool, len(arg.Excluded))
	for _, id := range arg.Excluded {
		excluded[id] = true
	}
	return s.filter(func(q sqlcgen.Question) bool {
		if arg.Category.Valid && q.Category != arg.Category.Int32 {
			return false
		}
		return !excluded[q.ID]
	})
}

func (s *memStore) InsertQuestion(ctx context.Context, arg sqlcgen.InsertQuestionParams) (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	id := s.nextID
	s.nextID++
	s.questions = append(s.questions, sqlcgen.Question{
		ID:         id,
		Question:   arg.Question,
		Answer:     arg.Answer,
		Category:   arg.Category,
		Difficulty: arg.Difficulty,
	})
	return id, nil
}

func (s *memStore) DeleteQuestion(ctx context.Context, id int32) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return 0, s.err
	}
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (s *memStore) ListCategories(ctx context.Context) ([]sqlcgen.Category, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return append([]sqlcgen.Category(nil), s.categories...), nil
}

func (s *memStore) failWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func unescapeLike(s string) string {
	var b strings.Builder
	escaped := false
	for _, r := range s {
		if r == '\\' && !escaped {
			escaped = true
			continue
		}
		escaped = false
		b.WriteRune(r)
	}
	return b.String()
}

// staticSessions hands every unit of work the same repository.
type staticSessions struct {
	repo  *repository.QuestionRepository
	calls int
}

func (s *staticSessions) Do(_ context.Context, fn func(*repository.QuestionRepository) error) error {
	s.calls++
	return fn(s.repo)
}

// fixedPicker always picks the same index, clamped to the candidate count.
type fixedPicker int

func (p fixedPicker) IntN(n int) int {
	return min(int(p), n-1)
}

var testCategories = []sqlcgen.Category{
	{ID: 1, Type: "Science"},
	{ID: 2, Type: "Art"},
	{ID: 3, Type: "Geography"},
	{ID: 4, Type: "History"},
	{ID: 5, Type: "Entertainment"},
	{ID: 6, Type: "Sports"},
}

// seedQuestions returns 19 filler questions (ids 1..19, categories 2..6) followed by
// three Science questions with ids 20, 21 and 22.
func seedQuestions() []sqlcgen.Question {
	var out []sqlcgen.Question
	for i := int32(1); i <= 19; i++ {
		out = append(out, sqlcgen.Question{
			ID:         i,
			Question:   fmt.Sprintf("Filler question number %d?", i),
			Answer:     fmt.Sprintf("answer %d", i),
			Category:   2 + (i % 5),
			Difficulty: 1 + (i % 5),
		})
	}
	out[4].Question = "What movie earned Tom Hanks his third straight Oscar nomination, in 1996?"
	out = append(out,
		sqlcgen.Question{ID: 20, Question: "What is the heaviest organ in the human body?", Answer: "The Liver", Category: 1, Difficulty: 4},
		sqlcgen.Question{ID: 21, Question: "Who discovered penicillin?", Answer: "Alexander Fleming", Category: 1, Difficulty: 3},
		sqlcgen.Question{ID: 22, Question: "Hematology is a branch of medicine involving the study of what?", Answer: "Blood", Category: 1, Difficulty: 4},
	)
	return out
}

func newTestService(store *memStore, opts ServiceOptions) (*Service, *staticSessions) {
	sessions := &staticSessions{repo: repository.NewQuestionRepository(store)}
	return NewService(sessions, opts), sessions
}
