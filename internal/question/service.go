package question

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	sqlcgen "github.com/gokatarajesh/trivia-api/internal/db/sqlc"
)

const defaultPageSize = 10

// Sessions scopes a repository to a single unit of work (implemented by repository.Sessions).
type Sessions interface {
	Do(ctx context.Context, fn func(*repository.QuestionRepository) error) error
}

// Service answers listing, search, mutation and quiz requests over the question store.
type Service struct {
	sessions Sessions
	pageSize int
	rng      Picker
	validate *validator.Validate
}

type ServiceOptions struct {
	PageSize int
	Rand     Picker
}

func NewService(sessions Sessions, opts ServiceOptions) *Service {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.Rand == nil {
		opts.Rand = globalPicker{}
	}
	return &Service{
		sessions: sessions,
		pageSize: opts.PageSize,
		rng:      opts.Rand,
		validate: newValidator(),
	}
}

// Categories returns the id -> type lookup, or NotFoundError when there are none.
func (s *Service) Categories(ctx context.Context) (CategoryMap, error) {
	var categories CategoryMap
	err := s.sessions.Do(ctx, func(repo *repository.QuestionRepository) error {
		rows, err := repo.Categories(ctx)
		if err != nil {
			return err
		}
		categories = toCategoryMap(rows)
		return nil
	})
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	if len(categories) == 0 {
		return nil, &NotFoundError{Resource: "categories"}
	}
	return categories, nil
}

// ListQuestions returns one page of all questions by id plus the category lookup.
// An empty page is a NotFoundError.
func (s *Service) ListQuestions(ctx context.Context, page int) (ListPage, error) {
	var out ListPage
	err := s.sessions.Do(ctx, func(repo *repository.QuestionRepository) error {
		rows, err := repo.List(ctx)
		if err != nil {
			return err
		}
		categories, err := repo.Categories(ctx)
		if err != nil {
			return err
		}
		out.Page = s.paginate(page, rows)
		out.Categories = toCategoryMap(categories)
		return nil
	})
	if err != nil {
		return ListPage{}, storeErr("list questions", err)
	}
	if len(out.Questions) == 0 {
		return ListPage{}, &NotFoundError{Resource: "page"}
	}
	return out, nil
}

// Search returns a page of questions whose text contains term, ignoring case.
func (s *Service) Search(ctx context.Context, term string, page int) (Page, error) {
	var out Page
	err := s.sessions.Do(ctx, func(repo *repository.QuestionRepository) error {
		rows, err := repo.Search(ctx, term)
		if err != nil {
			return err
		}
		out = s.paginate(page, rows)
		return nil
	})
	if err != nil {
		return Page{}, storeErr("search questions", err)
	}
	return out, nil
}

// ByCategory returns a page of questions in category. Unknown categories give an empty page.
func (s *Service) ByCategory(ctx context.Context, category int32, page int) (Page, error) {
	var out Page
	err := s.sessions.Do(ctx, func(repo *repository.QuestionRepository) error {
		rows, err := repo.ByCategory(ctx, category)
		if err != nil {
			return err
		}
		out = s.paginate(page, rows)
		return nil
	})
	if err != nil {
		return Page{}, storeErr("list category questions", err)
	}
	return out, nil
}

// Create validates and stores in, returning its id and the requested page of the
// refreshed listing.
func (s *Service) Create(ctx context.Context, in NewQuestion, page int) (int32, Page, error) {
	if err := s.validateNew(in); err != nil {
		return 0, Page{}, err
	}

	var (
		id  int32
		out Page
	)
	err := s.sessions.Do(ctx, func(repo *repository.QuestionRepository) error {
		var err error
		id, err = repo.Insert(ctx, sqlcgen.InsertQuestionParams{
			Question:   in.Question,
			Answer:     in.Answer,
			Category:   in.Category,
			Difficulty: in.Difficulty,
		})
		if err != nil {
			return err
		}
		rows, err := repo.List(ctx)
		if err != nil {
			return err
		}
		out = s.paginate(page, rows)
		return nil
	})
	if err != nil {
		return 0, Page{}, storeErr("create question", err)
	}
	return id, out, nil
}

// Delete removes the question with id and returns the requested page of what is left.
func (s *Service) Delete(ctx context.Context, id int32, page int) (Page, error) {
	var out Page
	err := s.sessions.Do(ctx, func(repo *repository.QuestionRepository) error {
		if err := repo.Delete(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &NotFoundError{Resource: "question"}
			}
			return err
		}
		rows, err := repo.List(ctx)
		if err != nil {
			return err
		}
		out = s.paginate(page, rows)
		return nil
	})
	if err != nil {
		return Page{}, storeErr("delete question", err)
	}
	return out, nil
}

// PickQuiz returns a random question not in req.Previous, limited to req.Category when
// set. The boolean is false when every eligible question has already been played.
func (s *Service) PickQuiz(ctx context.Context, req QuizRequest) (Question, bool, error) {
	var candidates []Question
	err := s.sessions.Do(ctx, func(repo *repository.QuestionRepository) error {
		rows, err := repo.QuizCandidates(ctx, req.Category, req.Previous)
		if err != nil {
			return err
		}
		candidates = toDomain(rows)
		return nil
	})
	if err != nil {
		return Question{}, false, storeErr("pick quiz question", err)
	}

	q, ok := Pick(candidates, req.Category, req.Previous, s.rng)
	if ok {
		quizPicks.WithLabelValues("question").Inc()
	} else {
		quizPicks.WithLabelValues("exhausted").Inc()
	}
	return q, ok, nil
}

func (s *Service) paginate(page int, rows []sqlcgen.Question) Page {
	return Page{
		Questions: toDomain(Paginate(page, s.pageSize, rows)),
		Total:     len(rows),
	}
}

func (s *Service) validateNew(in NewQuestion) error {
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		return &ValidationError{Field: fieldErrs[0].Field()}
	}
	return &ValidationError{Field: "question"}
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// storeErr keeps typed errors intact and wraps everything else as a StoreError.
func storeErr(op string, err error) error {
	var notFound *NotFoundError
	var invalid *ValidationError
	if errors.As(err, &notFound) || errors.As(err, &invalid) {
		return err
	}
	return &StoreError{Op: op, Err: err}
}

func toDomain(rows []sqlcgen.Question) []Question {
	out := make([]Question, 0, len(rows))
	for _, row := range rows {
		out = append(out, Question{
			ID:         row.ID,
			Question:   row.Question,
			Answer:     row.Answer,
			Category:   row.Category,
			Difficulty: row.Difficulty,
		})
	}
	return out
}

func toCategoryMap(rows []sqlcgen.Category) CategoryMap {
	out := make(CategoryMap, len(rows))
	for _, row := range rows {
		out[row.ID] = row.Type
	}
	return out
}
