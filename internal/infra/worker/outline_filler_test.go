//go:build !integration

package worker

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

type stubGenerator struct {
	calls    atomic.Int64
	TextErr  error
	TextBody string
}

func (s *stubGenerator) Provider() string { return "stub" }

func (s *stubGenerator) GenerateJSON(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	return "{}", adapter.Usage{}, nil
}

func (s *stubGenerator) GenerateText(ctx context.Context, system, prompt string, maxTokens int) (string, adapter.Usage, error) {
	s.calls.Add(1)
	if s.TextErr != nil {
		return "", adapter.Usage{}, s.TextErr
	}
	return s.TextBody, adapter.Usage{TotalTokens: 10}, nil
}

type stubCourseRepo struct {
	mu       sync.Mutex
	outlines map[string]*model.CourseOutline
	SaveErr  error
}

func (s *stubCourseRepo) Save(ctx context.Context, c *model.Course) error { return nil }
func (s *stubCourseRepo) FindByID(ctx context.Context, id string) (*model.Course, error) {
	return nil, domain.ErrNotFound
}
func (s *stubCourseRepo) ListAll(ctx context.Context) ([]*model.Course, error) { return nil, nil }
func (s *stubCourseRepo) SaveOutline(ctx context.Context, o *model.CourseOutline) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.outlines == nil {
		s.outlines = make(map[string]*model.CourseOutline)
	}
	s.outlines[o.CourseID] = o
	return nil
}
func (s *stubCourseRepo) FindOutline(ctx context.Context, courseID string) (*model.CourseOutline, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if o, ok := s.outlines[courseID]; ok {
		return o, nil
	}
	return nil, domain.ErrNotFound
}

func testOutline() *model.CourseOutline {
	return &model.CourseOutline{
		CourseID: "course-1",
		Topic:    "Distributed Systems",
		Modules: []model.OutlineModule{
			{Title: "Foundations", Lessons: []model.OutlineLesson{
				{Title: "Clocks", Summary: "Logical time"},
				{Title: "Consensus", Summary: "Raft and friends", Content: "already written"},
			}},
			{Title: "Practice", Lessons: []model.OutlineLesson{
				{Title: "Replication", Summary: "Leaders and followers"},
			}},
		},
	}
}

func TestOutlineFiller_Fill(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := NewPool(4, newTestLogger())
	pool.Start(ctx)
	defer pool.Stop()

	t.Run("fills only missing lessons", func(t *testing.T) {
		gen := &stubGenerator{TextBody: "lesson body"}
		repo := &stubCourseRepo{}
		filler := NewOutlineFiller(gen, repo, pool, 0, newTestLogger())

		outline := testOutline()
		if err := filler.Fill(ctx, outline); err != nil {
			t.Fatalf("Fill failed: %v", err)
		}

		if got := gen.calls.Load(); got != 2 {
			t.Errorf("expected 2 generator calls, got %d", got)
		}
		if outline.Modules[0].Lessons[1].Content != "already written" {
			t.Error("pre-filled lesson was overwritten")
		}
		if outline.Modules[0].Lessons[0].Content != "lesson body" ||
			outline.Modules[1].Lessons[0].Content != "lesson body" {
			t.Error("missing lessons were not filled")
		}
		if _, err := repo.FindOutline(ctx, "course-1"); err != nil {
			t.Errorf("outline was not persisted: %v", err)
		}
	})

	t.Run("generation failure still persists partial work", func(t *testing.T) {
		gen := &stubGenerator{TextErr: errors.New("model overloaded")}
		repo := &stubCourseRepo{}
		filler := NewOutlineFiller(gen, repo, pool, 0, newTestLogger())

		err := filler.Fill(ctx, testOutline())
		if err == nil {
			t.Fatal("expected an error from the failing generator")
		}
		if _, err := repo.FindOutline(ctx, "course-1"); err != nil {
			t.Errorf("outline should be saved even on failure: %v", err)
		}
	})
}
