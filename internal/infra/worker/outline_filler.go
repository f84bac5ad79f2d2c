package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/metrics"
)

const fillerSystemPrompt = "You write clear, practical lesson content for online courses. " +
	"Plain prose with short paragraphs; no front matter."

// OutlineFiller generates lesson bodies for a course outline using the worker
// pool, one task per missing lesson. The outline is saved once at the end.
type OutlineFiller struct {
	gen       adapter.ContentGenerator
	courses   repository.CourseRepository
	pool      *Pool
	maxTokens int
	log       *zerolog.Logger
}

func NewOutlineFiller(gen adapter.ContentGenerator, courses repository.CourseRepository, pool *Pool, maxTokens int, logger *zerolog.Logger) *OutlineFiller {
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	fillLog := logger.With().Str("component", "OutlineFiller").Logger()
	return &OutlineFiller{gen: gen, courses: courses, pool: pool, maxTokens: maxTokens, log: &fillLog}
}

// Fill generates content for every lesson still missing it. Lessons are
// generated concurrently; the first error is reported after all submitted
// tasks drain, and whatever was generated is persisted so a rerun resumes.
func (f *OutlineFiller) Fill(ctx context.Context, outline *model.CourseOutline) error {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
	}

	for mi := range outline.Modules {
		mod := &outline.Modules[mi]
		for li := range mod.Lessons {
			lesson := &mod.Lessons[li]
			if lesson.Content != "" {
				continue
			}
			prompt := fmt.Sprintf("Course topic: %s\nModule: %s\nLesson: %s\nSummary: %s\n\nWrite the full lesson.",
				outline.Topic, mod.Title, lesson.Title, lesson.Summary)

			wg.Add(1)
			task := func(ctx context.Context) error {
				defer wg.Done()
				start := time.Now()
				body, usage, err := f.gen.GenerateText(ctx, fillerSystemPrompt, prompt, f.maxTokens)
				metrics.ObserveAIGeneration(f.gen.Provider(), "lesson", time.Since(start), usage.TotalTokens, err == nil)
				if err != nil {
					fail(fmt.Errorf("generate lesson %q: %w", lesson.Title, err))
					return err
				}
				mu.Lock()
				lesson.Content = body
				mu.Unlock()
				return nil
			}
			if err := f.pool.Submit(task); err != nil {
				wg.Done()
				fail(err)
			}
		}
	}

	wg.Wait()

	if err := f.courses.SaveOutline(ctx, outline); err != nil {
		return fmt.Errorf("save outline: %w", err)
	}
	if firstErr != nil {
		return firstErr
	}
	f.log.Info().Str("course_id", outline.CourseID).Msg("outline lessons filled")
	return nil
}
