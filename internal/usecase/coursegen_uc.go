// File: internal/usecase/coursegen_uc.go
package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog"

	"learnhub-checkout/internal/domain"
	"learnhub-checkout/internal/domain/model"
	"learnhub-checkout/internal/domain/ports/adapter"
	"learnhub-checkout/internal/domain/ports/repository"
	"learnhub-checkout/internal/infra/metrics"
)

// Compile-time check
var _ CourseGenUseCase = (*courseGenUC)(nil)

// CourseGenUseCase produces course curricula with an LLM: an outline of
// modules and lessons first, then per-lesson prose on demand.
type CourseGenUseCase interface {
	GenerateOutline(ctx context.Context, courseID, topic string, moduleCount, lessonsPerModule int) (*model.CourseOutline, error)
	FillLessons(ctx context.Context, outline *model.CourseOutline) error
}

const outlineSystemPrompt = "You are a curriculum designer for an online learning marketplace. " +
	"Respond with strict JSON only, no markdown fences."

const lessonSystemPrompt = "You write clear, practical lesson content for online courses. " +
	"Plain prose with short paragraphs; no front matter."

type courseGenUC struct {
	gen          adapter.ContentGenerator
	courses      repository.CourseRepository
	maxOutTokens int
	promptBudget int
	log          *zerolog.Logger
}

func NewCourseGenUseCase(gen adapter.ContentGenerator, courses repository.CourseRepository, maxOutTokens, promptBudget int, logger *zerolog.Logger) *courseGenUC {
	if maxOutTokens <= 0 {
		maxOutTokens = 4096
	}
	if promptBudget <= 0 {
		promptBudget = 8000
	}
	return &courseGenUC{gen: gen, courses: courses, maxOutTokens: maxOutTokens, promptBudget: promptBudget, log: logger}
}

// countTokens estimates prompt size with the cl100k encoding. Estimation
// failures fall back to a character heuristic rather than blocking.
func countTokens(text string) int {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return len(text) / 4
	}
	return len(enc.Encode(text, nil, nil))
}

func (u *courseGenUC) checkBudget(prompt string) error {
	if n := countTokens(prompt); n > u.promptBudget {
		return fmt.Errorf("prompt is %d tokens, budget is %d: %w", n, u.promptBudget, domain.ErrInvalidArgument)
	}
	return nil
}

func (u *courseGenUC) GenerateOutline(ctx context.Context, courseID, topic string, moduleCount, lessonsPerModule int) (*model.CourseOutline, error) {
	if topic == "" || moduleCount <= 0 || lessonsPerModule <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if _, err := u.courses.FindByID(ctx, courseID); err != nil {
		return nil, fmt.Errorf("course %s: %w", courseID, err)
	}

	prompt := fmt.Sprintf(
		`Design a course outline on %q with exactly %d modules of %d lessons each.
Return JSON: {"modules":[{"title":"...","lessons":[{"title":"...","summary":"..."}]}]}`,
		topic, moduleCount, lessonsPerModule)
	if err := u.checkBudget(prompt); err != nil {
		return nil, err
	}

	start := time.Now()
	raw, usage, err := u.gen.GenerateJSON(ctx, outlineSystemPrompt, prompt, u.maxOutTokens)
	metrics.ObserveAIGeneration(u.gen.Provider(), "outline", time.Since(start), usage.TotalTokens, err == nil)
	if err != nil {
		return nil, fmt.Errorf("generate outline: %w", err)
	}

	var parsed struct {
		Modules []model.OutlineModule `json:"modules"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse outline response: %w", err)
	}
	if len(parsed.Modules) == 0 {
		return nil, fmt.Errorf("outline response had no modules: %w", domain.ErrOperationFailed)
	}

	outline := &model.CourseOutline{
		CourseID:    courseID,
		Topic:       topic,
		Modules:     parsed.Modules,
		Model:       u.gen.Provider(),
		GeneratedAt: time.Now(),
	}
	if err := u.courses.SaveOutline(ctx, outline); err != nil {
		return nil, fmt.Errorf("save outline: %w", err)
	}
	u.log.Info().Str("course_id", courseID).Int("modules", len(outline.Modules)).
		Int("tokens", usage.TotalTokens).Msg("coursegen: outline generated")
	return outline, nil
}

// FillLessons generates prose for every lesson still missing content and
// re-persists the outline. Generation stops at the first hard failure so a
// partial fill can be resumed.
func (u *courseGenUC) FillLessons(ctx context.Context, outline *model.CourseOutline) error {
	for mi := range outline.Modules {
		mod := &outline.Modules[mi]
		for li := range mod.Lessons {
			lesson := &mod.Lessons[li]
			if lesson.Content != "" {
				continue
			}
			prompt := fmt.Sprintf("Course topic: %s\nModule: %s\nLesson: %s\nSummary: %s\n\nWrite the full lesson.",
				outline.Topic, mod.Title, lesson.Title, lesson.Summary)
			if err := u.checkBudget(prompt); err != nil {
				return err
			}
			start := time.Now()
			body, usage, err := u.gen.GenerateText(ctx, lessonSystemPrompt, prompt, u.maxOutTokens)
			metrics.ObserveAIGeneration(u.gen.Provider(), "lesson", time.Since(start), usage.TotalTokens, err == nil)
			if err != nil {
				return fmt.Errorf("generate lesson %q: %w", lesson.Title, err)
			}
			lesson.Content = body
		}
	}
	return u.courses.SaveOutline(ctx, outline)
}

// stripFences tolerates models that wrap JSON in markdown fences despite the
// system prompt.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
