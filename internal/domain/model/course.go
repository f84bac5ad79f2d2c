package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Course is a catalog entry; outlines and lesson bodies may be AI-generated.
type Course struct {
	ID          string
	Title       string
	Description string
	Price       decimal.Decimal
	CreatedAt   time.Time
}

type OutlineLesson struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content,omitempty"`
}

type OutlineModule struct {
	Title   string          `json:"title"`
	Lessons []OutlineLesson `json:"lessons"`
}

// CourseOutline is the generated curriculum for one course.
type CourseOutline struct {
	CourseID    string          `json:"course_id"`
	Topic       string          `json:"topic"`
	Modules     []OutlineModule `json:"modules"`
	Model       string          `json:"model"`
	GeneratedAt time.Time       `json:"generated_at"`
}
