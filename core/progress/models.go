package progress

import (
	"time"

	"github.com/teachhub/backend/core/course"
)

// Completion is the ledger's atomic fact: a user finished a lesson.
// At most one fact exists per (UserID, LessonID) pair; re-completing a lesson
// only advances CompletedAt.
type Completion struct {
	UserID      string    `json:"user_id"`
	LessonID    string    `json:"lesson_id"`
	CompletedAt time.Time `json:"completed_at"` // UTC
}

// LessonView is a Lesson annotated with the viewer's completion state.
type LessonView struct {
	course.Lesson
	IsCompleted bool `json:"is_completed"`
}

// CourseDetail is the full course projection for a given viewer.
type CourseDetail struct {
	course.Course
	NumberOfLessons  int          `json:"number_of_lessons"`
	CompletedLessons int          `json:"completed_lessons"`
	Progress         int          `json:"progress"`
	Lessons          []LessonView `json:"lessons"`
}

// CourseSummary is the list-row projection; lesson bodies are not fetched.
type CourseSummary struct {
	course.Course
	NumberOfLessons  int `json:"number_of_lessons"`
	CompletedLessons int `json:"completed_lessons"`
	Progress         int `json:"progress"`
}
