package course

import (
	"encoding/json"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/teachhub/backend/core"
)

// Lesson types; informational only, completion semantics do not depend on them.
const (
	LessonTypeVideo = "video"
	LessonTypeText  = "text"
	LessonTypeGame  = "game"
)

type Course struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Thumbnail   string    `json:"thumbnail,omitempty"`
	Duration    int       `json:"duration,omitempty"` // minutes
	Published   bool      `json:"published"`          // advisory; never gates reads
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at"` // UTC
}

type Lesson struct {
	ID        string          `json:"id"`
	CourseID  string          `json:"course_id"` // immutable
	Title     string          `json:"title"`
	Subtitle  string          `json:"subtitle,omitempty"`
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"` // opaque payload
	CreatedAt time.Time       `json:"created_at"` // UTC
	UpdatedAt time.Time       `json:"updated_at"` // UTC
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Thumbnail   string `json:"thumbnail"`
	Duration    int    `json:"duration" validate:"omitempty,gte=0"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// UpdateCourse defines what information may be provided to modify an existing Course.
// Empty fields keep their original values.
type UpdateCourse struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
	Duration    *int   `json:"duration" validate:"omitempty,gte=0"`
	Published   *bool  `json:"published"`
}

func (uc *UpdateCourse) Validate(orig Course, validate *validator.Validate) error {
	title := core.CleanString(uc.Title)
	if title != "" {
		uc.Title = title
	} else {
		uc.Title = orig.Title
	}

	desc := core.CleanString(uc.Description)
	if desc != "" {
		uc.Description = desc
	} else {
		uc.Description = orig.Description
	}

	if uc.Thumbnail == "" {
		uc.Thumbnail = orig.Thumbnail
	}

	return validate.Struct(uc)
}

// NewLesson contains information needed to create a new Lesson under a Course.
type NewLesson struct {
	Title    string          `json:"title" validate:"required"`
	Subtitle string          `json:"subtitle"`
	Type     string          `json:"type" validate:"omitempty,oneof=video text game"`
	CourseID string          `json:"course_id" validate:"required"`
	Content  json.RawMessage `json:"content" validate:"required"`
}

func (nl *NewLesson) Validate(validate *validator.Validate) error {
	nl.Title = core.CleanString(nl.Title)
	nl.Subtitle = core.CleanString(nl.Subtitle)
	if nl.Type == "" {
		nl.Type = LessonTypeText
	}
	return validate.Struct(nl)
}
