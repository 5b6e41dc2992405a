package course

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/teachhub/backend/core"
)

var (
	// errors
	ErrNotFound       = errors.New("course not found")
	ErrLessonNotFound = errors.New("lesson not found")
)

type (
	Repository interface {
		CreateCourse(ctx context.Context, crs Course) (Course, error)
		QueryAllCourses(ctx context.Context, orderings ...core.DBOrdering) ([]Course, error)
		GetCourseByID(ctx context.Context, id string) (Course, error)
		// UpdateCourse only saves set fields; Published is updated when non-nil.
		UpdateCourse(ctx context.Context, crs Course, published *bool) (Course, error)

		CreateLesson(ctx context.Context, lsn Lesson) (Lesson, error)
		GetLessonByID(ctx context.Context, id string) (Lesson, error)
		QueryLessonsByCourse(ctx context.Context, courseID string) ([]Lesson, error)
		// CountLessonsByCourse returns lesson counts keyed by course ID,
		// in a single query for the whole ID set.
		CountLessonsByCourse(ctx context.Context, courseIDs []string) (map[string]int, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ownerID string, nc NewCourse) (Course, error)
		QueryAll(ctx context.Context, orderings ...core.DBOrdering) ([]Course, error)
		GetByID(ctx context.Context, id string) (Course, error)
		Update(ctx context.Context, orig Course, uc UpdateCourse) (Course, error)
		Lessons(ctx context.Context, courseID string) ([]Lesson, error)
		LessonCounts(ctx context.Context, courseIDs []string) (map[string]int, error)
		CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error)
		GetLesson(ctx context.Context, id string) (Lesson, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, ownerID string, nc NewCourse) (Course, error) {
	now := time.Now().UTC()
	crs := Course{
		Title:       nc.Title,
		Description: nc.Description,
		Thumbnail:   nc.Thumbnail,
		Duration:    nc.Duration,
		CreatedBy:   ownerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateCourse(ctx, crs)
}

func (svc *Service) QueryAll(ctx context.Context, orderings ...core.DBOrdering) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx, orderings...)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Course, error) {
	return svc.repo.GetCourseByID(ctx, id)
}

func (svc *Service) Update(ctx context.Context, orig Course, uc UpdateCourse) (Course, error) {
	crs := Course{
		ID:          orig.ID,
		Title:       uc.Title,
		Description: uc.Description,
		Thumbnail:   uc.Thumbnail,
		UpdatedAt:   time.Now().UTC(),
	}
	if uc.Duration != nil {
		crs.Duration = *uc.Duration
	} else {
		crs.Duration = orig.Duration
	}
	return svc.repo.UpdateCourse(ctx, crs, uc.Published)
}

func (svc *Service) Lessons(ctx context.Context, courseID string) ([]Lesson, error) {
	return svc.repo.QueryLessonsByCourse(ctx, courseID)
}

func (svc *Service) LessonCounts(ctx context.Context, courseIDs []string) (map[string]int, error) {
	return svc.repo.CountLessonsByCourse(ctx, courseIDs)
}

func (svc *Service) CreateLesson(ctx context.Context, nl NewLesson) (Lesson, error) {
	now := time.Now().UTC()
	lsn := Lesson{
		CourseID:  nl.CourseID,
		Title:     nl.Title,
		Subtitle:  nl.Subtitle,
		Type:      nl.Type,
		Content:   nl.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateLesson(ctx, lsn)
}

func (svc *Service) GetLesson(ctx context.Context, id string) (Lesson, error) {
	return svc.repo.GetLessonByID(ctx, id)
}
