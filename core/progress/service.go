package progress

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/teachhub/backend/core/course"
	"github.com/teachhub/backend/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("completion not found")
)

type (
	// Repository is the completion ledger's store. The uniqueness constraint
	// on (user_id, lesson_id) lives in the store: UpsertCompletion must be a
	// single atomic insert-or-update, not a read-then-write.
	Repository interface {
		UpsertCompletion(ctx context.Context, cmp Completion) (Completion, error)
		GetCompletion(ctx context.Context, userID, lessonID string) (Completion, error)
		// CompletedLessonIDs returns the lessons of one course completed by
		// the user, in a single query.
		CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error)
		// CompletedLessonIDsByUser returns every lesson the user has
		// completed, partitioned by course ID, in a single query. Used by
		// list views so the ledger is hit once per request, not per course.
		CompletedLessonIDsByUser(ctx context.Context, userID string) (map[string][]string, error)
	}

	// LessonStore is the narrow view of the course store the ledger needs to
	// verify that a completed lesson exists.
	LessonStore interface {
		GetLessonByID(ctx context.Context, id string) (course.Lesson, error)
	}

	ServiceInterface interface {
		RecordCompletion(ctx context.Context, userID, lessonID string) (Completion, error)
		IsCompleted(ctx context.Context, userID, lessonID string) (bool, error)
		CourseDetail(ctx context.Context, crs course.Course, lessons []course.Lesson, viewer *user.Identity) (CourseDetail, error)
		CourseSummaries(ctx context.Context, courses []course.Course, lessonCounts map[string]int, viewer *user.Identity) ([]CourseSummary, error)
		LessonDetail(ctx context.Context, lsn course.Lesson, viewer *user.Identity) (LessonView, error)
	}

	Service struct {
		repo    Repository
		lessons LessonStore
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, lessons LessonStore) *Service {
	return &Service{
		repo:    repo,
		lessons: lessons,
	}
}

// RecordCompletion marks a lesson complete for a user. Calling it again for
// the same pair refreshes CompletedAt and never creates a second fact.
func (svc *Service) RecordCompletion(ctx context.Context, userID, lessonID string) (Completion, error) {
	if _, err := svc.lessons.GetLessonByID(ctx, lessonID); err != nil {
		return Completion{}, err
	}

	cmp := Completion{
		UserID:      userID,
		LessonID:    lessonID,
		CompletedAt: time.Now().UTC(),
	}
	return svc.repo.UpsertCompletion(ctx, cmp)
}

// IsCompleted reports whether the user has completed the lesson. Callers must
// resolve an identity before calling; an anonymous read never reaches here.
func (svc *Service) IsCompleted(ctx context.Context, userID, lessonID string) (bool, error) {
	if _, err := svc.repo.GetCompletion(ctx, userID, lessonID); err != nil {
		if errors.Cause(err) == ErrNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CourseDetail projects the full course view for the viewer. A nil viewer
// skips the ledger entirely and yields zeroed completion.
func (svc *Service) CourseDetail(ctx context.Context, crs course.Course, lessons []course.Lesson, viewer *user.Identity) (CourseDetail, error) {
	var completed map[string]bool
	if viewer != nil {
		ids, err := svc.repo.CompletedLessonIDs(ctx, viewer.UserID, crs.ID)
		if err != nil {
			return CourseDetail{}, errors.Wrap(err, "querying completed lessons")
		}
		completed = make(map[string]bool, len(ids))
		for _, id := range ids {
			completed[id] = true
		}
	}
	return ProjectCourseDetail(crs, lessons, completed, viewer), nil
}

// CourseSummaries projects list rows for many courses with at most one ledger
// query, regardless of how many courses are listed.
func (svc *Service) CourseSummaries(ctx context.Context, courses []course.Course, lessonCounts map[string]int, viewer *user.Identity) ([]CourseSummary, error) {
	var completedByCourse map[string][]string
	if viewer != nil {
		var err error
		completedByCourse, err = svc.repo.CompletedLessonIDsByUser(ctx, viewer.UserID)
		if err != nil {
			return nil, errors.Wrap(err, "querying user completions")
		}
	}

	summaries := make([]CourseSummary, 0, len(courses))
	for _, crs := range courses {
		summaries = append(summaries, ProjectCourseSummary(
			crs, lessonCounts[crs.ID], len(completedByCourse[crs.ID]), viewer))
	}
	return summaries, nil
}

// LessonDetail annotates a lesson with the viewer's completion state;
// a single-pair ledger lookup when a viewer is present.
func (svc *Service) LessonDetail(ctx context.Context, lsn course.Lesson, viewer *user.Identity) (LessonView, error) {
	var done bool
	if viewer != nil {
		var err error
		done, err = svc.IsCompleted(ctx, viewer.UserID, lsn.ID)
		if err != nil {
			return LessonView{}, err
		}
	}
	return ProjectLessonDetail(lsn, done, viewer), nil
}
