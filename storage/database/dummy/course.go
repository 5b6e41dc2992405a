package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/teachhub/backend/core"
	"github.com/teachhub/backend/core/course"
)

type courseRepository struct {
	courses *courseTable
	lessons *lessonTable
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *DB) course.Repository {
	return &courseRepository{
		courses: db.course,
		lessons: db.lesson,
	}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	crs.ID = uuid.New().String()
	repo.courses.table[crs.ID] = &crs
	return crs, nil
}

func (repo *courseRepository) QueryAllCourses(ctx context.Context, orderings ...core.DBOrdering) ([]course.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	courses := make([]course.Course, 0, len(repo.courses.table))
	for _, crs := range repo.courses.table {
		courses = append(courses, *crs)
	}

	sort.Slice(courses, func(i, j int) bool { return courses[i].CreatedAt.Before(courses[j].CreatedAt) })
	for k := len(orderings) - 1; k >= 0; k-- { // first ordering wins
		ord := orderings[k]
		sort.SliceStable(courses, func(i, j int) bool {
			a, b := courses[i], courses[j]
			if !ord.Ascending {
				a, b = b, a
			}
			switch ord.Field {
			case "title":
				return a.Title < b.Title
			case "duration":
				return a.Duration < b.Duration
			case "created_at":
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return false
		})
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	repo.courses.RLock()
	defer repo.courses.RUnlock()

	if crs, ok := repo.courses.table[id]; ok {
		return *crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course, published *bool) (course.Course, error) {
	repo.courses.Lock()
	defer repo.courses.Unlock()

	// only save set fields; CreatedBy is immutable
	origCrs, ok := repo.courses.table[crs.ID]
	if !ok {
		return course.Course{}, course.ErrNotFound
	}
	if crs.Title != "" {
		origCrs.Title = crs.Title
	}
	if crs.Description != "" {
		origCrs.Description = crs.Description
	}
	if crs.Thumbnail != "" {
		origCrs.Thumbnail = crs.Thumbnail
	}
	if crs.Duration != 0 {
		origCrs.Duration = crs.Duration
	}
	if published != nil {
		origCrs.Published = *published
	}
	if !crs.UpdatedAt.IsZero() {
		origCrs.UpdatedAt = crs.UpdatedAt
	}

	repo.courses.table[crs.ID] = origCrs
	return *origCrs, nil
}

func (repo *courseRepository) CreateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	repo.lessons.Lock()
	defer repo.lessons.Unlock()

	lsn.ID = uuid.New().String()
	repo.lessons.table[lsn.ID] = &lsn
	return lsn, nil
}

func (repo *courseRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	repo.lessons.RLock()
	defer repo.lessons.RUnlock()

	if lsn, ok := repo.lessons.table[id]; ok {
		return *lsn, nil
	}
	return course.Lesson{}, course.ErrLessonNotFound
}

func (repo *courseRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	repo.lessons.RLock()
	defer repo.lessons.RUnlock()

	var lessons []course.Lesson
	for _, lsn := range repo.lessons.table {
		if lsn.CourseID == courseID {
			lessons = append(lessons, *lsn)
		}
	}
	sort.Slice(lessons, func(i, j int) bool { return lessons[i].CreatedAt.Before(lessons[j].CreatedAt) })
	return lessons, nil
}

func (repo *courseRepository) CountLessonsByCourse(ctx context.Context, courseIDs []string) (map[string]int, error) {
	repo.lessons.RLock()
	defer repo.lessons.RUnlock()

	wanted := make(map[string]bool, len(courseIDs))
	for _, id := range courseIDs {
		wanted[id] = true
	}

	counts := make(map[string]int, len(courseIDs))
	for _, lsn := range repo.lessons.table {
		if wanted[lsn.CourseID] {
			counts[lsn.CourseID]++
		}
	}
	return counts, nil
}
