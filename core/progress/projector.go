package progress

import (
	"math"

	"github.com/teachhub/backend/core/course"
	"github.com/teachhub/backend/core/user"
)

// Percent returns the integer completion percentage, rounded half-up:
// 1 of 3 lessons is 33, 2 of 3 is 67. A course with no lessons is 0.
func Percent(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// ProjectCourseDetail derives the detail view of a course for a viewer.
// A nil viewer is a valid anonymous read: completion is zeroed regardless of
// ledger contents, never an error.
func ProjectCourseDetail(crs course.Course, lessons []course.Lesson, completed map[string]bool, viewer *user.Identity) CourseDetail {
	detail := CourseDetail{
		Course:          crs,
		NumberOfLessons: len(lessons),
		Lessons:         make([]LessonView, 0, len(lessons)),
	}

	for _, lsn := range lessons {
		done := viewer != nil && completed[lsn.ID]
		if done {
			detail.CompletedLessons++
		}
		detail.Lessons = append(detail.Lessons, LessonView{Lesson: lsn, IsCompleted: done})
	}
	detail.Progress = Percent(detail.CompletedLessons, detail.NumberOfLessons)
	return detail
}

// ProjectCourseSummary derives the list-row view of a course for a viewer.
// It must agree with ProjectCourseDetail for the same (course, viewer).
func ProjectCourseSummary(crs course.Course, lessonCount, completedCount int, viewer *user.Identity) CourseSummary {
	if viewer == nil {
		completedCount = 0
	}
	return CourseSummary{
		Course:           crs,
		NumberOfLessons:  lessonCount,
		CompletedLessons: completedCount,
		Progress:         Percent(completedCount, lessonCount),
	}
}

// ProjectLessonDetail annotates a lesson with the viewer's completion state.
func ProjectLessonDetail(lsn course.Lesson, isCompleted bool, viewer *user.Identity) LessonView {
	return LessonView{
		Lesson:      lsn,
		IsCompleted: viewer != nil && isCompleted,
	}
}
