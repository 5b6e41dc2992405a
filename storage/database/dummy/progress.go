package dummydb

import (
	"context"

	"github.com/teachhub/backend/core/progress"
)

type completionRepository struct {
	completions *completionTable
	lessons     *lessonTable
}

var _ progress.Repository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *DB) progress.Repository {
	return &completionRepository{
		completions: db.completion,
		lessons:     db.lesson,
	}
}

func (repo *completionRepository) UpsertCompletion(ctx context.Context, cmp progress.Completion) (progress.Completion, error) {
	repo.completions.Lock()
	defer repo.completions.Unlock()

	// single write under the table lock; at most one fact per pair
	key := completionKey{userID: cmp.UserID, lessonID: cmp.LessonID}
	if orig, ok := repo.completions.table[key]; ok {
		orig.CompletedAt = cmp.CompletedAt
		return *orig, nil
	}
	repo.completions.table[key] = &cmp
	return cmp, nil
}

func (repo *completionRepository) GetCompletion(ctx context.Context, userID, lessonID string) (progress.Completion, error) {
	repo.completions.RLock()
	defer repo.completions.RUnlock()

	if cmp, ok := repo.completions.table[completionKey{userID: userID, lessonID: lessonID}]; ok {
		return *cmp, nil
	}
	return progress.Completion{}, progress.ErrNotFound
}

func (repo *completionRepository) CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	byCourse, err := repo.CompletedLessonIDsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return byCourse[courseID], nil
}

func (repo *completionRepository) CompletedLessonIDsByUser(ctx context.Context, userID string) (map[string][]string, error) {
	repo.completions.RLock()
	defer repo.completions.RUnlock()
	repo.lessons.RLock()
	defer repo.lessons.RUnlock()

	// fetch the user's completions once, partition by course in memory
	byCourse := make(map[string][]string)
	for key, cmp := range repo.completions.table {
		if key.userID != userID {
			continue
		}
		lsn, ok := repo.lessons.table[cmp.LessonID]
		if !ok {
			continue // orphaned fact; lesson is gone
		}
		byCourse[lsn.CourseID] = append(byCourse[lsn.CourseID], cmp.LessonID)
	}
	return byCourse, nil
}
