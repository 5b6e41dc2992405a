package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/teachhub/backend/core/progress"
)

const completionTable = "lesson_completion"

var completionColumns = []string{"user_id", "lesson_id", "completed_at"}

type completionRow struct {
	UserID      string    `db:"user_id"`
	LessonID    string    `db:"lesson_id"`
	CompletedAt time.Time `db:"completed_at"`
}

func (r completionRow) toDomain() progress.Completion {
	return progress.Completion{
		UserID:      r.UserID,
		LessonID:    r.LessonID,
		CompletedAt: r.CompletedAt,
	}
}

type completionRepository struct {
	db *sqlx.DB
}

var _ progress.Repository = (*completionRepository)(nil) // interface compliance check

func NewCompletionRepository(db *sqlx.DB) *completionRepository {
	return &completionRepository{db: db}
}

// UpsertCompletion relies on the primary key over (user_id, lesson_id): the
// insert-or-update is a single atomic statement, so concurrent retries for
// the same pair can never produce two facts.
func (repo *completionRepository) UpsertCompletion(ctx context.Context, cmp progress.Completion) (progress.Completion, error) {
	query, args, err := psql.Insert(completionTable).
		Columns(completionColumns...).
		Values(cmp.UserID, cmp.LessonID, cmp.CompletedAt.UTC()).
		Suffix("ON CONFLICT (user_id, lesson_id) DO UPDATE SET completed_at = EXCLUDED.completed_at").
		Suffix(returning(completionColumns)).
		ToSql()
	if err != nil {
		return progress.Completion{}, errors.Wrap(err, "building query")
	}
	var row completionRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		return progress.Completion{}, errors.Wrap(err, "upserting completion")
	}
	return row.toDomain(), nil
}

func (repo *completionRepository) GetCompletion(ctx context.Context, userID, lessonID string) (progress.Completion, error) {
	query, args, err := psql.Select(completionColumns...).
		From(completionTable).
		Where(sq.Eq{"user_id": userID, "lesson_id": lessonID}).
		ToSql()
	if err != nil {
		return progress.Completion{}, errors.Wrap(err, "building query")
	}
	var row completionRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return progress.Completion{}, progress.ErrNotFound
		}
		return progress.Completion{}, errors.Wrap(err, "finding completion")
	}
	return row.toDomain(), nil
}

func (repo *completionRepository) CompletedLessonIDs(ctx context.Context, userID, courseID string) ([]string, error) {
	query, args, err := psql.Select("c.lesson_id").
		From(completionTable+" c").
		Join(lessonTable+" l ON l.id = c.lesson_id").
		Where(sq.Eq{"c.user_id": userID, "l.course_id": courseID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var ids []string
	if err = repo.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying completed lessons")
	}
	return ids, nil
}

func (repo *completionRepository) CompletedLessonIDsByUser(ctx context.Context, userID string) (map[string][]string, error) {
	query, args, err := psql.Select("l.course_id", "c.lesson_id").
		From(completionTable+" c").
		Join(lessonTable+" l ON l.id = c.lesson_id").
		Where(sq.Eq{"c.user_id": userID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "querying user completions")
	}
	defer func() { _ = rows.Close() }()

	byCourse := make(map[string][]string)
	for rows.Next() {
		var courseID, lessonID string
		if err = rows.Scan(&courseID, &lessonID); err != nil {
			return nil, errors.Wrap(err, "querying user completions")
		}
		byCourse[courseID] = append(byCourse[courseID], lessonID)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "querying user completions")
	}
	return byCourse, nil
}
