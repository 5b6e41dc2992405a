package sqlxrepos

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/teachhub/backend/core"
	"github.com/teachhub/backend/core/course"
)

const (
	courseTable = "course"
	lessonTable = "lesson"
)

var (
	courseColumns = []string{"id", "title", "description", "thumbnail", "duration", "published", "created_by", "created_at", "updated_at"}
	lessonColumns = []string{"id", "course_id", "title", "subtitle", "type", "content", "created_at", "updated_at"}
)

type courseRow struct {
	ID          string    `db:"id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	Thumbnail   string    `db:"thumbnail"`
	Duration    int       `db:"duration"`
	Published   bool      `db:"published"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r courseRow) toDomain() course.Course {
	return course.Course{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Thumbnail:   r.Thumbnail,
		Duration:    r.Duration,
		Published:   r.Published,
		CreatedBy:   r.CreatedBy,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type lessonRow struct {
	ID        string          `db:"id"`
	CourseID  string          `db:"course_id"`
	Title     string          `db:"title"`
	Subtitle  string          `db:"subtitle"`
	Type      string          `db:"type"`
	Content   json.RawMessage `db:"content"`
	CreatedAt time.Time       `db:"created_at"`
	UpdatedAt time.Time       `db:"updated_at"`
}

func (r lessonRow) toDomain() course.Lesson {
	return course.Lesson{
		ID:        r.ID,
		CourseID:  r.CourseID,
		Title:     r.Title,
		Subtitle:  r.Subtitle,
		Type:      r.Type,
		Content:   r.Content,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

type courseRepository struct {
	db *sqlx.DB
}

var _ course.Repository = (*courseRepository)(nil) // interface compliance check

func NewCourseRepository(db *sqlx.DB) *courseRepository {
	return &courseRepository{db: db}
}

func (repo *courseRepository) CreateCourse(ctx context.Context, crs course.Course) (course.Course, error) {
	crs.ID = uuid.New().String()

	query, args, err := psql.Insert(courseTable).
		Columns(courseColumns...).
		Values(crs.ID, crs.Title, crs.Description, crs.Thumbnail, crs.Duration, crs.Published,
			crs.CreatedBy, crs.CreatedAt.UTC(), crs.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return course.Course{}, errors.Wrap(err, "inserting course")
	}
	return crs, nil
}

// orderable whitelists the columns QueryAllCourses may sort by.
var orderable = map[string]bool{"title": true, "duration": true, "created_at": true}

func (repo *courseRepository) QueryAllCourses(ctx context.Context, orderings ...core.DBOrdering) ([]course.Course, error) {
	orderBys := make([]string, 0, len(orderings)+1)
	for _, ord := range orderings {
		if !orderable[ord.Field] {
			continue
		}
		orderBys = append(orderBys, ord.String())
	}
	orderBys = append(orderBys, "created_at ASC")

	query, args, err := psql.Select(courseColumns...).
		From(courseTable).
		OrderBy(orderBys...).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []courseRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}

	courses := make([]course.Course, 0, len(rows))
	for _, row := range rows {
		courses = append(courses, row.toDomain())
	}
	return courses, nil
}

func (repo *courseRepository) GetCourseByID(ctx context.Context, id string) (course.Course, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Course{}, course.ErrNotFound
	}

	query, args, err := psql.Select(courseColumns...).From(courseTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	var row courseRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "finding course")
	}
	return row.toDomain(), nil
}

func (repo *courseRepository) UpdateCourse(ctx context.Context, crs course.Course, published *bool) (course.Course, error) {
	q := psql.Update(courseTable).Where(sq.Eq{"id": crs.ID})
	if crs.Title != "" {
		q = q.Set("title", crs.Title)
	}
	if crs.Description != "" {
		q = q.Set("description", crs.Description)
	}
	if crs.Thumbnail != "" {
		q = q.Set("thumbnail", crs.Thumbnail)
	}
	if crs.Duration != 0 {
		q = q.Set("duration", crs.Duration)
	}
	if published != nil {
		q = q.Set("published", *published)
	}
	if !crs.UpdatedAt.IsZero() {
		q = q.Set("updated_at", crs.UpdatedAt.UTC())
	}

	query, args, err := q.Suffix(returning(courseColumns)).ToSql()
	if err != nil {
		return course.Course{}, errors.Wrap(err, "building query")
	}
	var row courseRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return course.Course{}, course.ErrNotFound
		}
		return course.Course{}, errors.Wrap(err, "updating course")
	}
	return row.toDomain(), nil
}

func (repo *courseRepository) CreateLesson(ctx context.Context, lsn course.Lesson) (course.Lesson, error) {
	lsn.ID = uuid.New().String()

	query, args, err := psql.Insert(lessonTable).
		Columns(lessonColumns...).
		Values(lsn.ID, lsn.CourseID, lsn.Title, lsn.Subtitle, lsn.Type, []byte(lsn.Content),
			lsn.CreatedAt.UTC(), lsn.UpdatedAt.UTC()).
		ToSql()
	if err != nil {
		return course.Lesson{}, errors.Wrap(err, "building query")
	}
	if _, err = repo.db.ExecContext(ctx, query, args...); err != nil {
		return course.Lesson{}, errors.Wrap(err, "inserting lesson")
	}
	return lsn, nil
}

func (repo *courseRepository) GetLessonByID(ctx context.Context, id string) (course.Lesson, error) {
	if _, err := uuid.Parse(id); err != nil {
		return course.Lesson{}, course.ErrLessonNotFound
	}

	query, args, err := psql.Select(lessonColumns...).From(lessonTable).Where(sq.Eq{"id": id}).ToSql()
	if err != nil {
		return course.Lesson{}, errors.Wrap(err, "building query")
	}
	var row lessonRow
	if err = repo.db.GetContext(ctx, &row, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return course.Lesson{}, course.ErrLessonNotFound
		}
		return course.Lesson{}, errors.Wrap(err, "finding lesson")
	}
	return row.toDomain(), nil
}

func (repo *courseRepository) QueryLessonsByCourse(ctx context.Context, courseID string) ([]course.Lesson, error) {
	query, args, err := psql.Select(lessonColumns...).
		From(lessonTable).
		Where(sq.Eq{"course_id": courseID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}
	var rows []lessonRow
	if err = repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "querying lessons")
	}

	lessons := make([]course.Lesson, 0, len(rows))
	for _, row := range rows {
		lessons = append(lessons, row.toDomain())
	}
	return lessons, nil
}

func (repo *courseRepository) CountLessonsByCourse(ctx context.Context, courseIDs []string) (map[string]int, error) {
	if len(courseIDs) == 0 {
		return map[string]int{}, nil
	}

	query, args, err := psql.Select("course_id", "count(*) AS cnt").
		From(lessonTable).
		Where(sq.Eq{"course_id": courseIDs}).
		GroupBy("course_id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "building query")
	}

	rows, err := repo.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "counting lessons")
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int, len(courseIDs))
	for rows.Next() {
		var courseID string
		var cnt int
		if err = rows.Scan(&courseID, &cnt); err != nil {
			return nil, errors.Wrap(err, "counting lessons")
		}
		counts[courseID] = cnt
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "counting lessons")
	}
	return counts, nil
}
