package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/dverenik/coursegrade/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func courseColumns() []string {
	return []string{"id", "user_id", "title", "description", "created_at", "updated_at", "owner_username"}
}

func TestCourseRepositoryFindByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows(courseColumns()).
		AddRow("course-1", "user-1", "Go Basics", "intro", time.Now(), time.Now(), "alice")
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses co JOIN users u ON u.id = co.user_id")).
		WithArgs("course-1").
		WillReturnRows(rows)

	course, err := repo.FindByID(context.Background(), "course-1")
	require.NoError(t, err)
	require.Equal(t, "Go Basics", course.Title)
	require.Equal(t, "alice", course.OwnerUsername)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses co JOIN users u ON u.id = co.user_id")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	require.ErrorIs(t, err, sql.ErrNoRows)
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows(courseColumns()).
		AddRow("course-1", "user-1", "Algorithms", "", time.Now(), time.Now(), "alice").
		AddRow("course-2", "user-2", "Databases", "", time.Now(), time.Now(), "bob")
	mock.ExpectQuery(regexp.QuoteMeta("FROM courses co JOIN users u ON u.id = co.user_id")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	courses, total, err := repo.List(context.Background(), models.CourseFilter{})
	require.NoError(t, err)
	require.Len(t, courses, 2)
	require.Equal(t, 2, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("LOWER(co.title) LIKE $1")).
		WithArgs("%algo%").
		WillReturnRows(sqlmock.NewRows(courseColumns()))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("%algo%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.CourseFilter{Search: "Algo"})
	require.NoError(t, err)
	require.Equal(t, 0, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WillReturnResult(sqlmock.NewResult(0, 1))

	course := &models.Course{UserID: "user-1", Title: "Go Basics"}
	require.NoError(t, repo.Create(context.Background(), course))
	require.NotEmpty(t, course.ID)
	require.False(t, course.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE course_id = $1")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_students WHERE course_id = $1")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM courses WHERE id = $1")).
		WithArgs("course-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "course-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
