package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dverenik/coursegrade/internal/models"
)

func TestStudentRepositoryExistsByUserID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE user_id = $1 LIMIT 1")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.ExistsByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestStudentRepositoryExistsByUserIDNoRow(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM students WHERE user_id = $1 LIMIT 1")).
		WithArgs("user-2").
		WillReturnError(sql.ErrNoRows)

	exists, err := repo.ExistsByUserID(context.Background(), "user-2")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestStudentRepositoryFindByUserID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	rows := sqlmock.NewRows([]string{"id", "user_id", "first_name", "last_name", "date_of_receipt", "created_at", "updated_at"}).
		AddRow("student-1", "user-1", "Ada", "Lovelace", time.Now(), time.Now(), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM students WHERE user_id = $1")).
		WithArgs("user-1").
		WillReturnRows(rows)

	student, err := repo.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	require.Equal(t, "Ada", student.FirstName)
}

func TestStudentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectExec("INSERT INTO students").
		WillReturnResult(sqlmock.NewResult(0, 1))

	student := &models.Student{UserID: "user-1", FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, repo.Create(context.Background(), student))
	require.NotEmpty(t, student.ID)
}

func TestStudentRepositoryDeleteCascades(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewStudentRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM reviews WHERE student_id = $1")).
		WithArgs("student-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM course_students WHERE student_id = $1")).
		WithArgs("student-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM students WHERE id = $1")).
		WithArgs("student-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), "student-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
