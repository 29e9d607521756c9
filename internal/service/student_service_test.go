package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type mockStudentRepo struct {
	students map[string]models.StudentDetail
	deleted  []string
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	var out []models.StudentDetail
	for _, s := range m.students {
		out = append(out, s)
	}
	return out, len(out), nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	for _, s := range m.students {
		if s.UserID == userID {
			student := s.Student
			return &student, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	_, err := m.FindByUserID(ctx, userID)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.students == nil {
		m.students = make(map[string]models.StudentDetail)
	}
	if student.ID == "" {
		student.ID = "student-new"
	}
	m.students[student.ID] = models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error {
	m.students[student.ID] = models.StudentDetail{Student: *student}
	return nil
}

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error {
	delete(m.students, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func seedStudentRepo() *mockStudentRepo {
	return &mockStudentRepo{students: map[string]models.StudentDetail{
		"student-1": {
			Student:       models.Student{ID: "student-1", UserID: "user-1", FirstName: "Ada", LastName: "Lovelace"},
			OwnerUsername: "alice",
		},
	}}
}

func TestStudentServiceCreate(t *testing.T) {
	repo := &mockStudentRepo{}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Create(context.Background(), ownerActor(), CreateStudentRequest{
		FirstName: "Ada", LastName: "Lovelace", DateOfReceipt: "2020-09-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-1", student.UserID)
	assert.Equal(t, 2020, student.DateOfReceipt.Year())
}

func TestStudentServiceCreateSecondProfileConflicts(t *testing.T) {
	repo := seedStudentRepo()
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Create(context.Background(), ownerActor(), CreateStudentRequest{
		FirstName: "Ada", LastName: "Again", DateOfReceipt: "2020-09-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, ErrStudentExists.Message, appErrors.FromError(err).Message)
}

func TestStudentServiceCreateRejectsFutureDate(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil)

	future := time.Now().UTC().AddDate(0, 0, 2).Format("2006-01-02")
	_, err := svc.Create(context.Background(), ownerActor(), CreateStudentRequest{
		FirstName: "Ada", LastName: "Lovelace", DateOfReceipt: future,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceCreateRejectsBadDateFormat(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), ownerActor(), CreateStudentRequest{
		FirstName: "Ada", LastName: "Lovelace", DateOfReceipt: "01/09/2020",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceGetByOwnerMissingProfile(t *testing.T) {
	svc := NewStudentService(&mockStudentRepo{}, nil, nil)

	_, err := svc.GetByOwner(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceUpdateForbiddenForStranger(t *testing.T) {
	svc := NewStudentService(seedStudentRepo(), nil, nil)

	_, err := svc.Update(context.Background(), strangerActor(), "student-1", UpdateStudentRequest{
		FirstName: "Eve", LastName: "Intruder", DateOfReceipt: "2020-09-01",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestStudentServiceDeleteStaffBypasses(t *testing.T) {
	repo := seedStudentRepo()
	svc := NewStudentService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), staffActor(), "student-1"))
	assert.Equal(t, []string{"student-1"}, repo.deleted)
}
