package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type mockEnrollmentRepo struct {
	enrollments map[string]models.EnrollmentDetail
	deleted     []string
}

func (m *mockEnrollmentRepo) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	var out []models.EnrollmentDetail
	for _, e := range m.enrollments {
		out = append(out, e)
	}
	return out, len(out), nil
}

func (m *mockEnrollmentRepo) FindByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if e, ok := m.enrollments[id]; ok {
		return &e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	for _, e := range m.enrollments {
		if e.CourseID == courseID && e.StudentID == studentID {
			enrollment := e.Enrollment
			return &enrollment, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockEnrollmentRepo) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	_, err := m.FindByCourseAndStudent(ctx, courseID, studentID)
	return err == nil, nil
}

func (m *mockEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if m.enrollments == nil {
		m.enrollments = make(map[string]models.EnrollmentDetail)
	}
	if enrollment.ID == "" {
		enrollment.ID = fmt.Sprintf("enr-new-%d", len(m.enrollments)+1)
	}
	m.enrollments[enrollment.ID] = models.EnrollmentDetail{Enrollment: *enrollment}
	return nil
}

func (m *mockEnrollmentRepo) Update(ctx context.Context, enrollment *models.Enrollment) error {
	m.enrollments[enrollment.ID] = models.EnrollmentDetail{Enrollment: *enrollment}
	return nil
}

func (m *mockEnrollmentRepo) Delete(ctx context.Context, id string) error {
	delete(m.enrollments, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEnrollmentRepo) ListStudentsByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	return nil, nil
}

func (m *mockEnrollmentRepo) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error) {
	return nil, nil
}

func newEnrollmentService(repo *mockEnrollmentRepo, courses *mockCourseRepo, students *mockStudentRepo) *EnrollmentService {
	return NewEnrollmentService(repo, courses, students, nil, nil)
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, seedCourseRepo(), seedStudentRepo())

	enrollment, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.NoError(t, err)
	assert.Equal(t, "course-1", enrollment.CourseID)
	assert.Equal(t, "student-1", enrollment.StudentID)
}

func TestEnrollmentServiceEnrollWithoutProfile(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, seedCourseRepo(), &mockStudentRepo{})

	_, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollTwiceConflicts(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, seedCourseRepo(), seedStudentRepo())

	_, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Equal(t, ErrAlreadyEnrolled.Message, appErrors.FromError(err).Message)
}

func TestEnrollmentServiceEnrollUnknownCourse(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, &mockCourseRepo{}, seedStudentRepo())

	_, err := svc.Enroll(context.Background(), ownerActor(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceUnenroll(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, seedCourseRepo(), seedStudentRepo())

	_, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(context.Background(), ownerActor(), "course-1"))
	assert.Len(t, repo.deleted, 1)
}

func TestEnrollmentServiceUnenrollWhenNotEnrolled(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, seedCourseRepo(), seedStudentRepo())

	err := svc.Unenroll(context.Background(), ownerActor(), "course-1")
	require.Error(t, err)
	assert.Equal(t, ErrNotEnrolled.Message, appErrors.FromError(err).Message)
}

func TestEnrollmentServiceCreateChecksBothSides(t *testing.T) {
	svc := newEnrollmentService(&mockEnrollmentRepo{}, seedCourseRepo(), seedStudentRepo())

	_, err := svc.Create(context.Background(), CreateEnrollmentRequest{CourseID: "missing", StudentID: "student-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), CreateEnrollmentRequest{CourseID: "course-1", StudentID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	enrollment, err := svc.Create(context.Background(), CreateEnrollmentRequest{CourseID: "course-1", StudentID: "student-1"})
	require.NoError(t, err)
	assert.Equal(t, "course-1", enrollment.CourseID)
}

func TestEnrollmentServiceUpdateRepointsCourse(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	courses := seedCourseRepo()
	courses.courses["course-2"] = models.CourseDetail{
		Course: models.Course{ID: "course-2", UserID: "user-1", Title: "Algorithms"}, OwnerUsername: "alice",
	}
	svc := newEnrollmentService(repo, courses, seedStudentRepo())

	enrollment, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), ownerActor(), enrollment.ID, UpdateEnrollmentRequest{
		CourseID: "course-2", StudentID: "student-1",
	})
	require.NoError(t, err)
	assert.Equal(t, "course-2", updated.CourseID)
	assert.Equal(t, "student-1", updated.StudentID)
}

func TestEnrollmentServiceUpdateForbiddenForStranger(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, seedCourseRepo(), seedStudentRepo())

	enrollment, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), strangerActor(), enrollment.ID, UpdateEnrollmentRequest{
		CourseID: "course-1", StudentID: "student-1",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceUpdateConflictsOnExistingPair(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	courses := seedCourseRepo()
	courses.courses["course-2"] = models.CourseDetail{
		Course: models.Course{ID: "course-2", UserID: "user-1", Title: "Algorithms"}, OwnerUsername: "alice",
	}
	svc := newEnrollmentService(repo, courses, seedStudentRepo())

	first, err := svc.Create(context.Background(), CreateEnrollmentRequest{CourseID: "course-1", StudentID: "student-1"})
	require.NoError(t, err)
	_, err = svc.Create(context.Background(), CreateEnrollmentRequest{CourseID: "course-2", StudentID: "student-1"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), staffActor(), first.ID, UpdateEnrollmentRequest{
		CourseID: "course-2", StudentID: "student-1",
	})
	require.Error(t, err)
	assert.Equal(t, ErrEnrollmentExists.Message, appErrors.FromError(err).Message)
}

func TestEnrollmentServicePatchKeepsUnsetSide(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	courses := seedCourseRepo()
	courses.courses["course-2"] = models.CourseDetail{
		Course: models.Course{ID: "course-2", UserID: "user-1", Title: "Algorithms"}, OwnerUsername: "alice",
	}
	svc := newEnrollmentService(repo, courses, seedStudentRepo())

	enrollment, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.NoError(t, err)

	courseID := "course-2"
	updated, err := svc.Patch(context.Background(), ownerActor(), enrollment.ID, PatchEnrollmentRequest{CourseID: &courseID})
	require.NoError(t, err)
	assert.Equal(t, "course-2", updated.CourseID)
	assert.Equal(t, "student-1", updated.StudentID)
}

func TestEnrollmentServiceDeleteAuthorizesViaStudentOwner(t *testing.T) {
	repo := &mockEnrollmentRepo{}
	svc := newEnrollmentService(repo, seedCourseRepo(), seedStudentRepo())

	enrollment, err := svc.Enroll(context.Background(), ownerActor(), "course-1")
	require.NoError(t, err)

	err = svc.Delete(context.Background(), strangerActor(), enrollment.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	require.NoError(t, svc.Delete(context.Background(), ownerActor(), enrollment.ID))
}
