package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type mockCourseRepo struct {
	courses map[string]models.CourseDetail
	deleted []string
	updated *models.Course
}

func (m *mockCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	var out []models.CourseDetail
	for _, c := range m.courses {
		out = append(out, c)
	}
	return out, len(out), nil
}

func (m *mockCourseRepo) FindByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]models.CourseDetail)
	}
	if course.ID == "" {
		course.ID = "course-new"
	}
	m.courses[course.ID] = models.CourseDetail{Course: *course}
	return nil
}

func (m *mockCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.updated = course
	m.courses[course.ID] = models.CourseDetail{Course: *course}
	return nil
}

func (m *mockCourseRepo) Delete(ctx context.Context, id string) error {
	delete(m.courses, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func ownerActor() *models.AuthActor {
	return &models.AuthActor{UserID: "user-1", Username: "alice"}
}

func staffActor() *models.AuthActor {
	return &models.AuthActor{UserID: "admin-1", Username: "root", Staff: true}
}

func strangerActor() *models.AuthActor {
	return &models.AuthActor{UserID: "user-2", Username: "bob"}
}

func seedCourseRepo() *mockCourseRepo {
	return &mockCourseRepo{courses: map[string]models.CourseDetail{
		"course-1": {Course: models.Course{ID: "course-1", UserID: "user-1", Title: "Go Basics"}, OwnerUsername: "alice"},
	}}
}

func TestCourseServiceCreateStampsOwner(t *testing.T) {
	repo := &mockCourseRepo{}
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Create(context.Background(), ownerActor(), CreateCourseRequest{Title: "Algorithms"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", course.UserID)
	assert.Equal(t, "Algorithms", course.Title)
}

func TestCourseServiceCreateValidatesTitle(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), ownerActor(), CreateCourseRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), ownerActor(), CreateCourseRequest{Title: strings.Repeat("x", 31)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceGetNotFound(t *testing.T) {
	svc := NewCourseService(&mockCourseRepo{}, nil, nil)

	_, err := svc.Get(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateForbiddenForStranger(t *testing.T) {
	svc := NewCourseService(seedCourseRepo(), nil, nil)

	_, err := svc.Update(context.Background(), strangerActor(), "course-1", UpdateCourseRequest{Title: "Taken over"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestCourseServiceUpdateStaffBypasses(t *testing.T) {
	repo := seedCourseRepo()
	svc := NewCourseService(repo, nil, nil)

	course, err := svc.Update(context.Background(), staffActor(), "course-1", UpdateCourseRequest{Title: "Revised"})
	require.NoError(t, err)
	assert.Equal(t, "Revised", course.Title)
	assert.Equal(t, "user-1", repo.updated.UserID)
}

func TestCourseServicePatchKeepsUnsetFields(t *testing.T) {
	repo := seedCourseRepo()
	svc := NewCourseService(repo, nil, nil)

	description := "now with a description"
	course, err := svc.Patch(context.Background(), ownerActor(), "course-1", PatchCourseRequest{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "Go Basics", course.Title)
	assert.Equal(t, description, course.Description)
}

func TestCourseServiceDeleteOwner(t *testing.T) {
	repo := seedCourseRepo()
	svc := NewCourseService(repo, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), ownerActor(), "course-1"))
	assert.Equal(t, []string{"course-1"}, repo.deleted)
}

func TestCourseServiceDeleteForbiddenForStranger(t *testing.T) {
	repo := seedCourseRepo()
	svc := NewCourseService(repo, nil, nil)

	err := svc.Delete(context.Background(), strangerActor(), "course-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.deleted)
}
