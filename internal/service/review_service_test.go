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

type mockReviewRepo struct {
	reviews map[string]models.ReviewDetail
	deleted []string
}

func (m *mockReviewRepo) List(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewDetail, int, error) {
	var out []models.ReviewDetail
	for _, r := range m.reviews {
		if filter.CourseID != "" && r.CourseID != filter.CourseID {
			continue
		}
		out = append(out, r)
	}
	return out, len(out), nil
}

func (m *mockReviewRepo) FindByID(ctx context.Context, id string) (*models.ReviewDetail, error) {
	if r, ok := m.reviews[id]; ok {
		return &r, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockReviewRepo) Create(ctx context.Context, review *models.Review) error {
	if m.reviews == nil {
		m.reviews = make(map[string]models.ReviewDetail)
	}
	if review.ID == "" {
		review.ID = "review-new"
	}
	m.reviews[review.ID] = models.ReviewDetail{Review: *review, OwnerUserID: "user-1"}
	return nil
}

func (m *mockReviewRepo) Update(ctx context.Context, review *models.Review) error {
	existing := m.reviews[review.ID]
	existing.Review = *review
	m.reviews[review.ID] = existing
	return nil
}

func (m *mockReviewRepo) Delete(ctx context.Context, id string) error {
	delete(m.reviews, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func newReviewService(repo *mockReviewRepo) *ReviewService {
	return NewReviewService(repo, seedCourseRepo(), seedStudentRepo(), nil, nil)
}

func TestReviewServiceCreateDefaultsGrade(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo)

	review, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1"})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultGrade, review.Grade)
	assert.Equal(t, "student-1", review.StudentID)
}

func TestReviewServiceCreateWithoutProfile(t *testing.T) {
	svc := NewReviewService(&mockReviewRepo{}, seedCourseRepo(), &mockStudentRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestReviewServiceCreateGradeBounds(t *testing.T) {
	svc := newReviewService(&mockReviewRepo{})

	for _, grade := range []int{-1, 6, 12} {
		_, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1", Grade: grade})
		require.Error(t, err, "grade %d", grade)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}

	for grade := models.MinGrade; grade <= models.MaxGrade; grade++ {
		_, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1", Grade: grade})
		require.NoError(t, err, "grade %d", grade)
	}
}

func TestReviewServiceCreateTextTooLong(t *testing.T) {
	svc := newReviewService(&mockReviewRepo{})

	text := strings.Repeat("a", models.MaxReviewTextLen+1)
	_, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1", ReviewText: &text})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReviewServiceCreateUnknownCourse(t *testing.T) {
	svc := newReviewService(&mockReviewRepo{})

	_, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "missing"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReviewServiceUpdateForbiddenForStranger(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo)

	review, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1"})
	require.NoError(t, err)

	_, err = svc.Update(context.Background(), strangerActor(), review.ID, UpdateReviewRequest{Grade: 1})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestReviewServicePatchGradeOnly(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo)

	text := "solid course"
	review, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1", ReviewText: &text})
	require.NoError(t, err)

	grade := 3
	patched, err := svc.Patch(context.Background(), ownerActor(), review.ID, PatchReviewRequest{Grade: &grade})
	require.NoError(t, err)
	assert.Equal(t, 3, patched.Grade)
	require.NotNil(t, patched.ReviewText)
	assert.Equal(t, text, *patched.ReviewText)
}

func TestReviewServiceDeleteStaffBypasses(t *testing.T) {
	repo := &mockReviewRepo{}
	svc := newReviewService(repo)

	review, err := svc.Create(context.Background(), ownerActor(), CreateReviewRequest{CourseID: "course-1"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), staffActor(), review.ID))
	assert.Equal(t, []string{review.ID}, repo.deleted)
}
