package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

func seedReviewRepoForExport() *mockReviewRepo {
	text := "great course"
	return &mockReviewRepo{reviews: map[string]models.ReviewDetail{
		"review-1": {
			Review:           models.Review{ID: "review-1", CourseID: "course-1", StudentID: "student-1", Grade: 4, ReviewText: &text},
			CourseTitle:      "Go Basics",
			StudentFirstName: "Ada",
			OwnerUserID:      "user-1",
		},
	}}
}

func TestExportServiceCourseReviewsCSV(t *testing.T) {
	svc := NewExportService(seedCourseRepo(), seedReviewRepoForExport(), nil)

	result, err := svc.CourseReviews(context.Background(), "course-1", "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "reviews-course-1.csv", result.Filename)

	content := string(result.Content)
	assert.True(t, strings.HasPrefix(content, "Student,Grade,Review,Date"))
	assert.Contains(t, content, "Ada,4,great course")
}

func TestExportServiceCourseReviewsPDF(t *testing.T) {
	svc := NewExportService(seedCourseRepo(), seedReviewRepoForExport(), nil)

	result, err := svc.CourseReviews(context.Background(), "course-1", "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "reviews-course-1.pdf", result.Filename)
	assert.NotEmpty(t, result.Content)
}

func TestExportServiceCourseReviewsDefaultsToCSV(t *testing.T) {
	svc := NewExportService(seedCourseRepo(), seedReviewRepoForExport(), nil)

	result, err := svc.CourseReviews(context.Background(), "course-1", "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
}

func TestExportServiceCourseReviewsBadFormat(t *testing.T) {
	svc := NewExportService(seedCourseRepo(), seedReviewRepoForExport(), nil)

	_, err := svc.CourseReviews(context.Background(), "course-1", "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceCourseReviewsUnknownCourse(t *testing.T) {
	svc := NewExportService(&mockCourseRepo{}, seedReviewRepoForExport(), nil)

	_, err := svc.CourseReviews(context.Background(), "missing", "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
