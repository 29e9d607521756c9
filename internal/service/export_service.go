package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
	"github.com/dverenik/coursegrade/pkg/export"
)

type reviewLister interface {
	List(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewDetail, int, error)
}

// ExportResult carries a rendered document ready to be served.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders a course's reviews as CSV or PDF.
type ExportService struct {
	courses courseReader
	reviews reviewLister
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(courses courseReader, reviews reviewLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		courses: courses,
		reviews: reviews,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// CourseReviews exports all reviews of one course in the given format.
func (s *ExportService) CourseReviews(ctx context.Context, courseID, format string) (*ExportResult, error) {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}

	// Page through everything; review volume per course is small.
	filter := models.ReviewFilter{CourseID: courseID}
	filter.PageSize = 100
	var rows []map[string]string
	for page := 1; ; page++ {
		filter.Page = page
		reviews, total, err := s.reviews.List(ctx, filter)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
		}
		for _, review := range reviews {
			text := ""
			if review.ReviewText != nil {
				text = *review.ReviewText
			}
			rows = append(rows, map[string]string{
				"Student": review.StudentFirstName,
				"Grade":   strconv.Itoa(review.Grade),
				"Review":  text,
				"Date":    review.CreatedAt.Format("2006-01-02"),
			})
		}
		if page*filter.PageSize >= total || len(reviews) == 0 {
			break
		}
	}

	dataset := export.Dataset{
		Headers: []string{"Student", "Grade", "Review", "Date"},
		Rows:    rows,
	}

	switch format {
	case "csv", "":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("reviews-%s.csv", course.ID),
		}, nil
	case "pdf":
		content, err := s.pdf.Render(dataset, fmt.Sprintf("Reviews: %s", course.Title))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("reviews-%s.pdf", course.ID),
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
