package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/validation"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type reviewRepository interface {
	List(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.ReviewDetail, error)
	Create(ctx context.Context, review *models.Review) error
	Update(ctx context.Context, review *models.Review) error
	Delete(ctx context.Context, id string) error
}

// CreateReviewRequest describes review creation. The student is always
// resolved from the acting user, never taken from the payload. A zero
// grade means "not provided" and falls back to the default.
type CreateReviewRequest struct {
	CourseID   string  `json:"course_id" form:"course_id" validate:"required"`
	ReviewText *string `json:"review_text" form:"review_text"`
	Grade      int     `json:"grade" form:"grade"`
}

// UpdateReviewRequest describes a full review update. Only text and
// grade are mutable; the course and student references are fixed.
type UpdateReviewRequest struct {
	ReviewText *string `json:"review_text" form:"review_text"`
	Grade      int     `json:"grade" form:"grade" validate:"required"`
}

// PatchReviewRequest describes a partial review update.
type PatchReviewRequest struct {
	ReviewText *string `json:"review_text"`
	Grade      *int    `json:"grade"`
}

// ReviewService orchestrates review workflows.
type ReviewService struct {
	repo      reviewRepository
	courses   courseReader
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReviewService constructs ReviewService.
func NewReviewService(repo reviewRepository, courses courseReader, students studentReader, validate *validator.Validate, logger *zap.Logger) *ReviewService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{repo: repo, courses: courses, students: students, validator: validate, logger: logger}
}

// List returns reviews with pagination metadata.
func (s *ReviewService) List(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewDetail, *models.Pagination, error) {
	reviews, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reviews")
	}
	return reviews, paginationFor(filter.ListFilter, total), nil
}

// Get returns one review by ID.
func (s *ReviewService) Get(ctx context.Context, id string) (*models.ReviewDetail, error) {
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "review not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load review")
	}
	return review, nil
}

// Create stores a review authored by the acting user's student profile.
// A caller without a student profile cannot review.
func (s *ReviewService) Create(ctx context.Context, actor *models.AuthActor, req CreateReviewRequest) (*models.ReviewDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if req.Grade == 0 {
		req.Grade = models.DefaultGrade
	}
	if err := validation.Grade(req.Grade); err != nil {
		return nil, err
	}
	if err := validation.ReviewText(req.ReviewText); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	student, err := s.students.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(ErrNoStudentProfile, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	review := &models.Review{
		CourseID:   req.CourseID,
		StudentID:  student.ID,
		ReviewText: req.ReviewText,
		Grade:      req.Grade,
	}
	if err := s.repo.Create(ctx, review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create review")
	}
	return s.Get(ctx, review.ID)
}

// Update replaces the text and grade of a review. Ownership follows the
// review's student's owning user; staff bypasses.
func (s *ReviewService) Update(ctx context.Context, actor *models.AuthActor, id string, req UpdateReviewRequest) (*models.ReviewDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid review payload")
	}
	if err := validation.Grade(req.Grade); err != nil {
		return nil, err
	}
	if err := validation.ReviewText(req.ReviewText); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, existing.OwnerUserID); err != nil {
		return nil, err
	}
	review := existing.Review
	review.ReviewText = req.ReviewText
	review.Grade = req.Grade
	if err := s.repo.Update(ctx, &review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review")
	}
	return s.Get(ctx, id)
}

// Patch applies a partial update, owner or staff only.
func (s *ReviewService) Patch(ctx context.Context, actor *models.AuthActor, id string, req PatchReviewRequest) (*models.ReviewDetail, error) {
	if req.Grade != nil {
		if err := validation.Grade(*req.Grade); err != nil {
			return nil, err
		}
	}
	if err := validation.ReviewText(req.ReviewText); err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, existing.OwnerUserID); err != nil {
		return nil, err
	}
	review := existing.Review
	if req.ReviewText != nil {
		review.ReviewText = req.ReviewText
	}
	if req.Grade != nil {
		review.Grade = *req.Grade
	}
	if err := s.repo.Update(ctx, &review); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update review")
	}
	return s.Get(ctx, id)
}

// Delete removes a review, owner or staff only.
func (s *ReviewService) Delete(ctx context.Context, actor *models.AuthActor, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.OwnerUserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete review")
	}
	s.logger.Info("review deleted", zap.String("review_id", id), zap.String("actor", actor.UserID))
	return nil
}
