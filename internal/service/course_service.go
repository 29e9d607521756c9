package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type courseRepository interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id string) error
}

// CreateCourseRequest describes course creation payload. The owner is
// always the acting user; any owner field in the payload is ignored.
type CreateCourseRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=30"`
	Description string `json:"description" form:"description" validate:"max=1000"`
}

// UpdateCourseRequest describes a full course update.
type UpdateCourseRequest struct {
	Title       string `json:"title" form:"title" validate:"required,max=30"`
	Description string `json:"description" form:"description" validate:"max=1000"`
}

// PatchCourseRequest describes a partial course update.
type PatchCourseRequest struct {
	Title       *string `json:"title" validate:"omitempty,max=30"`
	Description *string `json:"description" validate:"omitempty,max=1000"`
}

// CourseService orchestrates course workflows.
type CourseService struct {
	repo      courseRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepository, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, validator: validate, logger: logger}
}

// List returns all courses with pagination metadata. No ownership
// filtering: every authenticated user sees every course.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	return courses, paginationFor(filter.ListFilter, total), nil
}

// Get returns one course by ID.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

// Create stores a new course owned by the acting user.
func (s *CourseService) Create(ctx context.Context, actor *models.AuthActor, req CreateCourseRequest) (*models.CourseDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	course := &models.Course{UserID: actor.UserID, Title: req.Title, Description: req.Description}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}
	return s.Get(ctx, course.ID)
}

// Update replaces the mutable fields of a course, owner or staff only.
func (s *CourseService) Update(ctx context.Context, actor *models.AuthActor, id string, req UpdateCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return nil, err
	}
	course := existing.Course
	course.Title = req.Title
	course.Description = req.Description
	if err := s.repo.Update(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return s.Get(ctx, id)
}

// Patch applies a partial update, owner or staff only.
func (s *CourseService) Patch(ctx context.Context, actor *models.AuthActor, id string, req PatchCourseRequest) (*models.CourseDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return nil, err
	}
	course := existing.Course
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if course.Title == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "title is required")
	}
	if err := s.repo.Update(ctx, &course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return s.Get(ctx, id)
}

// Delete removes a course and its dependent rows, owner or staff only.
func (s *CourseService) Delete(ctx context.Context, actor *models.AuthActor, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete course")
	}
	s.logger.Info("course deleted", zap.String("course_id", id), zap.String("actor", actor.UserID))
	return nil
}

func paginationFor(filter models.ListFilter, total int) *models.Pagination {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return &models.Pagination{Page: page, PageSize: size, TotalCount: total}
}
