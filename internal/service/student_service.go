package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/repository"
	"github.com/dverenik/coursegrade/internal/validation"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
	ExistsByUserID(ctx context.Context, userID string) (bool, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id string) error
}

// Student-profile rule violations shared with the page layer.
var (
	ErrNoStudentProfile = appErrors.Clone(appErrors.ErrPreconditionFailed, "you must create a student profile first")
	ErrStudentExists    = appErrors.Clone(appErrors.ErrConflict, "you have already created a student profile")
)

// dateLayout is the wire format for date_of_receipt.
const dateLayout = "2006-01-02"

// CreateStudentRequest describes student profile creation. The owner is
// always the acting user.
type CreateStudentRequest struct {
	FirstName     string `json:"first_name" form:"first_name" validate:"required,max=30"`
	LastName      string `json:"last_name" form:"last_name" validate:"required,max=30"`
	DateOfReceipt string `json:"date_of_receipt" form:"date_of_receipt" validate:"required"`
}

// UpdateStudentRequest describes a full student update.
type UpdateStudentRequest struct {
	FirstName     string `json:"first_name" form:"first_name" validate:"required,max=30"`
	LastName      string `json:"last_name" form:"last_name" validate:"required,max=30"`
	DateOfReceipt string `json:"date_of_receipt" form:"date_of_receipt" validate:"required"`
}

// PatchStudentRequest describes a partial student update.
type PatchStudentRequest struct {
	FirstName     *string `json:"first_name" validate:"omitempty,max=30"`
	LastName      *string `json:"last_name" validate:"omitempty,max=30"`
	DateOfReceipt *string `json:"date_of_receipt"`
}

// StudentService orchestrates student profile workflows.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns all students with pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, paginationFor(filter.ListFilter, total), nil
}

// Get returns one student by ID.
func (s *StudentService) Get(ctx context.Context, id string) (*models.StudentDetail, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// GetByOwner returns the student profile owned by a user.
func (s *StudentService) GetByOwner(ctx context.Context, userID string) (*models.Student, error) {
	student, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(ErrNoStudentProfile, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create stores a new student profile for the acting user. A second
// profile for the same user is rejected, backed by the DB constraint.
func (s *StudentService) Create(ctx context.Context, actor *models.AuthActor, req CreateStudentRequest) (*models.StudentDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	receipt, err := parseReceiptDate(req.DateOfReceipt)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUserID(ctx, actor.UserID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check student profile")
	}
	if exists {
		return nil, appErrors.Clone(ErrStudentExists, "")
	}

	student := &models.Student{
		UserID:        actor.UserID,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		DateOfReceipt: receipt,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(ErrStudentExists, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	return s.Get(ctx, student.ID)
}

// Update replaces the mutable fields of a student, owner or staff only.
func (s *StudentService) Update(ctx context.Context, actor *models.AuthActor, id string, req UpdateStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	receipt, err := parseReceiptDate(req.DateOfReceipt)
	if err != nil {
		return nil, err
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return nil, err
	}
	student := existing.Student
	student.FirstName = req.FirstName
	student.LastName = req.LastName
	student.DateOfReceipt = receipt
	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return s.Get(ctx, id)
}

// Patch applies a partial update, owner or staff only.
func (s *StudentService) Patch(ctx context.Context, actor *models.AuthActor, id string, req PatchStudentRequest) (*models.StudentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return nil, err
	}
	student := existing.Student
	if req.FirstName != nil {
		student.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		student.LastName = *req.LastName
	}
	if req.DateOfReceipt != nil {
		receipt, err := parseReceiptDate(*req.DateOfReceipt)
		if err != nil {
			return nil, err
		}
		student.DateOfReceipt = receipt
	}
	if student.FirstName == "" || student.LastName == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "first and last name are required")
	}
	if err := s.repo.Update(ctx, &student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return s.Get(ctx, id)
}

// Delete removes a student and its dependent rows, owner or staff only.
func (s *StudentService) Delete(ctx context.Context, actor *models.AuthActor, id string) error {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := Authorize(actor, existing.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.logger.Info("student deleted", zap.String("student_id", id), zap.String("actor", actor.UserID))
	return nil
}

// parseReceiptDate parses the wire date and applies the not-in-future rule.
func parseReceiptDate(raw string) (time.Time, error) {
	receipt, err := time.Parse(dateLayout, raw)
	if err != nil {
		return time.Time{}, appErrors.Clone(appErrors.ErrValidation, "date_of_receipt must be formatted as YYYY-MM-DD")
	}
	if err := validation.ReceiptDate(receipt); err != nil {
		return time.Time{}, err
	}
	return receipt, nil
}
