package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dverenik/coursegrade/internal/models"
	"github.com/dverenik/coursegrade/internal/repository"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

type enrollmentRepository interface {
	List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.EnrollmentDetail, error)
	FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error)
	Exists(ctx context.Context, courseID, studentID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Update(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
	ListStudentsByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error)
	ListCoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.CourseDetail, error)
}

type studentReader interface {
	FindByID(ctx context.Context, id string) (*models.StudentDetail, error)
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

// Enrollment conflicts shared with the page layer.
var (
	ErrAlreadyEnrolled  = appErrors.Clone(appErrors.ErrConflict, "you are already enrolled in this course")
	ErrNotEnrolled      = appErrors.Clone(appErrors.ErrConflict, "you have already left this course")
	ErrEnrollmentExists = appErrors.Clone(appErrors.ErrConflict, "the student is already enrolled in this course")
)

// CreateEnrollmentRequest links an explicit (course, student) pair.
type CreateEnrollmentRequest struct {
	CourseID  string `json:"course_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

// UpdateEnrollmentRequest replaces an enrollment's (course, student) pair.
type UpdateEnrollmentRequest struct {
	CourseID  string `json:"course_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
}

// PatchEnrollmentRequest repoints one or both sides of an enrollment.
type PatchEnrollmentRequest struct {
	CourseID  *string `json:"course_id"`
	StudentID *string `json:"student_id"`
}

// EnrollmentService orchestrates course↔student links.
type EnrollmentService struct {
	repo      enrollmentRepository
	courses   courseReader
	students  studentReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseReader, students studentReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, students: students, validator: validate, logger: logger}
}

// List returns enrollments with pagination metadata.
func (s *EnrollmentService) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, *models.Pagination, error) {
	enrollments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	return enrollments, paginationFor(filter.ListFilter, total), nil
}

// Get returns one enrollment by ID.
func (s *EnrollmentService) Get(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

// Create links an explicit (course, student) pair. The REST layer uses
// this; both sides must exist and the pair must be new.
func (s *EnrollmentService) Create(ctx context.Context, req CreateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.students.FindByID(ctx, req.StudentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return s.create(ctx, req.CourseID, req.StudentID, ErrEnrollmentExists)
}

// Enroll enrolls the acting user's student into a course. Used by the
// page layer; the student is resolved from the actor, never the payload.
func (s *EnrollmentService) Enroll(ctx context.Context, actor *models.AuthActor, courseID string) (*models.EnrollmentDetail, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
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
	return s.create(ctx, courseID, student.ID, ErrAlreadyEnrolled)
}

// Unenroll removes the acting user's student from a course. Unenrolling
// when not enrolled is a conflict and leaves state unchanged.
func (s *EnrollmentService) Unenroll(ctx context.Context, actor *models.AuthActor, courseID string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	student, err := s.students.FindByUserID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(ErrNoStudentProfile, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	enrollment, err := s.repo.FindByCourseAndStudent(ctx, courseID, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(ErrNotEnrolled, "")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.repo.Delete(ctx, enrollment.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

// Update replaces the (course, student) pair of an enrollment.
// Ownership follows the currently enrolled student's owning user.
func (s *EnrollmentService) Update(ctx context.Context, actor *models.AuthActor, id string, req UpdateEnrollmentRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	return s.update(ctx, actor, id, req.CourseID, req.StudentID)
}

// Patch repoints one or both sides of an enrollment, keeping the
// unset side as it is.
func (s *EnrollmentService) Patch(ctx context.Context, actor *models.AuthActor, id string, req PatchEnrollmentRequest) (*models.EnrollmentDetail, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	courseID := existing.CourseID
	studentID := existing.StudentID
	if req.CourseID != nil {
		courseID = *req.CourseID
	}
	if req.StudentID != nil {
		studentID = *req.StudentID
	}
	if courseID == "" || studentID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course_id and student_id are required")
	}
	return s.update(ctx, actor, id, courseID, studentID)
}

func (s *EnrollmentService) update(ctx context.Context, actor *models.AuthActor, id, courseID, studentID string) (*models.EnrollmentDetail, error) {
	existing, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.students.FindByID(ctx, existing.StudentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := Authorize(actor, owner.UserID); err != nil {
		return nil, err
	}
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if courseID != existing.CourseID || studentID != existing.StudentID {
		exists, err := s.repo.Exists(ctx, courseID, studentID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
		}
		if exists {
			return nil, appErrors.Clone(ErrEnrollmentExists, "")
		}
	}
	enrollment := existing.Enrollment
	enrollment.CourseID = courseID
	enrollment.StudentID = studentID
	if err := s.repo.Update(ctx, &enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(ErrEnrollmentExists, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update enrollment")
	}
	return s.Get(ctx, id)
}

// Delete removes an enrollment by ID. Ownership follows the enrolled
// student's owning user; staff bypasses.
func (s *EnrollmentService) Delete(ctx context.Context, actor *models.AuthActor, id string) error {
	enrollment, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	student, err := s.students.FindByID(ctx, enrollment.StudentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if err := Authorize(actor, student.UserID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

// StudentsByCourse lists all students enrolled in a course.
func (s *EnrollmentService) StudentsByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	students, err := s.repo.ListStudentsByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course students")
	}
	return students, nil
}

// CoursesByStudent lists all courses a student is enrolled in.
func (s *EnrollmentService) CoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error) {
	courses, err := s.repo.ListCoursesByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list student courses")
	}
	return courses, nil
}

// IsEnrolled reports whether the (course, student) pair is linked.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, courseID, studentID string) (bool, error) {
	enrolled, err := s.repo.Exists(ctx, courseID, studentID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	return enrolled, nil
}

func (s *EnrollmentService) create(ctx context.Context, courseID, studentID string, conflict *appErrors.Error) (*models.EnrollmentDetail, error) {
	exists, err := s.repo.Exists(ctx, courseID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	if exists {
		return nil, appErrors.Clone(conflict, "")
	}
	enrollment := &models.Enrollment{CourseID: courseID, StudentID: studentID}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(conflict, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	return s.Get(ctx, enrollment.ID)
}
