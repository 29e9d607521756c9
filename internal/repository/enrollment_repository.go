package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dverenik/coursegrade/internal/models"
)

// EnrollmentRepository handles persistence of course↔student links.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// List returns enrollments filtered by the provided criteria.
func (r *EnrollmentRepository) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	base := `FROM course_students cs
JOIN courses co ON co.id = cs.course_id
JOIN students s ON s.id = cs.student_id`
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("cs.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("cs.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"course_title": "co.title",
		"student_name": "s.last_name",
		"created_at":   "cs.created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "co.title"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	_, size, offset := paging(filter.ListFilter)

	query := fmt.Sprintf(`SELECT cs.id, cs.course_id, cs.student_id, cs.created_at,
        co.title AS course_title, s.first_name AS student_first_name, s.last_name AS student_last_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list enrollments: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count enrollments: %w", err)
	}
	return enrollments, total, nil
}

// FindByID returns an enrollment with contextual info.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	const query = `SELECT cs.id, cs.course_id, cs.student_id, cs.created_at,
        co.title AS course_title, s.first_name AS student_first_name, s.last_name AS student_last_name
        FROM course_students cs
        JOIN courses co ON co.id = cs.course_id
        JOIN students s ON s.id = cs.student_id
        WHERE cs.id = $1`
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByCourseAndStudent returns the enrollment row for a pair.
func (r *EnrollmentRepository) FindByCourseAndStudent(ctx context.Context, courseID, studentID string) (*models.Enrollment, error) {
	const query = `SELECT id, course_id, student_id, created_at FROM course_students WHERE course_id = $1 AND student_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, courseID, studentID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Exists checks whether a (course, student) pair is already enrolled.
func (r *EnrollmentRepository) Exists(ctx context.Context, courseID, studentID string) (bool, error) {
	const query = `SELECT 1 FROM course_students WHERE course_id = $1 AND student_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, courseID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.CreatedAt.IsZero() {
		enrollment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO course_students (id, course_id, student_id, created_at)
        VALUES (:id, :course_id, :student_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Update repoints an enrollment to a new (course, student) pair.
func (r *EnrollmentRepository) Update(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `UPDATE course_students SET course_id = :course_id, student_id = :student_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("update enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment by ID.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM course_students WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// ListStudentsByCourse returns all students enrolled in a course.
func (r *EnrollmentRepository) ListStudentsByCourse(ctx context.Context, courseID string) ([]models.StudentDetail, error) {
	const query = `SELECT s.id, s.user_id, s.first_name, s.last_name, s.date_of_receipt, s.created_at, s.updated_at,
        u.username AS owner_username
        FROM course_students cs
        JOIN students s ON s.id = cs.student_id
        JOIN users u ON u.id = s.user_id
        WHERE cs.course_id = $1
        ORDER BY s.last_name ASC`
	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, courseID); err != nil {
		return nil, fmt.Errorf("list course students: %w", err)
	}
	return students, nil
}

// ListCoursesByStudent returns all courses a student is enrolled in.
func (r *EnrollmentRepository) ListCoursesByStudent(ctx context.Context, studentID string) ([]models.CourseDetail, error) {
	const query = `SELECT co.id, co.user_id, co.title, co.description, co.created_at, co.updated_at,
        u.username AS owner_username
        FROM course_students cs
        JOIN courses co ON co.id = cs.course_id
        JOIN users u ON u.id = co.user_id
        WHERE cs.student_id = $1
        ORDER BY co.title ASC`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, studentID); err != nil {
		return nil, fmt.Errorf("list student courses: %w", err)
	}
	return courses, nil
}
