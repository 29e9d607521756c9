package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/dverenik/coursegrade/internal/models"
)

// ReviewRepository manages persistence for course reviews.
type ReviewRepository struct {
	db *sqlx.DB
}

// NewReviewRepository constructs a ReviewRepository.
func NewReviewRepository(db *sqlx.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

// List returns reviews filtered by the provided criteria.
func (r *ReviewRepository) List(ctx context.Context, filter models.ReviewFilter) ([]models.ReviewDetail, int, error) {
	base := `FROM reviews rv
JOIN courses co ON co.id = rv.course_id
JOIN students s ON s.id = rv.student_id`
	var conditions []string
	var args []interface{}

	if filter.CourseID != "" {
		conditions = append(conditions, fmt.Sprintf("rv.course_id = $%d", len(args)+1))
		args = append(args, filter.CourseID)
	}
	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("rv.student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"grade":      "rv.grade",
		"created_at": "rv.created_at",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "rv.grade"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "ASC"
	}
	_, size, offset := paging(filter.ListFilter)

	query := fmt.Sprintf(`SELECT rv.id, rv.course_id, rv.student_id, rv.review_text, rv.grade, rv.created_at, rv.updated_at,
        co.title AS course_title, s.first_name AS student_first_name, s.user_id AS owner_user_id
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base+clause, orderBy, order, size, offset)

	var reviews []models.ReviewDetail
	if err := r.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	return reviews, total, nil
}

// FindByID returns a review with its course and owning user context.
func (r *ReviewRepository) FindByID(ctx context.Context, id string) (*models.ReviewDetail, error) {
	const query = `SELECT rv.id, rv.course_id, rv.student_id, rv.review_text, rv.grade, rv.created_at, rv.updated_at,
        co.title AS course_title, s.first_name AS student_first_name, s.user_id AS owner_user_id
        FROM reviews rv
        JOIN courses co ON co.id = rv.course_id
        JOIN students s ON s.id = rv.student_id
        WHERE rv.id = $1`
	var detail models.ReviewDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create inserts a new review record.
func (r *ReviewRepository) Create(ctx context.Context, review *models.Review) error {
	if review.ID == "" {
		review.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	review.UpdatedAt = now
	const query = `INSERT INTO reviews (id, course_id, student_id, review_text, grade, created_at, updated_at)
        VALUES (:id, :course_id, :student_id, :review_text, :grade, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// Update modifies the text and grade of an existing review.
func (r *ReviewRepository) Update(ctx context.Context, review *models.Review) error {
	review.UpdatedAt = time.Now().UTC()
	const query = `UPDATE reviews SET review_text = :review_text, grade = :grade, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, review); err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	return nil
}

// Delete removes a review by ID.
func (r *ReviewRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM reviews WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete review: %w", err)
	}
	return nil
}
