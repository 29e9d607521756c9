// Package validation holds the domain rules that struct tags cannot
// express: the receipt-date-not-in-future check and the grade range.
package validation

import (
	"fmt"
	"time"

	appErrors "github.com/dverenik/coursegrade/pkg/errors"

	"github.com/dverenik/coursegrade/internal/models"
)

// ReceiptDate rejects dates after today. Compared at day granularity so
// "today" is always accepted regardless of the time of day.
func ReceiptDate(d time.Time) error {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	if d.UTC().Truncate(24 * time.Hour).After(today) {
		return appErrors.Clone(appErrors.ErrValidation, "date of receipt cannot be in the future")
	}
	return nil
}

// Grade rejects grades outside [1,5].
func Grade(grade int) error {
	if grade < models.MinGrade || grade > models.MaxGrade {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("grade must be between %d and %d", models.MinGrade, models.MaxGrade))
	}
	return nil
}

// ReviewText rejects texts longer than the storage limit.
func ReviewText(text *string) error {
	if text != nil && len([]rune(*text)) > models.MaxReviewTextLen {
		return appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("review text must be at most %d characters", models.MaxReviewTextLen))
	}
	return nil
}
