package repository

import (
	"errors"

	"github.com/lib/pq"
)

// uniqueViolation is the Postgres error code for unique constraint failures.
const uniqueViolation = "23505"

// IsUniqueViolation reports whether err was caused by a unique constraint.
// The pre-checks in the services are advisory; the constraint is what
// actually serialises concurrent duplicate writes.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
