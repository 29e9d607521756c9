package service

import (
	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

// Authorize is the single ownership check shared by the REST and page
// layers: staff may mutate anything, everyone else only what they own.
// Reads are not gated here; list and detail operations are open to any
// authenticated user.
func Authorize(actor *models.AuthActor, ownerID string) error {
	if actor == nil {
		return appErrors.ErrUnauthorized
	}
	if actor.Staff || actor.UserID == ownerID {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "you can only modify your own resources")
}
