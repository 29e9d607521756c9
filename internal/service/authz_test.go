package service

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dverenik/coursegrade/internal/models"
	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

func TestAuthorizeOwner(t *testing.T) {
	actor := &models.AuthActor{UserID: "user-1"}
	require.NoError(t, Authorize(actor, "user-1"))
}

func TestAuthorizeStaffBypassesOwnership(t *testing.T) {
	actor := &models.AuthActor{UserID: "user-2", Staff: true}
	require.NoError(t, Authorize(actor, "user-1"))
}

func TestAuthorizeNonOwnerForbidden(t *testing.T) {
	actor := &models.AuthActor{UserID: "user-2"}
	err := Authorize(actor, "user-1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestAuthorizeNilActorUnauthorized(t *testing.T) {
	err := Authorize(nil, "user-1")
	require.Error(t, err)
	require.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
