package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	appErrors "github.com/dverenik/coursegrade/pkg/errors"
)

func TestReceiptDateAcceptsTodayAndPast(t *testing.T) {
	require.NoError(t, ReceiptDate(time.Now().UTC()))
	require.NoError(t, ReceiptDate(time.Now().UTC().AddDate(-1, 0, 0)))
}

func TestReceiptDateRejectsFuture(t *testing.T) {
	err := ReceiptDate(time.Now().UTC().AddDate(0, 0, 2))
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	require.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestGradeBounds(t *testing.T) {
	for grade := 1; grade <= 5; grade++ {
		require.NoError(t, Grade(grade))
	}
	require.Error(t, Grade(0))
	require.Error(t, Grade(6))
	require.Error(t, Grade(-3))
}

func TestReviewTextLength(t *testing.T) {
	require.NoError(t, ReviewText(nil))
	short := "decent course"
	require.NoError(t, ReviewText(&short))
	long := strings.Repeat("x", 101)
	require.Error(t, ReviewText(&long))
}
