package validation

import (
	"strings"
	"testing"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/stretchr/testify/require"
)

func TestValidateReview_Valid(t *testing.T) {
	got, err := ValidateReview(ReviewInput{Rating: "4", Comment: "  Lovely stay  "})
	require.NoError(t, err)
	require.Equal(t, 4, got.Rating)
	require.Equal(t, "Lovely stay", got.Comment)
}

func TestValidateReview_RatingOutOfRange(t *testing.T) {
	for _, rating := range []string{"0", "6", "-3", "100", "1e9", "abc", "", "2.5"} {
		t.Run(rating, func(t *testing.T) {
			_, err := ValidateReview(ReviewInput{Rating: rating, Comment: "Lovely stay"})
			require.Error(t, err)
			require.True(t, apperr.Is(err, apperr.KindValidation))
			require.Contains(t, apperr.Message(err), "Rating")
		})
	}
}

func TestValidateReview_Comment(t *testing.T) {
	tests := []struct {
		name    string
		comment string
		wantMsg string
	}{
		{name: "blank", comment: "  ", wantMsg: "Comment is required."},
		{name: "short", comment: "ok", wantMsg: "Comment must be at least 3 characters."},
		{name: "long", comment: strings.Repeat("c", 1001), wantMsg: "Comment must be at most 1000 characters."},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateReview(ReviewInput{Rating: "5", Comment: tc.comment})
			require.Error(t, err)
			require.Equal(t, tc.wantMsg, apperr.Message(err))
		})
	}
}

func TestValidateReview_Aggregates(t *testing.T) {
	_, err := ValidateReview(ReviewInput{Rating: "9", Comment: "no"})
	require.Error(t, err)
	require.Equal(t, "Rating cannot exceed 5 stars., Comment must be at least 3 characters.", apperr.Message(err))
}
