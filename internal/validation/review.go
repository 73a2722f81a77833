package validation

import (
	"math"
	"strings"
)

// ReviewInput is the raw review form as submitted.
type ReviewInput struct {
	Rating  string
	Comment string
}

type Review struct {
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"required,min=3,max=1000"`
}

var reviewMessages = map[string]string{
	"Rating.min":       "Rating must be at least 1 star.",
	"Rating.max":       "Rating cannot exceed 5 stars.",
	"Comment.required": "Comment is required.",
	"Comment.min":      "Comment must be at least 3 characters.",
	"Comment.max":      "Comment must be at most 1000 characters.",
}

func ValidateReview(in ReviewInput) (*Review, error) {
	out := &Review{Comment: strings.TrimSpace(in.Comment)}

	errs := newFieldErrors("Rating", "Comment")
	ratingOK := false
	switch rating, ok := parseNumber(in.Rating); {
	case strings.TrimSpace(in.Rating) == "":
		errs.add("Rating", "Rating is required.")
	case !ok:
		errs.add("Rating", "Rating must be a number.")
	case rating != math.Trunc(rating):
		errs.add("Rating", "Rating must be a whole number of stars.")
	case rating < 1:
		errs.add("Rating", "Rating must be at least 1 star.")
	case rating > 5:
		errs.add("Rating", "Rating cannot exceed 5 stars.")
	default:
		out.Rating = int(rating)
		ratingOK = true
	}

	var verr error
	if ratingOK {
		verr = validate.Struct(out)
	} else {
		verr = validate.StructExcept(out, "Rating")
	}
	if err := errs.collect(verr, reviewMessages); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}
