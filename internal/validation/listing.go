package validation

import "strings"

// ListingInput is the raw listing form as submitted.
type ListingInput struct {
	Title       string
	Description string
	Image       string
	Price       string
	Location    string
	Country     string
}

// Listing is a normalized, valid listing payload.
type Listing struct {
	Title       string  `validate:"required,min=3,max=100"`
	Description string  `validate:"required,min=10,max=2000"`
	Image       string  `validate:"omitempty,uri"`
	Price       float64 `validate:"gte=0,lte=1000000"`
	Country     string  `validate:"required,min=2,max=56"`
	Location    string  `validate:"required,min=2,max=100"`
}

var listingMessages = map[string]string{
	"Title.required":       "Title is required.",
	"Title.min":            "Title must be at least 3 characters.",
	"Title.max":            "Title must be at most 100 characters.",
	"Description.required": "Description is required.",
	"Description.min":      "Description must be at least 10 characters.",
	"Description.max":      "Description must be at most 2000 characters.",
	"Image.uri":            "Image must be a valid URL.",
	"Price.gte":            "Price cannot be negative.",
	"Price.lte":            "Price is too high.",
	"Country.required":     "Country is required.",
	"Country.min":          "Country name is too short.",
	"Country.max":          "Country name is too long.",
	"Location.required":    "Location is required.",
	"Location.min":         "Location is too short.",
	"Location.max":         "Location is too long.",
}

// ValidateListing trims and checks in. On failure the returned error is an
// apperr validation error naming every violated field.
func ValidateListing(in ListingInput) (*Listing, error) {
	out := &Listing{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Image:       strings.TrimSpace(in.Image),
		Country:     strings.TrimSpace(in.Country),
		Location:    strings.TrimSpace(in.Location),
	}

	errs := newFieldErrors("Title", "Description", "Image", "Price", "Country", "Location")
	except := []string{}
	switch price, ok := parseNumber(in.Price); {
	case strings.TrimSpace(in.Price) == "":
		errs.add("Price", "Price is required.")
		except = append(except, "Price")
	case !ok:
		errs.add("Price", "Price must be a number.")
		except = append(except, "Price")
	default:
		out.Price = price
	}

	var verr error
	if len(except) > 0 {
		verr = validate.StructExcept(out, except...)
	} else {
		verr = validate.Struct(out)
	}
	if err := errs.collect(verr, listingMessages); err != nil {
		return nil, err
	}
	if err := errs.err(); err != nil {
		return nil, err
	}
	return out, nil
}
