package middleware

import (
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/validation"
	"github.com/gofiber/fiber/v2"
)

const (
	listingPayloadLocal = "listing_payload"
	reviewPayloadLocal  = "review_payload"
)

// ValidateListing checks the submitted listing form. Invalid payloads stop
// the request with a validation error naming every bad field.
func ValidateListing() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := validation.ValidateListing(validation.ListingInput{
			Title:       formValue(c, "listing", "title"),
			Description: formValue(c, "listing", "description"),
			Image:       formValue(c, "listing", "image"),
			Price:       formValue(c, "listing", "price"),
			Location:    formValue(c, "listing", "location"),
			Country:     formValue(c, "listing", "country"),
		})
		if err != nil {
			return err
		}
		c.Locals(listingPayloadLocal, payload)
		return c.Next()
	}
}

func ValidateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, err := validation.ValidateReview(validation.ReviewInput{
			Rating:  formValue(c, "review", "rating"),
			Comment: formValue(c, "review", "comment"),
		})
		if err != nil {
			return err
		}
		c.Locals(reviewPayloadLocal, payload)
		return c.Next()
	}
}

func ListingPayload(c *fiber.Ctx) *validation.Listing {
	p, _ := c.Locals(listingPayloadLocal).(*validation.Listing)
	return p
}

func ReviewPayload(c *fiber.Ctx) *validation.Review {
	p, _ := c.Locals(reviewPayloadLocal).(*validation.Review)
	return p
}

// formValue reads group[field], falling back to the bare field name.
func formValue(c *fiber.Ctx, group, field string) string {
	if v := c.FormValue(group + "[" + field + "]"); v != "" {
		return v
	}
	return c.FormValue(field)
}
