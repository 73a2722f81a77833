package middleware

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	MsgLoginRequired = "You must be logged in to do that!"
	MsgNotOwner      = "You don't have permission to edit"
	MsgNotAuthor     = "You are not author of this review"
	msgNoListing     = "Listing not found"
	msgNoReview      = "Review not found"

	listingLocal = "listing"
)

type ListingLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Listing, error)
}

type ReviewLoader interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Review, error)
}

// RequireAuthenticated stops anonymous requests. Browser visitors are sent
// to the login page and come back to the page they asked for; token
// clients get a 401.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if auth.CurrentUser(c) != nil {
			return c.Next()
		}
		if usesToken(c) {
			return apperr.New(apperr.KindUnauthenticated, MsgLoginRequired)
		}

		sess := auth.GetSession(c)
		if c.Method() == fiber.MethodGet || c.Method() == fiber.MethodHead {
			sess.SetRedirectTarget(c.OriginalURL())
		}
		sess.Flash(auth.FlashError, MsgLoginRequired)
		return c.Redirect("/login")
	}
}

// RequireListingOwner loads the :id listing and lets only its owner
// through. The loaded listing is available to the handler via
// LoadedListing.
func RequireListingOwner(listings ListingLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apperr.NotFound(msgNoListing)
		}
		listing, err := listings.Get(c.UserContext(), id)
		if err != nil {
			return err
		}
		if listing == nil {
			return apperr.NotFound(msgNoListing)
		}

		user := auth.CurrentUser(c)
		if user == nil || listing.OwnerID != user.ID {
			return deny(c, MsgNotOwner, listing.ID)
		}

		c.Locals(listingLocal, listing)
		return c.Next()
	}
}

// RequireReviewAuthor lets only the author of :reviewId through.
func RequireReviewAuthor(reviews ReviewLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		listingID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return apperr.NotFound(msgNoListing)
		}
		reviewID, err := uuid.Parse(c.Params("reviewId"))
		if err != nil {
			return apperr.NotFound(msgNoReview)
		}
		review, err := reviews.Get(c.UserContext(), reviewID)
		if err != nil {
			return err
		}
		if review == nil {
			return apperr.NotFound(msgNoReview)
		}

		user := auth.CurrentUser(c)
		if user == nil || review.AuthorID != user.ID {
			return deny(c, MsgNotAuthor, listingID)
		}
		return c.Next()
	}
}

func deny(c *fiber.Ctx, message string, listingID uuid.UUID) error {
	if usesToken(c) {
		return apperr.NotAuthorized(message)
	}
	auth.GetSession(c).Flash(auth.FlashError, message)
	return c.Redirect("/listings/" + listingID.String())
}

func usesToken(c *fiber.Ctx) bool {
	return c.Locals(auth.TokenLocal) != nil
}

// LoadedListing returns the listing loaded by RequireListingOwner.
func LoadedListing(c *fiber.Ctx) *models.Listing {
	listing, _ := c.Locals(listingLocal).(*models.Listing)
	return listing
}
