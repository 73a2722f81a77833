package handlers

import (
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	msgReviewGone    = "Review not found"
	msgReviewNew     = "New review Created"
	msgReviewDeleted = "Review Deleted"
)

type ReviewHandler struct {
	reviews *services.ReviewService
}

func NewReviewHandler(reviews *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

func (h *ReviewHandler) Create(c *fiber.Ctx) error {
	listingID, err := paramID(c, "id", msgListingGone)
	if err != nil {
		return err
	}
	_, err = h.reviews.Create(c.UserContext(), listingID, auth.CurrentUser(c).ID, middleware.ReviewPayload(c))
	if err != nil {
		return err
	}
	return flashRedirect(c, auth.FlashSuccess, msgReviewNew, listingPath(listingID))
}

func (h *ReviewHandler) Delete(c *fiber.Ctx) error {
	listingID, err := paramID(c, "id", msgListingGone)
	if err != nil {
		return err
	}
	reviewID, err := paramID(c, "reviewId", msgReviewGone)
	if err != nil {
		return err
	}
	if err := h.reviews.Delete(c.UserContext(), listingID, reviewID); err != nil {
		return err
	}
	return flashRedirect(c, auth.FlashSuccess, msgReviewDeleted, listingPath(listingID))
}
