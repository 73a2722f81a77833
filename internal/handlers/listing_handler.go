package handlers

import (
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/services"
	"github.com/gofiber/fiber/v2"
)

const (
	maxPageSize     = 100
	msgListingGone  = "Listing not found"
	msgListingNew   = "New listing Created"
	msgListingSaved = "Listing Updated"
	msgListingDone  = "Listing Deleted"
)

type ListingHandler struct {
	listings *services.ListingService
}

func NewListingHandler(listings *services.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

func (h *ListingHandler) Index(c *fiber.Ctx) error {
	filter := models.ListingFilter{
		Location: c.Query("location"),
		Country:  c.Query("country"),
		Limit:    c.QueryInt("limit", 0),
		Offset:   c.QueryInt("offset", 0),
	}
	if filter.Limit < 0 || filter.Limit > maxPageSize {
		filter.Limit = maxPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	listings, err := h.listings.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	return render(c, "listings/index", fiber.Map{
		"listings": listings,
		"location": filter.Location,
		"country":  filter.Country,
	})
}

func (h *ListingHandler) New(c *fiber.Ctx) error {
	return render(c, "listings/new", nil)
}

func (h *ListingHandler) Create(c *fiber.Ctx) error {
	payload := middleware.ListingPayload(c)
	upload, closeUpload, err := formUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	if upload == nil && payload.Image == "" {
		return flashRedirect(c, auth.FlashError, services.MsgImageMissing, "/listings/new")
	}

	listing, err := h.listings.Create(c.UserContext(), auth.CurrentUser(c).ID, payload, upload)
	if err != nil {
		if userFacing(err) {
			return flashRedirect(c, auth.FlashError, apperr.Message(err), "/listings/new")
		}
		return err
	}
	return flashRedirect(c, auth.FlashSuccess, msgListingNew, listingPath(listing.ID))
}

func (h *ListingHandler) Show(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgListingGone)
	if err != nil {
		return err
	}
	listing, err := h.listings.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return render(c, "listings/show", fiber.Map{"listing": listing})
}

func (h *ListingHandler) Edit(c *fiber.Ctx) error {
	return render(c, "listings/edit", fiber.Map{"listing": middleware.LoadedListing(c)})
}

func (h *ListingHandler) Update(c *fiber.Ctx) error {
	listing := middleware.LoadedListing(c)
	upload, closeUpload, err := formUpload(c)
	if err != nil {
		return err
	}
	defer closeUpload()

	if err := h.listings.Update(c.UserContext(), listing, middleware.ListingPayload(c), upload); err != nil {
		if userFacing(err) && !apperr.Is(err, apperr.KindNotFound) {
			return flashRedirect(c, auth.FlashError, apperr.Message(err), listingPath(listing.ID)+"/edit")
		}
		return err
	}
	return flashRedirect(c, auth.FlashSuccess, msgListingSaved, listingPath(listing.ID))
}

func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	listing := middleware.LoadedListing(c)
	if err := h.listings.Delete(c.UserContext(), listing.ID); err != nil {
		return err
	}
	return flashRedirect(c, auth.FlashSuccess, msgListingDone, "/listings")
}
