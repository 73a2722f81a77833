package handlers

import (
	"mime/multipart"

	"github.com/ahmetcoskunkizilkaya/homeaway/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/auth"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/dto"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/models"
	"github.com/ahmetcoskunkizilkaya/homeaway/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// render writes the view model for page. Pending flashes are consumed.
func render(c *fiber.Ctx, page string, data any) error {
	return c.JSON(dto.View{
		Page:        page,
		Flashes:     auth.GetSession(c).Flashes(),
		CurrentUser: userResponse(auth.CurrentUser(c)),
		Data:        data,
	})
}

// flashRedirect queues a flash message and redirects to path.
func flashRedirect(c *fiber.Ctx, kind, message, path string) error {
	auth.GetSession(c).Flash(kind, message)
	return c.Redirect(path)
}

func userResponse(u *models.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{ID: u.ID, Username: u.Username}
}

func paramID(c *fiber.Ctx, name, notFound string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, apperr.NotFound(notFound)
	}
	return id, nil
}

func listingPath(id uuid.UUID) string {
	return "/listings/" + id.String()
}

// userFacing reports whether err carries a message that can be shown to
// the visitor as a flash.
func userFacing(err error) bool {
	return apperr.KindOf(err) != apperr.KindInternal
}

var imageFields = []string{"listing[image]", "image"}

// formUpload returns the uploaded image, if any. The caller must call the
// returned close func.
func formUpload(c *fiber.Ctx) (*storage.Upload, func(), error) {
	for _, field := range imageFields {
		fh, err := c.FormFile(field)
		if err != nil || fh == nil || fh.Size == 0 {
			continue
		}
		return openUpload(fh)
	}
	return nil, func() {}, nil
}

func openUpload(fh *multipart.FileHeader) (*storage.Upload, func(), error) {
	f, err := fh.Open()
	if err != nil {
		return nil, func() {}, err
	}
	return &storage.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, func() { f.Close() }, nil
}
