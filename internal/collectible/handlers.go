package collectible

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/collectible_items", authMiddleware, func(c *fiber.Ctx) error {
		items, err := svc.List(c.Context())
		if err != nil {
			return err
		}
		if items == nil {
			items = []Item{}
		}
		return c.JSON(items)
	})

	r.Post("/upload_file", authMiddleware, func(c *fiber.Ctx) error {
		header, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "file required")
		}
		f, err := header.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		defer f.Close()

		rows, err := ReadRows(header.Filename, f)
		if errors.Is(err, ErrUnsupportedFormat) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "unreadable file: "+err.Error())
		}

		result, err := svc.Import(c.Context(), rows)
		if err != nil {
			return err
		}
		return c.JSON(result)
	})
}
