package athlete

import (
	"backend-runclub/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/athlete_info/:id", authMiddleware, func(c *fiber.Ctx) error {
		info, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(info)
	})

	r.Put("/athlete_info/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req UpdateInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := auth.CurrentPrincipal(c)
		if err != nil {
			return err
		}
		info, err := svc.Update(c.Context(), p, c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(info)
	})
}
