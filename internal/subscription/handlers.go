package subscription

import (
	"backend-runclub/internal/auth"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/subscribe_to_coach/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req Input
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
		}
		p, err := auth.CurrentPrincipal(c)
		if err != nil {
			return err
		}
		sub, err := svc.Subscribe(c.Context(), p, c.Params("id"), req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(sub)
	})
}
