package user

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/users", authMiddleware, func(c *fiber.Ctx) error {
		users, err := svc.List(c.Context(), c.Query("type"))
		if err != nil {
			return err
		}
		return c.JSON(users)
	})

	r.Get("/users/:id", authMiddleware, func(c *fiber.Ctx) error {
		detail, err := svc.Get(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(detail)
	})
}
