package challenge

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Get("/challenges", authMiddleware, func(c *fiber.Ctx) error {
		challenges, err := svc.List(c.Context(), c.Query("athlete"))
		if err != nil {
			return err
		}
		return c.JSON(challenges)
	})

	r.Get("/challenges_summary", authMiddleware, func(c *fiber.Ctx) error {
		summary, err := svc.Summary(c.Context())
		if err != nil {
			return err
		}
		return c.JSON(summary)
	})
}
