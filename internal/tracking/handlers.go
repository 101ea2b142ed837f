package tracking

import (
	"strconv"

	"backend-runclub/internal/auth"
	"backend-runclub/internal/shared/apperr"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, authMiddleware fiber.Handler) {
	r.Post("/runs", authMiddleware, auth.RequireRole(auth.RoleAthlete), func(c *fiber.Ctx) error {
		var req RunInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		p, err := auth.CurrentPrincipal(c)
		if err != nil {
			return err
		}
		run, err := svc.CreateRun(c.Context(), p, req)
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(run)
	})

	r.Get("/runs", authMiddleware, func(c *fiber.Ctx) error {
		runs, err := svc.ListRuns(c.Context(), RunFilter{Status: c.Query("status"), AthleteID: c.Query("athlete")})
		if err != nil {
			return err
		}
		return c.JSON(runs)
	})

	r.Get("/runs/:id", authMiddleware, func(c *fiber.Ctx) error {
		run, err := svc.GetRun(c.Context(), c.Params("id"))
		if err != nil {
			return err
		}
		return c.JSON(run)
	})

	r.Patch("/runs/:id", authMiddleware, func(c *fiber.Ctx) error {
		var req RunInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return withPrincipal(c, func(p auth.Principal) error {
			run, err := svc.UpdateComment(c.Context(), p, c.Params("id"), req)
			if err != nil {
				return err
			}
			return c.JSON(run)
		})
	})

	r.Delete("/runs/:id", authMiddleware, func(c *fiber.Ctx) error {
		return withPrincipal(c, func(p auth.Principal) error {
			if err := svc.DeleteRun(c.Context(), p, c.Params("id")); err != nil {
				return err
			}
			return c.SendStatus(fiber.StatusNoContent)
		})
	})

	r.Post("/runs/:id/start", authMiddleware, func(c *fiber.Ctx) error {
		return withPrincipal(c, func(p auth.Principal) error {
			run, err := svc.StartRun(c.Context(), p, c.Params("id"))
			if err != nil {
				return err
			}
			return c.JSON(run)
		})
	})

	r.Post("/runs/:id/stop", authMiddleware, func(c *fiber.Ctx) error {
		return withPrincipal(c, func(p auth.Principal) error {
			run, err := svc.StopRun(c.Context(), p, c.Params("id"))
			if err != nil {
				return err
			}
			return c.JSON(run)
		})
	})

	r.Post("/positions", authMiddleware, func(c *fiber.Ctx) error {
		var req PositionInput
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return withPrincipal(c, func(p auth.Principal) error {
			pos, err := svc.AddPosition(c.Context(), p, req)
			if err != nil {
				return err
			}
			return c.Status(fiber.StatusCreated).JSON(pos)
		})
	})

	r.Get("/positions", authMiddleware, func(c *fiber.Ctx) error {
		positions, err := svc.ListPositions(c.Context(), c.Query("run"))
		if err != nil {
			return err
		}
		return c.JSON(positions)
	})

	r.Delete("/positions/:id", authMiddleware, func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return apperr.NotFound("position")
		}
		return withPrincipal(c, func(p auth.Principal) error {
			if err := svc.DeletePosition(c.Context(), p, id); err != nil {
				return err
			}
			return c.SendStatus(fiber.StatusNoContent)
		})
	})
}

func withPrincipal(c *fiber.Ctx, fn func(auth.Principal) error) error {
	p, err := auth.CurrentPrincipal(c)
	if err != nil {
		return err
	}
	return fn(p)
}
