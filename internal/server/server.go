package server

import (
	"backend-runclub/internal/athlete"
	"backend-runclub/internal/auth"
	"backend-runclub/internal/cache"
	"backend-runclub/internal/challenge"
	"backend-runclub/internal/collectible"
	"backend-runclub/internal/config"
	"backend-runclub/internal/db"
	"backend-runclub/internal/shared/apperr"
	"backend-runclub/internal/subscription"
	"backend-runclub/internal/tracking"
	"backend-runclub/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
)

type Server struct {
	App   *fiber.App
	Cfg   config.Config
	DB    db.Pool
	Redis *redis.Client
	Cache *cache.Cache
}

func NewServer(cfg config.Config, pool db.Pool, redisClient *redis.Client) *Server {
	app := fiber.New(fiber.Config{ErrorHandler: apperr.Handler})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

	s := &Server{
		App:   app,
		Cfg:   cfg,
		DB:    pool,
		Redis: redisClient,
		Cache: cache.New(redisClient, cfg.CacheTTL),
	}

	registerRoutes(s)
	return s
}

type companyDetails struct {
	Name     string `json:"company_name"`
	Slogan   string `json:"slogan"`
	Contacts string `json:"contacts"`
}

func registerRoutes(s *Server) {
	s.App.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	jwtMiddleware := auth.JWTMiddleware(s.Cfg.JWTSecret)
	api := s.App.Group("/api")

	api.Get("/company_details", func(c *fiber.Ctx) error {
		return c.JSON(companyDetails{
			Name:     s.Cfg.CompanyName,
			Slogan:   s.Cfg.CompanySlogan,
			Contacts: s.Cfg.CompanyContacts,
		})
	})

	items := collectible.NewService(s.DB)
	engine := challenge.NewEngine(s.Cfg.ChallengeDedup)

	auth.RegisterRoutes(s.App.Group("/auth"), auth.NewService(s.Cfg.JWTSecret, s.DB, s.Cache))
	tracking.RegisterRoutes(api, tracking.NewService(s.DB, collectible.NewMatcher(), engine, s.Cache), jwtMiddleware)
	collectible.RegisterRoutes(api, items, jwtMiddleware)
	challenge.RegisterRoutes(api, challenge.NewService(s.DB, s.Cache), jwtMiddleware)
	user.RegisterRoutes(api, user.NewService(s.DB, items, s.Cache), jwtMiddleware)
	athlete.RegisterRoutes(api, athlete.NewService(s.DB), jwtMiddleware)
	subscription.RegisterRoutes(api, subscription.NewService(s.DB, s.Cache), jwtMiddleware)
}
