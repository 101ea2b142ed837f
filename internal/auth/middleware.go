package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	localUserID = "user_id"
	localRole   = "role"
)

// JWTMiddleware validates bearer tokens and stores the principal in locals.
func JWTMiddleware(secret string) fiber.Handler {
	secretBytes := []byte(secret)
	return func(c *fiber.Ctx) error {
		token := bearerFromHeader(c.Get("Authorization"))
		if token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		parsed, err := parseMiddlewareClaimsFn(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
			return secretBytes, nil
		})
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}

		claims, ok := parsed.Claims.(*Claims)
		if !ok || !parsed.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "token invalid")
		}
		if _, ok := ParseRole(string(claims.Role)); !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "token role invalid")
		}

		SetPrincipal(c, claims.principal())
		return c.Next()
	}
}

var parseMiddlewareClaimsFn = jwt.ParseWithClaims

// RequireRole rejects callers whose principal does not hold role.
func RequireRole(role Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := CurrentPrincipal(c)
		if err != nil {
			return err
		}
		if p.Role != role {
			return fiber.NewError(fiber.StatusForbidden, "only a "+string(role)+" can do this")
		}
		return c.Next()
	}
}

func SetPrincipal(c *fiber.Ctx, p Principal) {
	c.Locals(localUserID, p.UserID)
	c.Locals(localRole, p.Role)
}

// CurrentPrincipal returns the principal stored by JWTMiddleware.
func CurrentPrincipal(c *fiber.Ctx) (Principal, error) {
	userID, _ := c.Locals(localUserID).(string)
	role, _ := c.Locals(localRole).(Role)
	if userID == "" || role == "" {
		return Principal{}, fiber.NewError(fiber.StatusUnauthorized, "authentication required")
	}
	return Principal{UserID: userID, Role: role}, nil
}

func bearerFromHeader(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
