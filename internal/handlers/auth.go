package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const userIDKey = "userID"

// AuthMiddleware requires a Bearer HS256 token and stores its subject as
// the request's user id. With an empty secret it lets every request through
// and callers supply the user id themselves.
func AuthMiddleware(secret, issuer string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(secret)

	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(raw) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing bearer token",
			})
		}

		var claims jwt.RegisteredClaims
		_, err := parser.ParseWithClaims(strings.TrimSpace(raw), &claims, func(*jwt.Token) (interface{}, error) {
			return key, nil
		})
		if err != nil || claims.Subject == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(userIDKey, claims.Subject)
		return c.Next()
	}
}

// authenticatedUser returns the token subject, if the request carried one.
func authenticatedUser(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(userIDKey).(string)
	return id, ok && id != ""
}

// resolveUser prefers the authenticated user over a client-supplied id.
func resolveUser(c *fiber.Ctx, supplied string) string {
	if id, ok := authenticatedUser(c); ok {
		return id
	}
	return strings.TrimSpace(supplied)
}
