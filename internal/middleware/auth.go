package middleware

import (
	"time"

	"github.com/bountychain/report-vault/internal/dto"
	jwtware "github.com/gofiber/contrib/jwt"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

// PayoutRole is the role claim the payment collaborator's token must carry.
const PayoutRole = "payout"

// ServiceProtected accepts HS256 service tokens signed with secret and
// carrying the given role claim.
func ServiceProtected(secret, role string) []fiber.Handler {
	return []fiber.Handler{
		jwtware.New(jwtware.Config{
			SigningKey: jwtware.SigningKey{JWTAlg: jwtware.HS256, Key: []byte(secret)},
			ErrorHandler: func(c *fiber.Ctx, err error) error {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
					Error:   true,
					Code:    "INVALID_TOKEN",
					Message: "Unauthorized: invalid or expired token",
				})
			},
		}),
		RequireRole(role),
	}
}

// RequireRole checks the role claim of a token validated earlier in the chain.
func RequireRole(role string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := c.Locals("user").(*jwt.Token)
		if ok {
			if claims, ok := token.Claims.(jwt.MapClaims); ok && claims["role"] == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error:   true,
			Code:    "FORBIDDEN",
			Message: "Token is not allowed to access this resource",
		})
	}
}

// IssueServiceToken signs a token for a collaborator service.
func IssueServiceToken(secret, subject, role string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  subject,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(ttl).Unix(),
	})
	return token.SignedString([]byte(secret))
}
