package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"toko/internal/logger"
	"toko/internal/models"

	"github.com/dgrijalva/jwt-go"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const actorKey = "actor"

// AuthRequired is a Fiber middleware that resolves the acting user from a bearer JWT.
// Tokens are issued by the identity provider and carry user_id and role claims.
func AuthRequired(secret string) fiber.Handler {
	key := []byte(secret)
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header is required",
			})
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authorization header format must be 'Bearer <token>'",
			})
		}

		actor, err := ParseToken(key, parts[1])
		if err != nil {
			logger.FromCtx(c.UserContext()).Debug("jwt validation failed", zap.Error(err))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals(actorKey, actor)
		return c.Next()
	}
}

// ActorFrom returns the actor stored by AuthRequired.
func ActorFrom(c *fiber.Ctx) (models.Actor, bool) {
	actor, ok := c.Locals(actorKey).(models.Actor)
	return actor, ok
}

// ParseToken validates an HMAC-signed token and extracts the actor from its claims.
func ParseToken(secret []byte, tokenString string) (models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return models.Actor{}, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return models.Actor{}, errors.New("invalid token")
	}

	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	actor := models.Actor{UserID: userID, Role: models.Role(role)}
	if actor.UserID == "" {
		return models.Actor{}, errors.New("token has no user_id claim")
	}
	switch actor.Role {
	case models.RoleBuyer, models.RoleSeller, models.RoleAdmin:
	default:
		return models.Actor{}, fmt.Errorf("token has unknown role %q", role)
	}
	return actor, nil
}

// IssueToken signs a token for actor in the format AuthRequired expects.
func IssueToken(secret []byte, actor models.Actor, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": actor.UserID,
		"role":    string(actor.Role),
		"iat":     time.Now().Unix(),
		"exp":     time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
