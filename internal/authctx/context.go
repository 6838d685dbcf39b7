// Package authctx extracts the authenticated caller's identity from request
// context. The identity is passed explicitly into services; nothing reads
// auth state through package-level globals.
package authctx

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/vetsidekick/cpd-backend/internal/models"
)

// Identity is the authenticated caller: who they are and what role they
// carry. Handlers resolve it once and pass it down.
type Identity struct {
	UserID uuid.UUID
	Email  string
	Role   models.Role
}

// FromContext resolves the caller identity from JWT claims in Fiber locals.
func FromContext(c *fiber.Ctx) (Identity, error) {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok || token == nil {
		return Identity{}, errors.New("invalid token in context")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, errors.New("invalid claims")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return Identity{}, errors.New("missing sub claim")
	}

	userID, err := uuid.Parse(sub)
	if err != nil {
		return Identity{}, err
	}

	id := Identity{UserID: userID}
	if email, ok := claims["email"].(string); ok {
		id.Email = email
	}
	if role, ok := claims["role"].(string); ok {
		id.Role = models.Role(role)
	}
	return id, nil
}

// GetUserID extracts just the user UUID from JWT claims in context.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := FromContext(c)
	if err != nil {
		return uuid.Nil, err
	}
	return id.UserID, nil
}
