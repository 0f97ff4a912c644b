package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gk022135/todo-backend/internal/domain"
)

// AccountSource is the lookup the middleware performs on every
// authenticated request. Tokens cannot be revoked, so a soft-deleted
// account is caught here instead.
type AccountSource interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// RequireAuth extracts the bearer token, verifies it and re-checks
// the referenced account. On success the account id and current role
// are attached to the request locals.
func RequireAuth(tokens *TokenManager, accounts AccountSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		claims, err := tokens.Verify(strings.TrimSpace(parts[1]))
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				return fiber.NewError(fiber.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		acct, err := accounts.FindByID(userContext(c), claims.Subject)
		if err != nil {
			if errors.Is(err, domain.ErrUserNotFound) {
				return fiber.NewError(fiber.StatusUnauthorized, "User not found or has been deleted")
			}
			return err
		}
		if acct.IsDeleted {
			return fiber.NewError(fiber.StatusUnauthorized, "User not found or has been deleted")
		}

		// Role comes from the fresh record, not the token, so a
		// demotion takes effect on the next request.
		c.Locals("user_id", acct.ID)
		c.Locals("role", acct.Role)

		return c.Next()
	}
}

// RequireAdmin gates admin-only routes. It must run after RequireAuth.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if role != domain.RoleAdmin {
			return fiber.NewError(fiber.StatusForbidden, "admin access required")
		}
		return c.Next()
	}
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
