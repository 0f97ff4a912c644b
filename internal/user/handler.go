package user

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/gk022135/todo-backend/internal/auth"
	"github.com/gk022135/todo-backend/internal/domain"
)

// Store is the repository surface the handlers use; *Repository
// implements it, tests substitute an in-memory stub.
type Store interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	ListActive(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, id string, name, passwordHash *string) (*domain.User, error)
	SoftDelete(ctx context.Context, id string) (*domain.User, error)
}

type Handler struct {
	Store      Store
	BcryptCost int
}

func NewHandler(store Store, bcryptCost int) *Handler {
	return &Handler{Store: store, BcryptCost: bcryptCost}
}

type updateRequest struct {
	Name     *string `json:"name"`
	Password *string `json:"password"`
}

func (h *Handler) Me(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	u, err := h.Store.FindByID(userContext(c), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(u.Profile())
}

func (h *Handler) UpdateMe(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return h.applyUpdate(c, userID)
}

func (h *Handler) DeleteMe(c *fiber.Ctx) error {
	userID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	return h.applyDelete(c, userID)
}

// List returns every non-deleted account. Admin-only; the shape
// exposes role and delete status.
func (h *Handler) List(c *fiber.Ctx) error {
	users, err := h.Store.ListActive(userContext(c))
	if err != nil {
		return err
	}

	out := make([]domain.AdminView, 0, len(users))
	for i := range users {
		out = append(out, users[i].AdminView())
	}
	return c.JSON(out)
}

func (h *Handler) AdminUpdate(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.applyUpdate(c, id)
}

func (h *Handler) AdminDelete(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	return h.applyDelete(c, id)
}

// applyUpdate is shared by self-service and admin updates: same
// mutation, different target id. Passwords are re-hashed here so the
// store only ever sees digests.
func (h *Handler) applyUpdate(c *fiber.Ctx, id string) error {
	var body updateRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}

	var name *string
	if body.Name != nil {
		trimmed := strings.TrimSpace(*body.Name)
		if trimmed == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name must not be empty")
		}
		name = &trimmed
	}

	var passwordHash *string
	if body.Password != nil {
		if len(*body.Password) < 6 {
			return fiber.NewError(fiber.StatusBadRequest, "password must be at least 6 characters")
		}
		hashed, err := auth.HashPassword(*body.Password, h.BcryptCost)
		if err != nil {
			return err
		}
		passwordHash = &hashed
	}

	u, err := h.Store.Update(userContext(c), id, name, passwordHash)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(u.Profile())
}

func (h *Handler) applyDelete(c *fiber.Ctx, id string) error {
	u, err := h.Store.SoftDelete(userContext(c), id)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "User not found")
		}
		return err
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
		"user":    u.Profile(),
	})
}

func callerID(c *fiber.Ctx) (string, error) {
	if uid, ok := c.Locals("user_id").(string); ok && strings.TrimSpace(uid) != "" {
		return uid, nil
	}
	return "", errors.New("user id missing")
}

func pathID(c *fiber.Ctx) (string, error) {
	raw := c.Params("id")
	if _, err := uuid.Parse(raw); err != nil {
		return "", fiber.NewError(fiber.StatusNotFound, "User not found")
	}
	return raw, nil
}

func parseBody(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		// A missing body is an empty patch; every field is optional.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	return nil
}

func userContext(c *fiber.Ctx) context.Context {
	if ctx := c.UserContext(); ctx != nil {
		return ctx
	}
	return context.Background()
}
