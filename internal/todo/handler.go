package todo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/gk022135/todo-backend/internal/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Store is the repository surface the handlers use; *Repository
// implements it, tests substitute an in-memory stub.
type Store interface {
	Create(ctx context.Context, t *domain.Todo) error
	FindByID(ctx context.Context, id string) (*domain.Todo, error)
	ListByOwner(ctx context.Context, ownerID string, page, limit int) ([]domain.Todo, int64, error)
	Update(ctx context.Context, id string, patch Patch) (*domain.Todo, error)
	Delete(ctx context.Context, id string) error
}

type Handler struct {
	Store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{Store: store}
}

type createRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type updateRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

type pagination struct {
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Pages int   `json:"pages"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var body createRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}

	body.Title = strings.TrimSpace(body.Title)
	if body.Title == "" {
		return fiber.NewError(fiber.StatusBadRequest, "title is required")
	}

	// The owner is always the caller; there is no way to submit one.
	t := domain.NewTodo(ownerID, body.Title, body.Description, body.Completed)
	if err := h.Store.Create(userContext(c), t); err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Todo created successfully",
		"todo":    t,
	})
}

func (h *Handler) List(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	page := c.QueryInt("page", defaultPage)
	if page < 1 {
		page = defaultPage
	}
	limit := c.QueryInt("limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}

	todos, total, err := h.Store.ListByOwner(userContext(c), ownerID, page, limit)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": todos,
		"pagination": pagination{
			Total: total,
			Page:  page,
			Limit: limit,
			Pages: int((total + int64(limit) - 1) / int64(limit)),
		},
	})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var body updateRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}
	if body.Title != nil {
		trimmed := strings.TrimSpace(*body.Title)
		if trimmed == "" {
			return fiber.NewError(fiber.StatusBadRequest, "title must not be empty")
		}
		body.Title = &trimmed
	}

	// Read-then-write is not transactional; a racing delete surfaces
	// as NotFound on the follow-up statement, which is acceptable here.
	ctx := userContext(c)
	existing, err := h.Store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Todo not found")
		}
		return err
	}
	if existing.UserID != ownerID {
		return fiber.NewError(fiber.StatusForbidden, "You can only update your own todos")
	}

	t, err := h.Store.Update(ctx, id, Patch{
		Title:       body.Title,
		Description: body.Description,
		Completed:   body.Completed,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Todo not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Todo updated successfully",
		"todo":    t,
	})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	ownerID, err := callerID(c)
	if err != nil {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	ctx := userContext(c)
	t, err := h.Store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Todo not found")
		}
		return err
	}
	if t.UserID != ownerID {
		return fiber.NewError(fiber.StatusForbidden, "You can only delete your own todos")
	}

	if err := h.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Todo not found")
		}
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Todo deleted successfully",
		"todo":    t,
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
		return "", fiber.NewError(fiber.StatusNotFound, "Todo not found")
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
