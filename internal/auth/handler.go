package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/gk022135/todo-backend/internal/domain"
)

// UserStore is what signup/login need from the user repository.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// TokenIssuer mints a session token for a subject/role pair.
type TokenIssuer interface {
	Issue(subject, role string) (string, error)
}

type Handler struct {
	Users      UserStore
	Tokens     TokenIssuer
	BcryptCost int
}

func NewHandler(users UserStore, tokens TokenIssuer, bcryptCost int) *Handler {
	return &Handler{Users: users, Tokens: tokens, BcryptCost: bcryptCost}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Signup(c *fiber.Ctx) error {
	var body signupRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}

	body.Name = strings.TrimSpace(body.Name)
	body.Email = strings.TrimSpace(body.Email)

	var violations []string
	if body.Name == "" {
		violations = append(violations, "name is required")
	}
	if body.Email == "" {
		violations = append(violations, "email is required")
	} else if !strings.Contains(body.Email, "@") {
		violations = append(violations, "email must be a valid address")
	}
	if len(body.Password) < 6 {
		violations = append(violations, "password must be at least 6 characters")
	}
	if len(violations) > 0 {
		return fiber.NewError(fiber.StatusBadRequest, strings.Join(violations, "; "))
	}

	ctx := userContext(c)

	// A soft-deleted account still holds its email; re-registration is
	// rejected the same as for a live account.
	existing, err := h.Users.FindByEmail(ctx, body.Email)
	if err != nil {
		return err
	}
	if existing != nil {
		return fiber.NewError(fiber.StatusConflict, "Email already registered")
	}

	hashed, err := HashPassword(body.Password, h.BcryptCost)
	if err != nil {
		return err
	}

	u := domain.NewUser(body.Name, body.Email, hashed)
	if err := h.Users.Create(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return fiber.NewError(fiber.StatusConflict, "Email already registered")
		}
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    u.Profile(),
	})
}

func (h *Handler) Login(c *fiber.Ctx) error {
	var body loginRequest
	if err := parseBody(c, &body); err != nil {
		return err
	}

	ctx := userContext(c)
	u, err := h.Users.FindByEmail(ctx, strings.TrimSpace(body.Email))
	if err != nil {
		return err
	}

	// Unknown email, deleted account and wrong password all answer
	// identically; do not leak which check failed.
	if u == nil || u.IsDeleted || !CheckPassword(body.Password, u.PasswordHash) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid credentials")
	}

	token, err := h.Tokens.Issue(u.ID, u.Role)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"accessToken": token,
		"user":        u.Profile(),
	})
}

// Logout is best-effort: tokens are stateless, so the server has
// nothing to invalidate. The client drops its copy.
func (h *Handler) Logout(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"message": "Logged out successfully"})
}

func parseBody(c *fiber.Ctx, dst any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		// A missing body decodes like an empty object; field-level
		// validation decides what happens next.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fiber.NewError(fiber.StatusBadRequest, "invalid body")
	}
	return nil
}
