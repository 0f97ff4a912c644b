package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/gk022135/todo-backend/internal/domain"
)

type stubUserStore struct {
	byEmail map[string]*domain.User
	nextID  int
}

func newStubUserStore() *stubUserStore {
	return &stubUserStore{byEmail: map[string]*domain.User{}}
}

func (s *stubUserStore) Create(ctx context.Context, u *domain.User) error {
	if _, ok := s.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	s.nextID++
	u.ID = "u-" + strconv.Itoa(s.nextID)
	s.byEmail[u.Email] = u
	return nil
}

func (s *stubUserStore) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	return u, nil
}

func newAuthApp(store UserStore, tokens *TokenManager) *fiber.App {
	app := fiber.New()
	h := NewHandler(store, tokens, bcrypt.MinCost)
	app.Post("/auth/signup", h.Signup)
	app.Post("/auth/login", h.Login)
	app.Post("/auth/logout", h.Logout)
	return app
}

func postJSON(t *testing.T, app *fiber.App, path, body string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test returned error: %v", err)
	}
	return resp
}

func TestSignupDefaults(t *testing.T) {
	store := newStubUserStore()
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	app := newAuthApp(store, tm)

	resp := postJSON(t, app, "/auth/signup", `{"name":"Ann","email":"ann@x.com","password":"pw123456"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}

	var out struct {
		Message string `json:"message"`
		User    struct {
			ID    string `json:"id"`
			Name  string `json:"name"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if out.Message != "User registered successfully" {
		t.Fatalf("message = %q", out.Message)
	}
	if out.User.Role != domain.RoleUser {
		t.Fatalf("role = %q, want %q", out.User.Role, domain.RoleUser)
	}

	stored := store.byEmail["ann@x.com"]
	if stored == nil {
		t.Fatal("user was not persisted")
	}
	if stored.IsDeleted {
		t.Fatal("fresh account must not be soft-deleted")
	}
	if stored.PasswordHash == "pw123456" {
		t.Fatal("password stored without hashing")
	}
	if !CheckPassword("pw123456", stored.PasswordHash) {
		t.Fatal("stored hash does not verify against the password")
	}
}

// Duplicate emails are rejected even when the existing account is
// soft-deleted; the email stays taken forever.
func TestSignupDuplicateEmail(t *testing.T) {
	store := newStubUserStore()
	store.byEmail["ann@x.com"] = &domain.User{ID: "u-9", Email: "ann@x.com", IsDeleted: true}
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	app := newAuthApp(store, tm)

	resp := postJSON(t, app, "/auth/signup", `{"name":"Ann","email":"ann@x.com","password":"pw123456"}`)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("status = %d, want 409", resp.StatusCode)
	}
}

func TestSignupAggregatesViolations(t *testing.T) {
	store := newStubUserStore()
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	app := newAuthApp(store, tm)

	resp := postJSON(t, app, "/auth/signup", `{}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	for _, want := range []string{"name is required", "email is required", "password must be at least 6 characters"} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("body %q missing violation %q", body, want)
		}
	}
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	store := newStubUserStore()
	hash, err := HashPassword("pw123456", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword returned error: %v", err)
	}
	store.byEmail["ann@x.com"] = &domain.User{ID: "u-1", Email: "ann@x.com", PasswordHash: hash, Role: domain.RoleUser}
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	app := newAuthApp(store, tm)

	wrongPw := postJSON(t, app, "/auth/login", `{"email":"ann@x.com","password":"wrong-pw"}`)
	unknown := postJSON(t, app, "/auth/login", `{"email":"nobody@x.com","password":"pw123456"}`)

	if wrongPw.StatusCode != http.StatusUnauthorized || unknown.StatusCode != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPw.StatusCode, unknown.StatusCode)
	}

	a, _ := io.ReadAll(wrongPw.Body)
	b, _ := io.ReadAll(unknown.Body)
	if string(a) != string(b) {
		t.Fatalf("failure bodies differ: %q vs %q", a, b)
	}
}

func TestLoginDeletedAccount(t *testing.T) {
	store := newStubUserStore()
	hash, _ := HashPassword("pw123456", bcrypt.MinCost)
	store.byEmail["ann@x.com"] = &domain.User{ID: "u-1", Email: "ann@x.com", PasswordHash: hash, Role: domain.RoleUser, IsDeleted: true}
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	app := newAuthApp(store, tm)

	resp := postJSON(t, app, "/auth/login", `{"email":"ann@x.com","password":"pw123456"}`)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", resp.StatusCode)
	}
}

func TestLoginIssuesVerifiableToken(t *testing.T) {
	store := newStubUserStore()
	hash, _ := HashPassword("pw123456", bcrypt.MinCost)
	store.byEmail["ann@x.com"] = &domain.User{ID: "u-1", Email: "ann@x.com", PasswordHash: hash, Role: domain.RoleAdmin}
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	app := newAuthApp(store, tm)

	resp := postJSON(t, app, "/auth/login", `{"email":"ann@x.com","password":"pw123456"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		AccessToken string         `json:"accessToken"`
		User        domain.Profile `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	claims, err := tm.Verify(out.AccessToken)
	if err != nil {
		t.Fatalf("issued token failed verification: %v", err)
	}
	if claims.Subject != "u-1" || claims.Role != domain.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestLogout(t *testing.T) {
	store := newStubUserStore()
	tm := NewTokenManager([]byte("test-secret"), time.Hour)
	app := newAuthApp(store, tm)

	resp := postJSON(t, app, "/auth/logout", ``)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	body, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(body), "Logged out successfully") {
		t.Fatalf("unexpected body: %s", body)
	}
}
