package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gk022135/todo-backend/internal/auth"
	"github.com/gk022135/todo-backend/internal/todo"
	"github.com/gk022135/todo-backend/internal/user"
)

type Router struct {
	AuthHandler *auth.Handler
	UserHandler *user.Handler
	TodoHandler *todo.Handler
	AuthMW      fiber.Handler
	AdminMW     fiber.Handler
}

func (r *Router) RegisterRoutes(app *fiber.App) {
	app.Post("/auth/signup", r.AuthHandler.Signup)
	app.Post("/auth/login", r.AuthHandler.Login)
	app.Post("/auth/logout", r.AuthMW, r.AuthHandler.Logout)

	// /users/me must be registered ahead of /users/:id.
	app.Get("/users/me", r.AuthMW, r.UserHandler.Me)
	app.Patch("/users/me", r.AuthMW, r.UserHandler.UpdateMe)
	app.Delete("/users/me", r.AuthMW, r.UserHandler.DeleteMe)

	app.Get("/users", r.AuthMW, r.AdminMW, r.UserHandler.List)
	app.Patch("/users/:id", r.AuthMW, r.AdminMW, r.UserHandler.AdminUpdate)
	app.Delete("/users/:id", r.AuthMW, r.AdminMW, r.UserHandler.AdminDelete)

	app.Post("/todos", r.AuthMW, r.TodoHandler.Create)
	app.Get("/todos", r.AuthMW, r.TodoHandler.List)
	app.Get("/todos/report", r.AuthMW, r.TodoHandler.Report)
	app.Patch("/todos/:id", r.AuthMW, r.TodoHandler.Update)
	app.Delete("/todos/:id", r.AuthMW, r.TodoHandler.Delete)
}
