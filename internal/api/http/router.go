package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/http/handlers"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/api/ws"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/auth"
	"github.com/suttonsam862/RichHabitsOMS-sub001/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Users          *handlers.UsersHandler
	Orders         *handlers.OrdersHandler
	Tasks          *handlers.TasksHandler
	Messages       *handlers.MessagesHandler
	Metrics        *handlers.MetricsHandler
	Realtime       *ws.Handler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Metrics.Snapshot)

	authGroup := app.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)

	users := app.Group("/users", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	users.Get("/me", cfg.Users.Me)
	users.Post("", auth.RequireRole(domain.RoleAdmin), cfg.Users.Create)
	users.Get("", auth.RequireRole(domain.RoleAdmin, domain.RoleSalesperson), cfg.Users.ListByRole)

	orders := app.Group("/orders", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	orders.Post("", cfg.Orders.Create)
	orders.Get("", cfg.Orders.List)
	orders.Get("/:id", cfg.Orders.Get)
	orders.Post("/:id/status", cfg.Orders.UpdateStatus)
	orders.Post("/:id/assign", auth.RequireRole(domain.RoleAdmin, domain.RoleSalesperson), cfg.Orders.Assign)
	orders.Post("/:id/tasks", auth.RequireRole(domain.RoleAdmin, domain.RoleSalesperson), cfg.Orders.CreateTask)
	orders.Get("/:id/history", cfg.Orders.History)

	tasks := app.Group("/tasks", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	tasks.Get("/:id", cfg.Tasks.Get)
	tasks.Post("/:id/status", cfg.Tasks.UpdateStatus)
	tasks.Post("/:id/files", cfg.Tasks.AttachFile)

	messages := app.Group("/messages", cfg.AuthMiddleware.Handle, auth.RequireAuthenticated())
	messages.Post("", cfg.Messages.Send)
	messages.Get("/:userID", cfg.Messages.Conversation)

	app.Use("/ws", cfg.Realtime.Upgrade)
	app.Get("/ws", cfg.Realtime.Session())
}
