package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Directorio-api/internal/application/auth"
	"github.com/jhoicas/Directorio-api/internal/application/report"
	"github.com/jhoicas/Directorio-api/internal/application/usecase"
	"github.com/jhoicas/Directorio-api/internal/domain/entity"
	"github.com/jhoicas/Directorio-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	UserUC    *usecase.UserUseCase
	AuthUC    *auth.AuthUseCase
	RosterUC  *report.RosterUseCase
	JWTSecret string
	Logger    *logger.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC, log)
	api.Post("/auth/login", authHandler.Login)

	// Directorio (requiere Bearer Token)
	users := api.Group("/users", AuthMiddleware(deps.JWTSecret), RequireActiveAccount(deps.AuthUC))
	userHandler := NewUserHandler(deps.UserUC, deps.RosterUC, log)
	users.Get("/", userHandler.List)
	users.Post("/", RequireRole(entity.RoleAdmin, entity.RoleManager), userHandler.Create)
	users.Patch("/", RequireRole(entity.RoleAdmin, entity.RoleManager), userHandler.Update)
	users.Delete("/", RequireRole(entity.RoleAdmin), userHandler.Delete)
	if deps.RosterUC != nil {
		users.Get("/roster.pdf", userHandler.Roster)
	}
}
