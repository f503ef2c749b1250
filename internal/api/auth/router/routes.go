// Package router mounts the auth, user and system routes.
package router

import (
	"github.com/gofiber/fiber/v3"
	authhdl "github.com/oacc1974/Golmarcadmion/internal/api/auth/handler"
	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	authsvc "github.com/oacc1974/Golmarcadmion/internal/api/auth/service"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	apirouter "github.com/oacc1974/Golmarcadmion/internal/api/router"
)

// Register returns the RegisterFunc of the auth domain.
func Register(users *authsvc.UserService, system *basehdl.SystemHandler) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		h := authhdl.NewUserHandler(users)

		v1.Get("/system/health", system.HandleHealth)

		v1.Post("/auth/login", h.HandleLogin)
		apirouter.RegisterRouteWithMiddleware(v1, "/auth", fiber.MethodGet, "/me", []fiber.Handler{r.Auth()}, h.HandleMe)

		admin := []string{models.RoleAdmin}
		r.RegisterCRUDRoutes(v1, "/users", h, apirouter.CRUDConfig{List: true, Get: true, Create: true, Update: true, Delete: true}, admin, admin)
		return nil
	}
}
