// Package authhdl serves login, the current user and user administration.
package authhdl

import (
	"github.com/gofiber/fiber/v3"
	authdto "github.com/oacc1974/Golmarcadmion/internal/api/auth/dto"
	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	authsvc "github.com/oacc1974/Golmarcadmion/internal/api/auth/service"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	"github.com/oacc1974/Golmarcadmion/internal/api/middleware"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
)

// UserHandler serves /auth and /users.
type UserHandler struct {
	*basehdl.BaseHandler[models.User, authdto.CreateUserInput, authdto.UpdateUserInput]
	UserService *authsvc.UserService
}

// NewUserHandler wires the handler on svc.
func NewUserHandler(svc *authsvc.UserService) *UserHandler {
	base := basehdl.NewBaseHandler[models.User, authdto.CreateUserInput, authdto.UpdateUserInput](svc, "user")
	base.Filter = userFilter
	base.SortField = "email"
	return &UserHandler{BaseHandler: base, UserService: svc}
}

func userFilter(c fiber.Ctx) (bson.M, error) {
	filter := bson.M{}
	if role := c.Query("role"); role != "" {
		filter["role"] = role
	}
	switch c.Query("is_active") {
	case "true":
		filter["is_active"] = true
	case "false":
		filter["is_active"] = false
	}
	return filter, nil
}

// HandleLogin exchanges email and password for a token.
func (h *UserHandler) HandleLogin(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var input authdto.LoginInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		result, err := h.UserService.Login(logger.RequestContext(c), input)
		if err != nil {
			logger.LogAction("login_failed", c, map[string]interface{}{"email": authdto.NormalizeEmail(input.Email)})
			return basehdl.HandleResponse(c, nil, err)
		}
		c.Locals("userID", result.User.ID.Hex())
		c.Locals("userRole", result.User.Role)
		logger.LogAction("login", c, nil)
		return basehdl.HandleResponse(c, result, nil)
	})
}

// HandleMe returns the authenticated user.
func (h *UserHandler) HandleMe(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			return basehdl.HandleResponse(c, nil, common.ErrTokenMissing)
		}
		return basehdl.HandleResponse(c, user, nil)
	})
}
