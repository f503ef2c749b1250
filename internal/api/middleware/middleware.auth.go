package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/sirupsen/logrus"
)

// Authenticator resolves a bearer token to an active user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware requires a valid bearer token and, when roles is not empty, one of
// roles. On success it stores userID, userRole and user in the locals.
func AuthMiddleware(auth Authenticator, roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			logger.WithRequest(c).Warn("❌ [AUTH] Missing Authorization header")
			return HandleErrorResponse(c, common.ErrTokenMissing)
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			return HandleErrorResponse(c, common.ErrTokenInvalid)
		}

		user, err := auth.Authenticate(logger.RequestContext(c), strings.TrimSpace(parts[1]))
		if err != nil {
			var appErr *common.Error
			if !errors.As(err, &appErr) {
				err = common.ErrTokenInvalid
			}
			logger.WithRequest(c).WithError(err).Warn("❌ [AUTH] Token rejected")
			return HandleErrorResponse(c, err)
		}

		c.Locals("userID", user.ID.Hex())
		c.Locals("userRole", user.Role)
		c.Locals("user", *user)

		if len(allowed) > 0 && !allowed[user.Role] {
			logger.WithRequest(c).WithFields(logrus.Fields{
				"user_id": user.ID.Hex(),
				"role":    user.Role,
				"allowed": roles,
			}).Warn("❌ [AUTH] Role not allowed")
			return HandleErrorResponse(c, common.ErrRoleForbidden)
		}
		return c.Next()
	}
}

// NewAuthFactory binds auth so routers only pick the roles.
func NewAuthFactory(auth Authenticator) func(roles ...string) fiber.Handler {
	return func(roles ...string) fiber.Handler {
		return AuthMiddleware(auth, roles...)
	}
}

// CurrentUser returns the user stored by AuthMiddleware.
func CurrentUser(c fiber.Ctx) (models.User, bool) {
	u, ok := c.Locals("user").(models.User)
	return u, ok
}
