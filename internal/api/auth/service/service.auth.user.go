// Package authsvc holds user persistence, login and token handling.
package authsvc

import (
	"context"
	"errors"
	"time"

	authdto "github.com/oacc1974/Golmarcadmion/internal/api/auth/dto"
	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	basesvc "github.com/oacc1974/Golmarcadmion/internal/api/base/service"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService stores users in auth_users and authenticates them.
type UserService struct {
	*basesvc.BaseServiceMongoImpl[models.User]
	tokens *TokenService
}

// NewUserService binds to the registered users collection.
func NewUserService(tokens *TokenService) (*UserService, error) {
	base, err := basesvc.NewBaseServiceFromRegistry[models.User](global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	return &UserService{BaseServiceMongoImpl: base, tokens: tokens}, nil
}

// Login checks the credentials and issues a token. Unknown email and wrong password
// produce the same error.
func (s *UserService) Login(ctx context.Context, input authdto.LoginInput) (*models.LoginResult, error) {
	user, err := s.FindOne(ctx, bson.M{"email": authdto.NormalizeEmail(input.Email)}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
		return nil, common.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, common.ErrUserInactive
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.UpdateOneFields(ctx, bson.M{"_id": user.ID}, bson.M{"last_login": now}); err != nil {
		logger.WithContext(ctx).WithError(err).Warn("🔐 [AUTH] Cannot record last login")
	} else {
		user.LastLogin = &now
	}
	return &models.LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate parses the bearer token and reloads the user, so deactivated accounts
// lose access before their token expires.
func (s *UserService) Authenticate(ctx context.Context, raw string) (*models.User, error) {
	claims, err := s.tokens.Parse(raw)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return nil, common.ErrTokenInvalid
	}
	user, err := s.FindOneById(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, common.ErrUserInactive
	}
	return &user, nil
}

// SeedAdmin creates an admin with email when no admin exists yet. Empty email or
// password skips seeding.
func (s *UserService) SeedAdmin(ctx context.Context, email, password, name string) error {
	log := logger.WithContext(ctx)
	if email == "" || password == "" {
		log.Debug("🔐 [AUTH] Admin seed skipped: ADMIN_EMAIL or ADMIN_PASSWORD empty")
		return nil
	}
	n, err := s.CountDocuments(ctx, bson.M{"role": models.RoleAdmin})
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	user, err := authdto.CreateUserInput{Email: email, Password: password, Name: name, Role: models.RoleAdmin}.ToModel()
	if err != nil {
		return err
	}
	if _, err := s.InsertOne(ctx, user); err != nil {
		return err
	}
	log.WithField("email", user.Email).Info("🔐 [AUTH] Seeded admin user")
	return nil
}
