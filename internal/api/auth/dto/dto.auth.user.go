// Package authdto holds the request bodies of the auth routes.
package authdto

import (
	"strings"
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

// LoginInput is the body of POST /auth/login.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// CreateUserInput is the body of POST /users.
type CreateUserInput struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8,max=72"`
	Name     string   `json:"name" validate:"required,max=100,no_xss"`
	Role     string   `json:"role" validate:"required,user_role"`
	StoreIDs []string `json:"store_ids"`
	IsActive *bool    `json:"is_active"`
}

// ToModel hashes the password and stamps the timestamps.
func (in CreateUserInput) ToModel() (models.User, error) {
	hash, err := HashPassword(in.Password)
	if err != nil {
		return models.User{}, err
	}
	now := time.Now().UTC()
	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	storeIDs := in.StoreIDs
	if storeIDs == nil {
		storeIDs = []string{}
	}
	return models.User{
		Email:     NormalizeEmail(in.Email),
		Password:  hash,
		Name:      strings.TrimSpace(in.Name),
		Role:      in.Role,
		IsActive:  active,
		StoreIDs:  storeIDs,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// UpdateUserInput is the body of PATCH /users/:id. Absent fields are left untouched.
type UpdateUserInput struct {
	Name     *string   `json:"name" validate:"omitempty,max=100,no_xss"`
	Password *string   `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string   `json:"role" validate:"omitempty,user_role"`
	IsActive *bool     `json:"is_active"`
	StoreIDs *[]string `json:"store_ids"`
}

// ToUpdate returns only the fields present in the request.
func (in UpdateUserInput) ToUpdate() (bson.M, error) {
	set := bson.M{}
	if in.Name != nil {
		set["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Password != nil {
		hash, err := HashPassword(*in.Password)
		if err != nil {
			return nil, err
		}
		set["password"] = hash
	}
	if in.Role != nil {
		set["role"] = *in.Role
	}
	if in.IsActive != nil {
		set["is_active"] = *in.IsActive
	}
	if in.StoreIDs != nil {
		set["store_ids"] = *in.StoreIDs
	}
	if len(set) > 0 {
		set["updated_at"] = time.Now().UTC()
	}
	return set, nil
}

// HashPassword returns the bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// NormalizeEmail lowercases and trims email.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
