package posdto

import (
	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
)

type EmployeeCreateInput struct {
	LoyverseID string   `json:"loyverse_id" validate:"omitempty,max=64"`
	Name       string   `json:"name" validate:"required,max=200,no_xss"`
	Email      string   `json:"email" validate:"omitempty,email"`
	Phone      string   `json:"phone" validate:"max=50"`
	Role       string   `json:"role" validate:"max=50,no_xss"`
	StoreIDs   []string `json:"store_ids"`
	IsOwner    bool     `json:"is_owner"`
}

func (in EmployeeCreateInput) ToModel() (posmodels.Employee, error) {
	storeIDs := in.StoreIDs
	if storeIDs == nil {
		storeIDs = []string{}
	}
	return posmodels.Employee{
		LoyverseID: loyverseIDOrNew(in.LoyverseID),
		Name:       in.Name,
		Email:      in.Email,
		Phone:      in.Phone,
		Role:       in.Role,
		StoreIDs:   storeIDs,
		IsOwner:    in.IsOwner,
		Meta:       manualMeta(),
	}, nil
}

type EmployeeUpdateInput struct {
	Name     *string   `json:"name" validate:"omitempty,max=200,no_xss"`
	Email    *string   `json:"email" validate:"omitempty,email"`
	Phone    *string   `json:"phone" validate:"omitempty,max=50"`
	Role     *string   `json:"role" validate:"omitempty,max=50,no_xss"`
	StoreIDs *[]string `json:"store_ids"`
	IsOwner  *bool     `json:"is_owner"`
}

func (in EmployeeUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("name", in.Name)
	p.str("email", in.Email)
	p.str("phone", in.Phone)
	p.str("role", in.Role)
	if in.StoreIDs != nil {
		p["store_ids"] = *in.StoreIDs
	}
	if in.IsOwner != nil {
		p["is_owner"] = *in.IsOwner
	}
	return p.done()
}
