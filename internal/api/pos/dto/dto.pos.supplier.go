package posdto

import (
	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
)

type SupplierCreateInput struct {
	LoyverseID string `json:"loyverse_id" validate:"omitempty,max=64"`
	Name       string `json:"name" validate:"required,max=200,no_xss"`
	Contact    string `json:"contact" validate:"max=200,no_xss"`
	Email      string `json:"email" validate:"omitempty,email"`
	Phone      string `json:"phone" validate:"max=50"`
	Address    string `json:"address" validate:"max=500,no_xss"`
}

func (in SupplierCreateInput) ToModel() (posmodels.Supplier, error) {
	return posmodels.Supplier{
		LoyverseID: loyverseIDOrNew(in.LoyverseID),
		Name:       in.Name,
		Contact:    in.Contact,
		Email:      in.Email,
		Phone:      in.Phone,
		Address:    in.Address,
		Meta:       manualMeta(),
	}, nil
}

type SupplierUpdateInput struct {
	Name    *string `json:"name" validate:"omitempty,max=200,no_xss"`
	Contact *string `json:"contact" validate:"omitempty,max=200,no_xss"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Address *string `json:"address" validate:"omitempty,max=500,no_xss"`
}

func (in SupplierUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("name", in.Name)
	p.str("contact", in.Contact)
	p.str("email", in.Email)
	p.str("phone", in.Phone)
	p.str("address", in.Address)
	return p.done()
}
