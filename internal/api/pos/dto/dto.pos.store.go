package posdto

import (
	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
)

type StoreCreateInput struct {
	LoyverseID  string `json:"loyverse_id" validate:"omitempty,max=64"`
	Name        string `json:"name" validate:"required,max=200,no_xss"`
	Address     string `json:"address" validate:"max=500,no_xss"`
	City        string `json:"city" validate:"max=100,no_xss"`
	State       string `json:"state" validate:"max=100,no_xss"`
	PostalCode  string `json:"postal_code" validate:"max=20"`
	Country     string `json:"country" validate:"max=100"`
	Phone       string `json:"phone" validate:"max=50"`
	Description string `json:"description" validate:"max=1000,no_xss"`
}

func (in StoreCreateInput) ToModel() (posmodels.Store, error) {
	return posmodels.Store{
		LoyverseID:  loyverseIDOrNew(in.LoyverseID),
		Name:        in.Name,
		Address:     in.Address,
		City:        in.City,
		State:       in.State,
		PostalCode:  in.PostalCode,
		Country:     in.Country,
		Phone:       in.Phone,
		Description: in.Description,
		Meta:        manualMeta(),
	}, nil
}

type StoreUpdateInput struct {
	Name        *string `json:"name" validate:"omitempty,max=200,no_xss"`
	Address     *string `json:"address" validate:"omitempty,max=500,no_xss"`
	City        *string `json:"city" validate:"omitempty,max=100,no_xss"`
	State       *string `json:"state" validate:"omitempty,max=100,no_xss"`
	PostalCode  *string `json:"postal_code" validate:"omitempty,max=20"`
	Country     *string `json:"country" validate:"omitempty,max=100"`
	Phone       *string `json:"phone" validate:"omitempty,max=50"`
	Description *string `json:"description" validate:"omitempty,max=1000,no_xss"`
}

func (in StoreUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("name", in.Name)
	p.str("address", in.Address)
	p.str("city", in.City)
	p.str("state", in.State)
	p.str("postal_code", in.PostalCode)
	p.str("country", in.Country)
	p.str("phone", in.Phone)
	p.str("description", in.Description)
	return p.done()
}
