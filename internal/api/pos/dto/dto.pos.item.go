package posdto

import (
	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

type ItemCreateInput struct {
	LoyverseID   string          `json:"loyverse_id" validate:"omitempty,max=64"`
	Name         string          `json:"name" validate:"required,max=200,no_xss"`
	SKU          string          `json:"sku" validate:"max=64"`
	ReferenceID  string          `json:"reference_id" validate:"max=64"`
	CategoryID   string          `json:"category_id" validate:"max=64"`
	Category     string          `json:"category" validate:"max=100,no_xss"`
	Price        utility.Decimal `json:"price"`
	Cost         utility.Decimal `json:"cost"`
	Barcode      string          `json:"barcode" validate:"max=64"`
	TrackStock   bool            `json:"track_stock"`
	SoldByWeight bool            `json:"sold_by_weight"`
}

func (in ItemCreateInput) ToModel() (posmodels.Item, error) {
	return posmodels.Item{
		LoyverseID:   loyverseIDOrNew(in.LoyverseID),
		Name:         in.Name,
		SKU:          in.SKU,
		ReferenceID:  in.ReferenceID,
		CategoryID:   in.CategoryID,
		Category:     in.Category,
		Price:        in.Price,
		Cost:         in.Cost,
		Barcode:      in.Barcode,
		TrackStock:   in.TrackStock,
		SoldByWeight: in.SoldByWeight,
		Meta:         manualMeta(),
	}, nil
}

type ItemUpdateInput struct {
	Name         *string          `json:"name" validate:"omitempty,max=200,no_xss"`
	SKU          *string          `json:"sku" validate:"omitempty,max=64"`
	ReferenceID  *string          `json:"reference_id" validate:"omitempty,max=64"`
	CategoryID   *string          `json:"category_id" validate:"omitempty,max=64"`
	Category     *string          `json:"category" validate:"omitempty,max=100,no_xss"`
	Price        *utility.Decimal `json:"price"`
	Cost         *utility.Decimal `json:"cost"`
	Barcode      *string          `json:"barcode" validate:"omitempty,max=64"`
	TrackStock   *bool            `json:"track_stock"`
	SoldByWeight *bool            `json:"sold_by_weight"`
}

func (in ItemUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("name", in.Name)
	p.str("sku", in.SKU)
	p.str("reference_id", in.ReferenceID)
	p.str("category_id", in.CategoryID)
	p.str("category", in.Category)
	p.str("barcode", in.Barcode)
	if in.Price != nil {
		p["price"] = *in.Price
	}
	if in.Cost != nil {
		p["cost"] = *in.Cost
	}
	if in.TrackStock != nil {
		p["track_stock"] = *in.TrackStock
	}
	if in.SoldByWeight != nil {
		p["sold_by_weight"] = *in.SoldByWeight
	}
	return p.done()
}
