package posmodels

import (
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item is a catalogue item. Price and cost come from the first variant when the item
// has none of its own.
type Item struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID   string             `json:"loyverse_id" bson:"loyverse_id" index:"unique"`
	Name         string             `json:"name" bson:"name" index:"text"`
	SKU          string             `json:"sku" bson:"sku" index:"single:1"`
	ReferenceID  string             `json:"reference_id" bson:"reference_id"`
	CategoryID   string             `json:"category_id" bson:"category_id"`
	Category     string             `json:"category" bson:"category"`
	Price        utility.Decimal    `json:"price" bson:"price"`
	Cost         utility.Decimal    `json:"cost" bson:"cost"`
	Barcode      string             `json:"barcode" bson:"barcode"`
	TrackStock   bool               `json:"track_stock" bson:"track_stock"`
	SoldByWeight bool               `json:"sold_by_weight" bson:"sold_by_weight"`
	Meta         MetaData           `json:"meta" bson:"meta"`
}
