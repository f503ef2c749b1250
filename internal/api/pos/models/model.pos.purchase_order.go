package posmodels

import (
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Purchase order statuses.
const (
	POStatusOpen      = "open"
	POStatusReceived  = "received"
	POStatusPartial   = "partial"
	POStatusCancelled = "cancelled"
)

type PurchaseOrderLine struct {
	ItemLoyverseID string          `json:"item_loyverse_id" bson:"item_loyverse_id"`
	QtyOrdered     utility.Decimal `json:"qty_ordered" bson:"qty_ordered"`
	QtyReceived    utility.Decimal `json:"qty_received" bson:"qty_received"`
	UnitCost       utility.Decimal `json:"unit_cost" bson:"unit_cost"`
	Tax            utility.Decimal `json:"tax" bson:"tax"`
}

// PurchaseOrder is an order placed with a supplier for one store.
type PurchaseOrder struct {
	ID                 primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID         string              `json:"loyverse_id" bson:"loyverse_id" index:"unique"`
	SupplierLoyverseID string              `json:"supplier_loyverse_id" bson:"supplier_loyverse_id" index:"single:1"`
	StoreID            string              `json:"store_id" bson:"store_id" index:"single:1"`
	Status             string              `json:"status" bson:"status"`
	OrderedAt          time.Time           `json:"ordered_at" bson:"ordered_at"`
	ReceivedAt         *time.Time          `json:"received_at,omitempty" bson:"received_at,omitempty"`
	Lines              []PurchaseOrderLine `json:"lines" bson:"lines"`
	Subtotal           utility.Decimal     `json:"subtotal" bson:"subtotal"`
	TaxTotal           utility.Decimal     `json:"tax_total" bson:"tax_total"`
	Total              utility.Decimal     `json:"total" bson:"total"`
	Meta               MetaData            `json:"meta" bson:"meta"`
}

// ComputeTotals derives subtotal, tax_total and total from the lines.
func (po *PurchaseOrder) ComputeTotals() {
	subtotal := utility.ZeroDecimal
	tax := utility.ZeroDecimal
	for _, l := range po.Lines {
		subtotal = subtotal.Add(l.QtyOrdered.Mul(l.UnitCost))
		tax = tax.Add(l.Tax)
	}
	po.Subtotal = subtotal
	po.TaxTotal = tax
	po.Total = subtotal.Add(tax)
}
