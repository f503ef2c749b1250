package posdto

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

type PurchaseOrderLineInput struct {
	ItemLoyverseID string          `json:"item_loyverse_id" validate:"required,max=64"`
	QtyOrdered     utility.Decimal `json:"qty_ordered"`
	QtyReceived    utility.Decimal `json:"qty_received"`
	UnitCost       utility.Decimal `json:"unit_cost"`
	Tax            utility.Decimal `json:"tax"`
}

func toLines(in []PurchaseOrderLineInput) []posmodels.PurchaseOrderLine {
	lines := make([]posmodels.PurchaseOrderLine, 0, len(in))
	for _, l := range in {
		lines = append(lines, posmodels.PurchaseOrderLine{
			ItemLoyverseID: l.ItemLoyverseID,
			QtyOrdered:     l.QtyOrdered,
			QtyReceived:    l.QtyReceived,
			UnitCost:       l.UnitCost,
			Tax:            l.Tax,
		})
	}
	return lines
}

type PurchaseOrderCreateInput struct {
	LoyverseID         string                   `json:"loyverse_id" validate:"omitempty,max=64"`
	SupplierLoyverseID string                   `json:"supplier_loyverse_id" validate:"required,max=64"`
	StoreID            string                   `json:"store_id" validate:"required,max=64"`
	Status             string                   `json:"status" validate:"omitempty,oneof=open received partial cancelled"`
	OrderedAt          *time.Time               `json:"ordered_at"`
	ReceivedAt         *time.Time               `json:"received_at"`
	Lines              []PurchaseOrderLineInput `json:"lines" validate:"dive"`
}

// ToModel derives the totals from the lines.
func (in PurchaseOrderCreateInput) ToModel() (posmodels.PurchaseOrder, error) {
	status := in.Status
	if status == "" {
		status = posmodels.POStatusOpen
	}
	ordered := time.Now().UTC()
	if in.OrderedAt != nil {
		ordered = in.OrderedAt.UTC()
	}
	if in.ReceivedAt != nil && in.ReceivedAt.Before(ordered) {
		return posmodels.PurchaseOrder{}, errors.New("received_at is before ordered_at")
	}
	po := posmodels.PurchaseOrder{
		LoyverseID:         loyverseIDOrNew(in.LoyverseID),
		SupplierLoyverseID: in.SupplierLoyverseID,
		StoreID:            in.StoreID,
		Status:             status,
		OrderedAt:          ordered,
		ReceivedAt:         in.ReceivedAt,
		Lines:              toLines(in.Lines),
		Meta:               manualMeta(),
	}
	po.ComputeTotals()
	return po, nil
}

type PurchaseOrderUpdateInput struct {
	Status     *string                   `json:"status" validate:"omitempty,oneof=open received partial cancelled"`
	ReceivedAt *time.Time                `json:"received_at"`
	Lines      *[]PurchaseOrderLineInput `json:"lines" validate:"omitempty,dive"`
}

// ToUpdate recomputes the totals when lines are replaced.
func (in PurchaseOrderUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("status", in.Status)
	if in.ReceivedAt != nil {
		p["received_at"] = in.ReceivedAt.UTC()
	}
	if in.Lines != nil {
		po := posmodels.PurchaseOrder{Lines: toLines(*in.Lines)}
		po.ComputeTotals()
		p["lines"] = po.Lines
		p["subtotal"] = po.Subtotal
		p["tax_total"] = po.TaxTotal
		p["total"] = po.Total
	}
	return p.done()
}
