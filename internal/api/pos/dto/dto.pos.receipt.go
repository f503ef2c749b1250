package posdto

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

type PaymentInput struct {
	Method string          `json:"method" validate:"required,max=64"`
	Amount utility.Decimal `json:"amount"`
}

type LineItemInput struct {
	ItemLoyverseID string          `json:"item_loyverse_id" validate:"max=64"`
	Name           string          `json:"name" validate:"required,max=200,no_xss"`
	Category       string          `json:"category" validate:"max=200,no_xss"`
	Quantity       utility.Decimal `json:"quantity"`
	Price          utility.Decimal `json:"price"`
	Discount       utility.Decimal `json:"discount"`
	Tax            utility.Decimal `json:"tax"`
	Total          utility.Decimal `json:"total"`
}

func toPayments(in []PaymentInput) []posmodels.Payment {
	out := make([]posmodels.Payment, 0, len(in))
	for _, p := range in {
		out = append(out, posmodels.Payment{Method: p.Method, Amount: p.Amount})
	}
	return out
}

func toLineItems(in []LineItemInput) []posmodels.LineItem {
	out := make([]posmodels.LineItem, 0, len(in))
	for _, l := range in {
		out = append(out, posmodels.LineItem{
			ItemLoyverseID: l.ItemLoyverseID,
			Name:           l.Name,
			Category:       l.Category,
			Quantity:       l.Quantity,
			Price:          l.Price,
			Discount:       l.Discount,
			Tax:            l.Tax,
			Total:          l.Total,
		})
	}
	return out
}

// ReceiptCreateInput is the body of POST /receipts, used to correct the mirror by hand.
type ReceiptCreateInput struct {
	LoyverseID    string          `json:"loyverse_id" validate:"omitempty,max=64"`
	StoreID       string          `json:"store_id" validate:"required,max=64"`
	Number        string          `json:"number" validate:"required,max=64"`
	Status        string          `json:"status" validate:"omitempty,oneof=closed refunded void"`
	CreatedAt     *time.Time      `json:"created_at"`
	ClosedAt      *time.Time      `json:"closed_at"`
	EmployeeID    string          `json:"employee_id" validate:"max=64"`
	EmployeeName  string          `json:"employee_name" validate:"max=200,no_xss"`
	CustomerID    string          `json:"customer_id" validate:"max=64"`
	CustomerName  string          `json:"customer_name" validate:"max=200,no_xss"`
	Subtotal      utility.Decimal `json:"subtotal"`
	DiscountTotal utility.Decimal `json:"discount_total"`
	TaxTotal      utility.Decimal `json:"tax_total"`
	Total         utility.Decimal `json:"total"`
	Payments      []PaymentInput  `json:"payments" validate:"dive"`
	LineItems     []LineItemInput `json:"line_items" validate:"dive"`
	ShiftID       string          `json:"shift_id" validate:"max=64"`
}

// ToModel defaults the status to closed and both timestamps to now.
func (in ReceiptCreateInput) ToModel() (posmodels.Receipt, error) {
	status := in.Status
	if status == "" {
		status = posmodels.ReceiptClosed
	}
	closed := time.Now().UTC()
	if in.ClosedAt != nil {
		closed = in.ClosedAt.UTC()
	}
	created := closed
	if in.CreatedAt != nil {
		created = in.CreatedAt.UTC()
	}
	if closed.Before(created) {
		return posmodels.Receipt{}, errors.New("closed_at is before created_at")
	}
	return posmodels.Receipt{
		LoyverseID:    loyverseIDOrNew(in.LoyverseID),
		StoreID:       in.StoreID,
		Number:        in.Number,
		Status:        status,
		CreatedAt:     created,
		ClosedAt:      closed,
		EmployeeID:    in.EmployeeID,
		EmployeeName:  in.EmployeeName,
		CustomerID:    in.CustomerID,
		CustomerName:  in.CustomerName,
		Subtotal:      in.Subtotal,
		DiscountTotal: in.DiscountTotal,
		TaxTotal:      in.TaxTotal,
		Total:         in.Total,
		Payments:      toPayments(in.Payments),
		LineItems:     toLineItems(in.LineItems),
		ShiftID:       in.ShiftID,
		Meta:          manualMeta(),
	}, nil
}

// ReceiptUpdateInput is the body of PATCH /receipts/:id.
type ReceiptUpdateInput struct {
	Status       *string         `json:"status" validate:"omitempty,oneof=closed refunded void"`
	Number       *string         `json:"number" validate:"omitempty,max=64"`
	ClosedAt     *time.Time      `json:"closed_at"`
	EmployeeID   *string         `json:"employee_id" validate:"omitempty,max=64"`
	EmployeeName *string         `json:"employee_name" validate:"omitempty,max=200,no_xss"`
	CustomerID   *string         `json:"customer_id" validate:"omitempty,max=64"`
	CustomerName *string         `json:"customer_name" validate:"omitempty,max=200,no_xss"`
	ShiftID      *string         `json:"shift_id" validate:"omitempty,max=64"`
	Payments     *[]PaymentInput `json:"payments" validate:"omitempty,dive"`
}

func (in ReceiptUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("status", in.Status)
	p.str("number", in.Number)
	p.str("employee_id", in.EmployeeID)
	p.str("employee_name", in.EmployeeName)
	p.str("customer_id", in.CustomerID)
	p.str("customer_name", in.CustomerName)
	p.str("shift_id", in.ShiftID)
	if in.ClosedAt != nil {
		p["closed_at"] = in.ClosedAt.UTC()
	}
	if in.Payments != nil {
		p["payments"] = toPayments(*in.Payments)
	}
	return p.done()
}
