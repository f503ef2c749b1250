package posmodels

import (
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Receipt statuses.
const (
	ReceiptClosed   = "closed"
	ReceiptRefunded = "refunded"
	ReceiptVoid     = "void"
)

type Payment struct {
	Method string          `json:"method" bson:"method"`
	Amount utility.Decimal `json:"amount" bson:"amount"`
}

type LineItem struct {
	ItemLoyverseID string          `json:"item_loyverse_id" bson:"item_loyverse_id"`
	Name           string          `json:"name" bson:"name"`
	Category       string          `json:"category" bson:"category"`
	Quantity       utility.Decimal `json:"quantity" bson:"quantity"`
	Price          utility.Decimal `json:"price" bson:"price"`
	Discount       utility.Decimal `json:"discount" bson:"discount"`
	Tax            utility.Decimal `json:"tax" bson:"tax"`
	Total          utility.Decimal `json:"total" bson:"total"`
}

// Receipt is a closed sale, refund or void. Reports only count closed receipts.
type Receipt struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID    string             `json:"loyverse_id" bson:"loyverse_id" index:"unique"`
	StoreID       string             `json:"store_id" bson:"store_id" index:"compound:store_closed"`
	Number        string             `json:"number" bson:"number"`
	Status        string             `json:"status" bson:"status" index:"single:1"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at"`
	ClosedAt      time.Time          `json:"closed_at" bson:"closed_at" index:"single:-1;compound:store_closed,order:-1"`
	EmployeeID    string             `json:"employee_id" bson:"employee_id" index:"single:1"`
	EmployeeName  string             `json:"employee_name" bson:"employee_name"`
	CustomerID    string             `json:"customer_id" bson:"customer_id"`
	CustomerName  string             `json:"customer_name" bson:"customer_name"`
	Subtotal      utility.Decimal    `json:"subtotal" bson:"subtotal"`
	DiscountTotal utility.Decimal    `json:"discount_total" bson:"discount_total"`
	TaxTotal      utility.Decimal    `json:"tax_total" bson:"tax_total"`
	Total         utility.Decimal    `json:"total" bson:"total"`
	Payments      []Payment          `json:"payments" bson:"payments"`
	LineItems     []LineItem         `json:"line_items" bson:"line_items"`
	ShiftID       string             `json:"shift_id" bson:"shift_id"`
	Meta          MetaData           `json:"meta" bson:"meta"`
}
