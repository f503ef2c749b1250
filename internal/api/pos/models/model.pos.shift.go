package posmodels

import (
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Shift statuses.
const (
	ShiftOpen   = "open"
	ShiftClosed = "closed"
)

// Shift is a cash drawer session. LoyverseID is empty for shifts created locally.
type Shift struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LoyverseID     string             `json:"loyverse_id,omitempty" bson:"loyverse_id,omitempty" index:"unique,sparse"`
	StoreID        string             `json:"store_id" bson:"store_id" index:"compound:store_opened"`
	EmployeeID     string             `json:"employee_id" bson:"employee_id"`
	Status         string             `json:"status" bson:"status"`
	OpenedAt       time.Time          `json:"opened_at" bson:"opened_at" index:"compound:store_opened,order:-1"`
	ClosedAt       *time.Time         `json:"closed_at,omitempty" bson:"closed_at,omitempty"`
	OpeningCash    utility.Decimal    `json:"opening_cash" bson:"opening_cash"`
	CashSales      utility.Decimal    `json:"cash_sales" bson:"cash_sales"`
	CardSales      utility.Decimal    `json:"card_sales" bson:"card_sales"`
	OtherSales     utility.Decimal    `json:"other_sales" bson:"other_sales"`
	ExpectedCash   utility.Decimal    `json:"expected_cash" bson:"expected_cash"`
	CountedCash    utility.Decimal    `json:"counted_cash" bson:"counted_cash"`
	CashDifference utility.Decimal    `json:"cash_difference" bson:"cash_difference"`
	PayInTotal     utility.Decimal    `json:"pay_in_total" bson:"pay_in_total"`
	PayOutTotal    utility.Decimal    `json:"pay_out_total" bson:"pay_out_total"`
	Notes          string             `json:"notes" bson:"notes"`
	Meta           MetaData           `json:"meta" bson:"meta"`
}
