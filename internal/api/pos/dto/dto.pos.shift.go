package posdto

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

// ShiftCreateInput is the body of POST /shifts. A shift created here has no
// loyverse_id unless one is given.
type ShiftCreateInput struct {
	LoyverseID  string          `json:"loyverse_id" validate:"omitempty,max=64"`
	StoreID     string          `json:"store_id" validate:"required,max=64"`
	EmployeeID  string          `json:"employee_id" validate:"max=64"`
	OpenedAt    time.Time       `json:"opened_at" validate:"required"`
	ClosedAt    *time.Time      `json:"closed_at"`
	OpeningCash utility.Decimal `json:"opening_cash"`
	CashSales   utility.Decimal `json:"cash_sales"`
	CardSales   utility.Decimal `json:"card_sales"`
	OtherSales  utility.Decimal `json:"other_sales"`
	CountedCash utility.Decimal `json:"counted_cash"`
	PayInTotal  utility.Decimal `json:"pay_in_total"`
	PayOutTotal utility.Decimal `json:"pay_out_total"`
	Notes       string          `json:"notes" validate:"max=2000,no_xss"`
}

// ToModel derives the status from closed_at and the reconciliation from the cash figures.
func (in ShiftCreateInput) ToModel() (posmodels.Shift, error) {
	opened := in.OpenedAt.UTC()
	var closed *time.Time
	status := posmodels.ShiftOpen
	if in.ClosedAt != nil {
		c := in.ClosedAt.UTC()
		if c.Before(opened) {
			return posmodels.Shift{}, errors.New("closed_at is before opened_at")
		}
		closed = &c
		status = posmodels.ShiftClosed
	}
	expected := in.OpeningCash.Add(in.CashSales)
	return posmodels.Shift{
		LoyverseID:     strings.TrimSpace(in.LoyverseID),
		StoreID:        in.StoreID,
		EmployeeID:     in.EmployeeID,
		Status:         status,
		OpenedAt:       opened,
		ClosedAt:       closed,
		OpeningCash:    in.OpeningCash,
		CashSales:      in.CashSales,
		CardSales:      in.CardSales,
		OtherSales:     in.OtherSales,
		ExpectedCash:   expected,
		CountedCash:    in.CountedCash,
		CashDifference: in.CountedCash.Sub(expected),
		PayInTotal:     in.PayInTotal,
		PayOutTotal:    in.PayOutTotal,
		Notes:          strings.TrimSpace(in.Notes),
		Meta:           manualMeta(),
	}, nil
}

// ShiftUpdateInput is the body of PATCH /shifts/:id. Totals derived from receipts are
// not writable here; POST /shifts/:id/recalculate refreshes them.
type ShiftUpdateInput struct {
	OpeningCash *utility.Decimal `json:"opening_cash"`
	CountedCash *utility.Decimal `json:"counted_cash"`
	PayInTotal  *utility.Decimal `json:"pay_in_total"`
	PayOutTotal *utility.Decimal `json:"pay_out_total"`
	Notes       *string          `json:"notes" validate:"omitempty,max=2000,no_xss"`
	EmployeeID  *string          `json:"employee_id" validate:"omitempty,max=64"`
}

func (in ShiftUpdateInput) ToUpdate() (bson.M, error) {
	p := patch{}
	p.str("notes", in.Notes)
	p.str("employee_id", in.EmployeeID)
	if in.OpeningCash != nil {
		p["opening_cash"] = *in.OpeningCash
	}
	if in.CountedCash != nil {
		p["counted_cash"] = *in.CountedCash
	}
	if in.PayInTotal != nil {
		p["pay_in_total"] = *in.PayInTotal
	}
	if in.PayOutTotal != nil {
		p["pay_out_total"] = *in.PayOutTotal
	}
	return p.done()
}
