package possvc

import (
	"context"
	"strings"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PaymentTotals are the sales of a shift split into the three drawer buckets.
type PaymentTotals struct {
	Cash  utility.Decimal `json:"cash"`
	Card  utility.Decimal `json:"card"`
	Other utility.Decimal `json:"other"`
}

// PaymentBucket maps a payment method onto cash, card or other. Matching is case
// insensitive and any method naming a card (CARD, NONINTEGRATEDCARD) counts as card.
func PaymentBucket(method string) string {
	m := strings.ToLower(strings.TrimSpace(method))
	switch {
	case m == "cash":
		return "cash"
	case strings.Contains(m, "card"):
		return "card"
	default:
		return "other"
	}
}

// SumPaymentsByMethod folds per-method totals into PaymentTotals.
func SumPaymentsByMethod(rows []MethodTotal) PaymentTotals {
	t := PaymentTotals{Cash: utility.ZeroDecimal, Card: utility.ZeroDecimal, Other: utility.ZeroDecimal}
	for _, r := range rows {
		switch PaymentBucket(r.Method) {
		case "cash":
			t.Cash = t.Cash.Add(r.Total)
		case "card":
			t.Card = t.Card.Add(r.Total)
		default:
			t.Other = t.Other.Add(r.Total)
		}
	}
	return t
}

// RecalculateTotals applies totals to shift:
//
//	expected_cash   = opening_cash + cash_sales
//	cash_difference = counted_cash - expected_cash
func RecalculateTotals(shift posmodels.Shift, totals PaymentTotals) posmodels.Shift {
	shift.CashSales = totals.Cash
	shift.CardSales = totals.Card
	shift.OtherSales = totals.Other
	shift.ExpectedCash = shift.OpeningCash.Add(shift.CashSales)
	shift.CashDifference = shift.CountedCash.Sub(shift.ExpectedCash)
	return shift
}

func totalsSet(s posmodels.Shift) bson.M {
	return bson.M{
		"cash_sales":            s.CashSales,
		"card_sales":            s.CardSales,
		"other_sales":           s.OtherSales,
		"expected_cash":         s.ExpectedCash,
		"cash_difference":       s.CashDifference,
		"meta.last_modified_at": time.Now().UTC(),
	}
}

// methodTotaler is the part of ReceiptService the recalculation needs.
type methodTotaler interface {
	TotalsByMethod(ctx context.Context, storeID string, from, to time.Time) ([]MethodTotal, error)
}

// ShiftService stores shifts and reconciles them against receipts.
type ShiftService struct {
	*EntityService[posmodels.Shift]
	receipts methodTotaler
	now      func() time.Time
}

func NewShiftService(receipts *ReceiptService) (*ShiftService, error) {
	base, err := NewEntityService[posmodels.Shift](global.MongoDB_ColNames.Shifts, "shift")
	if err != nil {
		return nil, err
	}
	return &ShiftService{EntityService: base, receipts: receipts, now: time.Now}, nil
}

// ShiftWindow is the closed_at range of receipts belonging to shift. An open shift
// ends now.
func ShiftWindow(shift posmodels.Shift, now time.Time) (time.Time, time.Time) {
	end := now.UTC()
	if shift.ClosedAt != nil {
		end = shift.ClosedAt.UTC()
	}
	return shift.OpenedAt.UTC(), end
}

// RecalculateShiftTotals recomputes the sales and cash reconciliation of shift id
// from the closed receipts of its store inside its window.
func (s *ShiftService) RecalculateShiftTotals(ctx context.Context, id primitive.ObjectID) (posmodels.Shift, error) {
	shift, err := s.FindOneById(ctx, id)
	if err != nil {
		return shift, err
	}
	recalculated, err := s.recalculate(ctx, shift)
	if err != nil {
		return shift, err
	}

	updated, err := s.UpdateById(ctx, id, bson.M{"$set": totalsSet(recalculated)})
	if err != nil {
		return shift, err
	}
	logger.WithContext(ctx).WithFields(map[string]interface{}{
		"shift_id":        id.Hex(),
		"expected_cash":   updated.ExpectedCash.String(),
		"cash_difference": updated.CashDifference.String(),
	}).Info("🧮 [SHIFT] Totals recalculated")
	return updated, nil
}

// recalculate reads the receipt totals of shift. A shift without a store would
// match the receipts of every store, so it is refused.
func (s *ShiftService) recalculate(ctx context.Context, shift posmodels.Shift) (posmodels.Shift, error) {
	if shift.StoreID == "" {
		return shift, common.InvalidInput("shift has no store_id; totals cannot be recalculated", nil)
	}
	from, to := ShiftWindow(shift, s.now())
	rows, err := s.receipts.TotalsByMethod(ctx, shift.StoreID, from, to)
	if err != nil {
		return shift, err
	}
	return RecalculateTotals(shift, SumPaymentsByMethod(rows)), nil
}

// PatchShift merges set into shift id, then refreshes expected_cash and
// cash_difference from the stored sales so they stay consistent with the patch.
func (s *ShiftService) PatchShift(ctx context.Context, id primitive.ObjectID, set bson.M) (posmodels.Shift, error) {
	patched, err := s.UpdateById(ctx, id, bson.M{"$set": set})
	if err != nil {
		return patched, err
	}
	_, touchesCash := set["opening_cash"]
	_, touchesCounted := set["counted_cash"]
	if !touchesCash && !touchesCounted {
		return patched, nil
	}
	totals := PaymentTotals{Cash: patched.CashSales, Card: patched.CardSales, Other: patched.OtherSales}
	return s.UpdateById(ctx, id, bson.M{"$set": totalsSet(RecalculateTotals(patched, totals))})
}
