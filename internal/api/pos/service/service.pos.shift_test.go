package possvc

import (
	"context"
	"errors"
	"testing"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) utility.Decimal { return utility.MustDecimal(s) }

func TestSumPaymentsByMethod(t *testing.T) {
	totals := SumPaymentsByMethod([]MethodTotal{
		{Method: "cash", Total: d("300")},
		{Method: "CASH", Total: d("150")},
		{Method: "card", Total: d("80.25")},
		{Method: "NONINTEGRATEDCARD", Total: d("19.75")},
		{Method: "voucher", Total: d("10")},
		{Method: "", Total: d("5")},
	})

	assert.True(t, d("450").Equal(totals.Cash), totals.Cash.String())
	assert.True(t, d("100").Equal(totals.Card), totals.Card.String())
	assert.True(t, d("15").Equal(totals.Other), totals.Other.String())
}

func TestRecalculateTotals(t *testing.T) {
	shift := posmodels.Shift{
		OpeningCash: d("100.00"),
		CountedCash: d("548.50"),
	}

	t.Run("🧮 expected cash and difference", func(t *testing.T) {
		out := RecalculateTotals(shift, SumPaymentsByMethod([]MethodTotal{
			{Method: "cash", Total: d("450.00")},
			{Method: "card", Total: d("200.00")},
		}))

		assert.True(t, d("550.00").Equal(out.ExpectedCash), out.ExpectedCash.String())
		assert.True(t, d("-1.50").Equal(out.CashDifference), out.CashDifference.String())
		assert.True(t, d("200").Equal(out.CardSales))
		assert.True(t, utility.ZeroDecimal.Equal(out.OtherSales))
	})

	t.Run("🫙 no receipts", func(t *testing.T) {
		out := RecalculateTotals(shift, SumPaymentsByMethod(nil))
		assert.True(t, d("100").Equal(out.ExpectedCash))
		assert.True(t, d("448.50").Equal(out.CashDifference))
	})

	t.Run("🔒 input is not mutated", func(t *testing.T) {
		_ = RecalculateTotals(shift, PaymentTotals{Cash: d("1")})
		assert.True(t, utility.ZeroDecimal.Equal(shift.ExpectedCash))
	})
}

func TestShiftWindow(t *testing.T) {
	opened := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	from, to := ShiftWindow(posmodels.Shift{OpenedAt: opened}, now)
	assert.Equal(t, opened, from)
	assert.Equal(t, now, to)

	closed := time.Date(2024, 3, 1, 16, 0, 0, 0, time.UTC)
	_, to = ShiftWindow(posmodels.Shift{OpenedAt: opened, ClosedAt: &closed}, now)
	assert.Equal(t, closed, to)
}

func TestPaymentBucket(t *testing.T) {
	cases := map[string]string{"cash": "cash", " Cash ": "cash", "CARD": "card", "NONINTEGRATEDCARD": "card", "OTHER": "other", "": "other"}
	for in, want := range cases {
		assert.Equal(t, want, PaymentBucket(in), in)
	}
}

type methodTotals struct {
	rows    []MethodTotal
	storeID string
	calls   int
}

func (m *methodTotals) TotalsByMethod(_ context.Context, storeID string, _, _ time.Time) ([]MethodTotal, error) {
	m.calls++
	m.storeID = storeID
	return m.rows, nil
}

func TestRecalculate(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	opened := now.Add(-4 * time.Hour)

	t.Run("🏪 reads the receipts of the shift store", func(t *testing.T) {
		totals := &methodTotals{rows: []MethodTotal{{Method: "cash", Total: d("450")}}}
		s := &ShiftService{receipts: totals, now: func() time.Time { return now }}

		out, err := s.recalculate(context.Background(), posmodels.Shift{StoreID: "st-1", OpenedAt: opened, OpeningCash: d("100")})
		require.NoError(t, err)
		assert.Equal(t, "st-1", totals.storeID)
		assert.True(t, d("550").Equal(out.ExpectedCash))
	})

	t.Run("🚫 shift without store", func(t *testing.T) {
		totals := &methodTotals{}
		s := &ShiftService{receipts: totals, now: func() time.Time { return now }}

		_, err := s.recalculate(context.Background(), posmodels.Shift{OpenedAt: opened})
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusBadRequest, appErr.StatusCode)
		assert.Equal(t, 0, totals.calls)
	})
}
