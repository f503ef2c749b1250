package reportsvc

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/api/events"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func d(s string) utility.Decimal { return utility.MustDecimal(s) }

type fakeReceipts struct {
	daily    []possvc.DailyTotal
	payments []possvc.PaymentTotal
	err      error
	calls    int
	from, to time.Time
	storeID  string
}

func (f *fakeReceipts) TotalsByDateRange(_ context.Context, storeID string, from, to time.Time) ([]possvc.DailyTotal, error) {
	f.calls++
	f.storeID, f.from, f.to = storeID, from, to
	return f.daily, f.err
}

func (f *fakeReceipts) TotalsByPaymentMethod(_ context.Context, _ string, _, _ time.Time) ([]possvc.PaymentTotal, error) {
	return f.payments, f.err
}

type fakeShifts struct {
	shifts []posmodels.Shift
	filter interface{}
}

func (f *fakeShifts) Find(_ context.Context, filter interface{}, _ *options.FindOptions) ([]posmodels.Shift, error) {
	f.filter = filter
	return f.shifts, nil
}

func newTestService(r *fakeReceipts, sh *fakeShifts, now time.Time) *ReportService {
	s := newReportService(r, sh)
	s.now = func() time.Time { return now }
	return s
}

func TestSalesSummary(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := utility.EndOfDay(time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))

	t.Run("💰 totals and average ticket", func(t *testing.T) {
		r := &fakeReceipts{
			daily: []possvc.DailyTotal{
				{Date: "2024-03-01", TotalSales: d("100.00"), ReceiptCount: 2},
				{Date: "2024-03-02", TotalSales: d("50.00"), ReceiptCount: 1},
			},
			payments: []possvc.PaymentTotal{{Date: "2024-03-01", Method: "CASH", Total: d("100.00")}},
		}
		s := newTestService(r, &fakeShifts{}, time.Now())
		defer s.Close()

		out, err := s.SalesSummary(context.Background(), from, to, "st-1")
		require.NoError(t, err)
		assert.True(t, d("150").Equal(out.TotalSales), out.TotalSales.String())
		assert.Equal(t, int64(3), out.TotalReceipts)
		assert.True(t, d("50").Equal(out.AverageTicket), out.AverageTicket.String())
		assert.Equal(t, "st-1", out.StoreID)
		assert.Equal(t, "st-1", r.storeID)
		assert.Len(t, out.PaymentMethods, 1)
	})

	t.Run("🫙 no sales", func(t *testing.T) {
		s := newTestService(&fakeReceipts{}, &fakeShifts{}, time.Now())
		defer s.Close()

		out, err := s.SalesSummary(context.Background(), from, to, "")
		require.NoError(t, err)
		assert.True(t, out.TotalSales.IsZero())
		assert.True(t, out.AverageTicket.IsZero())
		assert.NotNil(t, out.DailySales)
		assert.NotNil(t, out.PaymentMethods)
	})

	t.Run("❌ store error", func(t *testing.T) {
		s := newTestService(&fakeReceipts{err: errors.New("boom")}, &fakeShifts{}, time.Now())
		defer s.Close()

		_, err := s.SalesSummary(context.Background(), from, to, "")
		assert.Error(t, err)
	})
}

func TestShiftSummary(t *testing.T) {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := utility.EndOfDay(from)
	sh := &fakeShifts{shifts: []posmodels.Shift{
		{OpeningCash: d("100"), CashSales: d("200"), CardSales: d("50"), ExpectedCash: d("300"), CountedCash: d("298"), CashDifference: d("-2")},
		{OpeningCash: d("50"), CashSales: d("10"), OtherSales: d("5"), ExpectedCash: d("60"), CountedCash: d("61"), CashDifference: d("1")},
	}}
	s := newTestService(&fakeReceipts{}, sh, time.Now())
	defer s.Close()

	out, err := s.ShiftSummary(context.Background(), from, to, "st-1")
	require.NoError(t, err)

	assert.Equal(t, 2, out.ShiftCount)
	assert.True(t, d("150").Equal(out.OpeningCash))
	assert.True(t, d("210").Equal(out.CashSales))
	assert.True(t, d("50").Equal(out.CardSales))
	assert.True(t, d("5").Equal(out.OtherSales))
	assert.True(t, d("360").Equal(out.ExpectedCash))
	assert.True(t, d("359").Equal(out.CountedCash))
	assert.True(t, d("-1").Equal(out.TotalCashDifference), out.TotalCashDifference.String())

	filter, ok := sh.filter.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "st-1", filter["store_id"])
	assert.Equal(t, bson.M{"$gte": from, "$lte": to}, filter["opened_at"])
}

func TestDashboardWindows(t *testing.T) {
	t.Run("📅 mid month wednesday", func(t *testing.T) {
		now := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
		earliest, week, month := dashboardWindows(now)
		assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), week)
		assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), month)
		assert.Equal(t, month, earliest)
	})

	t.Run("📅 first of month reaches back to yesterday", func(t *testing.T) {
		now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC) // wednesday
		earliest, week, _ := dashboardWindows(now)
		assert.Equal(t, time.Date(2024, 4, 28, 0, 0, 0, 0, time.UTC), week)
		assert.Equal(t, week, earliest)
	})
}

func TestBuildDashboard(t *testing.T) {
	now := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
	out := buildDashboard(now, []possvc.DailyTotal{
		{Date: "2024-03-02", TotalSales: d("40"), ReceiptCount: 1},
		{Date: "2024-03-11", TotalSales: d("60"), ReceiptCount: 2},
		{Date: "2024-03-12", TotalSales: d("80"), ReceiptCount: 4},
		{Date: "2024-03-13", TotalSales: d("100"), ReceiptCount: 5},
	})

	assert.Equal(t, "2024-03-13", out.Today.Date)
	assert.True(t, d("100").Equal(out.Today.TotalSales))
	assert.Equal(t, int64(5), out.Today.ReceiptCount)
	assert.True(t, d("80").Equal(out.Yesterday.TotalSales))
	assert.Equal(t, "2024-03-10", out.Week.StartDate)
	assert.True(t, d("240").Equal(out.Week.TotalSales))
	assert.True(t, d("280").Equal(out.Month.TotalSales))
	assert.Equal(t, int64(12), out.Month.ReceiptCount)
	assert.True(t, d("25").Equal(out.DayOverDayChangePct), out.DayOverDayChangePct.String())
}

func TestChangePct(t *testing.T) {
	assert.True(t, changePct(d("10"), d("0")).IsZero())
	assert.True(t, d("-33.33").Equal(changePct(d("20"), d("30"))))
}

func TestDashboardCache(t *testing.T) {
	now := time.Date(2024, 3, 13, 15, 0, 0, 0, time.UTC)
	r := &fakeReceipts{daily: []possvc.DailyTotal{{Date: "2024-03-13", TotalSales: d("10"), ReceiptCount: 1}}}
	s := newTestService(r, &fakeShifts{}, now)
	defer s.Close()
	ctx := context.Background()

	_, err := s.Dashboard(ctx, "st-1")
	require.NoError(t, err)
	_, err = s.Dashboard(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, 1, r.calls)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.from)

	t.Run("🧹 unrelated write keeps the cache", func(t *testing.T) {
		s.HandleDataChange(ctx, events.DataChangeEvent{CollectionName: global.MongoDB_ColNames.Items})
		_, _ = s.Dashboard(ctx, "st-1")
		assert.Equal(t, 1, r.calls)
	})

	t.Run("🧹 receipt write flushes", func(t *testing.T) {
		s.HandleDataChange(ctx, events.DataChangeEvent{CollectionName: global.MongoDB_ColNames.Receipts})
		_, _ = s.Dashboard(ctx, "st-1")
		assert.Equal(t, 2, r.calls)
	})

	t.Run("🏪 stores are cached apart", func(t *testing.T) {
		_, _ = s.Dashboard(ctx, "st-2")
		assert.Equal(t, 3, r.calls)
	})
}

func TestExportSalesXLSX(t *testing.T) {
	r := &fakeReceipts{
		daily:    []possvc.DailyTotal{{Date: "2024-03-01", TotalSales: d("12.50"), ReceiptCount: 2}},
		payments: []possvc.PaymentTotal{{Date: "2024-03-01", Method: "CARD", Total: d("12.50")}},
	}
	s := newTestService(r, &fakeShifts{}, time.Now())
	defer s.Close()

	var buf bytes.Buffer
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.ExportSalesXLSX(context.Background(), &buf, from, utility.EndOfDay(from), ""))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{dailySheet, paymentSheet}, f.GetSheetList())
	v, err := f.GetCellValue(dailySheet, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", v)
	v, err = f.GetCellValue(dailySheet, "A3")
	require.NoError(t, err)
	assert.Equal(t, "Total", v)
	v, err = f.GetCellValue(paymentSheet, "B2")
	require.NoError(t, err)
	assert.Equal(t, "CARD", v)
}
