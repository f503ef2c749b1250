// Package reportsvc builds sales and shift reports on top of the pos collections.
package reportsvc

import (
	"context"
	"time"

	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// receiptTotals is the part of possvc.ReceiptService reports read.
type receiptTotals interface {
	TotalsByDateRange(ctx context.Context, storeID string, from, to time.Time) ([]possvc.DailyTotal, error)
	TotalsByPaymentMethod(ctx context.Context, storeID string, from, to time.Time) ([]possvc.PaymentTotal, error)
}

// shiftFinder is the part of possvc.ShiftService reports read.
type shiftFinder interface {
	Find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]posmodels.Shift, error)
}

// DateRange echoes the window a report covers.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// SalesSummary aggregates closed receipts over a window.
type SalesSummary struct {
	TotalSales     utility.Decimal       `json:"total_sales"`
	TotalReceipts  int64                 `json:"total_receipts"`
	AverageTicket  utility.Decimal       `json:"average_ticket"`
	DateRange      DateRange             `json:"date_range"`
	StoreID        string                `json:"store_id,omitempty"`
	DailySales     []possvc.DailyTotal   `json:"daily_sales"`
	PaymentMethods []possvc.PaymentTotal `json:"payment_methods"`
}

// ShiftSummary sums the cash figures of the shifts opened in a window.
type ShiftSummary struct {
	ShiftCount          int               `json:"shift_count"`
	OpeningCash         utility.Decimal   `json:"opening_cash"`
	CashSales           utility.Decimal   `json:"cash_sales"`
	CardSales           utility.Decimal   `json:"card_sales"`
	OtherSales          utility.Decimal   `json:"other_sales"`
	ExpectedCash        utility.Decimal   `json:"expected_cash"`
	CountedCash         utility.Decimal   `json:"counted_cash"`
	TotalCashDifference utility.Decimal   `json:"total_cash_difference"`
	DateRange           DateRange         `json:"date_range"`
	StoreID             string            `json:"store_id,omitempty"`
	Shifts              []posmodels.Shift `json:"shifts"`
}

// ReportService reads receipts and shifts. Dashboards are cached until the next
// receipt or shift write.
type ReportService struct {
	receipts receiptTotals
	shifts   shiftFinder
	cache    *utility.Cache
	now      func() time.Time
	log      *logrus.Entry
}

// NewReportService builds the service over the pos services.
func NewReportService(receipts *possvc.ReceiptService, shifts *possvc.ShiftService) *ReportService {
	return newReportService(receipts, shifts)
}

func newReportService(receipts receiptTotals, shifts shiftFinder) *ReportService {
	return &ReportService{
		receipts: receipts,
		shifts:   shifts,
		cache:    utility.NewCache(dashboardTTL, 5*time.Minute),
		now:      time.Now,
		log:      logger.WithModule("report"),
	}
}

// SalesSummary totals closed receipts with closed_at in [from, to]. An empty storeID
// covers every store.
func (s *ReportService) SalesSummary(ctx context.Context, from, to time.Time, storeID string) (*SalesSummary, error) {
	daily, err := s.receipts.TotalsByDateRange(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	payments, err := s.receipts.TotalsByPaymentMethod(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	summary := summarizeSales(daily, payments)
	summary.DateRange = DateRange{Start: from, End: to}
	summary.StoreID = storeID
	return summary, nil
}

func summarizeSales(daily []possvc.DailyTotal, payments []possvc.PaymentTotal) *SalesSummary {
	if daily == nil {
		daily = []possvc.DailyTotal{}
	}
	if payments == nil {
		payments = []possvc.PaymentTotal{}
	}
	out := &SalesSummary{
		TotalSales:     utility.ZeroDecimal,
		AverageTicket:  utility.ZeroDecimal,
		DailySales:     daily,
		PaymentMethods: payments,
	}
	for _, d := range daily {
		out.TotalSales = out.TotalSales.Add(d.TotalSales)
		out.TotalReceipts += d.ReceiptCount
	}
	if out.TotalReceipts > 0 {
		out.AverageTicket = out.TotalSales.Div(utility.DecimalFromInt(out.TotalReceipts)).Round(2)
	}
	return out
}

// ShiftSummary sums the shifts opened in [from, to], newest first.
func (s *ReportService) ShiftSummary(ctx context.Context, from, to time.Time, storeID string) (*ShiftSummary, error) {
	filter := bson.M{"opened_at": bson.M{"$gte": from, "$lte": to}}
	if storeID != "" {
		filter["store_id"] = storeID
	}
	shifts, err := s.shifts.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "opened_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	summary := summarizeShifts(shifts)
	summary.DateRange = DateRange{Start: from, End: to}
	summary.StoreID = storeID
	return summary, nil
}

func summarizeShifts(shifts []posmodels.Shift) *ShiftSummary {
	if shifts == nil {
		shifts = []posmodels.Shift{}
	}
	out := &ShiftSummary{
		ShiftCount:          len(shifts),
		OpeningCash:         utility.ZeroDecimal,
		CashSales:           utility.ZeroDecimal,
		CardSales:           utility.ZeroDecimal,
		OtherSales:          utility.ZeroDecimal,
		ExpectedCash:        utility.ZeroDecimal,
		CountedCash:         utility.ZeroDecimal,
		TotalCashDifference: utility.ZeroDecimal,
		Shifts:              shifts,
	}
	for _, sh := range shifts {
		out.OpeningCash = out.OpeningCash.Add(sh.OpeningCash)
		out.CashSales = out.CashSales.Add(sh.CashSales)
		out.CardSales = out.CardSales.Add(sh.CardSales)
		out.OtherSales = out.OtherSales.Add(sh.OtherSales)
		out.ExpectedCash = out.ExpectedCash.Add(sh.ExpectedCash)
		out.CountedCash = out.CountedCash.Add(sh.CountedCash)
		out.TotalCashDifference = out.TotalCashDifference.Add(sh.CashDifference)
	}
	return out
}

// Close stops the dashboard cache janitor.
func (s *ReportService) Close() {
	s.cache.Stop()
}
