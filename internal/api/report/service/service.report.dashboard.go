package reportsvc

import (
	"context"
	"time"

	"github.com/oacc1974/Golmarcadmion/internal/api/events"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/utility"
)

const (
	dashboardTTL = time.Minute
	dayLayout    = "2006-01-02"
)

// DayFigures is the closed sales of one UTC day.
type DayFigures struct {
	Date         string          `json:"date"`
	TotalSales   utility.Decimal `json:"total_sales"`
	ReceiptCount int64           `json:"receipt_count"`
}

// PeriodFigures is the closed sales of a run of UTC days.
type PeriodFigures struct {
	StartDate    string          `json:"start_date"`
	EndDate      string          `json:"end_date"`
	TotalSales   utility.Decimal `json:"total_sales"`
	ReceiptCount int64           `json:"receipt_count"`
}

// Dashboard compares today with yesterday, the current week (from Sunday) and the
// current month.
type Dashboard struct {
	Today               DayFigures      `json:"today"`
	Yesterday           DayFigures      `json:"yesterday"`
	Week                PeriodFigures   `json:"week"`
	Month               PeriodFigures   `json:"month"`
	DayOverDayChangePct utility.Decimal `json:"day_over_day_change_pct"`
	StoreID             string          `json:"store_id,omitempty"`
	GeneratedAt         time.Time       `json:"generated_at"`
}

// dashboardWindows returns the first day any dashboard figure needs, and the week and
// month starts, all in UTC.
func dashboardWindows(now time.Time) (earliest, weekStart, monthStart time.Time) {
	today := utility.StartOfDay(now.UTC())
	yesterday := today.AddDate(0, 0, -1)
	weekStart = today.AddDate(0, 0, -int(today.Weekday()))
	monthStart = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)

	earliest = yesterday
	if weekStart.Before(earliest) {
		earliest = weekStart
	}
	if monthStart.Before(earliest) {
		earliest = monthStart
	}
	return earliest, weekStart, monthStart
}

// buildDashboard folds daily totals into the dashboard figures for now.
func buildDashboard(now time.Time, daily []possvc.DailyTotal) *Dashboard {
	_, weekStart, monthStart := dashboardWindows(now)
	today := utility.StartOfDay(now.UTC())
	todayKey := today.Format(dayLayout)
	yesterdayKey := today.AddDate(0, 0, -1).Format(dayLayout)

	d := &Dashboard{
		Today:     DayFigures{Date: todayKey, TotalSales: utility.ZeroDecimal},
		Yesterday: DayFigures{Date: yesterdayKey, TotalSales: utility.ZeroDecimal},
		Week:      PeriodFigures{StartDate: weekStart.Format(dayLayout), EndDate: todayKey, TotalSales: utility.ZeroDecimal},
		Month:     PeriodFigures{StartDate: monthStart.Format(dayLayout), EndDate: todayKey, TotalSales: utility.ZeroDecimal},
	}
	for _, row := range daily {
		switch row.Date {
		case todayKey:
			d.Today.TotalSales = d.Today.TotalSales.Add(row.TotalSales)
			d.Today.ReceiptCount += row.ReceiptCount
		case yesterdayKey:
			d.Yesterday.TotalSales = d.Yesterday.TotalSales.Add(row.TotalSales)
			d.Yesterday.ReceiptCount += row.ReceiptCount
		}
		// day keys sort lexically
		if row.Date >= d.Week.StartDate && row.Date <= todayKey {
			d.Week.TotalSales = d.Week.TotalSales.Add(row.TotalSales)
			d.Week.ReceiptCount += row.ReceiptCount
		}
		if row.Date >= d.Month.StartDate && row.Date <= todayKey {
			d.Month.TotalSales = d.Month.TotalSales.Add(row.TotalSales)
			d.Month.ReceiptCount += row.ReceiptCount
		}
	}
	d.DayOverDayChangePct = changePct(d.Today.TotalSales, d.Yesterday.TotalSales)
	d.GeneratedAt = now.UTC()
	return d
}

// changePct is (current-previous)/previous*100 rounded to 2 places, or 0 when previous is 0.
func changePct(current, previous utility.Decimal) utility.Decimal {
	if previous.IsZero() {
		return utility.ZeroDecimal
	}
	return current.Sub(previous).Div(previous).Mul(utility.DecimalFromInt(100)).Round(2)
}

// Dashboard returns the dashboard of storeID (all stores when empty).
func (s *ReportService) Dashboard(ctx context.Context, storeID string) (*Dashboard, error) {
	key := "dashboard:" + storeID
	if cached, ok := s.cache.Get(key); ok {
		if d, ok := cached.(*Dashboard); ok {
			return d, nil
		}
	}

	now := s.now()
	earliest, _, _ := dashboardWindows(now)
	daily, err := s.receipts.TotalsByDateRange(ctx, storeID, earliest, utility.EndOfDay(now.UTC()))
	if err != nil {
		return nil, err
	}
	d := buildDashboard(now, daily)
	d.StoreID = storeID
	s.cache.Set(key, d)
	return d, nil
}

// HandleDataChange drops cached dashboards after any receipt or shift write. Register
// it with events.OnDataChanged.
func (s *ReportService) HandleDataChange(_ context.Context, e events.DataChangeEvent) {
	switch e.CollectionName {
	case global.MongoDB_ColNames.Receipts, global.MongoDB_ColNames.Shifts:
		s.cache.Flush()
		s.log.WithField("collection", e.CollectionName).Debug("📊 [REPORT] Dashboard cache flushed")
	}
}
