// Package reporthdl serves the report endpoints.
package reporthdl

import (
	"bytes"
	"fmt"

	"github.com/gofiber/fiber/v3"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	reportsvc "github.com/oacc1974/Golmarcadmion/internal/api/report/service"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
)

// defaultDays is the window used when start_date and end_date are both absent.
const defaultDays = 30

type ReportHandler struct {
	Reports *reportsvc.ReportService
}

func NewReportHandler(reports *reportsvc.ReportService) *ReportHandler {
	return &ReportHandler{Reports: reports}
}

// HandleSalesSummary serves GET /reports/sales-summary.
func (h *ReportHandler) HandleSalesSummary(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		from, to, err := basehdl.ParseDateRange(c, defaultDays)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		data, err := h.Reports.SalesSummary(logger.RequestContext(c), from, to, basehdl.StoreIDQuery(c))
		return basehdl.HandleResponse(c, data, err)
	})
}

// HandleShiftSummary serves GET /reports/shift-summary.
func (h *ReportHandler) HandleShiftSummary(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		from, to, err := basehdl.ParseDateRange(c, defaultDays)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		data, err := h.Reports.ShiftSummary(logger.RequestContext(c), from, to, basehdl.StoreIDQuery(c))
		return basehdl.HandleResponse(c, data, err)
	})
}

// HandleDashboard serves GET /reports/dashboard.
func (h *ReportHandler) HandleDashboard(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		data, err := h.Reports.Dashboard(logger.RequestContext(c), basehdl.StoreIDQuery(c))
		return basehdl.HandleResponse(c, data, err)
	})
}

// HandleSalesExport serves GET /reports/sales-export as an xlsx attachment.
func (h *ReportHandler) HandleSalesExport(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		from, to, err := basehdl.ParseDateRange(c, defaultDays)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var buf bytes.Buffer
		if err := h.Reports.ExportSalesXLSX(logger.RequestContext(c), &buf, from, to, basehdl.StoreIDQuery(c)); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		logger.LogAction("report_export", c, map[string]interface{}{"from": from, "to": to, "bytes": buf.Len()})

		name := fmt.Sprintf("sales_%s_%s.xlsx", from.Format("20060102"), to.Format("20060102"))
		c.Set(fiber.HeaderContentType, reportsvc.XLSXContentType)
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
		return c.Send(buf.Bytes())
	})
}
