package poshdl

import (
	"github.com/gofiber/fiber/v3"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	posdto "github.com/oacc1974/Golmarcadmion/internal/api/pos/dto"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
)

// ReceiptHandler serves receipts. The pipelines keep them in sync; manual writes are
// corrections.
type ReceiptHandler struct {
	*basehdl.BaseHandler[posmodels.Receipt, posdto.ReceiptCreateInput, posdto.ReceiptUpdateInput]
	ReceiptService *possvc.ReceiptService
}

func NewReceiptHandler(svc *possvc.ReceiptService) *ReceiptHandler {
	base := basehdl.NewBaseHandler[posmodels.Receipt, posdto.ReceiptCreateInput, posdto.ReceiptUpdateInput](svc, "receipt")
	base.Filter = receiptFilter
	base.SortField = "-closed_at"
	return &ReceiptHandler{BaseHandler: base, ReceiptService: svc}
}

// receiptFilter reads store_id, employee_id, status, start_date and end_date.
func receiptFilter(c fiber.Ctx) (bson.M, error) {
	filter := bson.M{}
	for _, p := range []string{"store_id", "employee_id", "status"} {
		if v := c.Query(p); v != "" {
			filter[p] = v
		}
	}
	if c.Query("start_date") != "" || c.Query("end_date") != "" {
		from, to, err := basehdl.ParseDateRange(c, 0)
		if err != nil {
			return nil, err
		}
		filter["closed_at"] = bson.M{"$gte": from, "$lte": to}
	}
	return filter, nil
}

// HandleDailyTotals serves GET /receipts/totals/daily.
func (h *ReceiptHandler) HandleDailyTotals(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		from, to, err := basehdl.ParseDateRange(c, 0)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		data, err := h.ReceiptService.TotalsByDateRange(logger.RequestContext(c), basehdl.StoreIDQuery(c), from, to)
		return basehdl.HandleResponse(c, data, err)
	})
}

// HandlePaymentTotals serves GET /receipts/totals/payments.
func (h *ReceiptHandler) HandlePaymentTotals(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		from, to, err := basehdl.ParseDateRange(c, 0)
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		data, err := h.ReceiptService.TotalsByPaymentMethod(logger.RequestContext(c), basehdl.StoreIDQuery(c), from, to)
		return basehdl.HandleResponse(c, data, err)
	})
}
