package poshdl

import (
	"github.com/gofiber/fiber/v3"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	posdto "github.com/oacc1974/Golmarcadmion/internal/api/pos/dto"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"go.mongodb.org/mongo-driver/bson"
)

type ShiftHandler struct {
	*basehdl.BaseHandler[posmodels.Shift, posdto.ShiftCreateInput, posdto.ShiftUpdateInput]
	ShiftService *possvc.ShiftService
}

func NewShiftHandler(svc *possvc.ShiftService) *ShiftHandler {
	base := basehdl.NewBaseHandler[posmodels.Shift, posdto.ShiftCreateInput, posdto.ShiftUpdateInput](svc, "shift")
	base.Filter = func(c fiber.Ctx) (bson.M, error) {
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
			filter["opened_at"] = bson.M{"$gte": from, "$lte": to}
		}
		return filter, nil
	}
	base.SortField = "-opened_at"
	return &ShiftHandler{BaseHandler: base, ShiftService: svc}
}

// UpdateById merges the body into the shift and keeps the cash reconciliation current.
func (h *ShiftHandler) UpdateById(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectID(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		var input posdto.ShiftUpdateInput
		if err := basehdl.ParseRequestBody(c, &input); err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		set, err := input.ToUpdate()
		if err != nil {
			return basehdl.HandleResponse(c, nil, common.InvalidInput(err.Error(), nil))
		}
		data, err := h.ShiftService.PatchShift(logger.RequestContext(c), id, set)
		if err == nil {
			logger.LogCRUD("update", "shift", id.Hex(), c)
		}
		return basehdl.HandleResponse(c, data, err)
	})
}

// HandleRecalculate serves POST /shifts/:id/recalculate.
func (h *ShiftHandler) HandleRecalculate(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		id, err := basehdl.ParseObjectID(c, "id")
		if err != nil {
			return basehdl.HandleResponse(c, nil, err)
		}
		data, err := h.ShiftService.RecalculateShiftTotals(logger.RequestContext(c), id)
		if err == nil {
			logger.LogAction("shift_recalculate", c, map[string]interface{}{"shift_id": id.Hex()})
		}
		return basehdl.HandleResponse(c, data, err)
	})
}
