package loyversehdl

import (
	"context"

	"github.com/gofiber/fiber/v3"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	loyversedto "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/dto"
	loyversesvc "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/service"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
)

// SyncHandler triggers the pull syncs. Each call runs to completion before answering.
type SyncHandler struct {
	Sync *loyversesvc.SyncService
}

func NewSyncHandler(sync *loyversesvc.SyncService) *SyncHandler {
	return &SyncHandler{Sync: sync}
}

func (h *SyncHandler) run(c fiber.Ctx, kind string, fn func(ctx context.Context) (*loyversesvc.SyncResult, error)) error {
	return basehdl.SafeHandler(c, func() error {
		result, err := fn(logger.RequestContext(c))
		details := map[string]interface{}{"kind": kind, "ok": err == nil}
		if result != nil {
			details["synced"] = result.Synced
			details["failed"] = result.Failed
		}
		logger.LogAction("loyverse_sync", c, details)
		return basehdl.HandleResponse(c, result, err)
	})
}

func (h *SyncHandler) HandleSyncStores(c fiber.Ctx) error {
	return h.run(c, "stores", h.Sync.SyncStores)
}

func (h *SyncHandler) HandleSyncEmployees(c fiber.Ctx) error {
	return h.run(c, "employees", h.Sync.SyncEmployees)
}

func (h *SyncHandler) HandleSyncItems(c fiber.Ctx) error {
	return h.run(c, "items", h.Sync.SyncItems)
}

// HandleSyncReceipts expects {storeId?, startDate, endDate}.
func (h *SyncHandler) HandleSyncReceipts(c fiber.Ctx) error {
	return h.ranged(c, "receipts", h.Sync.SyncReceipts)
}

// HandleSyncShifts expects {storeId?, startDate, endDate}.
func (h *SyncHandler) HandleSyncShifts(c fiber.Ctx) error {
	return h.ranged(c, "shifts", h.Sync.SyncShifts)
}

func (h *SyncHandler) ranged(c fiber.Ctx, kind string, fn func(ctx context.Context, r loyversesvc.SyncRange) (*loyversesvc.SyncResult, error)) error {
	var input loyversedto.SyncRangeInput
	if err := basehdl.ParseRequestBody(c, &input); err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	from, to, err := input.Range()
	if err != nil {
		return basehdl.HandleResponse(c, nil, err)
	}
	r := loyversesvc.SyncRange{StoreID: input.StoreID, From: from, To: to}
	return h.run(c, kind, func(ctx context.Context) (*loyversesvc.SyncResult, error) {
		return fn(ctx, r)
	})
}
