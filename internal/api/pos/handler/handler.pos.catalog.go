// Package poshdl serves the POS mirror: entity CRUD, receipt totals and shift reconciliation.
package poshdl

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	posdto "github.com/oacc1974/Golmarcadmion/internal/api/pos/dto"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	"go.mongodb.org/mongo-driver/bson"
)

type (
	StoreHandler             = basehdl.BaseHandler[posmodels.Store, posdto.StoreCreateInput, posdto.StoreUpdateInput]
	EmployeeHandler          = basehdl.BaseHandler[posmodels.Employee, posdto.EmployeeCreateInput, posdto.EmployeeUpdateInput]
	ItemHandler              = basehdl.BaseHandler[posmodels.Item, posdto.ItemCreateInput, posdto.ItemUpdateInput]
	SupplierHandler          = basehdl.BaseHandler[posmodels.Supplier, posdto.SupplierCreateInput, posdto.SupplierUpdateInput]
	InventoryMovementHandler = basehdl.BaseHandler[posmodels.InventoryMovement, posdto.InventoryMovementCreateInput, posdto.InventoryMovementUpdateInput]
	PurchaseOrderHandler     = basehdl.BaseHandler[posmodels.PurchaseOrder, posdto.PurchaseOrderCreateInput, posdto.PurchaseOrderUpdateInput]
)

// eqFilter copies the listed query params into an equality filter.
func eqFilter(params ...string) basehdl.FilterBuilder {
	return func(c fiber.Ctx) (bson.M, error) {
		filter := bson.M{}
		for _, p := range params {
			if v := strings.TrimSpace(c.Query(p)); v != "" {
				filter[p] = v
			}
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			filter["$text"] = bson.M{"$search": q}
		}
		return filter, nil
	}
}

func NewStoreHandler(svc *possvc.StoreService) *StoreHandler {
	h := basehdl.NewBaseHandler[posmodels.Store, posdto.StoreCreateInput, posdto.StoreUpdateInput](svc, "store")
	h.Filter = eqFilter("city", "country")
	h.SortField = "name"
	return h
}

func NewEmployeeHandler(svc *possvc.EmployeeService) *EmployeeHandler {
	h := basehdl.NewBaseHandler[posmodels.Employee, posdto.EmployeeCreateInput, posdto.EmployeeUpdateInput](svc, "employee")
	h.Filter = func(c fiber.Ctx) (bson.M, error) {
		filter := bson.M{}
		if v := c.Query("store_id"); v != "" {
			filter["store_ids"] = v
		}
		if v := c.Query("role"); v != "" {
			filter["role"] = v
		}
		return filter, nil
	}
	h.SortField = "name"
	return h
}

func NewItemHandler(svc *possvc.ItemService) *ItemHandler {
	h := basehdl.NewBaseHandler[posmodels.Item, posdto.ItemCreateInput, posdto.ItemUpdateInput](svc, "item")
	h.Filter = eqFilter("category_id", "sku", "barcode")
	h.SortField = "name"
	return h
}

func NewSupplierHandler(svc *possvc.SupplierService) *SupplierHandler {
	h := basehdl.NewBaseHandler[posmodels.Supplier, posdto.SupplierCreateInput, posdto.SupplierUpdateInput](svc, "supplier")
	h.Filter = eqFilter()
	h.SortField = "name"
	return h
}

func NewInventoryMovementHandler(svc *possvc.InventoryMovementService) *InventoryMovementHandler {
	h := basehdl.NewBaseHandler[posmodels.InventoryMovement, posdto.InventoryMovementCreateInput, posdto.InventoryMovementUpdateInput](svc, "inventory_movement")
	h.Filter = func(c fiber.Ctx) (bson.M, error) {
		filter, _ := eqFilter("store_id", "item_loyverse_id", "type")(c)
		delete(filter, "$text")
		if c.Query("start_date") != "" || c.Query("end_date") != "" {
			from, to, err := basehdl.ParseDateRange(c, 0)
			if err != nil {
				return nil, err
			}
			filter["occurred_at"] = bson.M{"$gte": from, "$lte": to}
		}
		return filter, nil
	}
	h.SortField = "-occurred_at"
	return h
}

func NewPurchaseOrderHandler(svc *possvc.PurchaseOrderService) *PurchaseOrderHandler {
	h := basehdl.NewBaseHandler[posmodels.PurchaseOrder, posdto.PurchaseOrderCreateInput, posdto.PurchaseOrderUpdateInput](svc, "purchase_order")
	h.Filter = func(c fiber.Ctx) (bson.M, error) {
		filter, _ := eqFilter("store_id", "supplier_loyverse_id", "status")(c)
		delete(filter, "$text")
		return filter, nil
	}
	h.SortField = "-ordered_at"
	return h
}
