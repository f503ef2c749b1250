// Package router mounts the POS mirror routes.
package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	poshdl "github.com/oacc1974/Golmarcadmion/internal/api/pos/handler"
	possvc "github.com/oacc1974/Golmarcadmion/internal/api/pos/service"
	apirouter "github.com/oacc1974/Golmarcadmion/internal/api/router"
)

// Services groups the POS services shared with the sync pipeline and reports.
type Services struct {
	Stores             *possvc.StoreService
	Employees          *possvc.EmployeeService
	Items              *possvc.ItemService
	Suppliers          *possvc.SupplierService
	InventoryMovements *possvc.InventoryMovementService
	PurchaseOrders     *possvc.PurchaseOrderService
	Receipts           *possvc.ReceiptService
	Shifts             *possvc.ShiftService
}

// NewServices binds every POS service to its registered collection.
func NewServices() (*Services, error) {
	var s Services
	var err error
	if s.Stores, err = possvc.NewStoreService(); err != nil {
		return nil, err
	}
	if s.Employees, err = possvc.NewEmployeeService(); err != nil {
		return nil, err
	}
	if s.Items, err = possvc.NewItemService(); err != nil {
		return nil, err
	}
	if s.Suppliers, err = possvc.NewSupplierService(); err != nil {
		return nil, err
	}
	if s.InventoryMovements, err = possvc.NewInventoryMovementService(); err != nil {
		return nil, err
	}
	if s.PurchaseOrders, err = possvc.NewPurchaseOrderService(); err != nil {
		return nil, err
	}
	if s.Receipts, err = possvc.NewReceiptService(); err != nil {
		return nil, err
	}
	if s.Shifts, err = possvc.NewShiftService(s.Receipts); err != nil {
		return nil, err
	}
	return &s, nil
}

// Register returns the RegisterFunc of the POS domain.
func Register(s *Services) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		anyRole := []string{}
		writers := []string{models.RoleAdmin, models.RoleGerente}
		admin := []string{models.RoleAdmin}

		r.RegisterCRUDRoutes(v1, "/stores", poshdl.NewStoreHandler(s.Stores), apirouter.ReadWriteConfig, anyRole, writers)
		r.RegisterCRUDRoutes(v1, "/employees", poshdl.NewEmployeeHandler(s.Employees), apirouter.ReadWriteConfig, anyRole, writers)
		r.RegisterCRUDRoutes(v1, "/items", poshdl.NewItemHandler(s.Items), apirouter.ReadWriteConfig, anyRole, writers)
		r.RegisterCRUDRoutes(v1, "/suppliers", poshdl.NewSupplierHandler(s.Suppliers), apirouter.ReadWriteConfig, anyRole, writers)
		r.RegisterCRUDRoutes(v1, "/inventory-movements", poshdl.NewInventoryMovementHandler(s.InventoryMovements), apirouter.ReadWriteConfig, anyRole, writers)
		r.RegisterCRUDRoutes(v1, "/purchase-orders", poshdl.NewPurchaseOrderHandler(s.PurchaseOrders), apirouter.ReadWriteConfig, anyRole, writers)

		receipts := poshdl.NewReceiptHandler(s.Receipts)
		read := []fiber.Handler{r.Auth()}
		apirouter.RegisterRouteWithMiddleware(v1, "/receipts", fiber.MethodGet, "/totals/daily", read, receipts.HandleDailyTotals)
		apirouter.RegisterRouteWithMiddleware(v1, "/receipts", fiber.MethodGet, "/totals/payments", read, receipts.HandlePaymentTotals)
		apirouter.RegisterRouteWithMiddleware(v1, "/receipts", fiber.MethodGet, "/reports/totals-by-date", read, receipts.HandleDailyTotals)
		apirouter.RegisterRouteWithMiddleware(v1, "/receipts", fiber.MethodGet, "/reports/totals-by-payment", read, receipts.HandlePaymentTotals)
		r.RegisterCRUDRoutes(v1, "/receipts", receipts, apirouter.ReadWriteConfig, anyRole, admin)

		shifts := poshdl.NewShiftHandler(s.Shifts)
		r.RegisterCRUDRoutes(v1, "/shifts", shifts, apirouter.CRUDConfig{List: true, Get: true, ByLoyverse: true, Create: true, Update: true}, anyRole, writers)
		r.RegisterCRUDRoutes(v1, "/shifts", shifts, apirouter.CRUDConfig{Delete: true}, anyRole, admin)
		apirouter.RegisterRouteWithMiddleware(v1, "/shifts", fiber.MethodPost, "/:id/recalculate", []fiber.Handler{r.Auth(writers...)}, shifts.HandleRecalculate)
		return nil
	}
}
