// Package possvc persists the POS mirror and computes receipt and shift totals.
package possvc

import (
	"context"
	"errors"

	basesvc "github.com/oacc1974/Golmarcadmion/internal/api/base/service"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/common"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"go.mongodb.org/mongo-driver/bson"
)

// EntityService is the repository of one mirrored Loyverse entity keyed by loyverse_id.
type EntityService[T any] struct {
	*basesvc.BaseServiceMongoImpl[T]
	entity string
}

// NewEntityService binds to a registered collection.
func NewEntityService[T any](collection, entity string) (*EntityService[T], error) {
	base, err := basesvc.NewBaseServiceFromRegistry[T](collection)
	if err != nil {
		return nil, err
	}
	return &EntityService[T]{BaseServiceMongoImpl: base, entity: entity}, nil
}

// ReplaceByLoyverseID replaces the whole document with loyverseID, inserting it when
// absent. The Mongo _id of an existing document is kept.
func (s *EntityService[T]) ReplaceByLoyverseID(ctx context.Context, loyverseID string, doc T) error {
	if loyverseID == "" {
		return common.InvalidInput("loyverse_id is required", nil)
	}
	return s.ReplaceOneUpsert(ctx, bson.M{"loyverse_id": loyverseID}, doc)
}

// FindByLoyverseID returns a not-found error carrying loyverseID when absent.
func (s *EntityService[T]) FindByLoyverseID(ctx context.Context, loyverseID string) (T, error) {
	doc, err := s.FindOne(ctx, bson.M{"loyverse_id": loyverseID}, nil)
	if errors.Is(err, common.ErrNotFound) {
		return doc, common.NotFound(s.entity, loyverseID)
	}
	return doc, err
}

type (
	StoreService             = EntityService[posmodels.Store]
	EmployeeService          = EntityService[posmodels.Employee]
	ItemService              = EntityService[posmodels.Item]
	SupplierService          = EntityService[posmodels.Supplier]
	InventoryMovementService = EntityService[posmodels.InventoryMovement]
	PurchaseOrderService     = EntityService[posmodels.PurchaseOrder]
)

func NewStoreService() (*StoreService, error) {
	return NewEntityService[posmodels.Store](global.MongoDB_ColNames.Stores, "store")
}

func NewEmployeeService() (*EmployeeService, error) {
	return NewEntityService[posmodels.Employee](global.MongoDB_ColNames.Employees, "employee")
}

func NewItemService() (*ItemService, error) {
	return NewEntityService[posmodels.Item](global.MongoDB_ColNames.Items, "item")
}

func NewSupplierService() (*SupplierService, error) {
	return NewEntityService[posmodels.Supplier](global.MongoDB_ColNames.Suppliers, "supplier")
}

func NewInventoryMovementService() (*InventoryMovementService, error) {
	return NewEntityService[posmodels.InventoryMovement](global.MongoDB_ColNames.InventoryMovements, "inventory_movement")
}

func NewPurchaseOrderService() (*PurchaseOrderService, error) {
	return NewEntityService[posmodels.PurchaseOrder](global.MongoDB_ColNames.PurchaseOrders, "purchase_order")
}
