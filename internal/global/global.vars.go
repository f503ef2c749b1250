package global

import (
	"github.com/go-playground/validator/v10"
	"github.com/oacc1974/Golmarcadmion/config"
	"github.com/oacc1974/Golmarcadmion/internal/registry"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_CollectionNames lists every collection the server owns.
// EnsureDatabaseAndCollections walks these fields by reflection.
type MongoDB_CollectionNames struct {
	WebhookEvents      string
	Stores             string
	Employees          string
	Items              string
	Suppliers          string
	InventoryMovements string
	PurchaseOrders     string
	Receipts           string
	Shifts             string
	Users              string
}

var Validate *validator.Validate
var MongoDB_Session *mongo.Client
var MongoDB_ServerConfig *config.Configuration
var MongoDB_ColNames = MongoDB_CollectionNames{
	WebhookEvents:      "loyverse_webhook_events",
	Stores:             "pos_stores",
	Employees:          "pos_employees",
	Items:              "pos_items",
	Suppliers:          "pos_suppliers",
	InventoryMovements: "pos_inventory_movements",
	PurchaseOrders:     "pos_purchase_orders",
	Receipts:           "pos_receipts",
	Shifts:             "pos_shifts",
	Users:              "auth_users",
}

var RegistryCollections = registry.NewRegistry[*mongo.Collection]()
