package main

import (
	"context"
	"time"

	"github.com/oacc1974/Golmarcadmion/config"
	authmodels "github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	loyversemodels "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/models"
	posmodels "github.com/oacc1974/Golmarcadmion/internal/api/pos/models"
	"github.com/oacc1974/Golmarcadmion/internal/database"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/sirupsen/logrus"
)

// InitGlobal loads config, the validator and the MongoDB session.
func InitGlobal() {
	initValidator()
	initConfig()
	initDatabase_MongoDB()
}

func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// collectionModels maps each collection to the model whose index tags it carries.
func collectionModels() map[string]interface{} {
	c := global.MongoDB_ColNames
	return map[string]interface{}{
		c.WebhookEvents:      loyversemodels.WebhookEvent{},
		c.Stores:             posmodels.Store{},
		c.Employees:          posmodels.Employee{},
		c.Items:              posmodels.Item{},
		c.Suppliers:          posmodels.Supplier{},
		c.InventoryMovements: posmodels.InventoryMovement{},
		c.PurchaseOrders:     posmodels.PurchaseOrder{},
		c.Receipts:           posmodels.Receipt{},
		c.Shifts:             posmodels.Shift{},
		c.Users:              authmodels.User{},
	}
}

func initDatabase_MongoDB() {
	cfg := global.MongoDB_ServerConfig
	var err error
	global.MongoDB_Session, err = database.GetInstance(cfg)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	if err := database.EnsureDatabaseAndCollections(global.MongoDB_Session, cfg.MongoDB_DBName); err != nil {
		logrus.Fatalf("Failed to ensure collections: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	db := global.MongoDB_Session.Database(cfg.MongoDB_DBName)
	for name, model := range collectionModels() {
		if err := database.CreateIndexes(ctx, db.Collection(name), model); err != nil {
			logrus.WithError(err).Errorf("Failed to create indexes for %s", name)
		}
	}
}
