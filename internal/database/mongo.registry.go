package database

import (
	"fmt"

	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

// RegisterCollections puts every collection of CollectionNames into
// global.RegistryCollections so services can bind by name.
func RegisterCollections(client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	log := logger.GetAppLogger()
	for _, name := range CollectionNames() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			return fmt.Errorf("register collection %s: %w", name, err)
		}
		if registered {
			log.Debugf("Collection %s registered", name)
		} else {
			log.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}
