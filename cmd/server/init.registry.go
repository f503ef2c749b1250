package main

import (
	"github.com/oacc1974/Golmarcadmion/internal/database"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/sirupsen/logrus"
)

func InitRegistry() {
	err := database.RegisterCollections(global.MongoDB_Session, global.MongoDB_ServerConfig.MongoDB_DBName)
	if err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.Info("Initialized collection registry")
}
