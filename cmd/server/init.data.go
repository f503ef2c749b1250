package main

import (
	"context"
	"time"

	authsvc "github.com/oacc1974/Golmarcadmion/internal/api/auth/service"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
)

// InitDefaultData seeds the first admin account.
func InitDefaultData(users *authsvc.UserService) {
	log := logger.GetAppLogger()
	log.Info("🔄 [INIT] Starting InitDefaultData...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cfg := global.MongoDB_ServerConfig
	if err := users.SeedAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName); err != nil {
		log.WithError(err).Error("❌ [INIT] Failed to seed admin user")
		return
	}
	log.Info("✅ [INIT] InitDefaultData completed")
}
