package main

import (
	"context"
	"time"

	authrouter "github.com/oacc1974/Golmarcadmion/internal/api/auth/router"
	authsvc "github.com/oacc1974/Golmarcadmion/internal/api/auth/service"
	basehdl "github.com/oacc1974/Golmarcadmion/internal/api/base/handler"
	"github.com/oacc1974/Golmarcadmion/internal/api/events"
	loyverserouter "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/router"
	posrouter "github.com/oacc1974/Golmarcadmion/internal/api/pos/router"
	reportrouter "github.com/oacc1974/Golmarcadmion/internal/api/report/router"
	reportsvc "github.com/oacc1974/Golmarcadmion/internal/api/report/service"
	apirouter "github.com/oacc1974/Golmarcadmion/internal/api/router"
	"github.com/oacc1974/Golmarcadmion/internal/global"
	"github.com/oacc1974/Golmarcadmion/internal/logger"
	"github.com/oacc1974/Golmarcadmion/internal/redisx"
)

// Version is reported by the health check. Set with -ldflags "-X main.Version=...".
var Version = "dev"

// appServices is everything the routes call, plus what must be closed on shutdown.
type appServices struct {
	users    *authsvc.UserService
	pos      *posrouter.Services
	loyverse *loyverserouter.Services
	reports  *reportsvc.ReportService
	closers  []func() error
}

// InitServices builds the services. Redis and AMQP are optional and skipped when
// their address is empty or unreachable.
func InitServices() *appServices {
	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig
	s := &appServices{}

	tokens := authsvc.NewTokenService(cfg.JwtSecret, time.Duration(cfg.JwtExpiresHours)*time.Hour)
	users, err := authsvc.NewUserService(tokens)
	if err != nil {
		log.Fatalf("Failed to create user service: %v", err)
	}
	s.users = users

	if s.pos, err = posrouter.NewServices(); err != nil {
		log.Fatalf("Failed to create pos services: %v", err)
	}

	var locker redisx.Locker
	if cfg.RedisAddress != "" {
		rl, err := redisx.Connect(context.Background(), cfg.RedisAddress, cfg.RedisPassword)
		if err != nil {
			log.WithError(err).Warn("🔒 [REDIS] Unavailable, syncs run without a distributed lock")
		} else {
			locker = rl
			s.closers = append(s.closers, rl.Close)
		}
	}

	if s.loyverse, err = loyverserouter.NewServices(cfg, s.pos, locker); err != nil {
		log.Fatalf("Failed to create loyverse services: %v", err)
	}
	if cfg.LoyverseAPIKey == "" {
		log.Warn("🔄 [LOYVERSE SYNC] LOYVERSE_API_KEY not set, sync and webhook management will fail")
	}
	if cfg.LoyverseWebhookSecret == "" {
		log.Warn("🔔 [LOYVERSE WEBHOOK] LOYVERSE_WEBHOOK_SECRET not set, signatures are not checked")
	}

	s.reports = reportsvc.NewReportService(s.pos.Receipts, s.pos.Shifts)
	events.OnDataChanged(s.reports.HandleDataChange)
	s.closers = append(s.closers, func() error { s.reports.Close(); return nil })

	if cfg.AMQPURL != "" {
		p, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPBuffer)
		if err != nil {
			log.WithError(err).Warn("📨 [AMQP] Unavailable, data changes are not published")
		} else {
			events.OnDataChanged(p.Handle)
			s.closers = append(s.closers, p.Close)
			log.WithField("exchange", cfg.AMQPExchange).Info("📨 [AMQP] Publishing data changes")
		}
	}
	return s
}

// registrations lists the domain routers in mount order.
func (s *appServices) registrations() []apirouter.RegisterFunc {
	return []apirouter.RegisterFunc{
		authrouter.Register(s.users, basehdl.NewSystemHandler(Version)),
		posrouter.Register(s.pos),
		loyverserouter.Register(s.loyverse),
		reportrouter.Register(s.reports),
	}
}

// Close releases optional connections in reverse order.
func (s *appServices) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			logger.GetAppLogger().WithError(err).Warn("Close failed")
		}
	}
}
