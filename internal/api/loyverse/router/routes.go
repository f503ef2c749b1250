// Package router mounts the Loyverse integration routes.
package router

import (
	"github.com/gofiber/fiber/v3"
	"github.com/oacc1974/Golmarcadmion/config"
	"github.com/oacc1974/Golmarcadmion/internal/api/auth/models"
	loyversehdl "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/handler"
	loyversesvc "github.com/oacc1974/Golmarcadmion/internal/api/loyverse/service"
	posrouter "github.com/oacc1974/Golmarcadmion/internal/api/pos/router"
	apirouter "github.com/oacc1974/Golmarcadmion/internal/api/router"
	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
	"github.com/oacc1974/Golmarcadmion/internal/redisx"
)

// Prefix is where the integration lives under /api/v1.
const Prefix = "/integrations/loyverse"

// Services groups what the integration routes call.
type Services struct {
	Webhooks *loyversesvc.WebhookService
	Admin    *loyversesvc.WebhookAdminService
	Sync     *loyversesvc.SyncService
}

// NewServices wires the integration onto the POS services. locker may be nil.
func NewServices(cfg *config.Configuration, pos *posrouter.Services, locker redisx.Locker) (*Services, error) {
	events, err := loyversesvc.NewMongoEventStore()
	if err != nil {
		return nil, err
	}
	client := loyverse.New(loyverse.Config{
		BaseURL: cfg.LoyverseAPIURL,
		Token:   cfg.LoyverseAPIKey,
		Timeout: cfg.LoyverseTimeout(),
	})
	repos := loyversesvc.RepositoriesFrom(pos.Stores, pos.Employees, pos.Items, pos.InventoryMovements, pos.Receipts, pos.Shifts)
	return &Services{
		Webhooks: loyversesvc.NewWebhookService(loyversesvc.WebhookConfig{Secret: cfg.LoyverseWebhookSecret}, events, repos),
		Admin:    loyversesvc.NewWebhookAdminService(client),
		Sync:     loyversesvc.NewSyncService(client, repos, locker, loyversesvc.SyncConfig{PageDelay: cfg.SyncPageDelay()}),
	}, nil
}

// Register returns the RegisterFunc of the Loyverse integration. The ingest endpoint is
// public and authenticated by its signature; everything else is admin only.
func Register(s *Services) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		webhooks := loyversehdl.NewWebhookHandler(s.Webhooks, s.Admin)
		sync := loyversehdl.NewSyncHandler(s.Sync)
		admin := []fiber.Handler{r.Auth(models.RoleAdmin)}

		v1.Post(Prefix+"/webhook-events", webhooks.HandleIngest)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodGet, "/webhook-events", admin, webhooks.HandleListEvents)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodGet, "/webhook-events/:eventId", admin, webhooks.HandleGetEvent)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodPost, "/webhook-events/:eventId/replay", admin, webhooks.HandleReplay)

		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodPost, "/webhooks", admin, webhooks.HandleCreateWebhook)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodGet, "/webhooks", admin, webhooks.HandleListWebhooks)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodDelete, "/webhooks/:id", admin, webhooks.HandleDeleteWebhook)

		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodPost, "/sync/stores", admin, sync.HandleSyncStores)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodPost, "/sync/employees", admin, sync.HandleSyncEmployees)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodPost, "/sync/items", admin, sync.HandleSyncItems)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodPost, "/sync/receipts", admin, sync.HandleSyncReceipts)
		apirouter.RegisterRouteWithMiddleware(v1, Prefix, fiber.MethodPost, "/sync/shifts", admin, sync.HandleSyncShifts)
		return nil
	}
}
