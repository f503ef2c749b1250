package loyversesvc

import (
	"context"

	"github.com/oacc1974/Golmarcadmion/internal/loyverse"
)

// WebhookAPI is the webhook management part of the Loyverse client.
type WebhookAPI interface {
	ListWebhooks(ctx context.Context) ([]loyverse.Webhook, error)
	CreateWebhook(ctx context.Context, in loyverse.CreateWebhookInput) ([]loyverse.Webhook, error)
	DeleteWebhook(ctx context.Context, id string) error
}

// WebhookAdminService manages the webhook subscriptions registered upstream.
type WebhookAdminService struct {
	api WebhookAPI
}

func NewWebhookAdminService(api WebhookAPI) *WebhookAdminService {
	return &WebhookAdminService{api: api}
}

func (s *WebhookAdminService) List(ctx context.Context) ([]loyverse.Webhook, error) {
	hooks, err := s.api.ListWebhooks(ctx)
	if err != nil {
		return nil, upstreamError("list webhooks", err)
	}
	return hooks, nil
}

// Create registers one webhook per event type. On failure the webhooks created so far
// are returned with the error.
func (s *WebhookAdminService) Create(ctx context.Context, in loyverse.CreateWebhookInput) ([]loyverse.Webhook, error) {
	created, err := s.api.CreateWebhook(ctx, in)
	if err != nil {
		return created, upstreamError("create webhook", err)
	}
	return created, nil
}

func (s *WebhookAdminService) Delete(ctx context.Context, id string) error {
	if err := s.api.DeleteWebhook(ctx, id); err != nil {
		return upstreamError("delete webhook", err)
	}
	return nil
}
