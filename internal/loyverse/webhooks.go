package loyverse

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// Webhook is a subscription registered on the Loyverse account.
type Webhook struct {
	ID         string `json:"id"`
	MerchantID string `json:"merchant_id,omitempty"`
	URL        string `json:"url"`
	Type       string `json:"type"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

// CreateWebhookInput registers one webhook per event type.
type CreateWebhookInput struct {
	URL        string   `json:"url" validate:"required,url"`
	Name       string   `json:"name,omitempty" validate:"omitempty,max=100,no_xss"`
	EventTypes []string `json:"event_types" validate:"required,min=1,dive,loyverse_event"`
	Status     string   `json:"status,omitempty" validate:"omitempty,oneof=ENABLED DISABLED"`
}

type createWebhookRequest struct {
	URL    string `json:"url"`
	Type   string `json:"type"`
	Status string `json:"status"`
}

// ListWebhooks returns the registered webhooks.
func (c *Client) ListWebhooks(ctx context.Context) ([]Webhook, error) {
	body, err := c.Get(ctx, "/webhooks", url.Values{})
	if err != nil {
		return nil, err
	}
	var resp struct {
		Webhooks []Webhook `json:"webhooks"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("decode webhooks: %w", err)
	}
	return resp.Webhooks, nil
}

// CreateWebhook registers in.URL for each event type. Webhooks created before a failure are returned with the error.
func (c *Client) CreateWebhook(ctx context.Context, in CreateWebhookInput) ([]Webhook, error) {
	status := in.Status
	if status == "" {
		status = "ENABLED"
	}
	created := make([]Webhook, 0, len(in.EventTypes))
	for _, eventType := range in.EventTypes {
		body, err := c.Post(ctx, "/webhooks", createWebhookRequest{URL: in.URL, Type: eventType, Status: status})
		if err != nil {
			return created, err
		}
		var wh Webhook
		if err := json.Unmarshal(body, &wh); err != nil {
			return created, fmt.Errorf("decode created webhook: %w", err)
		}
		created = append(created, wh)
	}
	return created, nil
}

// DeleteWebhook removes the webhook with id.
func (c *Client) DeleteWebhook(ctx context.Context, id string) error {
	_, err := c.Delete(ctx, "/webhooks/"+url.PathEscape(id))
	return err
}
