package services

import (
	"context"

	"github.com/SscSPs/bizdesk/internal/core/domain"
	"github.com/SscSPs/bizdesk/internal/marketplace"
)

// WebhookOutcome says what an inbound marketplace event did.
type WebhookOutcome string

const (
	WebhookProcessed WebhookOutcome = "processed"
	WebhookDuplicate WebhookOutcome = "duplicate"
	// WebhookUnmatched means no enabled integration owns the store.
	WebhookUnmatched WebhookOutcome = "unmatched"
	WebhookIgnored   WebhookOutcome = "ignored"
)

// WebhookSvcFacade routes marketplace events to the tenant that owns the store.
type WebhookSvcFacade interface {
	HandleEvent(ctx context.Context, provider domain.IntegrationProvider, event marketplace.WebhookEvent) (WebhookOutcome, error)
}

// OrderImporterSvc creates the local records of one marketplace order.
type OrderImporterSvc interface {
	ImportOrder(ctx context.Context, cfg domain.IntegrationConfig, orderID string) (WebhookOutcome, error)
}
