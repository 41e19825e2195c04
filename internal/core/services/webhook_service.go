package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/SscSPs/bizdesk/internal/apperrors"
	"github.com/SscSPs/bizdesk/internal/core/domain"
	portsrepo "github.com/SscSPs/bizdesk/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/bizdesk/internal/core/ports/services"
	"github.com/SscSPs/bizdesk/internal/marketplace"
	"github.com/SscSPs/bizdesk/internal/metrics"
)

// webhookService attributes inbound marketplace events to a tenant through the
// integration config of the sending store. It never uses a session.
type webhookService struct {
	BaseService
	integrations portsrepo.IntegrationConfigRepositoryFacade
	transactions portsrepo.TransactionRepositoryFacade
	shipments    portsrepo.ShipmentRepositoryFacade
	importer     portssvc.OrderImporterSvc
}

// NewWebhookService creates the event router.
func NewWebhookService(repos portsrepo.RepositoryProvider, importer portssvc.OrderImporterSvc, opts ...ServiceOption) portssvc.WebhookSvcFacade {
	return &webhookService{
		BaseService:  newBaseService(nil, opts...),
		integrations: repos.IntegrationRepo,
		transactions: repos.TransactionRepo,
		shipments:    repos.ShipmentRepo,
		importer:     importer,
	}
}

var _ portssvc.WebhookSvcFacade = (*webhookService)(nil)

// webhookScope is the persistence scope of writes made on behalf of a store.
func webhookScope(cfg domain.IntegrationConfig) domain.TenantScope {
	return domain.TenantScope{TenantID: cfg.UserID, ActorID: "webhook:" + string(cfg.Provider)}
}

func (s *webhookService) HandleEvent(ctx context.Context, provider domain.IntegrationProvider, ev marketplace.WebhookEvent) (portssvc.WebhookOutcome, error) {
	ev.Event = strings.TrimSpace(ev.Event)
	if ev.Event == "" || ev.StoreID == "" {
		return "", apperrors.NewValidationFailedError("event and store_id are required")
	}

	outcome, err := s.dispatch(ctx, provider, ev)
	label := string(outcome)
	if err != nil {
		label = "error"
	}
	metrics.WebhookEvents.WithLabelValues(string(provider), eventLabel(ev.Event), label).Inc()
	return outcome, err
}

func (s *webhookService) dispatch(ctx context.Context, provider domain.IntegrationProvider, ev marketplace.WebhookEvent) (portssvc.WebhookOutcome, error) {
	cfg, err := s.integrations.FindEnabledByStore(ctx, provider, ev.StoreID.String())
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogInfo(ctx, "Webhook for unknown or disabled store",
				slog.String("provider", string(provider)),
				slog.String("store_id", ev.StoreID.String()),
				slog.String("event", ev.Event))
			return portssvc.WebhookUnmatched, nil
		}
		return "", s.fail(ctx, err, "Failed to look up integration", slog.String("store_id", ev.StoreID.String()))
	}

	scope := webhookScope(*cfg)
	orderID := ev.ID.String()
	s.LogDebug(ctx, "Webhook matched tenant",
		slog.String("tenant_id", scope.TenantID),
		slog.String("event", ev.Event),
		slog.String("order_id", orderID))

	switch ev.Event {
	case marketplace.EventOrderCreated, marketplace.EventOrderPaid, marketplace.EventOrderFulfilled:
		if orderID == "" {
			s.LogInfo(ctx, "Webhook without order id ignored", slog.String("event", ev.Event))
			return portssvc.WebhookIgnored, nil
		}
	default:
		s.LogDebug(ctx, "Unhandled webhook event", slog.String("event", ev.Event))
		return portssvc.WebhookIgnored, nil
	}

	switch ev.Event {
	case marketplace.EventOrderCreated:
		return s.importer.ImportOrder(ctx, *cfg, orderID)

	case marketplace.EventOrderPaid:
		n, err := s.transactions.MarkOrderPaid(ctx, scope, orderID, s.now())
		if err != nil {
			return "", s.fail(ctx, err, "Failed to mark order paid", slog.String("order_id", orderID))
		}
		if n == 0 {
			return portssvc.WebhookDuplicate, nil
		}
		s.invalidate(ctx, scope.TenantID, transactionsView)
		s.LogInfo(ctx, "Order paid", slog.String("order_id", orderID), slog.Int64("transactions", n))
		return portssvc.WebhookProcessed, nil

	default: // order fulfilled
		n, err := s.shipments.MarkOrderShipped(ctx, scope, orderID, strings.TrimSpace(ev.ShippingTrackingNumber), s.now())
		if err != nil {
			return "", s.fail(ctx, err, "Failed to mark order shipped", slog.String("order_id", orderID))
		}
		if n == 0 {
			return portssvc.WebhookDuplicate, nil
		}
		s.invalidate(ctx, scope.TenantID, shipmentsView)
		s.LogInfo(ctx, "Order shipped", slog.String("order_id", orderID))
		return portssvc.WebhookProcessed, nil
	}
}

// eventLabel keeps metric cardinality bounded for events we do not model.
func eventLabel(event string) string {
	switch event {
	case marketplace.EventOrderCreated, marketplace.EventOrderPaid, marketplace.EventOrderFulfilled:
		return event
	}
	return "other"
}
