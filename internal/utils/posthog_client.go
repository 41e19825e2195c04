package utils

import (
	"log/slog"

	"github.com/posthog/posthog-go"
)

// tenantGroup is the PostHog group type events are attributed to.
const tenantGroup = "tenant"

// PosthogClientWrapper sends product analytics. Without an API key every
// call is a no-op.
type PosthogClientWrapper struct {
	client posthog.Client
	logger *slog.Logger
}

func InitializePosthogClient(apiKey, endpoint string, logger *slog.Logger) *PosthogClientWrapper {
	if apiKey == "" {
		logger.Warn("PostHog API key is empty, analytics disabled")
		return &PosthogClientWrapper{logger: logger}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: endpoint})
	if err != nil {
		logger.Error("Failed to create PostHog client, analytics disabled", slog.String("error", err.Error()))
		return &PosthogClientWrapper{logger: logger}
	}
	logger.Info("PostHog client initialized", slog.String("endpoint", endpoint))
	return &PosthogClientWrapper{client: client, logger: logger}
}

func (w *PosthogClientWrapper) IsInitialized() bool {
	return w != nil && w.client != nil
}

// Capture records event for the acting user and groups it under the tenant,
// so team members of one business roll up together.
func (w *PosthogClientWrapper) Capture(userID, tenantID, event string, properties map[string]any) {
	if !w.IsInitialized() {
		return
	}
	capture := posthog.Capture{
		DistinctId: userID,
		Event:      event,
		Properties: properties,
	}
	if tenantID != "" {
		capture.Groups = posthog.NewGroups().Set(tenantGroup, tenantID)
	}
	if err := w.client.Enqueue(capture); err != nil {
		w.logger.Warn("Failed to enqueue analytics event", slog.String("event", event), slog.String("error", err.Error()))
	}
}

func (w *PosthogClientWrapper) Close() {
	if !w.IsInitialized() {
		return
	}
	if err := w.client.Close(); err != nil {
		w.logger.Warn("Failed to flush analytics", slog.String("error", err.Error()))
	}
}
