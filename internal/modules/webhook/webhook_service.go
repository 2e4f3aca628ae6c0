package webhook

import (
	"context"
	"fmt"
	"strings"
	"time"

	"delivery-quotation/internal/models"
)

// RepositoryInterface defines the contract for the order store touched by
// webhook processing.
type RepositoryInterface interface {
	// RecordEvent atomically appends one immutable audit entry and applies
	// its mapped status to the order, guarded by the event timestamp so
	// out-of-order deliveries cannot regress it. Returns false when the same
	// event (order + type + timestamp) was already recorded, in which case
	// nothing is written.
	RecordEvent(ctx context.Context, entry models.DeliveryEvent, driver *models.DriverDetails, note string) (bool, error)
}

// ServiceInterface defines the contract for the webhook service.
type ServiceInterface interface {
	ProcessEvent(ctx context.Context, event models.WebhookEvent) error
}

// Service translates provider callbacks into order-store mutations.
type Service struct {
	repo RepositoryInterface
}

// NewService creates a new webhook service.
func NewService(repo RepositoryInterface) *Service {
	return &Service{repo: repo}
}

// statusMap translates provider delivery statuses into the internal
// vocabulary. The mapping is total: unknown statuses fall through to the
// conservative default in MapStatus.
var statusMap = map[string]models.DeliveryStatus{
	"ASSIGNING_DRIVER": models.StatusPickupRequested,
	"ON_GOING":         models.StatusPickedUp,
	"PICKED_UP":        models.StatusPickedUp,
	"COMPLETED":        models.StatusDelivered,
	"CANCELLED":        models.StatusCancelled,
}

// MapStatus maps a provider status string to the internal vocabulary.
// Unknown statuses map to the lowest-ranked status instead of failing; the
// timestamp guard in the store keeps them from regressing advanced orders.
func MapStatus(providerStatus string) models.DeliveryStatus {
	if s, ok := statusMap[strings.ToUpper(strings.TrimSpace(providerStatus))]; ok {
		return s
	}
	return models.StatusPickupRequested
}

// ProcessEvent maps and applies one provider callback. A failed write leaves
// no trace, so the provider's retry of the same event starts over; replays
// of an already-applied event are acknowledged without touching the order
// again.
func (s *Service) ProcessEvent(ctx context.Context, event models.WebhookEvent) error {
	var status models.DeliveryStatus
	var driver *models.DriverDetails

	switch strings.ToUpper(strings.TrimSpace(event.Type)) {
	case models.EventDriverAssigned:
		status = models.StatusDriverAssigned
		driver = event.DriverDetails
	default:
		status = MapStatus(event.Status)
	}

	note := fmt.Sprintf("\n[%s] %s: %s -> %s",
		event.Timestamp.UTC().Format(time.RFC3339), event.Type, event.Status, status)

	_, err := s.repo.RecordEvent(ctx, models.DeliveryEvent{
		ProviderOrderID: event.ProviderOrderID,
		EventType:       event.Type,
		ProviderStatus:  event.Status,
		MappedStatus:    status,
		OccurredAt:      event.Timestamp,
	}, driver, note)
	if err != nil {
		return fmt.Errorf("service.ProcessEvent: %w", err)
	}
	return nil
}
