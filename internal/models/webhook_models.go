package models

import "time"

// Provider webhook event types.
const (
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventDriverAssigned     = "DRIVER_ASSIGNED"
)

// DeliveryStatus is the internal delivery-status vocabulary stored on orders.
type DeliveryStatus string

const (
	StatusPickupRequested DeliveryStatus = "pickup_requested"
	StatusDriverAssigned  DeliveryStatus = "driver_assigned"
	StatusPickedUp        DeliveryStatus = "picked_up"
	StatusDelivered       DeliveryStatus = "delivered"
	StatusCancelled       DeliveryStatus = "cancelled"
)

// WebhookEvent is the inbound asynchronous callback from the delivery
// provider reporting a status change for a dispatched order.
type WebhookEvent struct {
	Type            string         `json:"type" validate:"required"`
	ProviderOrderID string         `json:"orderId" validate:"required"`
	Status          string         `json:"status,omitempty"`
	DriverDetails   *DriverDetails `json:"driverDetails,omitempty"`
	Timestamp       time.Time      `json:"timestamp" validate:"required"`
	Metadata        map[string]any `json:"metadata,omitempty"`
}

// DriverDetails carries the assigned driver's contact and vehicle info.
type DriverDetails struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	PlateNumber string `json:"plateNumber"`
}

// DeliveryEvent is one immutable audit entry in the order's status trail.
// Entries are append-only; replays of the same (order, type, timestamp)
// triple are rejected by a unique constraint.
type DeliveryEvent struct {
	ID              string         `json:"id,omitempty"`
	ProviderOrderID string         `json:"provider_order_id"`
	EventType       string         `json:"event_type"`
	ProviderStatus  string         `json:"provider_status,omitempty"`
	MappedStatus    DeliveryStatus `json:"mapped_status"`
	OccurredAt      time.Time      `json:"occurred_at"`
	RecordedAt      time.Time      `json:"recorded_at,omitempty"`
}
