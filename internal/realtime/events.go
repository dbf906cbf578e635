package realtime

import (
	"encoding/json"
	"time"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/order"
)

// Inbound message names
const (
	EventTrackOrder        = "track-order"
	EventLocationUpdate    = "location-update"
	EventOrderStatusUpdate = "order-status-update"
	EventAcceptDelivery    = "accept-delivery"
)

// Outbound event names
const (
	EventTrackingJoined   = "tracking-joined"
	EventOrderStatus      = "order-status"
	EventDeliveryLocation = "delivery-location"
	EventDeliveryAccepted = "delivery-accepted"
	EventDeliveryAssigned = "delivery-assigned"
	EventLocationUpdated  = "location-updated"
	EventError            = "error"
)

// Envelope is the frame exchanged with clients in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type TrackingJoined struct {
	OrderID string `json:"orderId"`
}

type OrderStatus struct {
	OrderID   string       `json:"orderId"`
	Status    order.Status `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
}

type DeliveryLocation struct {
	OrderID   string            `json:"orderId"`
	Location  delivery.Location `json:"location"`
	Timestamp time.Time         `json:"timestamp"`
}

type DeliveryAccepted struct {
	OrderID       string  `json:"orderId"`
	PartnerID     string  `json:"partnerId"`
	EstimatedTime float64 `json:"estimatedTime"`
}

type DeliveryAssigned struct {
	OrderID    string `json:"orderId"`
	DeliveryID string `json:"deliveryId"`
}

type LocationUpdated struct {
	OrderID  string            `json:"orderId"`
	Location delivery.Location `json:"location"`
}

type ErrorEvent struct {
	Message string `json:"message"`
	Code    Code   `json:"code"`
}

type locationUpdateRequest struct {
	OrderID  string            `json:"orderId"`
	Location delivery.Location `json:"location"`
}

type statusUpdateRequest struct {
	OrderID string `json:"orderId"`
	Status  string `json:"status"`
}

type acceptDeliveryRequest struct {
	OrderID       string  `json:"orderId"`
	EstimatedTime float64 `json:"estimatedTime"`
}

func encodeEnvelope(event string, data any) ([]byte, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{Event: event, Data: payload})
}
