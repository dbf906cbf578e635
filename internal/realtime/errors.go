package realtime

import (
	"errors"

	"github.com/example/veyara-realtime/internal/domain/delivery"
	"github.com/example/veyara-realtime/internal/domain/order"
)

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrInvalidRequest = errors.New("invalid request")
	ErrUnknownEvent   = errors.New("unknown event")
)

// Code is the machine-readable reason attached to an error event.
type Code string

const (
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeNotFound           Code = "NOT_FOUND"
	CodeNotAssigned        Code = "NOT_ASSIGNED"
	CodeAlreadyClaimed     Code = "ALREADY_CLAIMED"
	CodeInvalidRequest     Code = "INVALID_REQUEST"
	CodePersistenceFailure Code = "PERSISTENCE_FAILURE"
)

// Classify maps an operation error onto the error taxonomy. Anything not
// recognised is treated as a persistence failure the caller may retry.
func Classify(err error) Code {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return CodeUnauthorized
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, delivery.ErrDeliveryNotFound):
		return CodeNotFound
	case errors.Is(err, delivery.ErrNotAssigned):
		return CodeNotAssigned
	case errors.Is(err, delivery.ErrAlreadyClaimed):
		return CodeAlreadyClaimed
	case errors.Is(err, ErrInvalidRequest),
		errors.Is(err, ErrUnknownEvent),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, delivery.ErrInvalidEstimate),
		errors.Is(err, delivery.ErrInvalidLocation):
		return CodeInvalidRequest
	default:
		return CodePersistenceFailure
	}
}

// failureMessages are the generic messages sent for persistence failures,
// keyed by inbound event.
var failureMessages = map[string]string{
	EventTrackOrder:        "Failed to track order",
	EventLocationUpdate:    "Failed to update location",
	EventOrderStatusUpdate: "Failed to update order status",
	EventAcceptDelivery:    "Failed to accept delivery",
}

func errorEvent(event string, err error) ErrorEvent {
	code := Classify(err)
	msg := ""
	switch code {
	case CodeUnauthorized:
		msg = "Unauthorized"
		if event == EventTrackOrder {
			msg = "Unauthorized to track this order"
		}
	case CodeNotFound:
		msg = "Order not found"
		if event == EventOrderStatusUpdate {
			msg = "Order not found or unauthorized"
		}
	case CodeNotAssigned:
		msg = "Not assigned to this delivery"
	case CodeAlreadyClaimed:
		msg = "Delivery already accepted by another partner"
	case CodeInvalidRequest:
		msg = invalidRequestMessage(err)
	default:
		msg = failureMessages[event]
		if msg == "" {
			msg = "Request failed"
		}
	}
	return ErrorEvent{Message: msg, Code: code}
}

// clientSafeErrors carry messages fit to show to a client as they are.
var clientSafeErrors = []error{
	order.ErrInvalidStatus,
	delivery.ErrInvalidEstimate,
	delivery.ErrInvalidLocation,
}

// invalidRequestMessage never echoes decoder output, which names Go types and
// fields.
func invalidRequestMessage(err error) string {
	if errors.Is(err, ErrUnknownEvent) {
		return "Unknown event"
	}
	for _, safe := range clientSafeErrors {
		if errors.Is(err, safe) {
			return safe.Error()
		}
	}
	return "Invalid payload"
}
