package delivery

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusAccepted  Status = "ACCEPTED"
	StatusPickedUp  Status = "PICKED_UP"
	StatusInTransit Status = "IN_TRANSIT"
	StatusDelivered Status = "DELIVERED"
)

// ActiveStatuses are the states in which the assigned partner may still stream
// its position.
var ActiveStatuses = []Status{StatusAccepted, StatusPickedUp, StatusInTransit}

func (s Status) Active() bool {
	for _, a := range ActiveStatuses {
		if s == a {
			return true
		}
	}
	return false
}

var (
	ErrDeliveryNotFound = errors.New("delivery not found")
	ErrAlreadyClaimed   = errors.New("delivery already claimed by another partner")
	ErrNotAssigned      = errors.New("not assigned to this delivery")
	ErrInvalidEstimate  = errors.New("estimated time must be positive")
	ErrInvalidLocation  = errors.New("invalid location")
)

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

func (l Location) Validate() error {
	if l.Lat < -90 || l.Lat > 90 || l.Lng < -180 || l.Lng > 180 {
		return ErrInvalidLocation
	}
	return nil
}

// Delivery is the persistent claim record. There is at most one per order and
// PartnerID never changes once written.
type Delivery struct {
	ID                   string    `json:"id"`
	OrderID              string    `json:"order_id"`
	PartnerID            string    `json:"partner_id"`
	Status               Status    `json:"status"`
	EstimatedTimeMinutes float64   `json:"estimated_time"`
	PartnerLocation      *Location `json:"partner_location,omitempty"`
	Earnings             float64   `json:"earnings"`
	PartnerEarnings      float64   `json:"partner_earnings"`
	PlatformFee          float64   `json:"platform_fee"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// NewClaim builds the ACCEPTED record a partner writes when claiming an order.
func NewClaim(orderID, partnerID string, estimatedTimeMinutes float64) (*Delivery, error) {
	if !(estimatedTimeMinutes > 0) || math.IsInf(estimatedTimeMinutes, 1) {
		return nil, ErrInvalidEstimate
	}
	e := ComputeEarnings(estimatedTimeMinutes)
	now := time.Now()
	return &Delivery{
		ID:                   uuid.New().String(),
		OrderID:              orderID,
		PartnerID:            partnerID,
		Status:               StatusAccepted,
		EstimatedTimeMinutes: estimatedTimeMinutes,
		Earnings:             e.Total,
		PartnerEarnings:      e.Partner,
		PlatformFee:          e.Platform,
		CreatedAt:            now,
		UpdatedAt:            now,
	}, nil
}
