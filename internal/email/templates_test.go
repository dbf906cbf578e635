package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "Out for delivery", StatusLabel("OUT_FOR_DELIVERY"))
	assert.Equal(t, "refund issued", StatusLabel("REFUND_ISSUED"))
}

func TestBuildOrderStatusBody(t *testing.T) {
	body := BuildOrderStatusBody("Abebe <b>", "order-123", "DELIVERED", "Your order status has been updated to: DELIVERED")

	assert.Contains(t, body, "Hello Abebe &lt;b&gt;,")
	assert.Contains(t, body, "order-123")
	assert.Contains(t, body, "Delivered")
	assert.NotContains(t, body, "<b>")
}

func TestBuildOrderStatusBody_NoName(t *testing.T) {
	body := BuildOrderStatusBody("", "order-123", "PREPARING", "")
	assert.Contains(t, body, "Hello,")
}
