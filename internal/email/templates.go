package email

import (
	"fmt"
	"html"
	"strings"
)

// statusLabels are the customer-facing wording for order statuses
var statusLabels = map[string]string{
	"PENDING":          "Pending",
	"CONFIRMED":        "Confirmed by the store",
	"PREPARING":        "Being prepared",
	"READY_FOR_PICKUP": "Ready for pickup",
	"OUT_FOR_DELIVERY": "Out for delivery",
	"DELIVERED":        "Delivered",
	"CANCELLED":        "Cancelled",
}

// StatusLabel returns a readable label for status
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return strings.ReplaceAll(strings.ToLower(status), "_", " ")
}

// BuildOrderStatusBody builds the HTML body for an order status update email
func BuildOrderStatusBody(name, orderID, status, message string) string {
	greeting := "Hello,"
	if name != "" {
		greeting = fmt.Sprintf("Hello %s,", html.EscapeString(name))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: linear-gradient(135deg, #16a34a 0%%, #0f766e 100%%); padding: 30px; border-radius: 10px 10px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 24px;">Order Update</h1>
	</div>

	<div style="background: #fff; padding: 30px; border: 1px solid #eee; border-top: none; border-radius: 0 0 10px 10px;">
		<p style="margin-top: 0;">%s</p>
		<p>%s</p>

		<div style="background: #f8f9fa; padding: 15px; border-radius: 5px; margin: 20px 0;">
			<p style="margin: 0; font-size: 14px; color: #666;">Order number</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; font-family: monospace;">%s</p>
			<p style="margin: 15px 0 0 0; font-size: 14px; color: #666;">Status</p>
			<p style="margin: 5px 0 0 0; font-size: 18px; font-weight: bold; color: #16a34a;">%s</p>
		</div>

		<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">

		<p style="font-size: 12px; color: #999; margin-bottom: 0;">
			This is an automated message. Open the Veyara app to follow your order live.
		</p>
	</div>
</body>
</html>`, greeting, html.EscapeString(message), html.EscapeString(orderID), html.EscapeString(StatusLabel(status)))
}
