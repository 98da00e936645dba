package domain

import (
	"encoding/json"
	"fmt"
	"html"
	"time"
)

const EventTypeLowStock = "low_stock"

// LowStockEvent is the payload published on the alert channel. The schema
// is flat JSON so consumers in any language can decode it without this
// package; decoding here ignores fields it does not know.
type LowStockEvent struct {
	Type            string    `json:"type"`
	ProductID       string    `json:"product_id"`
	ProductName     string    `json:"product_name"`
	CurrentQuantity int64     `json:"current_quantity"`
	Threshold       int64     `json:"threshold"`
	Timestamp       time.Time `json:"timestamp"`
}

func NewLowStockEvent(productID, productName string, currentQuantity, threshold int64, at time.Time) LowStockEvent {
	return LowStockEvent{
		Type:            EventTypeLowStock,
		ProductID:       productID,
		ProductName:     productName,
		CurrentQuantity: currentQuantity,
		Threshold:       threshold,
		Timestamp:       at,
	}
}

// Subject is the email subject line for the alert.
func (e LowStockEvent) Subject() string {
	return fmt.Sprintf("Low Stock Alert: %s", e.ProductName)
}

// Content is the plain-text form stored on the notification record.
func (e LowStockEvent) Content() string {
	return fmt.Sprintf("Product '%s' is running low on stock. Current quantity: %d, Threshold: %d",
		e.ProductName, e.CurrentQuantity, e.Threshold)
}

// HTMLBody renders the alert email body. Product fields come from
// operator input, so they are escaped.
func (e LowStockEvent) HTMLBody() string {
	return fmt.Sprintf(`<h2>Low Stock Alert</h2>
<p>Product <strong>%s</strong> is running low on stock.</p>
<ul>
    <li><strong>Product ID:</strong> %s</li>
    <li><strong>Current Quantity:</strong> %d</li>
    <li><strong>Threshold:</strong> %d</li>
</ul>
<p>Please replenish the inventory as soon as possible.</p>`,
		html.EscapeString(e.ProductName), html.EscapeString(e.ProductID), e.CurrentQuantity, e.Threshold)
}

// lowStockEventWire distinguishes absent numeric fields from zero values
// during decoding, which the exported struct cannot.
type lowStockEventWire struct {
	Type            string     `json:"type"`
	ProductID       string     `json:"product_id"`
	ProductName     string     `json:"product_name"`
	CurrentQuantity *int64     `json:"current_quantity"`
	Threshold       *int64     `json:"threshold"`
	Timestamp       *time.Time `json:"timestamp"`
}

// DecodeLowStockEvent parses a raw channel payload. Payloads that are not
// JSON or miss product_id, current_quantity or threshold are rejected with
// ErrMalformedEvent; a payload whose type tag is not "low_stock" is
// rejected with ErrUnknownEventType, carrying the decoded type so callers
// can log it. A missing product_name falls back to the product id and a
// missing timestamp to receivedAt.
func DecodeLowStockEvent(payload []byte, receivedAt time.Time) (LowStockEvent, error) {
	var wire lowStockEventWire
	if err := json.Unmarshal(payload, &wire); err != nil {
		return LowStockEvent{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if wire.Type != EventTypeLowStock {
		return LowStockEvent{Type: wire.Type}, fmt.Errorf("%w: %q", ErrUnknownEventType, wire.Type)
	}

	if wire.ProductID == "" || wire.CurrentQuantity == nil || wire.Threshold == nil {
		return LowStockEvent{}, fmt.Errorf("%w: missing required fields", ErrMalformedEvent)
	}

	event := LowStockEvent{
		Type:            wire.Type,
		ProductID:       wire.ProductID,
		ProductName:     wire.ProductName,
		CurrentQuantity: *wire.CurrentQuantity,
		Threshold:       *wire.Threshold,
		Timestamp:       receivedAt,
	}
	if event.ProductName == "" {
		event.ProductName = event.ProductID
	}
	if wire.Timestamp != nil {
		event.Timestamp = *wire.Timestamp
	}

	return event, nil
}
