package domain

import "context"

// EmailDispatcher delivers a single alert email. Implementations must be
// safe for concurrent use; the consumer pool calls Send from many
// goroutines.
type EmailDispatcher interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}
