package checkout

import (
	"context"

	"github.com/google/uuid"
)

// SessionStore is the port interface for checkout session persistence.
// Sessions are keyed by customer ID, one active session per customer, and
// expire after an idle TTL managed by the implementation.
type SessionStore interface {
	// Get loads the customer's checkout session. Returns shared.ErrNotFound
	// when no session exists or it has expired.
	Get(ctx context.Context, customerID uuid.UUID) (*Session, error)

	// Put stores the session and refreshes its TTL
	Put(ctx context.Context, session *Session) error

	// Delete removes the customer's session, typically after order placement
	Delete(ctx context.Context, customerID uuid.UUID) error
}
