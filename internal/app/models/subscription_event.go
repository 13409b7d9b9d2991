package models

import (
	"time"

	"github.com/google/uuid"
)

// SubscriptionEvent is the audit record of one payment gateway webhook delivery
type SubscriptionEvent struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Event          string     `json:"event" db:"event"`
	TrainerID      *uuid.UUID `json:"trainerId,omitempty" db:"trainer_id"`
	SubscriptionID *string    `json:"subscriptionId,omitempty" db:"subscription_id"`
	PaymentID      *string    `json:"paymentId,omitempty" db:"payment_id"`
	Applied        bool       `json:"applied" db:"applied"` // plan changed as a result
	ReceivedAt     time.Time  `json:"receivedAt" db:"received_at"`
}
