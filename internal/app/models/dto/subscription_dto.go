package dto

import "github.com/viniciusfeitosaa/gymapp/internal/app/models"

// CheckoutResponse carries the hosted checkout URL
type CheckoutResponse struct {
	URL string `json:"url" example:"https://sandbox.asaas.com/checkoutSession/show?id=abc"`
}

// SubscriptionStatusResponse describes the trainer's current tier
type SubscriptionStatusResponse struct {
	Plan               models.Plan `json:"plan" example:"FREE"`
	MaxStudentsAllowed int         `json:"maxStudentsAllowed" example:"2"`
	StudentCount       int         `json:"studentCount" example:"1"`
	SubscriptionID     *string     `json:"subscriptionId,omitempty"`
}

// WebhookAck is always returned to the gateway for accepted deliveries
type WebhookAck struct {
	Received bool   `json:"received" example:"true"`
	Ignored  bool   `json:"ignored,omitempty"`
	Reason   string `json:"reason,omitempty"`
}
