package asaas

// Billing and charge options used by recurring checkouts
const (
	BillingCreditCard = "CREDIT_CARD"
	ChargeRecurrent   = "RECURRENT"
	CycleMonthly      = "MONTHLY"

	SubscriptionActive = "ACTIVE"
)

// Webhook event names
const (
	EventPaymentReceived         = "PAYMENT_RECEIVED"
	EventPaymentConfirmed        = "PAYMENT_CONFIRMED"
	EventPaymentOverdue          = "PAYMENT_OVERDUE"
	EventSubscriptionInactivated = "SUBSCRIPTION_INACTIVATED"
	EventSubscriptionDeleted     = "SUBSCRIPTION_DELETED"
)

// WebhookTokenHeader carries the shared secret configured for webhook deliveries
const WebhookTokenHeader = "asaas-access-token"

// CheckoutRequest is the body of POST /v3/checkouts
type CheckoutRequest struct {
	BillingTypes      []string              `json:"billingTypes"`
	ChargeTypes       []string              `json:"chargeTypes"`
	MinutesToExpire   int                   `json:"minutesToExpire,omitempty"`
	Callback          CheckoutCallback      `json:"callback"`
	Items             []CheckoutItem        `json:"items"`
	CustomerData      *CustomerData         `json:"customerData,omitempty"`
	Subscription      *CheckoutSubscription `json:"subscription,omitempty"`
	ExternalReference string                `json:"externalReference,omitempty"`
}

// CheckoutCallback holds the URLs the payer is redirected to
type CheckoutCallback struct {
	SuccessURL string `json:"successUrl"`
	CancelURL  string `json:"cancelUrl"`
	ExpiredURL string `json:"expiredUrl"`
}

// CheckoutItem is one priced line of a checkout
type CheckoutItem struct {
	Name        string  `json:"name"`
	Description string  `json:"description,omitempty"`
	Quantity    int     `json:"quantity"`
	Value       float64 `json:"value"`
}

// CustomerData pre-fills the payer in the hosted checkout
type CustomerData struct {
	Name          string `json:"name"`
	CpfCnpj       string `json:"cpfCnpj"`
	Email         string `json:"email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Address       string `json:"address,omitempty"`
	AddressNumber string `json:"addressNumber,omitempty"`
	Complement    string `json:"complement,omitempty"`
	PostalCode    string `json:"postalCode,omitempty"`
	Province      string `json:"province,omitempty"`
	City          string `json:"city,omitempty"`
}

// CheckoutSubscription sets the recurrence of a RECURRENT checkout
type CheckoutSubscription struct {
	Cycle       string `json:"cycle"`
	NextDueDate string `json:"nextDueDate"` // yyyy-MM-dd
}

// Checkout is the gateway answer to a checkout creation
type Checkout struct {
	ID   string `json:"id"`
	Link string `json:"link"`
}

// URL returns the hosted page the payer should open
func (c *Checkout) URL() string {
	return c.Link
}

// Subscription is the subset of the gateway subscription resource we read
type Subscription struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
	Cycle             string  `json:"cycle"`
	ExternalReference string  `json:"externalReference"`
}

type subscriptionPage struct {
	TotalCount int            `json:"totalCount"`
	Data       []Subscription `json:"data"`
}

// WebhookEvent is a webhook delivery. Payment events carry Payment, subscription events carry Subscription.
type WebhookEvent struct {
	ID           string               `json:"id"`
	Event        string               `json:"event"`
	Payment      *WebhookPayment      `json:"payment,omitempty"`
	Subscription *WebhookSubscription `json:"subscription,omitempty"`
}

// WebhookPayment is the payment object of a payment event
type WebhookPayment struct {
	ID                string  `json:"id"`
	Customer          string  `json:"customer"`
	Subscription      string  `json:"subscription"`
	ExternalReference string  `json:"externalReference"`
	Status            string  `json:"status"`
	Value             float64 `json:"value"`
}

// WebhookSubscription is the subscription object of a subscription event
type WebhookSubscription struct {
	ID                string `json:"id"`
	Customer          string `json:"customer"`
	Status            string `json:"status"`
	ExternalReference string `json:"externalReference"`
}

// SubscriptionID returns the subscription the event refers to, from whichever object is present
func (e *WebhookEvent) SubscriptionID() string {
	if e.Subscription != nil && e.Subscription.ID != "" {
		return e.Subscription.ID
	}
	if e.Payment != nil {
		return e.Payment.Subscription
	}
	return ""
}

// ExternalReference returns the reference we attached at checkout, if echoed back
func (e *WebhookEvent) ExternalReference() string {
	if e.Payment != nil && e.Payment.ExternalReference != "" {
		return e.Payment.ExternalReference
	}
	if e.Subscription != nil {
		return e.Subscription.ExternalReference
	}
	return ""
}

// PaymentID returns the payment id of a payment event
func (e *WebhookEvent) PaymentID() string {
	if e.Payment != nil {
		return e.Payment.ID
	}
	return ""
}

// Upgrades reports whether the event moves a trainer to PRO
func (e *WebhookEvent) Upgrades() bool {
	return e.Event == EventPaymentReceived || e.Event == EventPaymentConfirmed
}

// Downgrades reports whether the event moves a trainer back to FREE
func (e *WebhookEvent) Downgrades() bool {
	switch e.Event {
	case EventPaymentOverdue, EventSubscriptionInactivated, EventSubscriptionDeleted:
		return true
	}
	return false
}
