package asaas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Config{
		BaseURL:         srv.URL,
		APIKey:          "test-key",
		Timeout:         2 * time.Second,
		LookupRetries:   2,
		InitialInterval: time.Millisecond,
	}, zerolog.Nop())
}

func TestCreateCheckout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/checkouts" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("access_token"); got != "test-key" {
			t.Errorf("expected access_token header, got %q", got)
		}
		var body CheckoutRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if body.ExternalReference != "trainer-1" || body.ChargeTypes[0] != ChargeRecurrent {
			t.Errorf("unexpected body %+v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "chk_1", "link": "https://pay.example/chk_1"})
	})

	checkout, err := client.CreateCheckout(context.Background(), CheckoutRequest{
		BillingTypes:      []string{BillingCreditCard},
		ChargeTypes:       []string{ChargeRecurrent},
		ExternalReference: "trainer-1",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if checkout.URL() != "https://pay.example/chk_1" {
		t.Fatalf("unexpected url %q", checkout.URL())
	}
}

func TestCreateCheckoutIsNotRetried(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.CreateCheckout(context.Background(), CheckoutRequest{})
	if !errors.Is(err, apperrors.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestGetSubscriptionRetriesServerErrors(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(Subscription{ID: "sub_1", Status: SubscriptionActive, ExternalReference: "trainer-1"})
	})

	sub, err := client.GetSubscription(context.Background(), "sub_1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if sub == nil || sub.ExternalReference != "trainer-1" {
		t.Fatalf("unexpected subscription %+v", sub)
	}
	if calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
}

func TestGetSubscriptionGivesUpAfterRetries(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetSubscription(context.Background(), "sub_1")
	if !errors.Is(err, apperrors.ErrGateway) {
		t.Fatalf("expected gateway error, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected initial attempt plus 2 retries, got %d", calls)
	}
}

func TestGetSubscriptionNotFound(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	})

	sub, err := client.GetSubscription(context.Background(), "missing")
	if err != nil || sub != nil {
		t.Fatalf("expected nil, nil; got %+v, %v", sub, err)
	}
	if calls != 1 {
		t.Fatalf("404 must not be retried, got %d calls", calls)
	}
}

func TestFindActiveSubscription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("externalReference") != "trainer-1" || r.URL.Query().Get("status") != SubscriptionActive {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(subscriptionPage{TotalCount: 1, Data: []Subscription{{ID: "sub_9", Status: SubscriptionActive}}})
	})

	sub, err := client.FindActiveSubscription(context.Background(), "trainer-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if sub == nil || sub.ID != "sub_9" {
		t.Fatalf("unexpected subscription %+v", sub)
	}
}

func TestCancelSubscription(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete || r.URL.Path != "/v3/subscriptions/sub_1" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"deleted": true, "id": "sub_1"})
	})

	if err := client.CancelSubscription(context.Background(), "sub_1"); err != nil {
		t.Fatalf("cancel: %v", err)
	}
}

func TestWebhookEventAccessors(t *testing.T) {
	raw := `{"event":"PAYMENT_CONFIRMED","payment":{"id":"pay_1","subscription":"sub_1","externalReference":"trainer-1"}}`
	var ev WebhookEvent
	if err := json.Unmarshal([]byte(raw), &ev); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !ev.Upgrades() || ev.Downgrades() {
		t.Fatalf("PAYMENT_CONFIRMED must upgrade")
	}
	if ev.SubscriptionID() != "sub_1" || ev.ExternalReference() != "trainer-1" || ev.PaymentID() != "pay_1" {
		t.Fatalf("unexpected accessors %+v", ev)
	}

	ev = WebhookEvent{Event: EventSubscriptionDeleted, Subscription: &WebhookSubscription{ID: "sub_2"}}
	if !ev.Downgrades() || ev.SubscriptionID() != "sub_2" {
		t.Fatalf("SUBSCRIPTION_DELETED must downgrade")
	}
}
