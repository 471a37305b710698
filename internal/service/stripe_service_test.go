package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"app/internal/billing"
	"app/internal/config"
	"app/internal/model"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func testStripeService(profiles *fakeProfileRepo) *StripeService {
	cfg := &config.Config{
		AppURL:              "http://localhost:3000",
		StripeSecretKey:     "sk_test_123",
		StripeWebhookSecret: testWebhookSecret,
	}
	prices := billing.NewPriceMap("price_starter", "price_growth", "price_pro")
	return NewStripeService(cfg, profiles, prices, zerolog.Nop())
}

func trialingProfile(id string) *model.Profile {
	status := model.BillingStatusTrialing
	account := model.AccountStatusActive
	trialEnd := time.Now().Add(7 * 24 * time.Hour)
	return &model.Profile{
		ID:            id,
		Email:         "owner@acmehvac.com",
		PlanTier:      billing.TierStarter,
		BillingStatus: &status,
		AccountStatus: &account,
		TrialEndDate:  &trialEnd,
	}
}

func TestCreateCheckoutSessionRejectsBadPriceID(t *testing.T) {
	svc := testStripeService(newFakeProfileRepo())
	_, _, err := svc.CreateCheckoutSession(context.Background(), "user-1", "owner@acmehvac.com", "prod_not_a_price")
	if !errors.Is(err, ErrInvalidPriceID) {
		t.Fatalf("expected ErrInvalidPriceID, got %v", err)
	}
}

func TestCreateCheckoutSessionRequiresConfiguredKey(t *testing.T) {
	cfg := &config.Config{StripeSecretKey: "sk_test_placeholder_key"}
	svc := NewStripeService(cfg, newFakeProfileRepo(), billing.NewPriceMap("a", "b", "c"), zerolog.Nop())
	_, _, err := svc.CreateCheckoutSession(context.Background(), "user-1", "owner@acmehvac.com", "price_starter")
	if !errors.Is(err, ErrStripeNotConfigured) {
		t.Fatalf("expected ErrStripeNotConfigured, got %v", err)
	}
}

func TestCancelSubscriptionEndsTrialImmediately(t *testing.T) {
	profiles := newFakeProfileRepo(trialingProfile("user-1"))
	svc := testStripeService(profiles)

	msg, err := svc.CancelSubscription(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("CancelSubscription returned error: %v", err)
	}
	if !strings.Contains(msg, "Free trial ended") {
		t.Errorf("unexpected message: %q", msg)
	}

	u := profiles.lastUpdate()
	if u == nil {
		t.Fatal("expected a subscription update")
	}
	if u.BillingStatus == nil || *u.BillingStatus != model.BillingStatusCancelled {
		t.Errorf("expected billing status cancelled, got %v", u.BillingStatus)
	}
	if u.AccountStatus == nil || *u.AccountStatus != model.AccountStatusSuspended {
		t.Errorf("expected account suspended, got %v", u.AccountStatus)
	}
	if u.TrialEndDate == nil || time.Since(*u.TrialEndDate) > time.Minute {
		t.Errorf("expected trial end set to now, got %v", u.TrialEndDate)
	}
	if u.SubscriptionEnd == nil || time.Since(*u.SubscriptionEnd) > time.Minute {
		t.Errorf("expected subscription end set to now, got %v", u.SubscriptionEnd)
	}
}

func TestCancelSubscriptionWithoutSubscription(t *testing.T) {
	status := model.BillingStatusPastDue
	profiles := newFakeProfileRepo(&model.Profile{ID: "user-1", BillingStatus: &status, PlanTier: billing.TierStarter})
	svc := testStripeService(profiles)

	_, err := svc.CancelSubscription(context.Background(), "user-1")
	if !errors.Is(err, ErrNoSubscription) {
		t.Fatalf("expected ErrNoSubscription, got %v", err)
	}
}

func TestCancelSubscriptionMissingProfile(t *testing.T) {
	svc := testStripeService(newFakeProfileRepo())
	_, err := svc.CancelSubscription(context.Background(), "ghost")
	if !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestActivateAccountIsIdempotent(t *testing.T) {
	active := model.BillingStatusActive
	profiles := newFakeProfileRepo(&model.Profile{ID: "user-1", BillingStatus: &active, PlanTier: billing.TierStarter})
	svc := testStripeService(profiles)

	already, err := svc.ActivateAccount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ActivateAccount returned error: %v", err)
	}
	if !already {
		t.Error("expected already-active report")
	}
	if len(profiles.updates) != 0 {
		t.Errorf("expected no writes for already-active account, got %d", len(profiles.updates))
	}
}

func TestActivateAccountWritesSimulatedSubscription(t *testing.T) {
	profiles := newFakeProfileRepo(trialingProfile("user-1"))
	svc := testStripeService(profiles)

	already, err := svc.ActivateAccount(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ActivateAccount returned error: %v", err)
	}
	if already {
		t.Error("expected fresh activation")
	}

	u := profiles.lastUpdate()
	if u == nil {
		t.Fatal("expected a subscription update")
	}
	if u.BillingStatus == nil || *u.BillingStatus != model.BillingStatusActive {
		t.Errorf("expected active status, got %v", u.BillingStatus)
	}
	if u.StripeCustomerID == nil || !strings.HasPrefix(*u.StripeCustomerID, "cus_") {
		t.Errorf("expected simulated customer ref, got %v", u.StripeCustomerID)
	}
	if u.StripeSubscriptionID == nil || !strings.HasPrefix(*u.StripeSubscriptionID, "sub_") {
		t.Errorf("expected simulated subscription ref, got %v", u.StripeSubscriptionID)
	}
	if u.SubscriptionEnd == nil || time.Until(*u.SubscriptionEnd) < 29*24*time.Hour {
		t.Errorf("expected ~30 day period, got %v", u.SubscriptionEnd)
	}
}

func TestCreatePortalSessionRequiresCustomer(t *testing.T) {
	profiles := newFakeProfileRepo(trialingProfile("user-1"))
	svc := testStripeService(profiles)

	_, err := svc.CreatePortalSession(context.Background(), "user-1")
	if !errors.Is(err, ErrNoStripeCustomer) {
		t.Fatalf("expected ErrNoStripeCustomer, got %v", err)
	}
}

func TestFriendlyStripeErrorRemapsAuthFailure(t *testing.T) {
	err := friendlyStripeError(&stripe.Error{HTTPStatusCode: http.StatusUnauthorized, Msg: "Invalid API Key provided"})
	if err == nil || !strings.Contains(err.Error(), "authentication failed") {
		t.Fatalf("expected friendly authentication message, got %v", err)
	}
	if strings.Contains(err.Error(), "Invalid API Key") {
		t.Errorf("raw provider message leaked: %v", err)
	}
}

func TestFriendlyStripeErrorRemapsInvalidRequest(t *testing.T) {
	err := friendlyStripeError(&stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusBadRequest})
	if err == nil || !strings.Contains(err.Error(), "invalid stripe configuration") {
		t.Fatalf("expected friendly configuration message, got %v", err)
	}
}

func TestFriendlyStripeErrorPassesThroughOthers(t *testing.T) {
	plain := errors.New("connection reset")
	if got := friendlyStripeError(plain); got != plain {
		t.Errorf("expected non-stripe error unchanged, got %v", got)
	}
	cardErr := &stripe.Error{Type: stripe.ErrorTypeCard, HTTPStatusCode: http.StatusPaymentRequired}
	if got := friendlyStripeError(cardErr); got != error(cardErr) {
		t.Errorf("expected card error unchanged, got %v", got)
	}
}

// signedWebhookRequest builds a webhook POST carrying a valid
// Stripe-Signature header for the payload.
func signedWebhookRequest(t *testing.T, payload string) *http.Request {
	t.Helper()
	now := time.Now()
	sig := webhook.ComputeSignature(now, []byte(payload), testWebhookSecret)
	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", bytes.NewReader([]byte(payload)))
	req.Header.Set("Stripe-Signature", fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig)))
	return req
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	profiles := newFakeProfileRepo(trialingProfile("user-1"))
	svc := testStripeService(profiles)

	req := httptest.NewRequest(http.MethodPost, "/v1/billing/webhook", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Stripe-Signature", "t=123,v1=deadbeef")
	rec := httptest.NewRecorder()

	svc.HandleWebhook(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if len(profiles.updates) != 0 {
		t.Errorf("expected no profile writes on bad signature, got %d", len(profiles.updates))
	}
}

func TestWebhookPaymentFailedMarksPastDue(t *testing.T) {
	customerID := "cus_test_1"
	status := model.BillingStatusActive
	profiles := newFakeProfileRepo(&model.Profile{
		ID:               "user-1",
		PlanTier:         billing.TierGrowth,
		BillingStatus:    &status,
		StripeCustomerID: &customerID,
	})
	svc := testStripeService(profiles)

	payload := fmt.Sprintf(`{
		"id": "evt_1",
		"object": "event",
		"api_version": %q,
		"type": "invoice.payment_failed",
		"data": {"object": {"id": "in_1", "object": "invoice", "customer": "cus_test_1"}}
	}`, stripe.APIVersion)

	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, signedWebhookRequest(t, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	u := profiles.lastUpdate()
	if u == nil || u.BillingStatus == nil || *u.BillingStatus != model.BillingStatusPastDue {
		t.Fatalf("expected past_due write, got %+v", u)
	}
	if profiles.updated[len(profiles.updated)-1] != "user-1" {
		t.Errorf("expected update on user-1, got %v", profiles.updated)
	}
}

func TestWebhookPaymentFailedUnknownCustomerIsIgnored(t *testing.T) {
	profiles := newFakeProfileRepo(trialingProfile("user-1"))
	svc := testStripeService(profiles)

	payload := fmt.Sprintf(`{
		"id": "evt_2",
		"object": "event",
		"api_version": %q,
		"type": "invoice.payment_failed",
		"data": {"object": {"id": "in_2", "object": "invoice", "customer": "cus_unknown"}}
	}`, stripe.APIVersion)

	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, signedWebhookRequest(t, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for unknown customer, got %d", rec.Code)
	}
	if len(profiles.updates) != 0 {
		t.Errorf("expected no writes, got %d", len(profiles.updates))
	}
}

func TestWebhookSubscriptionDowngradeOnNonActiveStatus(t *testing.T) {
	active := model.BillingStatusActive
	profiles := newFakeProfileRepo(&model.Profile{ID: "user-1", PlanTier: billing.TierPro, BillingStatus: &active})
	svc := testStripeService(profiles)

	payload := fmt.Sprintf(`{
		"id": "evt_3",
		"object": "event",
		"api_version": %q,
		"type": "customer.subscription.deleted",
		"data": {"object": {
			"id": "sub_1",
			"object": "subscription",
			"status": "canceled",
			"metadata": {"userId": "user-1"},
			"items": {"object": "list", "data": [{"object": "subscription_item", "price": {"id": "price_pro", "object": "price"}}]}
		}}
	}`, stripe.APIVersion)

	rec := httptest.NewRecorder()
	svc.HandleWebhook(rec, signedWebhookRequest(t, payload))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	u := profiles.lastUpdate()
	if u == nil || u.PlanTier == nil || *u.PlanTier != billing.TierStarter {
		t.Fatalf("expected downgrade to starter, got %+v", u)
	}
	if u.BillingStatus == nil || *u.BillingStatus != "canceled" {
		t.Errorf("expected canceled status passthrough, got %v", u.BillingStatus)
	}
}
