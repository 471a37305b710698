package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"app/internal/billing"
	"app/internal/config"
	"app/internal/model"
	"app/internal/repository"

	"github.com/rs/zerolog"
	"github.com/stripe/stripe-go/v82"
	billingsession "github.com/stripe/stripe-go/v82/billingportal/session"
	checkoutsession "github.com/stripe/stripe-go/v82/checkout/session"
	subscriptionpkg "github.com/stripe/stripe-go/v82/subscription"
	"github.com/stripe/stripe-go/v82/webhook"
)

// StripeService manages Stripe integration: checkout, portal, cancellation
// and webhook-driven profile updates. Stripe-side success followed by a
// failed profile write is surfaced as an error, not rolled back.
type StripeService struct {
	cfg         *config.Config
	profileRepo repository.ProfileRepository
	prices      *billing.PriceMap
	logger      zerolog.Logger
}

// NewStripeService initializes the Stripe key and returns the service with a
// scoped logger.
func NewStripeService(cfg *config.Config, profileRepo repository.ProfileRepository, prices *billing.PriceMap, logger zerolog.Logger) *StripeService {
	stripe.Key = cfg.StripeSecretKey
	lg := logger.With().Str("service", "StripeService").Logger()
	return &StripeService{cfg: cfg, profileRepo: profileRepo, prices: prices, logger: lg}
}

func (s *StripeService) configured() bool {
	return s.cfg.StripeSecretKey != "" && !strings.Contains(s.cfg.StripeSecretKey, "placeholder")
}

// CreateCheckoutSession creates a subscription-mode Stripe Checkout session
// and returns its ID and redirect URL.
func (s *StripeService) CreateCheckoutSession(ctx context.Context, userID, email, priceID string) (string, string, error) {
	if !s.configured() {
		s.logger.Error().Msg("STRIPE_SECRET_KEY not configured")
		return "", "", ErrStripeNotConfigured
	}
	if !strings.HasPrefix(priceID, "price_") {
		return "", "", ErrInvalidPriceID
	}

	params := &stripe.CheckoutSessionParams{
		CustomerEmail:      stripe.String(email),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          []*stripe.CheckoutSessionLineItemParams{{Price: stripe.String(priceID), Quantity: stripe.Int64(1)}},
		Mode:               stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL:         stripe.String(s.cfg.AppURL + "/dashboard?session_id={CHECKOUT_SESSION_ID}&from_checkout=true"),
		CancelURL:          stripe.String(s.cfg.AppURL + "/pricing"),
		SubscriptionData:   &stripe.CheckoutSessionSubscriptionDataParams{Metadata: map[string]string{"userId": userID}},
		Metadata:           map[string]string{"userId": userID, "email": email},
	}
	params.Context = ctx

	sess, err := checkoutsession.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create Stripe checkout session")
		return "", "", friendlyStripeError(err)
	}
	if sess.URL == "" {
		return "", "", fmt.Errorf("stripe did not return a checkout URL")
	}
	return sess.ID, sess.URL, nil
}

// VerifyCheckoutSession confirms a completed checkout session and writes the
// resulting subscription state onto the profile. When Stripe cannot supply
// subscription details, simulated references are written so the account still
// activates.
func (s *StripeService) VerifyCheckoutSession(ctx context.Context, sessionID, userID string) error {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("fetch profile: %w", err)
	}

	sess, err := checkoutsession.Get(sessionID, nil)
	if err != nil {
		s.logger.Error().Err(err).Str("session_id", sessionID).Msg("Failed to retrieve checkout session")
		return friendlyStripeError(err)
	}
	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid &&
		sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusUnpaid {
		s.logger.Info().Str("session_id", sessionID).Str("payment_status", string(sess.PaymentStatus)).Msg("Payment not completed yet")
		return ErrPaymentNotCompleted
	}

	now := time.Now()
	planTier := billing.TierStarter
	if profile != nil && profile.PlanTier != "" {
		planTier = profile.PlanTier
	}
	billingStatus := model.BillingStatusActive
	subscriptionStart := now
	subscriptionEnd := now.Add(30 * 24 * time.Hour)

	var subscriptionID string
	if sess.Subscription != nil && sess.Subscription.ID != "" {
		subscriptionID = sess.Subscription.ID
		sub, err := subscriptionpkg.Get(subscriptionID, nil)
		if err != nil {
			s.logger.Warn().Err(err).Str("subscription_id", subscriptionID).Msg("Could not retrieve subscription, using defaults")
			subscriptionID = fmt.Sprintf("sub_simulated_%d", now.UnixMilli())
		} else if len(sub.Items.Data) > 0 {
			item := sub.Items.Data[0]
			if item.Price != nil {
				planTier, _ = s.tierForPrice(item.Price.ID)
			}
			billingStatus = string(sub.Status)
			subscriptionStart = time.Unix(item.CurrentPeriodStart, 0)
			subscriptionEnd = time.Unix(item.CurrentPeriodEnd, 0)
		}
	} else {
		s.logger.Info().Str("session_id", sessionID).Msg("No subscription in session, writing simulated subscription")
		subscriptionID = fmt.Sprintf("sub_simulated_%d", now.UnixMilli())
	}

	customerID := fmt.Sprintf("cus_simulated_%d", now.UnixMilli())
	if sess.Customer != nil && sess.Customer.ID != "" {
		customerID = sess.Customer.ID
	}

	update := model.SubscriptionUpdate{
		StripeCustomerID:     &customerID,
		StripeSubscriptionID: &subscriptionID,
		PlanTier:             &planTier,
		BillingStatus:        &billingStatus,
		SubscriptionStart:    &subscriptionStart,
		SubscriptionEnd:      &subscriptionEnd,
	}
	if err := s.profileRepo.UpdateSubscription(ctx, userID, update); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to update profile after checkout verification")
		return fmt.Errorf("update profile: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Str("plan_tier", planTier).Msg("Checkout verified")
	return nil
}

// ActivateAccount marks an account active without a real Stripe checkout,
// writing simulated customer and subscription references. Returns whether the
// account was already active.
func (s *StripeService) ActivateAccount(ctx context.Context, userID string) (bool, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		return false, ErrProfileNotFound
	}
	if profile.BillingStatus != nil && *profile.BillingStatus == model.BillingStatusActive {
		s.logger.Info().Str("user_id", userID).Msg("Account already active")
		return true, nil
	}

	now := time.Now()
	customerID := fmt.Sprintf("cus_activated_%d", now.UnixMilli())
	subscriptionID := fmt.Sprintf("sub_activated_%d", now.UnixMilli())
	status := model.BillingStatusActive
	end := now.Add(30 * 24 * time.Hour)

	update := model.SubscriptionUpdate{
		StripeCustomerID:     &customerID,
		StripeSubscriptionID: &subscriptionID,
		BillingStatus:        &status,
		SubscriptionStart:    &now,
		SubscriptionEnd:      &end,
	}
	if err := s.profileRepo.UpdateSubscription(ctx, userID, update); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to activate account")
		return false, fmt.Errorf("activate account: %w", err)
	}
	s.logger.Info().Str("user_id", userID).Msg("Account activated")
	return false, nil
}

// CancelSubscription ends a free trial immediately or requests a Stripe
// cancel-at-period-end for a paid subscription, preserving access until the
// period closes.
func (s *StripeService) CancelSubscription(ctx context.Context, userID string) (string, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil {
		s.logger.Error().Str("user_id", userID).Msg("No profile found for cancellation")
		return "", ErrProfileNotFound
	}

	hasCustomer := profile.StripeCustomerID != nil && *profile.StripeCustomerID != ""
	trialing := profile.BillingStatus != nil && *profile.BillingStatus == model.BillingStatusTrialing

	if trialing && !hasCustomer {
		s.logger.Info().Str("user_id", userID).Msg("Cancelling free trial")
		now := time.Now()
		status := model.BillingStatusCancelled
		account := model.AccountStatusSuspended
		update := model.SubscriptionUpdate{
			BillingStatus:   &status,
			TrialEndDate:    &now,
			SubscriptionEnd: &now,
			AccountStatus:   &account,
		}
		if err := s.profileRepo.UpdateSubscription(ctx, userID, update); err != nil {
			s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to cancel trial")
			return "", fmt.Errorf("cancel trial: %w", err)
		}
		return "Free trial ended successfully. Your account has been cancelled.", nil
	}

	if profile.StripeSubscriptionID == nil || *profile.StripeSubscriptionID == "" {
		return "", ErrNoSubscription
	}
	if !s.configured() {
		return "", ErrStripeNotConfigured
	}

	sub, err := subscriptionpkg.Update(*profile.StripeSubscriptionID, &stripe.SubscriptionParams{
		CancelAtPeriodEnd: stripe.Bool(true),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to request cancel-at-period-end")
		return "", friendlyStripeError(err)
	}

	subscriptionEnd := time.Now()
	if len(sub.Items.Data) > 0 && sub.Items.Data[0].CurrentPeriodEnd > 0 {
		subscriptionEnd = time.Unix(sub.Items.Data[0].CurrentPeriodEnd, 0)
	}
	status := model.BillingStatusCancelled
	update := model.SubscriptionUpdate{
		BillingStatus:   &status,
		SubscriptionEnd: &subscriptionEnd,
	}
	if err := s.profileRepo.UpdateSubscription(ctx, userID, update); err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to store cancellation")
		return "", fmt.Errorf("store cancellation: %w", err)
	}
	return "Subscription cancelled. Access continues until the end of your billing period.", nil
}

// CreatePortalSession creates a Stripe Customer Portal session for the
// profile's stored customer.
func (s *StripeService) CreatePortalSession(ctx context.Context, userID string) (string, error) {
	profile, err := s.profileRepo.GetProfileByID(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("fetch profile: %w", err)
	}
	if profile == nil || profile.StripeCustomerID == nil || *profile.StripeCustomerID == "" {
		s.logger.Error().Str("user_id", userID).Msg("No Stripe customer for portal session")
		return "", ErrNoStripeCustomer
	}

	params := &stripe.BillingPortalSessionParams{
		Customer:  stripe.String(*profile.StripeCustomerID),
		ReturnURL: stripe.String(s.cfg.AppURL + "/dashboard/settings"),
	}
	sess, err := billingsession.New(params)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to create billing portal session")
		return "", friendlyStripeError(err)
	}
	return sess.URL, nil
}

// HandleWebhook processes Stripe webhook events and propagates subscription
// state into the matching profile.
func (s *StripeService) HandleWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to read Stripe webhook payload")
		http.Error(w, "failed to read payload", http.StatusBadRequest)
		return
	}
	sig := r.Header.Get("Stripe-Signature")
	if sig == "" {
		http.Error(w, "no signature", http.StatusBadRequest)
		return
	}
	event, err := webhook.ConstructEvent(payload, sig, s.cfg.StripeWebhookSecret)
	if err != nil {
		s.logger.Error().Err(err).Msg("Signature verification failed for Stripe webhook")
		http.Error(w, "signature verification failed", http.StatusBadRequest)
		return
	}
	s.logger.Info().Str("event_type", string(event.Type)).Msg("Stripe webhook received")

	ctx := r.Context()
	switch event.Type {
	case "checkout.session.completed":
		if err := s.handleCheckoutCompleted(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to process checkout.session.completed")
			http.Error(w, "failed to process event", http.StatusInternalServerError)
			return
		}
	case "customer.subscription.updated", "customer.subscription.deleted":
		if err := s.handleSubscriptionChanged(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to process subscription change")
			http.Error(w, "failed to process event", http.StatusInternalServerError)
			return
		}
	case "invoice.payment_failed":
		if err := s.handlePaymentFailed(ctx, event); err != nil {
			s.logger.Error().Err(err).Msg("Failed to process invoice.payment_failed")
			http.Error(w, "failed to process event", http.StatusInternalServerError)
			return
		}
	default:
		s.logger.Warn().Str("event_type", string(event.Type)).Msg("Unhandled Stripe webhook event")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"received": true})
}

func (s *StripeService) handleCheckoutCompleted(ctx context.Context, event stripe.Event) error {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return fmt.Errorf("invalid checkout.session data: %w", err)
	}
	userID := cs.Metadata["userId"]
	if userID == "" || cs.Subscription == nil || cs.Subscription.ID == "" {
		s.logger.Warn().Str("user_id", userID).Msg("Checkout completed without user or subscription, skipping")
		return nil
	}

	sub, err := subscriptionpkg.Get(cs.Subscription.ID, nil)
	if err != nil {
		return fmt.Errorf("fetch subscription %s: %w", cs.Subscription.ID, err)
	}
	if len(sub.Items.Data) == 0 || sub.Items.Data[0].Price == nil {
		return fmt.Errorf("subscription %s has no priced items", sub.ID)
	}
	item := sub.Items.Data[0]
	planTier, _ := s.tierForPrice(item.Price.ID)
	status := string(sub.Status)
	start := time.Unix(item.CurrentPeriodStart, 0)
	end := time.Unix(item.CurrentPeriodEnd, 0)

	var customerID *string
	if sub.Customer != nil && sub.Customer.ID != "" {
		customerID = &sub.Customer.ID
	}

	s.logger.Info().Str("user_id", userID).Str("plan_tier", planTier).Str("subscription_id", sub.ID).Msg("Checkout completed, updating profile")
	return s.profileRepo.UpdateSubscription(ctx, userID, model.SubscriptionUpdate{
		StripeCustomerID:     customerID,
		StripeSubscriptionID: &sub.ID,
		PlanTier:             &planTier,
		BillingStatus:        &status,
		SubscriptionStart:    &start,
		SubscriptionEnd:      &end,
	})
}

func (s *StripeService) handleSubscriptionChanged(ctx context.Context, event stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return fmt.Errorf("invalid subscription data: %w", err)
	}
	userID := sub.Metadata["userId"]
	if userID == "" {
		s.logger.Warn().Str("subscription_id", sub.ID).Msg("Subscription event without userId metadata, skipping")
		return nil
	}

	// A non-active subscription drops the tenant back to starter.
	planTier := billing.TierStarter
	if sub.Status == stripe.SubscriptionStatusActive && len(sub.Items.Data) > 0 && sub.Items.Data[0].Price != nil {
		planTier, _ = s.tierForPrice(sub.Items.Data[0].Price.ID)
	}
	status := string(sub.Status)

	update := model.SubscriptionUpdate{
		BillingStatus: &status,
		PlanTier:      &planTier,
	}
	if len(sub.Items.Data) > 0 && sub.Items.Data[0].CurrentPeriodEnd > 0 {
		end := time.Unix(sub.Items.Data[0].CurrentPeriodEnd, 0)
		update.SubscriptionEnd = &end
	}
	return s.profileRepo.UpdateSubscription(ctx, userID, update)
}

func (s *StripeService) handlePaymentFailed(ctx context.Context, event stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		return fmt.Errorf("invalid invoice data: %w", err)
	}
	if invoice.Customer == nil || invoice.Customer.ID == "" {
		s.logger.Warn().Str("invoice_id", invoice.ID).Msg("Invoice without customer, skipping")
		return nil
	}

	profile, err := s.profileRepo.GetProfileByStripeCustomerID(ctx, invoice.Customer.ID)
	if err != nil {
		return fmt.Errorf("lookup profile by customer %s: %w", invoice.Customer.ID, err)
	}
	if profile == nil {
		s.logger.Warn().Str("stripe_customer_id", invoice.Customer.ID).Msg("No profile for failed invoice, skipping")
		return nil
	}

	status := model.BillingStatusPastDue
	s.logger.Info().Str("user_id", profile.ID).Msg("Marking profile past_due after failed payment")
	return s.profileRepo.UpdateSubscription(ctx, profile.ID, model.SubscriptionUpdate{BillingStatus: &status})
}

func (s *StripeService) tierForPrice(priceID string) (string, bool) {
	tier, known := s.prices.TierForPriceID(priceID)
	if !known {
		s.logger.Warn().Str("price_id", priceID).Msg("Unknown price ID, defaulting to starter")
	}
	return tier, known
}

// friendlyStripeError remaps Stripe SDK errors onto messages safe to show a
// user; other errors pass through unchanged.
func friendlyStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return err
	}
	switch {
	case stripeErr.HTTPStatusCode == http.StatusUnauthorized:
		return fmt.Errorf("stripe authentication failed, please check the configured API keys")
	case stripeErr.Type == stripe.ErrorTypeInvalidRequest:
		return fmt.Errorf("invalid stripe configuration, please check the configured price IDs and API keys")
	default:
		return err
	}
}
