package handler

import (
	"encoding/json"
	"net/http"

	"app/internal/api/v1/dto"
	"app/internal/middleware"
	"app/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// BillingHandler handles subscription billing endpoints.
type BillingHandler struct {
	stripeSvc  *service.StripeService
	profileSvc *service.ProfileService
	validate   *validator.Validate
	logger     zerolog.Logger
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(stripeSvc *service.StripeService, profileSvc *service.ProfileService, validate *validator.Validate, logger zerolog.Logger) *BillingHandler {
	return &BillingHandler{stripeSvc: stripeSvc, profileSvc: profileSvc, validate: validate, logger: logger}
}

// RegisterRoutes mounts the billing endpoints. The webhook stays outside the
// auth middleware because Stripe authenticates with its signature header.
func (h *BillingHandler) RegisterRoutes(mux *http.ServeMux, authMw func(http.Handler) http.Handler) {
	mux.Handle("/billing/checkout", authMw(http.HandlerFunc(h.checkout)))
	mux.Handle("/billing/verify", authMw(http.HandlerFunc(h.verify)))
	mux.Handle("/billing/activate", authMw(http.HandlerFunc(h.activate)))
	mux.Handle("/billing/cancel", authMw(http.HandlerFunc(h.cancel)))
	mux.Handle("/billing/portal", authMw(http.HandlerFunc(h.portal)))
	mux.Handle("/billing/webhook", http.HandlerFunc(h.webhook))
}

// checkout godoc
// @Summary Initiate a Stripe Checkout session for plan purchase
// @Description Creates a subscription-mode Stripe Checkout session and returns its URL.
// @Tags billing
// @Accept json
// @Produce json
// @Param checkout body dto.CheckoutRequestDTO true "Checkout request"
// @Success 200 {object} dto.CheckoutResponseDTO
// @Failure 400 {string} string "Invalid JSON payload or validation failed"
// @Failure 401 {string} string "unauthorized"
// @Failure 500 {string} string "failed to create checkout session"
// @Router /billing/checkout [post]
func (h *BillingHandler) checkout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.CheckoutRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}

	profile, err := h.profileSvc.GetProfile(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to load profile")
		return
	}
	sessionID, url, err := h.stripeSvc.CreateCheckoutSession(r.Context(), userID, profile.Email, req.PriceID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create checkout session")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, dto.CheckoutResponseDTO{SessionID: sessionID, URL: url})
}

// verify godoc
// @Summary Verify a completed checkout session
// @Description Confirms payment for a checkout session and activates the subscription.
// @Tags billing
// @Accept json
// @Produce json
// @Param verify body dto.VerifyRequestDTO true "Verify request"
// @Success 200 {object} map[string]bool
// @Failure 400 {string} string "payment not completed"
// @Failure 401 {string} string "unauthorized"
// @Router /billing/verify [post]
func (h *BillingHandler) verify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var req dto.VerifyRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid JSON payload: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		http.Error(w, "Validation failed: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.stripeSvc.VerifyCheckoutSession(r.Context(), req.SessionID, userID); err != nil {
		writeServiceError(w, h.logger, err, "failed to verify checkout session")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]bool{"verified": true})
}

// activate godoc
// @Summary Activate an account without a checkout session
// @Description Marks the account active with simulated subscription references.
// @Tags billing
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 401 {string} string "unauthorized"
// @Router /billing/activate [post]
func (h *BillingHandler) activate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	alreadyActive, err := h.stripeSvc.ActivateAccount(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to activate account")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]bool{"activated": true, "already_active": alreadyActive})
}

// cancel godoc
// @Summary Cancel the current subscription or trial
// @Description Ends a trial immediately or schedules a paid subscription to cancel at period end.
// @Tags billing
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "no active subscription found"
// @Failure 401 {string} string "unauthorized"
// @Router /billing/cancel [post]
func (h *BillingHandler) cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	msg, err := h.stripeSvc.CancelSubscription(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to cancel subscription")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"message": msg})
}

// portal godoc
// @Summary Create a Stripe Customer Portal session
// @Description Generates a Customer Portal session URL for the authenticated user.
// @Tags billing
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 400 {string} string "no stripe customer found"
// @Failure 401 {string} string "unauthorized"
// @Router /billing/portal [post]
func (h *BillingHandler) portal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	userID, ok := r.Context().Value(middleware.UserContextKey).(string)
	if !ok || userID == "" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	url, err := h.stripeSvc.CreatePortalSession(r.Context(), userID)
	if err != nil {
		writeServiceError(w, h.logger, err, "failed to create portal session")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, map[string]string{"url": url})
}

// webhook godoc
// @Summary Stripe webhook receiver
// @Description Verifies the Stripe signature and applies subscription lifecycle events.
// @Tags billing
// @Accept json
// @Produce json
// @Success 200 {object} map[string]bool
// @Failure 400 {string} string "signature verification failed"
// @Router /billing/webhook [post]
func (h *BillingHandler) webhook(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	h.stripeSvc.HandleWebhook(w, r)
}
