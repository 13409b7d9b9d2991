package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/services"
	"github.com/viniciusfeitosaa/gymapp/internal/middleware"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/asaas"
)

// SubscriptionController handles the PRO plan checkout, cancellation and gateway webhooks
type SubscriptionController struct {
	subscriptionService services.SubscriptionService
	logger              zerolog.Logger
}

// NewSubscriptionController creates a new SubscriptionController
func NewSubscriptionController(subscriptionService services.SubscriptionService, logger zerolog.Logger) *SubscriptionController {
	return &SubscriptionController{subscriptionService: subscriptionService, logger: logger}
}

// Status returns the trainer's plan and usage
// @Summary Subscription status
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SubscriptionStatusResponse
// @Router /subscription/status [get]
func (c *SubscriptionController) Status(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}

	status, err := c.subscriptionService.Status(ctx.Request.Context(), trainerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// Checkout opens a hosted checkout for the PRO plan
// @Summary Start PRO checkout
// @Description Requires a CPF on the trainer profile. Returns the URL the frontend redirects to.
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.CheckoutResponse
// @Failure 400 {object} dto.ErrorResponse "CPF_REQUIRED"
// @Failure 502 {object} dto.ErrorResponse "GATEWAY_ERROR"
// @Router /subscription/checkout [post]
func (c *SubscriptionController) Checkout(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}

	checkout, err := c.subscriptionService.Checkout(ctx.Request.Context(), trainerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, checkout)
}

// Cancel cancels the PRO subscription and returns to FREE
// @Summary Cancel PRO subscription
// @Tags subscription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.SubscriptionStatusResponse
// @Failure 400 {object} dto.ErrorResponse "NOT_SUBSCRIBED"
// @Failure 404 {object} dto.ErrorResponse "SUBSCRIPTION_NOT_FOUND"
// @Failure 502 {object} dto.ErrorResponse "GATEWAY_ERROR"
// @Router /subscription/cancel [post]
func (c *SubscriptionController) Cancel(ctx *gin.Context) {
	trainerID, ok := callerID(ctx)
	if !ok {
		return
	}

	status, err := c.subscriptionService.Cancel(ctx.Request.Context(), trainerID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, status)
}

// Webhook receives Asaas payment and subscription events
// @Summary Asaas webhook
// @Description Applies plan changes from gateway events. Irrelevant events are acknowledged and ignored.
// @Tags webhooks
// @Accept json
// @Produce json
// @Param asaas-access-token header string false "Webhook token configured at the gateway"
// @Param event body asaas.WebhookEvent true "Event"
// @Success 200 {object} dto.WebhookAck
// @Failure 400 {object} dto.ErrorResponse "Malformed payload"
// @Failure 401 {object} dto.ErrorResponse "Wrong webhook token"
// @Failure 500 {object} dto.ErrorResponse "Processing failed, the gateway retries"
// @Router /webhooks/asaas [post]
func (c *SubscriptionController) Webhook(ctx *gin.Context) {
	if err := c.subscriptionService.VerifyWebhookToken(ctx.GetHeader(asaas.WebhookTokenHeader)); err != nil {
		c.logger.Warn().Str("clientIp", ctx.ClientIP()).Msg("Webhook rejected: bad token")
		middleware.HandleAPIError(ctx, err)
		return
	}

	var event asaas.WebhookEvent
	if err := ctx.ShouldBindJSON(&event); err != nil || event.Event == "" {
		c.logger.Warn().Err(err).Msg("Malformed webhook payload")
		ctx.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Payload inválido"})
		return
	}

	ack, err := c.subscriptionService.HandleWebhook(ctx.Request.Context(), &event)
	if err != nil {
		// any failure here is retried by the gateway, whatever its category
		c.logger.Error().Err(err).Str("event", event.Event).Str("eventId", event.ID).Msg("Webhook processing failed")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: middleware.InternalErrorMessage})
		return
	}

	ctx.JSON(http.StatusOK, ack)
}
