package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/asaas"
)

// PaymentGateway is the part of the Asaas API the subscription flow needs
type PaymentGateway interface {
	CreateCheckout(ctx context.Context, req asaas.CheckoutRequest) (*asaas.Checkout, error)
	GetSubscription(ctx context.Context, id string) (*asaas.Subscription, error)
	FindActiveSubscription(ctx context.Context, externalReference string) (*asaas.Subscription, error)
	CancelSubscription(ctx context.Context, id string) error
}

// SubscriptionConfig holds the plan and callback settings of the PRO checkout
type SubscriptionConfig struct {
	PlanName     string
	PlanValue    float64
	FrontendURL  string
	WebhookToken string
}

// Webhook acknowledgement reasons
const (
	ReasonEventNotHandled  = "event not handled"
	ReasonTrainerNotFound  = "trainer not found"
	checkoutMinutesToLive  = 60
	planDescription        = "Alunos ilimitados"
	subscriptionCallbackTo = "/subscription"
)

// SubscriptionService moves trainers between the FREE and PRO tiers
type SubscriptionService interface {
	Status(ctx context.Context, trainerID uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	Checkout(ctx context.Context, trainerID uuid.UUID) (*dto.CheckoutResponse, error)
	Cancel(ctx context.Context, trainerID uuid.UUID) (*dto.SubscriptionStatusResponse, error)
	VerifyWebhookToken(token string) error
	HandleWebhook(ctx context.Context, event *asaas.WebhookEvent) (*dto.WebhookAck, error)
}

type subscriptionServiceImpl struct {
	trainerRepo repositories.ITrainerRepository
	studentRepo repositories.IStudentRepository
	eventRepo   repositories.ISubscriptionEventRepository
	gateway     PaymentGateway
	config      SubscriptionConfig
	now         Clock
	logger      zerolog.Logger
}

// NewSubscriptionService creates a new SubscriptionService
func NewSubscriptionService(
	trainerRepo repositories.ITrainerRepository,
	studentRepo repositories.IStudentRepository,
	eventRepo repositories.ISubscriptionEventRepository,
	gateway PaymentGateway,
	config SubscriptionConfig,
	now Clock,
	logger zerolog.Logger,
) SubscriptionService {
	if now == nil {
		now = time.Now
	}
	return &subscriptionServiceImpl{
		trainerRepo: trainerRepo,
		studentRepo: studentRepo,
		eventRepo:   eventRepo,
		gateway:     gateway,
		config:      config,
		now:         now,
		logger:      logger,
	}
}

// Status reports the trainer's tier and how much of it is used
func (s *subscriptionServiceImpl) Status(ctx context.Context, trainerID uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	count, err := s.studentRepo.CountByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	return &dto.SubscriptionStatusResponse{
		Plan:               trainer.Plan(),
		MaxStudentsAllowed: trainer.MaxStudentsAllowed,
		StudentCount:       count,
		SubscriptionID:     trainer.AsaasSubscriptionID,
	}, nil
}

// Checkout opens a hosted recurring checkout for the PRO plan. A CPF on file is required.
func (s *subscriptionServiceImpl) Checkout(ctx context.Context, trainerID uuid.UUID) (*dto.CheckoutResponse, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if !trainer.HasTaxID() {
		return nil, apperrors.ErrTaxIDRequired
	}

	checkout, err := s.gateway.CreateCheckout(ctx, s.checkoutRequest(trainer))
	if err != nil {
		s.logger.Error().Err(err).Str("trainerId", trainerID.String()).Msg("Checkout failed")
		return nil, err
	}

	s.logger.Info().Str("trainerId", trainerID.String()).Str("checkoutId", checkout.ID).Msg("Checkout created")
	return &dto.CheckoutResponse{URL: checkout.URL()}, nil
}

func (s *subscriptionServiceImpl) checkoutRequest(t *models.PersonalTrainer) asaas.CheckoutRequest {
	callback := strings.TrimRight(s.config.FrontendURL, "/") + subscriptionCallbackTo
	return asaas.CheckoutRequest{
		BillingTypes:    []string{asaas.BillingCreditCard},
		ChargeTypes:     []string{asaas.ChargeRecurrent},
		MinutesToExpire: checkoutMinutesToLive,
		Callback: asaas.CheckoutCallback{
			SuccessURL: callback + "?status=success",
			CancelURL:  callback + "?status=cancelled",
			ExpiredURL: callback + "?status=expired",
		},
		Items: []asaas.CheckoutItem{{
			Name:        s.config.PlanName,
			Description: planDescription,
			Quantity:    1,
			Value:       s.config.PlanValue,
		}},
		CustomerData: &asaas.CustomerData{
			Name:          t.Name,
			CpfCnpj:       deref(t.CPF),
			Email:         t.Email,
			Phone:         deref(t.Phone),
			Address:       deref(t.Address),
			AddressNumber: deref(t.AddressNumber),
			Complement:    deref(t.Complement),
			PostalCode:    deref(t.PostalCode),
			Province:      deref(t.Province),
			City:          deref(t.City),
		},
		Subscription: &asaas.CheckoutSubscription{
			Cycle:       asaas.CycleMonthly,
			NextDueDate: s.now().Format("2006-01-02"),
		},
		ExternalReference: t.ID.String(),
	}
}

// Cancel deletes the PRO subscription at the gateway and then downgrades locally.
// Nothing changes locally unless the gateway confirmed the cancellation.
func (s *subscriptionServiceImpl) Cancel(ctx context.Context, trainerID uuid.UUID) (*dto.SubscriptionStatusResponse, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if trainer.Plan() != models.PlanPro {
		return nil, apperrors.ErrNotSubscribed
	}

	subscriptionID := deref(trainer.AsaasSubscriptionID)
	if subscriptionID == "" {
		sub, err := s.gateway.FindActiveSubscription(ctx, trainerID.String())
		if err != nil {
			return nil, err
		}
		if sub == nil {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		subscriptionID = sub.ID
	}

	if err := s.gateway.CancelSubscription(ctx, subscriptionID); err != nil {
		return nil, err
	}
	if err := s.trainerRepo.SetPlan(ctx, trainerID, models.PlanFreeMaxStudents, nil); err != nil {
		s.logger.Error().Err(err).Str("trainerId", trainerID.String()).Str("subscriptionId", subscriptionID).
			Msg("Subscription cancelled at the gateway but local downgrade failed")
		return nil, err
	}

	s.logger.Info().Str("trainerId", trainerID.String()).Str("subscriptionId", subscriptionID).Msg("Subscription cancelled")
	return s.Status(ctx, trainerID)
}

// VerifyWebhookToken checks the shared webhook secret when one is configured
func (s *subscriptionServiceImpl) VerifyWebhookToken(token string) error {
	if s.config.WebhookToken == "" {
		return nil
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.config.WebhookToken)) != 1 {
		return apperrors.ErrInvalidWebhookAuth
	}
	return nil
}

// HandleWebhook applies a gateway event to the trainer it refers to. Applying is an
// overwrite of the tier columns, so replays leave the same state. Returned errors
// are infrastructure failures the gateway should retry.
func (s *subscriptionServiceImpl) HandleWebhook(ctx context.Context, event *asaas.WebhookEvent) (*dto.WebhookAck, error) {
	record := &models.SubscriptionEvent{
		Event:          event.Event,
		SubscriptionID: nonEmpty(event.SubscriptionID()),
		PaymentID:      nonEmpty(event.PaymentID()),
		ReceivedAt:     s.now(),
	}
	log := s.logger.With().Str("event", event.Event).Str("subscriptionId", event.SubscriptionID()).Logger()

	if !event.Upgrades() && !event.Downgrades() {
		log.Debug().Msg("Ignoring webhook event")
		return s.acknowledge(ctx, record, ReasonEventNotHandled)
	}

	trainer, err := s.resolveTrainer(ctx, event)
	if err != nil {
		log.Error().Err(err).Msg("Could not resolve webhook trainer")
		return nil, err
	}
	if trainer == nil {
		log.Warn().Str("externalReference", event.ExternalReference()).Msg("Webhook refers to no known trainer")
		return s.acknowledge(ctx, record, ReasonTrainerNotFound)
	}
	record.TrainerID = &trainer.ID

	if event.Upgrades() {
		subscriptionID := nonEmpty(event.SubscriptionID())
		if subscriptionID == nil {
			subscriptionID = trainer.AsaasSubscriptionID
		}
		err = s.trainerRepo.SetPlan(ctx, trainer.ID, models.PlanProMaxStudents, subscriptionID)
	} else {
		err = s.trainerRepo.SetPlan(ctx, trainer.ID, models.PlanFreeMaxStudents, nil)
	}
	if err != nil {
		log.Error().Err(err).Str("trainerId", trainer.ID.String()).Msg("Failed to apply webhook plan change")
		return nil, err
	}
	record.Applied = true

	if err := s.eventRepo.Record(ctx, record); err != nil {
		log.Error().Err(err).Msg("Failed to record webhook event")
		return nil, err
	}
	log.Info().Str("trainerId", trainer.ID.String()).Bool("pro", event.Upgrades()).Msg("Webhook applied")
	return &dto.WebhookAck{Received: true}, nil
}

func (s *subscriptionServiceImpl) acknowledge(ctx context.Context, record *models.SubscriptionEvent, reason string) (*dto.WebhookAck, error) {
	if err := s.eventRepo.Record(ctx, record); err != nil {
		s.logger.Error().Err(err).Str("event", record.Event).Msg("Failed to record webhook event")
		return nil, err
	}
	return &dto.WebhookAck{Received: true, Ignored: true, Reason: reason}, nil
}

// resolveTrainer tries, in order, the external reference we set at checkout, the
// locally stored subscription id, and the subscription as known by the gateway.
// It returns nil, nil when the event belongs to no trainer.
func (s *subscriptionServiceImpl) resolveTrainer(ctx context.Context, event *asaas.WebhookEvent) (*models.PersonalTrainer, error) {
	if trainer, err := s.trainerByReference(ctx, event.ExternalReference()); trainer != nil || err != nil {
		return trainer, err
	}

	subscriptionID := event.SubscriptionID()
	if subscriptionID == "" {
		return nil, nil
	}
	trainer, err := s.trainerRepo.GetBySubscriptionID(ctx, subscriptionID)
	if err == nil {
		return trainer, nil
	}
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, err
	}

	sub, err := s.gateway.GetSubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, nil
	}
	return s.trainerByReference(ctx, sub.ExternalReference)
}

func (s *subscriptionServiceImpl) trainerByReference(ctx context.Context, reference string) (*models.PersonalTrainer, error) {
	id, err := uuid.Parse(strings.TrimSpace(reference))
	if err != nil {
		return nil, nil
	}
	trainer, err := s.trainerRepo.GetByID(ctx, id)
	if errors.Is(err, apperrors.ErrResourceNotFound) {
		return nil, nil
	}
	return trainer, err
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func nonEmpty(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
