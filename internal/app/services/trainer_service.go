package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
)

// TrainerService manages the authenticated trainer's own account
type TrainerService interface {
	GetProfile(ctx context.Context, trainerID uuid.UUID) (*models.PersonalTrainer, error)
	UpdateProfile(ctx context.Context, trainerID uuid.UUID, req *dto.UpdateProfileRequest) (*models.PersonalTrainer, error)
	ChangePassword(ctx context.Context, trainerID uuid.UUID, req *dto.ChangePasswordRequest) error
}

type trainerServiceImpl struct {
	trainerRepo repositories.ITrainerRepository
	logger      zerolog.Logger
}

// NewTrainerService creates a new TrainerService
func NewTrainerService(trainerRepo repositories.ITrainerRepository, logger zerolog.Logger) TrainerService {
	return &trainerServiceImpl{trainerRepo: trainerRepo, logger: logger}
}

func (s *trainerServiceImpl) GetProfile(ctx context.Context, trainerID uuid.UUID) (*models.PersonalTrainer, error) {
	return s.trainerRepo.GetByID(ctx, trainerID)
}

// UpdateProfile applies the non-nil fields. An empty string clears an optional field.
func (s *trainerServiceImpl) UpdateProfile(ctx context.Context, trainerID uuid.UUID, req *dto.UpdateProfileRequest) (*models.PersonalTrainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := validation.NormalizeName(*req.Name)
		if !validation.NewStringValidation(name).WithMinLength(validation.NameMinLength).WithMaxLength(validation.NameMaxLength).Validate() {
			return nil, apperrors.NewValidationError("Nome deve ter pelo menos 3 caracteres")
		}
		trainer.Name = name
	}
	if req.CPF != nil {
		digits := validation.DigitsOnly(*req.CPF)
		if digits != "" && !validation.IsValidTaxID(digits) {
			return nil, apperrors.NewValidationError("CPF inválido")
		}
		trainer.CPF = trimmedOrNil(&digits)
	}
	if req.PostalCode != nil {
		digits := validation.DigitsOnly(*req.PostalCode)
		trainer.PostalCode = trimmedOrNil(&digits)
	}
	applyOptional(&trainer.Phone, req.Phone)
	applyOptional(&trainer.CREF, req.CREF)
	applyOptional(&trainer.Address, req.Address)
	applyOptional(&trainer.AddressNumber, req.AddressNumber)
	applyOptional(&trainer.Complement, req.Complement)
	applyOptional(&trainer.Province, req.Province)
	applyOptional(&trainer.City, req.City)
	applyOptional(&trainer.State, req.State)

	if err := s.trainerRepo.UpdateProfile(ctx, trainer); err != nil {
		return nil, err
	}
	return trainer, nil
}

// ChangePassword replaces the password after checking the current one
func (s *trainerServiceImpl) ChangePassword(ctx context.Context, trainerID uuid.UUID, req *dto.ChangePasswordRequest) error {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return err
	}
	if !auth.CheckPassword(trainer.PasswordHash, req.CurrentPassword) {
		return apperrors.ErrWrongPassword
	}
	if !validation.NewStringValidation(req.NewPassword).WithMinLength(validation.PasswordMinLength).Validate() {
		return apperrors.NewValidationError("Senha deve ter pelo menos 6 caracteres")
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.trainerRepo.UpdatePassword(ctx, trainerID, hash); err != nil {
		return err
	}
	s.logger.Info().Str("trainerId", trainerID.String()).Msg("Trainer password changed")
	return nil
}
