package services

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
)

// AuthService handles registration, login and identity lookups for both roles
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TrainerAuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TrainerAuthResponse, error)
	StudentLogin(ctx context.Context, req *dto.StudentLoginRequest) (*dto.StudentAuthResponse, error)
	Me(ctx context.Context, principal auth.Principal) (*dto.MeResponse, error)
}

type authServiceImpl struct {
	trainerRepo repositories.ITrainerRepository
	studentRepo repositories.IStudentRepository
	jwtService  *auth.JWTService
	logger      zerolog.Logger
}

// NewAuthService creates a new AuthService
func NewAuthService(
	trainerRepo repositories.ITrainerRepository,
	studentRepo repositories.IStudentRepository,
	jwtService *auth.JWTService,
	logger zerolog.Logger,
) AuthService {
	return &authServiceImpl{
		trainerRepo: trainerRepo,
		studentRepo: studentRepo,
		jwtService:  jwtService,
		logger:      logger,
	}
}

// validateRegistration checks the fields the binding tags cannot express
func (s *authServiceImpl) validateRegistration(name, email, password string) error {
	if !validation.NewStringValidation(name).
		WithMinLength(validation.NameMinLength).
		WithMaxLength(validation.NameMaxLength).
		Validate() {
		return apperrors.NewValidationError("Nome deve ter pelo menos 3 caracteres")
	}
	if !validation.IsEmail(email) {
		return apperrors.NewValidationError("Email inválido")
	}
	if !validation.NewStringValidation(password).WithMinLength(validation.PasswordMinLength).Validate() {
		return apperrors.NewValidationError("Senha deve ter pelo menos 6 caracteres")
	}
	return nil
}

// Register creates a trainer on the FREE tier and signs them in
func (s *authServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TrainerAuthResponse, error) {
	name := validation.NormalizeName(req.Name)
	email := validation.NormalizeEmail(req.Email)
	if err := s.validateRegistration(name, email, req.Password); err != nil {
		return nil, err
	}

	exists, err := s.trainerRepo.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperrors.ErrEmailAlreadyExists
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to hash password")
		return nil, err
	}

	trainer := &models.PersonalTrainer{
		ID:                 uuid.New(),
		Name:               name,
		Email:              email,
		PasswordHash:       hash,
		Phone:              trimmedOrNil(req.Phone),
		CREF:               trimmedOrNil(req.CREF),
		MaxStudentsAllowed: models.PlanFreeMaxStudents,
	}
	if err := s.trainerRepo.Create(ctx, trainer); err != nil {
		return nil, err
	}

	s.logger.Info().Str("trainerId", trainer.ID.String()).Msg("Trainer registered")
	return s.trainerResponse(trainer)
}

// Login authenticates a trainer. Unknown email and wrong password are indistinguishable.
func (s *authServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TrainerAuthResponse, error) {
	trainer, err := s.trainerRepo.GetByEmail(ctx, validation.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrWrongCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(trainer.PasswordHash, req.Password) {
		s.logger.Debug().Str("trainerId", trainer.ID.String()).Msg("Wrong password on login")
		return nil, apperrors.ErrWrongCredentials
	}
	return s.trainerResponse(trainer)
}

// StudentLogin authenticates a student by access code. The student comes back with its trainer embedded.
func (s *authServiceImpl) StudentLogin(ctx context.Context, req *dto.StudentLoginRequest) (*dto.StudentAuthResponse, error) {
	code := strings.TrimSpace(req.AccessCode)
	if len([]rune(code)) != 5 {
		return nil, apperrors.NewValidationError("Código de acesso deve ter 5 caracteres")
	}

	student, err := s.studentRepo.GetByAccessCode(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrResourceNotFound) {
			return nil, apperrors.ErrInvalidAccessCode
		}
		return nil, err
	}
	if err := s.attachTrainer(ctx, student); err != nil {
		return nil, err
	}

	token, err := s.jwtService.GenerateToken(auth.Principal{Role: models.RoleStudent, ID: student.ID})
	if err != nil {
		return nil, err
	}
	return &dto.StudentAuthResponse{Token: token, ExpiresIn: s.jwtService.ExpiresIn(), Student: student}, nil
}

// Me returns the profile behind the principal
func (s *authServiceImpl) Me(ctx context.Context, principal auth.Principal) (*dto.MeResponse, error) {
	resp := &dto.MeResponse{Role: principal.Role}
	switch principal.Role {
	case models.RoleTrainer:
		trainer, err := s.trainerRepo.GetByID(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		resp.Personal = trainer
	case models.RoleStudent:
		student, err := s.studentRepo.GetByID(ctx, principal.ID)
		if err != nil {
			return nil, err
		}
		if err := s.attachTrainer(ctx, student); err != nil {
			return nil, err
		}
		resp.Student = student
	default:
		return nil, apperrors.ErrInvalidToken
	}
	return resp, nil
}

func (s *authServiceImpl) attachTrainer(ctx context.Context, student *models.Student) error {
	trainer, err := s.trainerRepo.GetByID(ctx, student.PersonalID)
	if err != nil {
		return err
	}
	student.Personal = trainer.Summary()
	return nil
}

func (s *authServiceImpl) trainerResponse(trainer *models.PersonalTrainer) (*dto.TrainerAuthResponse, error) {
	token, err := s.jwtService.GenerateToken(auth.Principal{Role: models.RoleTrainer, ID: trainer.ID})
	if err != nil {
		return nil, err
	}
	return &dto.TrainerAuthResponse{Token: token, ExpiresIn: s.jwtService.ExpiresIn(), Personal: trainer}, nil
}
