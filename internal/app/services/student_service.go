package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/accesscode"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/helpers"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
)

// StudentService manages the students of a trainer and a student's own profile
type StudentService interface {
	List(ctx context.Context, trainerID uuid.UUID, search string, page, size int) (*dto.StudentListResponse, error)
	Get(ctx context.Context, trainerID, id uuid.UUID) (*models.Student, error)
	Create(ctx context.Context, trainerID uuid.UUID, req *dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, trainerID, id uuid.UUID, req *dto.UpdateStudentRequest) (*models.Student, error)
	Delete(ctx context.Context, trainerID, id uuid.UUID) error
	RegenerateAccessCode(ctx context.Context, trainerID, id uuid.UUID) (string, error)
	GetOwnProfile(ctx context.Context, studentID uuid.UUID) (*models.Student, error)
	UpdateOwnProfile(ctx context.Context, studentID uuid.UUID, req *dto.UpdateOwnProfileRequest) (*models.Student, error)
}

type studentServiceImpl struct {
	studentRepo repositories.IStudentRepository
	trainerRepo repositories.ITrainerRepository
	codes       *accesscode.Generator
	logger      zerolog.Logger
}

// NewStudentService creates a new StudentService
func NewStudentService(
	studentRepo repositories.IStudentRepository,
	trainerRepo repositories.ITrainerRepository,
	codes *accesscode.Generator,
	logger zerolog.Logger,
) StudentService {
	return &studentServiceImpl{
		studentRepo: studentRepo,
		trainerRepo: trainerRepo,
		codes:       codes,
		logger:      logger,
	}
}

// List returns one page of the trainer's students, optionally filtered by name
func (s *studentServiceImpl) List(ctx context.Context, trainerID uuid.UUID, search string, page, size int) (*dto.StudentListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	students, total, err := s.studentRepo.ListByTrainer(ctx, trainerID, models.StudentFilter{
		Search: validation.NormalizeName(search),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return nil, err
	}
	return &dto.StudentListResponse{
		Students:   students,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}, nil
}

func (s *studentServiceImpl) Get(ctx context.Context, trainerID, id uuid.UUID) (*models.Student, error) {
	return s.studentRepo.GetByIDForTrainer(ctx, id, trainerID)
}

// Create adds a student with a fresh access code, within the trainer's plan ceiling
func (s *studentServiceImpl) Create(ctx context.Context, trainerID uuid.UUID, req *dto.CreateStudentRequest) (*models.Student, error) {
	name := validation.NormalizeName(req.Name)
	if !validation.NewStringValidation(name).WithMinLength(validation.NameMinLength).WithMaxLength(validation.NameMaxLength).Validate() {
		return nil, apperrors.NewValidationError("Nome deve ter pelo menos 3 caracteres")
	}
	if err := validateDays(req.TrainingDays); err != nil {
		return nil, err
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	count, err := s.studentRepo.CountByTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if count >= trainer.MaxStudentsAllowed {
		s.logger.Info().Str("trainerId", trainerID.String()).Int("count", count).Msg("Student limit reached")
		return nil, apperrors.ErrStudentLimitReached
	}

	days := req.TrainingDays
	if days == nil {
		days = []models.DayOfWeek{}
	}
	student := &models.Student{
		PersonalID:   trainerID,
		Name:         name,
		Email:        normalizedEmailOrNil(req.Email),
		Phone:        trimmedOrNil(req.Phone),
		BirthDate:    req.BirthDate.Ptr(),
		Gender:       trimmedOrNil(req.Gender),
		Height:       req.Height,
		Weight:       req.Weight,
		Goal:         trimmedOrNil(req.Goal),
		Notes:        trimmedOrNil(req.Notes),
		TrainingDays: days,
		Active:       true,
	}

	_, err = s.codes.Assign(ctx, s.studentRepo.AccessCodeExists, func(ctx context.Context, code string) error {
		student.ID = uuid.Nil
		student.AccessCode = code
		return collision(s.studentRepo.Create(ctx, student))
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrExhaustedKeyspace) {
			s.logger.Error().Str("trainerId", trainerID.String()).Msg("Could not draw a free access code")
		}
		return nil, err
	}

	s.logger.Info().Str("trainerId", trainerID.String()).Str("studentId", student.ID.String()).Msg("Student created")
	return student, nil
}

// Update applies the non-nil fields of req to a student owned by trainerID
func (s *studentServiceImpl) Update(ctx context.Context, trainerID, id uuid.UUID, req *dto.UpdateStudentRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByIDForTrainer(ctx, id, trainerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := validation.NormalizeName(*req.Name)
		if !validation.NewStringValidation(name).WithMinLength(validation.NameMinLength).WithMaxLength(validation.NameMaxLength).Validate() {
			return nil, apperrors.NewValidationError("Nome deve ter pelo menos 3 caracteres")
		}
		student.Name = name
	}
	if req.TrainingDays != nil {
		if err := validateDays(req.TrainingDays); err != nil {
			return nil, err
		}
		student.TrainingDays = req.TrainingDays
	}
	if req.Email != nil {
		student.Email = normalizedEmailOrNil(req.Email)
	}
	if req.BirthDate != nil {
		student.BirthDate = req.BirthDate.Ptr()
	}
	if req.Height != nil {
		student.Height = req.Height
	}
	if req.Weight != nil {
		student.Weight = req.Weight
	}
	if req.Active != nil {
		student.Active = *req.Active
	}
	applyOptional(&student.Phone, req.Phone)
	applyOptional(&student.Gender, req.Gender)
	applyOptional(&student.Goal, req.Goal)
	applyOptional(&student.Notes, req.Notes)

	student.PersonalID = trainerID
	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// Delete removes a student; dependent rows go with it
func (s *studentServiceImpl) Delete(ctx context.Context, trainerID, id uuid.UUID) error {
	if err := s.studentRepo.Delete(ctx, id, trainerID); err != nil {
		return err
	}
	s.logger.Info().Str("trainerId", trainerID.String()).Str("studentId", id.String()).Msg("Student deleted")
	return nil
}

// RegenerateAccessCode replaces a student's access code; the old one stops working immediately
func (s *studentServiceImpl) RegenerateAccessCode(ctx context.Context, trainerID, id uuid.UUID) (string, error) {
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, id, trainerID); err != nil {
		return "", err
	}
	return s.codes.Assign(ctx, s.studentRepo.AccessCodeExists, func(ctx context.Context, code string) error {
		return collision(s.studentRepo.UpdateAccessCode(ctx, id, trainerID, code))
	})
}

// GetOwnProfile returns the student with its trainer embedded
func (s *studentServiceImpl) GetOwnProfile(ctx context.Context, studentID uuid.UUID) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	trainer, err := s.trainerRepo.GetByID(ctx, student.PersonalID)
	if err != nil {
		return nil, err
	}
	student.Personal = trainer.Summary()
	return student, nil
}

// UpdateOwnProfile lets a student change contact and body fields only
func (s *studentServiceImpl) UpdateOwnProfile(ctx context.Context, studentID uuid.UUID, req *dto.UpdateOwnProfileRequest) (*models.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if req.Email != nil {
		student.Email = normalizedEmailOrNil(req.Email)
	}
	if req.BirthDate != nil {
		student.BirthDate = req.BirthDate.Ptr()
	}
	if req.Height != nil {
		student.Height = req.Height
	}
	if req.Weight != nil {
		student.Weight = req.Weight
	}
	applyOptional(&student.Phone, req.Phone)

	if err := s.studentRepo.Update(ctx, student); err != nil {
		return nil, err
	}
	return s.GetOwnProfile(ctx, studentID)
}

// collision translates the repository's unique violation into a generator retry
func collision(err error) error {
	if errors.Is(err, repositories.ErrAccessCodeTaken) {
		return accesscode.ErrCollision
	}
	return err
}

func validateDays(days []models.DayOfWeek) error {
	for _, d := range days {
		if !d.Valid() {
			return apperrors.NewValidationError("Dia da semana inválido: " + string(d))
		}
	}
	return nil
}

func normalizedEmailOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	email := validation.NormalizeEmail(*v)
	if email == "" {
		return nil
	}
	return &email
}
