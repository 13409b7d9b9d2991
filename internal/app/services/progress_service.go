package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/helpers"
)

// ProgressService manages body measurement records
type ProgressService interface {
	ListForStudent(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.ProgressRecord, error)
	Create(ctx context.Context, trainerID, studentID uuid.UUID, req *dto.ProgressRequest) (*models.ProgressRecord, error)
	Update(ctx context.Context, trainerID, id uuid.UUID, req *dto.ProgressRequest) (*models.ProgressRecord, error)
	Delete(ctx context.Context, trainerID, id uuid.UUID) error
	MyProgress(ctx context.Context, studentID uuid.UUID) ([]models.ProgressRecord, error)
}

type progressServiceImpl struct {
	progressRepo repositories.IProgressRepository
	studentRepo  repositories.IStudentRepository
	now          Clock
	logger       zerolog.Logger
}

// NewProgressService creates a new ProgressService
func NewProgressService(
	progressRepo repositories.IProgressRepository,
	studentRepo repositories.IStudentRepository,
	now Clock,
	logger zerolog.Logger,
) ProgressService {
	if now == nil {
		now = time.Now
	}
	return &progressServiceImpl{
		progressRepo: progressRepo,
		studentRepo:  studentRepo,
		now:          now,
		logger:       logger,
	}
}

func (s *progressServiceImpl) ListForStudent(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.ProgressRecord, error) {
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, studentID, trainerID); err != nil {
		return nil, err
	}
	return s.progressRepo.ListByStudent(ctx, studentID)
}

// Create records measurements for a student owned by trainerID; the date defaults to today
func (s *progressServiceImpl) Create(ctx context.Context, trainerID, studentID uuid.UUID, req *dto.ProgressRequest) (*models.ProgressRecord, error) {
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, studentID, trainerID); err != nil {
		return nil, err
	}
	record := &models.ProgressRecord{StudentID: studentID}
	s.apply(record, req)
	if err := s.progressRepo.Create(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// Update replaces the measurements of a record owned through one of trainerID's students
func (s *progressServiceImpl) Update(ctx context.Context, trainerID, id uuid.UUID, req *dto.ProgressRequest) (*models.ProgressRecord, error) {
	record, err := s.progressRepo.GetByIDForTrainer(ctx, id, trainerID)
	if err != nil {
		return nil, err
	}
	if req.Date == nil {
		req.Date = &dto.Date{Time: record.Date}
	}
	s.apply(record, req)
	if err := s.progressRepo.Update(ctx, record, trainerID); err != nil {
		return nil, err
	}
	return record, nil
}

func (s *progressServiceImpl) Delete(ctx context.Context, trainerID, id uuid.UUID) error {
	return s.progressRepo.Delete(ctx, id, trainerID)
}

func (s *progressServiceImpl) MyProgress(ctx context.Context, studentID uuid.UUID) ([]models.ProgressRecord, error) {
	return s.progressRepo.ListByStudent(ctx, studentID)
}

func (s *progressServiceImpl) apply(record *models.ProgressRecord, req *dto.ProgressRequest) {
	if date := req.Date.Ptr(); date != nil {
		record.Date = helpers.StartOfDay(*date)
	} else {
		record.Date = helpers.StartOfDay(s.now())
	}
	record.Weight = req.Weight
	record.BodyFat = req.BodyFat
	record.Chest = req.Chest
	record.Waist = req.Waist
	record.Hips = req.Hips
	record.Arm = req.Arm
	record.Thigh = req.Thigh
	record.Notes = trimmedOrNil(req.Notes)
}
