package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

// NoWorkoutTodayMessage accompanies an empty today's workout answer
const NoWorkoutTodayMessage = "Nenhum treino para hoje"

// logHistoryLimit caps the workout log listings
const logHistoryLimit = 100

// WorkoutService manages workouts, their exercises and the sessions students log
type WorkoutService interface {
	ListForStudent(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.Workout, error)
	Get(ctx context.Context, trainerID, id uuid.UUID) (*models.Workout, error)
	Create(ctx context.Context, trainerID uuid.UUID, req *dto.CreateWorkoutRequest) (*models.Workout, error)
	Update(ctx context.Context, trainerID, id uuid.UUID, req *dto.UpdateWorkoutRequest) (*models.Workout, error)
	Delete(ctx context.Context, trainerID, id uuid.UUID) error
	StudentLogs(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.WorkoutLog, error)

	MyWorkouts(ctx context.Context, studentID uuid.UUID) ([]models.Workout, error)
	Today(ctx context.Context, studentID uuid.UUID) (*dto.TodayWorkoutResponse, error)
	MyLogs(ctx context.Context, studentID uuid.UUID) ([]models.WorkoutLog, error)
	LogWorkout(ctx context.Context, studentID, workoutID uuid.UUID, req *dto.LogWorkoutRequest) (*models.WorkoutLog, error)
}

type workoutServiceImpl struct {
	workoutRepo repositories.IWorkoutRepository
	logRepo     repositories.IWorkoutLogRepository
	studentRepo repositories.IStudentRepository
	now         Clock
	logger      zerolog.Logger
}

// NewWorkoutService creates a new WorkoutService. A nil clock uses the server's local time.
func NewWorkoutService(
	workoutRepo repositories.IWorkoutRepository,
	logRepo repositories.IWorkoutLogRepository,
	studentRepo repositories.IStudentRepository,
	now Clock,
	logger zerolog.Logger,
) WorkoutService {
	if now == nil {
		now = time.Now
	}
	return &workoutServiceImpl{
		workoutRepo: workoutRepo,
		logRepo:     logRepo,
		studentRepo: studentRepo,
		now:         now,
		logger:      logger,
	}
}

// toExercises maps request items to models; a missing order takes the item's index
func toExercises(items []dto.ExerciseRequest) []models.Exercise {
	exercises := make([]models.Exercise, 0, len(items))
	for i, item := range items {
		order := i
		if item.Order != nil {
			order = *item.Order
		}
		exercises = append(exercises, models.Exercise{
			Name:     item.Name,
			Sets:     item.Sets,
			Reps:     item.Reps,
			Rest:     trimmedOrNil(item.Rest),
			Weight:   trimmedOrNil(item.Weight),
			Notes:    trimmedOrNil(item.Notes),
			VideoURL: trimmedOrNil(item.VideoURL),
			ImageURL: trimmedOrNil(item.ImageURL),
			Order:    order,
		})
	}
	return exercises
}

func validateDay(day *models.DayOfWeek) error {
	if day != nil && !day.Valid() {
		return apperrors.NewValidationError("Dia da semana inválido: " + string(*day))
	}
	return nil
}

// ListForStudent returns every workout of a student owned by trainerID
func (s *workoutServiceImpl) ListForStudent(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.Workout, error) {
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, studentID, trainerID); err != nil {
		return nil, err
	}
	return s.workoutRepo.ListByStudent(ctx, studentID, false)
}

func (s *workoutServiceImpl) Get(ctx context.Context, trainerID, id uuid.UUID) (*models.Workout, error) {
	return s.workoutRepo.GetByIDForTrainer(ctx, id, trainerID)
}

// Create stores a workout and its exercises for a student owned by trainerID
func (s *workoutServiceImpl) Create(ctx context.Context, trainerID uuid.UUID, req *dto.CreateWorkoutRequest) (*models.Workout, error) {
	if err := validateDay(req.DayOfWeek); err != nil {
		return nil, err
	}
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, req.StudentID, trainerID); err != nil {
		return nil, err
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	workout := &models.Workout{
		StudentID:   req.StudentID,
		Name:        req.Name,
		DayOfWeek:   req.DayOfWeek,
		Description: trimmedOrNil(req.Description),
		Active:      active,
		Exercises:   toExercises(req.Exercises),
	}
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, err
	}

	s.logger.Info().Str("workoutId", workout.ID.String()).Str("studentId", req.StudentID.String()).Int("exercises", len(workout.Exercises)).Msg("Workout created")
	return s.workoutRepo.GetByIDForTrainer(ctx, workout.ID, trainerID)
}

// Update applies the non-nil fields; a non-nil exercise list replaces the stored one
func (s *workoutServiceImpl) Update(ctx context.Context, trainerID, id uuid.UUID, req *dto.UpdateWorkoutRequest) (*models.Workout, error) {
	if err := validateDay(req.DayOfWeek); err != nil {
		return nil, err
	}
	workout, err := s.workoutRepo.GetByIDForTrainer(ctx, id, trainerID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		workout.Name = *req.Name
	}
	if req.DayOfWeek != nil {
		workout.DayOfWeek = req.DayOfWeek
	}
	if req.Active != nil {
		workout.Active = *req.Active
	}
	applyOptional(&workout.Description, req.Description)

	replace := req.Exercises != nil
	if replace {
		workout.Exercises = toExercises(req.Exercises)
	}
	if err := s.workoutRepo.Update(ctx, workout, trainerID, replace); err != nil {
		return nil, err
	}
	return s.workoutRepo.GetByIDForTrainer(ctx, id, trainerID)
}

func (s *workoutServiceImpl) Delete(ctx context.Context, trainerID, id uuid.UUID) error {
	return s.workoutRepo.Delete(ctx, id, trainerID)
}

// StudentLogs returns the recent sessions of a student owned by trainerID
func (s *workoutServiceImpl) StudentLogs(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.WorkoutLog, error) {
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, studentID, trainerID); err != nil {
		return nil, err
	}
	return s.logRepo.ListByStudent(ctx, studentID, logHistoryLimit)
}

// MyWorkouts returns the caller's active workouts
func (s *workoutServiceImpl) MyWorkouts(ctx context.Context, studentID uuid.UUID) ([]models.Workout, error) {
	return s.workoutRepo.ListByStudent(ctx, studentID, true)
}

// Today maps the current local weekday to its tag and returns the active workout scheduled for it
func (s *workoutServiceImpl) Today(ctx context.Context, studentID uuid.UUID) (*dto.TodayWorkoutResponse, error) {
	day := models.DayOfWeekFor(s.now().Weekday())
	workout, err := s.workoutRepo.FindActiveForDay(ctx, studentID, day)
	if err != nil {
		return nil, err
	}
	if workout == nil {
		return &dto.TodayWorkoutResponse{Day: day, Message: NoWorkoutTodayMessage}, nil
	}
	return &dto.TodayWorkoutResponse{Day: day, Workout: workout}, nil
}

func (s *workoutServiceImpl) MyLogs(ctx context.Context, studentID uuid.UUID) ([]models.WorkoutLog, error) {
	return s.logRepo.ListByStudent(ctx, studentID, logHistoryLimit)
}

// LogWorkout records a session of one of the caller's workouts
func (s *workoutServiceImpl) LogWorkout(ctx context.Context, studentID, workoutID uuid.UUID, req *dto.LogWorkoutRequest) (*models.WorkoutLog, error) {
	workout, err := s.workoutRepo.GetByIDForStudent(ctx, workoutID, studentID)
	if err != nil {
		return nil, err
	}

	completed := true
	if req.Completed != nil {
		completed = *req.Completed
	}
	entry := &models.WorkoutLog{
		WorkoutID:   workout.ID,
		StudentID:   studentID,
		WorkoutName: workout.Name,
		CompletedAt: s.now(),
		Completed:   completed,
		Duration:    req.Duration,
		Notes:       trimmedOrNil(req.Notes),
	}
	if err := s.logRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}
