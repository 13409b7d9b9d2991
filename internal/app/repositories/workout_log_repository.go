package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

// IWorkoutLogRepository defines the persistence operations on workout logs
type IWorkoutLogRepository interface {
	Create(ctx context.Context, log *models.WorkoutLog) error
	// ListByStudent returns the most recent logs first; limit <= 0 means no limit
	ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]models.WorkoutLog, error)
}

// WorkoutLogRepository handles database operations for workout logs
type WorkoutLogRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewWorkoutLogRepository creates a new WorkoutLogRepository
func NewWorkoutLogRepository(db *pgxpool.Pool) *WorkoutLogRepository {
	return &WorkoutLogRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a workout log
func (r *WorkoutLogRepository) Create(ctx context.Context, l *models.WorkoutLog) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}

	query, args, err := r.sb.Insert("workout_logs").
		Columns("id", "workout_id", "student_id", "completed_at", "completed", "duration", "notes").
		Values(l.ID, l.WorkoutID, l.StudentID, l.CompletedAt, l.Completed, l.Duration, l.Notes).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create workout log query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("workoutId", l.WorkoutID.String()).Msg("Error creating workout log")
		return fmt.Errorf("failed to create workout log: %w", err)
	}
	return nil
}

// ListByStudent returns the student's logs joined with the workout name
func (r *WorkoutLogRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, limit int) ([]models.WorkoutLog, error) {
	builder := r.sb.Select(
		"l.id", "l.workout_id", "l.student_id", "w.name", "l.completed_at", "l.completed", "l.duration", "l.notes",
	).From("workout_logs l").
		Join("workouts w ON w.id = l.workout_id").
		Where(squirrel.Eq{"l.student_id": studentID}).
		OrderBy("l.completed_at DESC")
	if limit > 0 {
		builder = builder.Limit(uint64(limit))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list workout logs query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing workout logs")
		return nil, fmt.Errorf("failed to list workout logs: %w", err)
	}
	defer rows.Close()

	logs := make([]models.WorkoutLog, 0)
	for rows.Next() {
		var l models.WorkoutLog
		if err := rows.Scan(&l.ID, &l.WorkoutID, &l.StudentID, &l.WorkoutName, &l.CompletedAt, &l.Completed, &l.Duration, &l.Notes); err != nil {
			return nil, fmt.Errorf("failed to scan workout log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
