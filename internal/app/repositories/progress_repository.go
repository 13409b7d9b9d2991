package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

// IProgressRepository defines the persistence operations on progress records
type IProgressRepository interface {
	Create(ctx context.Context, record *models.ProgressRecord) error
	ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.ProgressRecord, error)
	GetByIDForTrainer(ctx context.Context, id, trainerID uuid.UUID) (*models.ProgressRecord, error)
	Update(ctx context.Context, record *models.ProgressRecord, trainerID uuid.UUID) error
	Delete(ctx context.Context, id, trainerID uuid.UUID) error
}

var progressColumns = []string{
	"p.id", "p.student_id", "p.date", "p.weight", "p.body_fat", "p.chest", "p.waist", "p.hips", "p.arm", "p.thigh", "p.notes", "p.created_at",
}

// ProgressRepository handles database operations for progress records
type ProgressRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProgressRepository creates a new ProgressRepository
func NewProgressRepository(db *pgxpool.Pool) *ProgressRepository {
	return &ProgressRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanProgress(row pgx.Row) (*models.ProgressRecord, error) {
	var p models.ProgressRecord
	err := row.Scan(&p.ID, &p.StudentID, &p.Date, &p.Weight, &p.BodyFat, &p.Chest, &p.Waist, &p.Hips, &p.Arm, &p.Thigh, &p.Notes, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrProgressNotFound
		}
		return nil, fmt.Errorf("failed to scan progress record: %w", err)
	}
	return &p, nil
}

// Create inserts a progress record
func (r *ProgressRepository) Create(ctx context.Context, p *models.ProgressRecord) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now()

	query, args, err := r.sb.Insert("progress_records").
		Columns("id", "student_id", "date", "weight", "body_fat", "chest", "waist", "hips", "arm", "thigh", "notes", "created_at").
		Values(p.ID, p.StudentID, p.Date, p.Weight, p.BodyFat, p.Chest, p.Waist, p.Hips, p.Arm, p.Thigh, p.Notes, p.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create progress query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("studentId", p.StudentID.String()).Msg("Error creating progress record")
		return fmt.Errorf("failed to create progress record: %w", err)
	}
	return nil
}

// ListByStudent returns the student's records, newest date first
func (r *ProgressRepository) ListByStudent(ctx context.Context, studentID uuid.UUID) ([]models.ProgressRecord, error) {
	query, args, err := r.sb.Select(progressColumns...).
		From("progress_records p").
		Where(squirrel.Eq{"p.student_id": studentID}).
		OrderBy("p.date DESC", "p.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list progress query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing progress records")
		return nil, fmt.Errorf("failed to list progress records: %w", err)
	}
	defer rows.Close()

	records := make([]models.ProgressRecord, 0)
	for rows.Next() {
		p, err := scanProgress(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *p)
	}
	return records, rows.Err()
}

// GetByIDForTrainer returns a record only when its student belongs to trainerID
func (r *ProgressRepository) GetByIDForTrainer(ctx context.Context, id, trainerID uuid.UUID) (*models.ProgressRecord, error) {
	query, args, err := r.sb.Select(progressColumns...).
		From("progress_records p").
		Join("students s ON s.id = p.student_id").
		Where(squirrel.Eq{"p.id": id, "s.personal_id": trainerID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get progress query: %w", err)
	}
	return scanProgress(r.db.QueryRow(ctx, query, args...))
}

// Update writes the measurement columns of a record owned through trainerID
func (r *ProgressRepository) Update(ctx context.Context, p *models.ProgressRecord, trainerID uuid.UUID) error {
	query, args, err := r.sb.Update("progress_records").
		SetMap(map[string]interface{}{
			"date":     p.Date,
			"weight":   p.Weight,
			"body_fat": p.BodyFat,
			"chest":    p.Chest,
			"waist":    p.Waist,
			"hips":     p.Hips,
			"arm":      p.Arm,
			"thigh":    p.Thigh,
			"notes":    p.Notes,
		}).
		Where(squirrel.Eq{"id": p.ID}).
		Where(ownedBy, trainerID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update progress query: %w", err)
	}
	return r.execScoped(ctx, query, args...)
}

// Delete removes a record owned through trainerID
func (r *ProgressRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	query, args, err := r.sb.Delete("progress_records").
		Where(squirrel.Eq{"id": id}).
		Where(ownedBy, trainerID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete progress query: %w", err)
	}
	return r.execScoped(ctx, query, args...)
}

func (r *ProgressRepository) execScoped(ctx context.Context, query string, args ...interface{}) error {
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error writing progress record")
		return fmt.Errorf("failed to write progress record: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrProgressNotFound
	}
	return nil
}
