package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/dberrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

// ErrAccessCodeTaken reports a unique violation on the access code column.
// Callers draw a new code and retry.
var ErrAccessCodeTaken = errors.New("access code already taken")

// IStudentRepository defines the persistence operations on students.
// Every trainer-facing lookup is scoped by the owning trainer id.
type IStudentRepository interface {
	Create(ctx context.Context, student *models.Student) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error)
	GetByIDForTrainer(ctx context.Context, id, trainerID uuid.UUID) (*models.Student, error)
	GetByAccessCode(ctx context.Context, code string) (*models.Student, error)
	ListByTrainer(ctx context.Context, trainerID uuid.UUID, filter models.StudentFilter) ([]models.Student, int64, error)
	CountByTrainer(ctx context.Context, trainerID uuid.UUID) (int, error)
	AccessCodeExists(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, student *models.Student) error
	UpdateAccessCode(ctx context.Context, id, trainerID uuid.UUID, code string) error
	Delete(ctx context.Context, id, trainerID uuid.UUID) error
}

var studentColumns = []string{
	"id", "personal_id", "name", "access_code", "email", "phone", "birth_date", "gender",
	"height", "weight", "goal", "notes", "training_days", "active", "created_at", "updated_at",
}

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row) (*models.Student, error) {
	var s models.Student
	var days []string
	err := row.Scan(
		&s.ID, &s.PersonalID, &s.Name, &s.AccessCode, &s.Email, &s.Phone, &s.BirthDate, &s.Gender,
		&s.Height, &s.Weight, &s.Goal, &s.Notes, &days, &s.Active, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}
	s.TrainingDays = toDays(days)
	return &s, nil
}

func toDays(days []string) []models.DayOfWeek {
	out := make([]models.DayOfWeek, 0, len(days))
	for _, d := range days {
		out = append(out, models.DayOfWeek(d))
	}
	return out
}

func fromDays(days []models.DayOfWeek) []string {
	out := make([]string, 0, len(days))
	for _, d := range days {
		out = append(out, string(d))
	}
	return out
}

func (r *StudentRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Student, error) {
	query, args, err := r.sb.Select(studentColumns...).From("students").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build student query: %w", err)
	}
	return scanStudent(r.db.QueryRow(ctx, query, args...))
}

// Create inserts a student; an access code collision returns ErrAccessCodeTaken
func (r *StudentRepository) Create(ctx context.Context, s *models.Student) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now()
	s.CreatedAt, s.UpdatedAt = now, now

	query, args, err := r.sb.Insert("students").
		Columns(studentColumns...).
		Values(s.ID, s.PersonalID, s.Name, s.AccessCode, s.Email, s.Phone, s.BirthDate, s.Gender,
			s.Height, s.Weight, s.Goal, s.Notes, fromDays(s.TrainingDays), s.Active, s.CreatedAt, s.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.StudentAccessCodeKey) {
			return ErrAccessCodeTaken
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrTrainerNotFound
		}
		logger.Error().Err(err).Str("personalId", s.PersonalID.String()).Msg("Error creating student")
		return fmt.Errorf("failed to create student: %w", err)
	}
	return nil
}

// GetByID returns a student regardless of owner; used for the student's own profile
func (r *StudentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByIDForTrainer returns a student only when it belongs to trainerID
func (r *StudentRepository) GetByIDForTrainer(ctx context.Context, id, trainerID uuid.UUID) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id, "personal_id": trainerID})
}

// GetByAccessCode returns the student holding code
func (r *StudentRepository) GetByAccessCode(ctx context.Context, code string) (*models.Student, error) {
	return r.getOne(ctx, squirrel.Eq{"access_code": code})
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes s match literally inside a LIKE pattern
func escapeLike(s string) string { return likeEscaper.Replace(s) }

// ListByTrainer returns a page of the trainer's students ordered by name, with the total count
func (r *StudentRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID, filter models.StudentFilter) ([]models.Student, int64, error) {
	where := squirrel.And{squirrel.Eq{"personal_id": trainerID}}
	if filter.Search != "" {
		where = append(where, squirrel.ILike{"name": "%" + escapeLike(filter.Search) + "%"})
	}

	countQuery, countArgs, err := r.sb.Select("COUNT(*)").From("students").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build count students query: %w", err)
	}
	var total int64
	if err := r.db.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count students: %w", err)
	}

	builder := r.sb.Select(studentColumns...).From("students").Where(where).OrderBy("name ASC", "created_at ASC")
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build list students query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing students")
		return nil, 0, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	students := make([]models.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate students: %w", err)
	}
	return students, total, nil
}

// CountByTrainer returns how many students the trainer owns
func (r *StudentRepository) CountByTrainer(ctx context.Context, trainerID uuid.UUID) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM students WHERE personal_id = $1`, trainerID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// AccessCodeExists checks whether any student holds code
func (r *StudentRepository) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM students WHERE access_code = $1)`, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check access code: %w", err)
	}
	return exists, nil
}

// Update writes every editable column, scoped by id and owner
func (r *StudentRepository) Update(ctx context.Context, s *models.Student) error {
	s.UpdatedAt = time.Now()
	query, args, err := r.sb.Update("students").
		SetMap(map[string]interface{}{
			"name":          s.Name,
			"email":         s.Email,
			"phone":         s.Phone,
			"birth_date":    s.BirthDate,
			"gender":        s.Gender,
			"height":        s.Height,
			"weight":        s.Weight,
			"goal":          s.Goal,
			"notes":         s.Notes,
			"training_days": fromDays(s.TrainingDays),
			"active":        s.Active,
			"updated_at":    s.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": s.ID, "personal_id": s.PersonalID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update student query: %w", err)
	}
	return r.execScoped(ctx, query, args...)
}

// UpdateAccessCode replaces the student's access code
func (r *StudentRepository) UpdateAccessCode(ctx context.Context, id, trainerID uuid.UUID, code string) error {
	err := r.execScoped(ctx,
		`UPDATE students SET access_code = $1, updated_at = NOW() WHERE id = $2 AND personal_id = $3`,
		code, id, trainerID)
	if dberrors.IsDuplicateConstraintError(err, dberrors.StudentAccessCodeKey) {
		return ErrAccessCodeTaken
	}
	return err
}

// Delete removes a student; workouts, logs, messages and progress cascade in the schema
func (r *StudentRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	return r.execScoped(ctx, `DELETE FROM students WHERE id = $1 AND personal_id = $2`, id, trainerID)
}

func (r *StudentRepository) execScoped(ctx context.Context, query string, args ...interface{}) error {
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "") {
			return err
		}
		logger.Error().Err(err).Msg("Error writing student")
		return fmt.Errorf("failed to write student: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}
