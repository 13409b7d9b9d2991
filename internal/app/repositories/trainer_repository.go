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
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/dberrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

// ITrainerRepository defines the persistence operations on personal trainers
type ITrainerRepository interface {
	Create(ctx context.Context, trainer *models.PersonalTrainer) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.PersonalTrainer, error)
	GetByEmail(ctx context.Context, email string) (*models.PersonalTrainer, error)
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.PersonalTrainer, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UpdateProfile(ctx context.Context, trainer *models.PersonalTrainer) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	// SetPlan overwrites the student ceiling and the gateway subscription id
	SetPlan(ctx context.Context, id uuid.UUID, maxStudents int, subscriptionID *string) error
}

var trainerColumns = []string{
	"id", "name", "email", "password_hash", "phone", "cref", "cpf",
	"address", "address_number", "complement", "province", "postal_code", "city", "state",
	"max_students_allowed", "asaas_subscription_id", "created_at", "updated_at",
}

// TrainerRepository handles database operations for personal trainers
type TrainerRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewTrainerRepository creates a new TrainerRepository
func NewTrainerRepository(db *pgxpool.Pool) *TrainerRepository {
	return &TrainerRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanTrainer(row pgx.Row) (*models.PersonalTrainer, error) {
	var t models.PersonalTrainer
	err := row.Scan(
		&t.ID, &t.Name, &t.Email, &t.PasswordHash, &t.Phone, &t.CREF, &t.CPF,
		&t.Address, &t.AddressNumber, &t.Complement, &t.Province, &t.PostalCode, &t.City, &t.State,
		&t.MaxStudentsAllowed, &t.AsaasSubscriptionID, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTrainerNotFound
		}
		return nil, fmt.Errorf("failed to scan trainer: %w", err)
	}
	return &t, nil
}

func (r *TrainerRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.PersonalTrainer, error) {
	query, args, err := r.sb.Select(trainerColumns...).From("personal_trainers").Where(where).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build trainer query: %w", err)
	}
	return scanTrainer(r.db.QueryRow(ctx, query, args...))
}

// Create inserts a trainer. A duplicate email is reported as apperrors.ErrEmailAlreadyExists.
func (r *TrainerRepository) Create(ctx context.Context, t *models.PersonalTrainer) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now()
	t.CreatedAt, t.UpdatedAt = now, now

	query, args, err := r.sb.Insert("personal_trainers").
		Columns("id", "name", "email", "password_hash", "phone", "cref", "max_students_allowed", "created_at", "updated_at").
		Values(t.ID, t.Name, t.Email, t.PasswordHash, t.Phone, t.CREF, t.MaxStudentsAllowed, t.CreatedAt, t.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create trainer query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		if dberrors.IsDuplicateConstraintError(err, dberrors.TrainerEmailKey) {
			return apperrors.ErrEmailAlreadyExists
		}
		logger.Error().Err(err).Str("email", t.Email).Msg("Error creating trainer")
		return fmt.Errorf("failed to create trainer: %w", err)
	}
	return nil
}

// GetByID returns a trainer or apperrors.ErrTrainerNotFound
func (r *TrainerRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.PersonalTrainer, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByEmail returns a trainer by normalized email
func (r *TrainerRepository) GetByEmail(ctx context.Context, email string) (*models.PersonalTrainer, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email})
}

// GetBySubscriptionID returns the trainer holding the given gateway subscription
func (r *TrainerRepository) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*models.PersonalTrainer, error) {
	return r.getOne(ctx, squirrel.Eq{"asaas_subscription_id": subscriptionID})
}

// EmailExists checks if an email is already registered
func (r *TrainerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM personal_trainers WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check trainer email: %w", err)
	}
	return exists, nil
}

// UpdateProfile writes the editable profile columns
func (r *TrainerRepository) UpdateProfile(ctx context.Context, t *models.PersonalTrainer) error {
	t.UpdatedAt = time.Now()
	query, args, err := r.sb.Update("personal_trainers").
		SetMap(map[string]interface{}{
			"name":           t.Name,
			"phone":          t.Phone,
			"cref":           t.CREF,
			"cpf":            t.CPF,
			"address":        t.Address,
			"address_number": t.AddressNumber,
			"complement":     t.Complement,
			"province":       t.Province,
			"postal_code":    t.PostalCode,
			"city":           t.City,
			"state":          t.State,
			"updated_at":     t.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": t.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update trainer query: %w", err)
	}
	return r.execOne(ctx, query, args...)
}

// UpdatePassword replaces the stored password hash
func (r *TrainerRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return r.execOne(ctx,
		`UPDATE personal_trainers SET password_hash = $1, updated_at = NOW() WHERE id = $2`,
		passwordHash, id)
}

// SetPlan overwrites the tier columns in a single statement
func (r *TrainerRepository) SetPlan(ctx context.Context, id uuid.UUID, maxStudents int, subscriptionID *string) error {
	return r.execOne(ctx,
		`UPDATE personal_trainers SET max_students_allowed = $1, asaas_subscription_id = $2, updated_at = NOW() WHERE id = $3`,
		maxStudents, subscriptionID, id)
}

func (r *TrainerRepository) execOne(ctx context.Context, query string, args ...interface{}) error {
	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error updating trainer")
		return fmt.Errorf("failed to update trainer: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrTrainerNotFound
	}
	return nil
}
