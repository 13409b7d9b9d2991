package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
)

// ISubscriptionEventRepository stores the audit trail of gateway webhook deliveries
type ISubscriptionEventRepository interface {
	Record(ctx context.Context, event *models.SubscriptionEvent) error
	ListByTrainer(ctx context.Context, trainerID uuid.UUID, limit int) ([]models.SubscriptionEvent, error)
}

// SubscriptionEventRepository handles database operations for subscription events
type SubscriptionEventRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewSubscriptionEventRepository creates a new SubscriptionEventRepository
func NewSubscriptionEventRepository(db *pgxpool.Pool) *SubscriptionEventRepository {
	return &SubscriptionEventRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Record inserts one delivery
func (r *SubscriptionEventRepository) Record(ctx context.Context, e *models.SubscriptionEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = time.Now()
	}

	query, args, err := r.sb.Insert("subscription_events").
		Columns("id", "event", "trainer_id", "subscription_id", "payment_id", "applied", "received_at").
		Values(e.ID, e.Event, e.TrainerID, e.SubscriptionID, e.PaymentID, e.Applied, e.ReceivedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build record event query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to record subscription event: %w", err)
	}
	return nil
}

// ListByTrainer returns the trainer's most recent deliveries
func (r *SubscriptionEventRepository) ListByTrainer(ctx context.Context, trainerID uuid.UUID, limit int) ([]models.SubscriptionEvent, error) {
	if limit <= 0 {
		limit = 20
	}
	query, args, err := r.sb.Select("id", "event", "trainer_id", "subscription_id", "payment_id", "applied", "received_at").
		From("subscription_events").
		Where(squirrel.Eq{"trainer_id": trainerID}).
		OrderBy("received_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list events query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list subscription events: %w", err)
	}
	defer rows.Close()

	events := make([]models.SubscriptionEvent, 0)
	for rows.Next() {
		var e models.SubscriptionEvent
		if err := rows.Scan(&e.ID, &e.Event, &e.TrainerID, &e.SubscriptionID, &e.PaymentID, &e.Applied, &e.ReceivedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subscription event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
