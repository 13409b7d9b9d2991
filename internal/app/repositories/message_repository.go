package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

// IMessageRepository defines the persistence operations on trainer/student messages.
// A conversation is keyed by the student, whose owner is the trainer side.
type IMessageRepository interface {
	Create(ctx context.Context, message *models.Message) error
	ListConversation(ctx context.Context, studentID uuid.UUID) ([]models.Message, error)
	// MarkRead flags as read the messages sent by the given side
	MarkRead(ctx context.Context, studentID uuid.UUID, fromPersonal bool) (int64, error)
	UnreadByTrainer(ctx context.Context, trainerID uuid.UUID) ([]models.UnreadCount, error)
}

// MessageRepository handles database operations for messages
type MessageRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, m *models.Message) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = time.Now()

	query, args, err := r.sb.Insert("messages").
		Columns("id", "student_id", "personal_id", "content", "from_personal", "read", "created_at").
		Values(m.ID, m.StudentID, m.PersonalID, m.Content, m.FromPersonal, m.Read, m.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create message query: %w", err)
	}

	if _, err := r.db.Exec(ctx, query, args...); err != nil {
		logger.Error().Err(err).Str("studentId", m.StudentID.String()).Msg("Error creating message")
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

// ListConversation returns the conversation oldest first
func (r *MessageRepository) ListConversation(ctx context.Context, studentID uuid.UUID) ([]models.Message, error) {
	query, args, err := r.sb.Select("id", "student_id", "personal_id", "content", "from_personal", "read", "created_at").
		From("messages").
		Where(squirrel.Eq{"student_id": studentID}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list messages query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing messages")
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.Message, 0)
	for rows.Next() {
		var m models.Message
		if err := rows.Scan(&m.ID, &m.StudentID, &m.PersonalID, &m.Content, &m.FromPersonal, &m.Read, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// MarkRead flags unread messages of one direction as read and returns how many changed
func (r *MessageRepository) MarkRead(ctx context.Context, studentID uuid.UUID, fromPersonal bool) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE messages SET read = TRUE WHERE student_id = $1 AND from_personal = $2 AND read = FALSE`,
		studentID, fromPersonal)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages read: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}

// UnreadByTrainer counts unread student messages per conversation of the trainer
func (r *MessageRepository) UnreadByTrainer(ctx context.Context, trainerID uuid.UUID) ([]models.UnreadCount, error) {
	rows, err := r.db.Query(ctx, `
		SELECT s.id, s.name, COUNT(m.id)
		FROM messages m
		JOIN students s ON s.id = m.student_id
		WHERE s.personal_id = $1 AND m.from_personal = FALSE AND m.read = FALSE
		GROUP BY s.id, s.name
		ORDER BY s.name`, trainerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread messages: %w", err)
	}
	defer rows.Close()

	counts := make([]models.UnreadCount, 0)
	for rows.Next() {
		var c models.UnreadCount
		if err := rows.Scan(&c.StudentID, &c.StudentName, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan unread count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
