package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
)

// MessageService manages the single conversation between a trainer and each student
type MessageService interface {
	Conversation(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.Message, error)
	SendToStudent(ctx context.Context, trainerID, studentID uuid.UUID, content string) (*models.Message, error)
	MarkStudentMessagesRead(ctx context.Context, trainerID, studentID uuid.UUID) (int64, error)
	Unread(ctx context.Context, trainerID uuid.UUID) ([]models.UnreadCount, error)

	MyConversation(ctx context.Context, studentID uuid.UUID) ([]models.Message, error)
	SendToTrainer(ctx context.Context, studentID uuid.UUID, content string) (*models.Message, error)
	MarkTrainerMessagesRead(ctx context.Context, studentID uuid.UUID) (int64, error)
}

type messageServiceImpl struct {
	messageRepo repositories.IMessageRepository
	studentRepo repositories.IStudentRepository
	logger      zerolog.Logger
}

// NewMessageService creates a new MessageService
func NewMessageService(
	messageRepo repositories.IMessageRepository,
	studentRepo repositories.IStudentRepository,
	logger zerolog.Logger,
) MessageService {
	return &messageServiceImpl{
		messageRepo: messageRepo,
		studentRepo: studentRepo,
		logger:      logger,
	}
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", apperrors.NewValidationError("Mensagem não pode ser vazia")
	}
	if utf8.RuneCountInString(content) > validation.MessageMaxLength {
		return "", apperrors.NewValidationError("Mensagem muito longa")
	}
	return content, nil
}

func (s *messageServiceImpl) Conversation(ctx context.Context, trainerID, studentID uuid.UUID) ([]models.Message, error) {
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, studentID, trainerID); err != nil {
		return nil, err
	}
	return s.messageRepo.ListConversation(ctx, studentID)
}

func (s *messageServiceImpl) SendToStudent(ctx context.Context, trainerID, studentID uuid.UUID, content string) (*models.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, studentID, trainerID); err != nil {
		return nil, err
	}
	msg := &models.Message{
		StudentID:    studentID,
		PersonalID:   trainerID,
		Content:      content,
		FromPersonal: true,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkStudentMessagesRead marks what the student sent as read by the trainer
func (s *messageServiceImpl) MarkStudentMessagesRead(ctx context.Context, trainerID, studentID uuid.UUID) (int64, error) {
	if _, err := s.studentRepo.GetByIDForTrainer(ctx, studentID, trainerID); err != nil {
		return 0, err
	}
	return s.messageRepo.MarkRead(ctx, studentID, false)
}

func (s *messageServiceImpl) Unread(ctx context.Context, trainerID uuid.UUID) ([]models.UnreadCount, error) {
	return s.messageRepo.UnreadByTrainer(ctx, trainerID)
}

func (s *messageServiceImpl) MyConversation(ctx context.Context, studentID uuid.UUID) ([]models.Message, error) {
	return s.messageRepo.ListConversation(ctx, studentID)
}

// SendToTrainer posts a student message; the recipient is always the student's own trainer
func (s *messageServiceImpl) SendToTrainer(ctx context.Context, studentID uuid.UUID, content string) (*models.Message, error) {
	content, err := validateContent(content)
	if err != nil {
		return nil, err
	}
	student, err := s.studentRepo.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	msg := &models.Message{
		StudentID:    studentID,
		PersonalID:   student.PersonalID,
		Content:      content,
		FromPersonal: false,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// MarkTrainerMessagesRead marks what the trainer sent as read by the student
func (s *messageServiceImpl) MarkTrainerMessagesRead(ctx context.Context, studentID uuid.UUID) (int64, error) {
	return s.messageRepo.MarkRead(ctx, studentID, true)
}
