package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	TrainerRepository           *TrainerRepository
	StudentRepository           *StudentRepository
	WorkoutRepository           *WorkoutRepository
	WorkoutLogRepository        *WorkoutLogRepository
	MessageRepository           *MessageRepository
	ProgressRepository          *ProgressRepository
	SubscriptionEventRepository *SubscriptionEventRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		TrainerRepository:           NewTrainerRepository(db),
		StudentRepository:           NewStudentRepository(db),
		WorkoutRepository:           NewWorkoutRepository(db),
		WorkoutLogRepository:        NewWorkoutLogRepository(db),
		MessageRepository:           NewMessageRepository(db),
		ProgressRepository:          NewProgressRepository(db),
		SubscriptionEventRepository: NewSubscriptionEventRepository(db),
	}
}

// Compile-time checks that the Postgres repositories satisfy their interfaces
var (
	_ ITrainerRepository           = (*TrainerRepository)(nil)
	_ IStudentRepository           = (*StudentRepository)(nil)
	_ IWorkoutRepository           = (*WorkoutRepository)(nil)
	_ IWorkoutLogRepository        = (*WorkoutLogRepository)(nil)
	_ IMessageRepository           = (*MessageRepository)(nil)
	_ IProgressRepository          = (*ProgressRepository)(nil)
	_ ISubscriptionEventRepository = (*SubscriptionEventRepository)(nil)
)
