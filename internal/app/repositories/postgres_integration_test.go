package repositories

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/migrations"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

// openTestDB migrates and empties the database named by TEST_DATABASE_URL
func openTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	migrator, err := migrations.NewMigrator(url, zerolog.Nop())
	if err != nil {
		t.Skipf("db unavailable: %v", err)
	}
	defer migrator.Close()
	if err := migrator.Up(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), url)
	if err != nil {
		t.Skipf("db unavailable: %v", err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(context.Background(), `TRUNCATE personal_trainers, subscription_events CASCADE`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return pool
}

func TestPostgresStudentOwnership(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(pool)

	owner := &models.PersonalTrainer{Name: "Carlos", Email: "carlos@gym.com", PasswordHash: "x", MaxStudentsAllowed: models.PlanFreeMaxStudents}
	other := &models.PersonalTrainer{Name: "Joana", Email: "joana@gym.com", PasswordHash: "x", MaxStudentsAllowed: models.PlanFreeMaxStudents}
	for _, tr := range []*models.PersonalTrainer{owner, other} {
		if err := repos.TrainerRepository.Create(ctx, tr); err != nil {
			t.Fatalf("create trainer: %v", err)
		}
	}
	if err := repos.TrainerRepository.Create(ctx, &models.PersonalTrainer{Name: "Dup", Email: "carlos@gym.com", PasswordHash: "x"}); !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Fatalf("duplicate email err = %v", err)
	}

	student := &models.Student{
		PersonalID:   owner.ID,
		Name:         "Ana Lima",
		AccessCode:   "48213",
		TrainingDays: []models.DayOfWeek{"MONDAY", "THURSDAY"},
		Active:       true,
	}
	if err := repos.StudentRepository.Create(ctx, student); err != nil {
		t.Fatalf("create student: %v", err)
	}

	clash := &models.Student{PersonalID: other.ID, Name: "Bruno", AccessCode: "48213", Active: true}
	if err := repos.StudentRepository.Create(ctx, clash); !errors.Is(err, ErrAccessCodeTaken) {
		t.Fatalf("access code clash err = %v", err)
	}

	got, err := repos.StudentRepository.GetByAccessCode(ctx, "48213")
	if err != nil {
		t.Fatalf("by access code: %v", err)
	}
	if got.ID != student.ID || len(got.TrainingDays) != 2 {
		t.Fatalf("got %+v", got)
	}

	if _, err := repos.StudentRepository.GetByIDForTrainer(ctx, student.ID, other.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("foreign trainer lookup err = %v", err)
	}
	if err := repos.StudentRepository.Delete(ctx, student.ID, other.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("foreign trainer delete err = %v", err)
	}

	count, err := repos.StudentRepository.CountByTrainer(ctx, owner.ID)
	if err != nil || count != 1 {
		t.Fatalf("count = %d, %v", count, err)
	}

	found, total, err := repos.StudentRepository.ListByTrainer(ctx, owner.ID, models.StudentFilter{Search: "ana", Limit: 10})
	if err != nil || total != 1 || len(found) != 1 {
		t.Fatalf("search ana = %d students, total %d, %v", len(found), total, err)
	}
	for _, search := range []string{"%", "_"} {
		found, total, err := repos.StudentRepository.ListByTrainer(ctx, owner.ID, models.StudentFilter{Search: search, Limit: 10})
		if err != nil || total != 0 || len(found) != 0 {
			t.Fatalf("search %q should match literally, got %d students, total %d, %v", search, len(found), total, err)
		}
	}
}

func TestPostgresPlanChanges(t *testing.T) {
	pool := openTestDB(t)
	ctx := context.Background()
	repos := NewRepositories(pool)

	trainer := &models.PersonalTrainer{Name: "Carlos", Email: "carlos@gym.com", PasswordHash: "x", MaxStudentsAllowed: models.PlanFreeMaxStudents}
	if err := repos.TrainerRepository.Create(ctx, trainer); err != nil {
		t.Fatalf("create trainer: %v", err)
	}

	sub := "sub_" + uuid.NewString()
	if err := repos.TrainerRepository.SetPlan(ctx, trainer.ID, models.PlanProMaxStudents, &sub); err != nil {
		t.Fatalf("set plan: %v", err)
	}
	got, err := repos.TrainerRepository.GetBySubscriptionID(ctx, sub)
	if err != nil {
		t.Fatalf("by subscription: %v", err)
	}
	if got.Plan() != models.PlanPro {
		t.Fatalf("plan = %s", got.Plan())
	}

	event := &models.SubscriptionEvent{TrainerID: &trainer.ID, Event: "PAYMENT_CONFIRMED", SubscriptionID: &sub, Applied: true}
	if err := repos.SubscriptionEventRepository.Record(ctx, event); err != nil {
		t.Fatalf("record event: %v", err)
	}
	events, err := repos.SubscriptionEventRepository.ListByTrainer(ctx, trainer.ID, 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("events = %v, %v", events, err)
	}

	if err := repos.TrainerRepository.SetPlan(ctx, trainer.ID, models.PlanFreeMaxStudents, nil); err != nil {
		t.Fatalf("downgrade: %v", err)
	}
	if _, err := repos.TrainerRepository.GetBySubscriptionID(ctx, sub); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("subscription id should be cleared, err = %v", err)
	}
}
