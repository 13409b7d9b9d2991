package services

import (
	"context"
	"errors"
	"testing"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

func dayPtr(d models.DayOfWeek) *models.DayOfWeek { return &d }

func intPtr(i int) *int { return &i }

func TestCreateWorkoutOrdersExercises(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	student := f.createStudent(t, trainer.ID, "Ana Lima")

	workout, err := f.workouts.Create(context.Background(), trainer.ID, &dto.CreateWorkoutRequest{
		StudentID: student.ID,
		Name:      "Treino A",
		DayOfWeek: dayPtr(models.Monday),
		Exercises: []dto.ExerciseRequest{
			{Name: "Supino reto", Sets: 4, Reps: "10", Order: intPtr(2)},
			{Name: "Crucifixo", Sets: 3, Reps: "12"},
			{Name: "Tríceps corda", Sets: 3, Reps: "15", Order: intPtr(0)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !workout.Active || len(workout.Exercises) != 3 {
		t.Fatalf("unexpected workout %+v", workout)
	}
	// the exercise without an order takes its index, 1
	want := []string{"Tríceps corda", "Crucifixo", "Supino reto"}
	for i, name := range want {
		if workout.Exercises[i].Name != name || workout.Exercises[i].Order != i {
			t.Fatalf("position %d: expected %s, got %+v", i, name, workout.Exercises[i])
		}
	}
}

func TestCreateWorkoutForForeignStudent(t *testing.T) {
	f := newFixture(t)
	owner := f.registerTrainer(t, "carlos@gym.com")
	other := f.registerTrainer(t, "marina@gym.com")
	student := f.createStudent(t, owner.ID, "Ana Lima")

	_, err := f.workouts.Create(context.Background(), other.ID, &dto.CreateWorkoutRequest{StudentID: student.ID, Name: "Treino A"})
	if !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestForeignTrainerCannotReachWorkouts(t *testing.T) {
	f := newFixture(t)
	owner := f.registerTrainer(t, "carlos@gym.com")
	other := f.registerTrainer(t, "marina@gym.com")
	student := f.createStudent(t, owner.ID, "Ana Lima")
	ctx := context.Background()

	workout, err := f.workouts.Create(ctx, owner.ID, &dto.CreateWorkoutRequest{
		StudentID: student.ID,
		Name:      "Treino A",
		Exercises: []dto.ExerciseRequest{{Name: "Agachamento", Sets: 4, Reps: "8"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := f.workouts.LogWorkout(ctx, student.ID, workout.ID, &dto.LogWorkoutRequest{}); err != nil {
		t.Fatalf("log: %v", err)
	}

	if _, err := f.workouts.Get(ctx, other.ID, workout.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("get: expected not found, got %v", err)
	}
	name := "Hijacked"
	if _, err := f.workouts.Update(ctx, other.ID, workout.ID, &dto.UpdateWorkoutRequest{Name: &name}); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("update: expected not found, got %v", err)
	}
	if err := f.workouts.Delete(ctx, other.ID, workout.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("delete: expected not found, got %v", err)
	}
	if _, err := f.workouts.ListForStudent(ctx, other.ID, student.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("list: expected not found, got %v", err)
	}
	if _, err := f.workouts.StudentLogs(ctx, other.ID, student.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Errorf("logs: expected not found, got %v", err)
	}

	got, err := f.workouts.Get(ctx, owner.ID, workout.ID)
	if err != nil {
		t.Fatalf("owner get: %v", err)
	}
	if got.Name != "Treino A" || len(got.Exercises) != 1 {
		t.Fatalf("workout changed by foreign trainer: %+v", got)
	}
}

func TestUpdateWorkoutReplacesExercisesOnlyWhenGiven(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	student := f.createStudent(t, trainer.ID, "Ana Lima")
	ctx := context.Background()

	workout, err := f.workouts.Create(ctx, trainer.ID, &dto.CreateWorkoutRequest{
		StudentID: student.ID,
		Name:      "Treino A",
		Exercises: []dto.ExerciseRequest{{Name: "Agachamento", Sets: 4, Reps: "8"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Treino A2"
	renamed, err := f.workouts.Update(ctx, trainer.ID, workout.ID, &dto.UpdateWorkoutRequest{Name: &name})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if renamed.Name != name || len(renamed.Exercises) != 1 {
		t.Fatalf("rename must keep exercises, got %+v", renamed)
	}

	replaced, err := f.workouts.Update(ctx, trainer.ID, workout.ID, &dto.UpdateWorkoutRequest{
		Exercises: []dto.ExerciseRequest{{Name: "Leg press", Sets: 3, Reps: "12"}, {Name: "Cadeira extensora", Sets: 3, Reps: "15"}},
	})
	if err != nil {
		t.Fatalf("replace: %v", err)
	}
	if len(replaced.Exercises) != 2 || replaced.Exercises[0].Name != "Leg press" {
		t.Fatalf("expected replaced exercises, got %+v", replaced.Exercises)
	}
}

func TestTodayWorkout(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	student := f.createStudent(t, trainer.ID, "Ana Lima")
	ctx := context.Background()

	today, err := f.workouts.Today(ctx, student.ID)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today.Workout != nil || today.Message != NoWorkoutTodayMessage || today.Day != models.Monday {
		t.Fatalf("expected empty monday, got %+v", today)
	}

	inactive := false
	if _, err := f.workouts.Create(ctx, trainer.ID, &dto.CreateWorkoutRequest{
		StudentID: student.ID, Name: "Antigo", DayOfWeek: dayPtr(models.Monday), Active: &inactive,
	}); err != nil {
		t.Fatalf("create inactive: %v", err)
	}
	if _, err := f.workouts.Create(ctx, trainer.ID, &dto.CreateWorkoutRequest{
		StudentID: student.ID, Name: "Terça", DayOfWeek: dayPtr(models.Tuesday),
	}); err != nil {
		t.Fatalf("create tuesday: %v", err)
	}
	monday, err := f.workouts.Create(ctx, trainer.ID, &dto.CreateWorkoutRequest{
		StudentID: student.ID, Name: "Segunda", DayOfWeek: dayPtr(models.Monday),
	})
	if err != nil {
		t.Fatalf("create monday: %v", err)
	}

	today, err = f.workouts.Today(ctx, student.ID)
	if err != nil {
		t.Fatalf("today: %v", err)
	}
	if today.Workout == nil || today.Workout.ID != monday.ID || today.Message != "" {
		t.Fatalf("expected the active monday workout, got %+v", today)
	}

	mine, err := f.workouts.MyWorkouts(ctx, student.ID)
	if err != nil || len(mine) != 2 {
		t.Fatalf("expected only active workouts, got %d, %v", len(mine), err)
	}
}

func TestLogWorkout(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	ana := f.createStudent(t, trainer.ID, "Ana Lima")
	bruno := f.createStudent(t, trainer.ID, "Bruno Reis")
	ctx := context.Background()

	workout, err := f.workouts.Create(ctx, trainer.ID, &dto.CreateWorkoutRequest{StudentID: ana.ID, Name: "Treino A"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := f.workouts.LogWorkout(ctx, bruno.ID, workout.ID, &dto.LogWorkoutRequest{}); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("another student's workout must not be loggable, got %v", err)
	}

	entry, err := f.workouts.LogWorkout(ctx, ana.ID, workout.ID, &dto.LogWorkoutRequest{Duration: intPtr(45)})
	if err != nil {
		t.Fatalf("log: %v", err)
	}
	if !entry.Completed || !entry.CompletedAt.Equal(monday) {
		t.Fatalf("unexpected log %+v", entry)
	}

	logs, err := f.workouts.StudentLogs(ctx, trainer.ID, ana.ID)
	if err != nil || len(logs) != 1 || logs[0].WorkoutName != "Treino A" {
		t.Fatalf("unexpected trainer view of logs %+v, %v", logs, err)
	}
	mine, err := f.workouts.MyLogs(ctx, bruno.ID)
	if err != nil || len(mine) != 0 {
		t.Fatalf("expected no logs for bruno, got %+v", mine)
	}
}
