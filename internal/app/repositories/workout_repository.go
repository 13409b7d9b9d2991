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
	"github.com/viniciusfeitosaa/gymapp/internal/db"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/logger"
)

// IWorkoutRepository defines the persistence operations on workouts and their exercises
type IWorkoutRepository interface {
	// Create inserts the workout and its exercises atomically
	Create(ctx context.Context, workout *models.Workout) error
	GetByIDForTrainer(ctx context.Context, id, trainerID uuid.UUID) (*models.Workout, error)
	GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*models.Workout, error)
	ListByStudent(ctx context.Context, studentID uuid.UUID, activeOnly bool) ([]models.Workout, error)
	// FindActiveForDay returns the first active workout scheduled on day, or nil
	FindActiveForDay(ctx context.Context, studentID uuid.UUID, day models.DayOfWeek) (*models.Workout, error)
	// Update writes the workout columns scoped by owner; replaceExercises swaps the exercise list
	Update(ctx context.Context, workout *models.Workout, trainerID uuid.UUID, replaceExercises bool) error
	Delete(ctx context.Context, id, trainerID uuid.UUID) error
}

var workoutColumns = []string{
	"w.id", "w.student_id", "w.name", "w.day_of_week", "w.description", "w.active", "w.created_at", "w.updated_at",
}

var exerciseColumns = []string{
	"id", "workout_id", "name", "sets", "reps", "rest", "weight", "notes", "video_url", "image_url", `"order"`,
}

// WorkoutRepository handles database operations for workouts
type WorkoutRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewWorkoutRepository creates a new WorkoutRepository
func NewWorkoutRepository(db *pgxpool.Pool) *WorkoutRepository {
	return &WorkoutRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanWorkout(row pgx.Row) (*models.Workout, error) {
	var w models.Workout
	var day *string
	err := row.Scan(&w.ID, &w.StudentID, &w.Name, &day, &w.Description, &w.Active, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("failed to scan workout: %w", err)
	}
	if day != nil {
		d := models.DayOfWeek(*day)
		w.DayOfWeek = &d
	}
	w.Exercises = []models.Exercise{}
	return &w, nil
}

func dayParam(d *models.DayOfWeek) *string {
	if d == nil {
		return nil
	}
	s := string(*d)
	return &s
}

// Create inserts the workout and its exercises in one transaction
func (r *WorkoutRepository) Create(ctx context.Context, w *models.Workout) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	now := time.Now()
	w.CreatedAt, w.UpdatedAt = now, now

	query, args, err := r.sb.Insert("workouts").
		Columns("id", "student_id", "name", "day_of_week", "description", "active", "created_at", "updated_at").
		Values(w.ID, w.StudentID, w.Name, dayParam(w.DayOfWeek), w.Description, w.Active, w.CreatedAt, w.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create workout query: %w", err)
	}

	err = db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert workout: %w", err)
		}
		return r.insertExercises(ctx, tx, w)
	})
	if err != nil {
		logger.Error().Err(err).Str("studentId", w.StudentID.String()).Msg("Error creating workout")
		return err
	}
	return nil
}

func (r *WorkoutRepository) insertExercises(ctx context.Context, tx pgx.Tx, w *models.Workout) error {
	if len(w.Exercises) == 0 {
		return nil
	}

	builder := r.sb.Insert("exercises").Columns(exerciseColumns...)
	for i := range w.Exercises {
		e := &w.Exercises[i]
		if e.ID == uuid.Nil {
			e.ID = uuid.New()
		}
		e.WorkoutID = w.ID
		builder = builder.Values(e.ID, e.WorkoutID, e.Name, e.Sets, e.Reps, e.Rest, e.Weight, e.Notes, e.VideoURL, e.ImageURL, e.Order)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert exercises query: %w", err)
	}
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert exercises: %w", err)
	}
	return nil
}

func (r *WorkoutRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*models.Workout, error) {
	query, args, err := r.sb.Select(workoutColumns...).
		From("workouts w").
		Join("students s ON s.id = w.student_id").
		Where(where).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build workout query: %w", err)
	}

	w, err := scanWorkout(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}
	if err := r.loadExercises(ctx, []*models.Workout{w}); err != nil {
		return nil, err
	}
	return w, nil
}

// GetByIDForTrainer returns a workout only when its student belongs to trainerID
func (r *WorkoutRepository) GetByIDForTrainer(ctx context.Context, id, trainerID uuid.UUID) (*models.Workout, error) {
	return r.getOne(ctx, squirrel.Eq{"w.id": id, "s.personal_id": trainerID})
}

// GetByIDForStudent returns a workout only when it is assigned to studentID
func (r *WorkoutRepository) GetByIDForStudent(ctx context.Context, id, studentID uuid.UUID) (*models.Workout, error) {
	return r.getOne(ctx, squirrel.Eq{"w.id": id, "w.student_id": studentID})
}

// ListByStudent returns the student's workouts with exercises, oldest first
func (r *WorkoutRepository) ListByStudent(ctx context.Context, studentID uuid.UUID, activeOnly bool) ([]models.Workout, error) {
	where := squirrel.Eq{"w.student_id": studentID}
	if activeOnly {
		where["w.active"] = true
	}
	return r.list(ctx, where)
}

// FindActiveForDay returns the earliest created active workout scheduled on day
func (r *WorkoutRepository) FindActiveForDay(ctx context.Context, studentID uuid.UUID, day models.DayOfWeek) (*models.Workout, error) {
	workouts, err := r.list(ctx, squirrel.Eq{"w.student_id": studentID, "w.active": true, "w.day_of_week": string(day)})
	if err != nil {
		return nil, err
	}
	if len(workouts) == 0 {
		return nil, nil
	}
	return &workouts[0], nil
}

func (r *WorkoutRepository) list(ctx context.Context, where squirrel.Eq) ([]models.Workout, error) {
	query, args, err := r.sb.Select(workoutColumns...).
		From("workouts w").
		Where(where).
		OrderBy("w.created_at ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list workouts query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing workouts")
		return nil, fmt.Errorf("failed to list workouts: %w", err)
	}
	defer rows.Close()

	var ptrs []*models.Workout
	for rows.Next() {
		w, err := scanWorkout(rows)
		if err != nil {
			return nil, err
		}
		ptrs = append(ptrs, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate workouts: %w", err)
	}

	if err := r.loadExercises(ctx, ptrs); err != nil {
		return nil, err
	}

	workouts := make([]models.Workout, 0, len(ptrs))
	for _, w := range ptrs {
		workouts = append(workouts, *w)
	}
	return workouts, nil
}

// loadExercises fills the exercise lists of workouts with one query
func (r *WorkoutRepository) loadExercises(ctx context.Context, workouts []*models.Workout) error {
	if len(workouts) == 0 {
		return nil
	}

	byID := make(map[uuid.UUID]*models.Workout, len(workouts))
	ids := make([]string, 0, len(workouts))
	for _, w := range workouts {
		byID[w.ID] = w
		ids = append(ids, w.ID.String())
	}

	query, args, err := r.sb.Select(exerciseColumns...).
		From("exercises").
		Where(squirrel.Eq{"workout_id": ids}).
		OrderBy(`"order" ASC`, "name ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build exercises query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to load exercises: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e models.Exercise
		if err := rows.Scan(&e.ID, &e.WorkoutID, &e.Name, &e.Sets, &e.Reps, &e.Rest, &e.Weight,
			&e.Notes, &e.VideoURL, &e.ImageURL, &e.Order); err != nil {
			return fmt.Errorf("failed to scan exercise: %w", err)
		}
		if w, ok := byID[e.WorkoutID]; ok {
			w.Exercises = append(w.Exercises, e)
		}
	}
	return rows.Err()
}

// ownedBy restricts a workout statement to workouts whose student belongs to trainerID
const ownedBy = `student_id IN (SELECT id FROM students WHERE personal_id = ?)`

// Update writes the workout columns and, when asked, replaces the exercises in the same transaction
func (r *WorkoutRepository) Update(ctx context.Context, w *models.Workout, trainerID uuid.UUID, replaceExercises bool) error {
	w.UpdatedAt = time.Now()
	query, args, err := r.sb.Update("workouts").
		SetMap(map[string]interface{}{
			"name":        w.Name,
			"day_of_week": dayParam(w.DayOfWeek),
			"description": w.Description,
			"active":      w.Active,
			"updated_at":  w.UpdatedAt,
		}).
		Where(squirrel.Eq{"id": w.ID}).
		Where(ownedBy, trainerID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update workout query: %w", err)
	}

	return db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		cmdTag, err := tx.Exec(ctx, query, args...)
		if err != nil {
			logger.Error().Err(err).Str("workoutId", w.ID.String()).Msg("Error updating workout")
			return fmt.Errorf("failed to update workout: %w", err)
		}
		if cmdTag.RowsAffected() == 0 {
			return apperrors.ErrWorkoutNotFound
		}
		if !replaceExercises {
			return nil
		}
		if _, err := tx.Exec(ctx, `DELETE FROM exercises WHERE workout_id = $1`, w.ID); err != nil {
			return fmt.Errorf("failed to clear exercises: %w", err)
		}
		return r.insertExercises(ctx, tx, w)
	})
}

// Delete removes a workout owned through one of trainerID's students
func (r *WorkoutRepository) Delete(ctx context.Context, id, trainerID uuid.UUID) error {
	query, args, err := r.sb.Delete("workouts").
		Where(squirrel.Eq{"id": id}).
		Where(ownedBy, trainerID).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete workout query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		logger.Error().Err(err).Str("workoutId", id.String()).Msg("Error deleting workout")
		return fmt.Errorf("failed to delete workout: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrWorkoutNotFound
	}
	return nil
}
