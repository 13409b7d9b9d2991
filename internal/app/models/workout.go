package models

import (
	"time"

	"github.com/google/uuid"
)

// Workout is a named training session assigned to a student
type Workout struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	StudentID   uuid.UUID  `json:"studentId" db:"student_id"`
	Name        string     `json:"name" db:"name" example:"Treino A - Peito e Tríceps"`
	DayOfWeek   *DayOfWeek `json:"dayOfWeek,omitempty" db:"day_of_week" example:"MONDAY"`
	Description *string    `json:"description,omitempty" db:"description"`
	Active      bool       `json:"active" db:"active"`
	Exercises   []Exercise `json:"exercises"` // ordered by Order
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}

// Exercise is one ordered entry of a workout
type Exercise struct {
	ID        uuid.UUID `json:"id" db:"id"`
	WorkoutID uuid.UUID `json:"workoutId" db:"workout_id"`
	Name      string    `json:"name" db:"name" example:"Supino reto"`
	Sets      int       `json:"sets" db:"sets" example:"4"`
	Reps      string    `json:"reps" db:"reps" example:"10-12"`
	Rest      *string   `json:"rest,omitempty" db:"rest" example:"60s"`
	Weight    *string   `json:"weight,omitempty" db:"weight"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	VideoURL  *string   `json:"videoUrl,omitempty" db:"video_url"`
	ImageURL  *string   `json:"imageUrl,omitempty" db:"image_url"`
	Order     int       `json:"order" db:"order"`
}

// WorkoutLog records one session a student performed
type WorkoutLog struct {
	ID          uuid.UUID `json:"id" db:"id"`
	WorkoutID   uuid.UUID `json:"workoutId" db:"workout_id"`
	StudentID   uuid.UUID `json:"studentId" db:"student_id"`
	WorkoutName string    `json:"workoutName,omitempty"` // joined from workouts
	CompletedAt time.Time `json:"completedAt" db:"completed_at"`
	Completed   bool      `json:"completed" db:"completed"`
	Duration    *int      `json:"duration,omitempty" db:"duration"` // minutes
	Notes       *string   `json:"notes,omitempty" db:"notes"`
}
