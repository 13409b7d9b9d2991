package dto

import (
	"github.com/google/uuid"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
)

// ExerciseRequest is one exercise of a workout body
type ExerciseRequest struct {
	Name     string  `json:"name" binding:"required" example:"Supino reto"`
	Sets     int     `json:"sets" binding:"required,min=1" example:"4"`
	Reps     string  `json:"reps" binding:"required" example:"10-12"`
	Rest     *string `json:"rest,omitempty" example:"60s"`
	Weight   *string `json:"weight,omitempty" example:"20kg"`
	Notes    *string `json:"notes,omitempty"`
	VideoURL *string `json:"videoUrl,omitempty" binding:"omitempty,url"`
	ImageURL *string `json:"imageUrl,omitempty" binding:"omitempty,url"`
	Order    *int    `json:"order,omitempty" binding:"omitempty,min=0"`
}

// CreateWorkoutRequest creates a workout with its exercises
type CreateWorkoutRequest struct {
	StudentID   uuid.UUID         `json:"studentId" binding:"required" swaggertype:"string"`
	Name        string            `json:"name" binding:"required,min=2,max=120" example:"Treino A"`
	DayOfWeek   *models.DayOfWeek `json:"dayOfWeek,omitempty" binding:"omitempty,weekday" example:"MONDAY"`
	Description *string           `json:"description,omitempty"`
	Active      *bool             `json:"active,omitempty"`
	Exercises   []ExerciseRequest `json:"exercises" binding:"omitempty,dive"`
}

// UpdateWorkoutRequest updates a workout; a non-nil Exercises replaces the whole list
type UpdateWorkoutRequest struct {
	Name        *string           `json:"name,omitempty" binding:"omitempty,min=2,max=120"`
	DayOfWeek   *models.DayOfWeek `json:"dayOfWeek,omitempty" binding:"omitempty,weekday"`
	Description *string           `json:"description,omitempty"`
	Active      *bool             `json:"active,omitempty"`
	Exercises   []ExerciseRequest `json:"exercises,omitempty" binding:"omitempty,dive"`
}

// LogWorkoutRequest records a session performed by the student
type LogWorkoutRequest struct {
	Completed *bool   `json:"completed,omitempty"`
	Duration  *int    `json:"duration,omitempty" binding:"omitempty,min=0"`
	Notes     *string `json:"notes,omitempty"`
}

// TodayWorkoutResponse is the student's workout for the current weekday
type TodayWorkoutResponse struct {
	Day     models.DayOfWeek `json:"day" example:"MONDAY"`
	Workout *models.Workout  `json:"workout"`
	Message string           `json:"message,omitempty" example:"Nenhum treino para hoje"`
}
