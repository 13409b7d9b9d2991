package models

import (
	"time"

	"github.com/google/uuid"
)

// Student is a trainee owned by exactly one trainer and identified at login by AccessCode
type Student struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	PersonalID   uuid.UUID       `json:"personalId" db:"personal_id"`
	Name         string          `json:"name" db:"name" example:"Ana Lima"`
	AccessCode   string          `json:"accessCode" db:"access_code" example:"48213"`
	Email        *string         `json:"email,omitempty" db:"email"`
	Phone        *string         `json:"phone,omitempty" db:"phone"`
	BirthDate    *time.Time      `json:"birthDate,omitempty" db:"birth_date"`
	Gender       *string         `json:"gender,omitempty" db:"gender"`
	Height       *float64        `json:"height,omitempty" db:"height"` // cm
	Weight       *float64        `json:"weight,omitempty" db:"weight"` // kg
	Goal         *string         `json:"goal,omitempty" db:"goal"`
	Notes        *string         `json:"notes,omitempty" db:"notes"`
	TrainingDays []DayOfWeek     `json:"trainingDays" db:"training_days"`
	Active       bool            `json:"active" db:"active"`
	CreatedAt    time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time       `json:"updatedAt" db:"updated_at"`
	Personal     *TrainerSummary `json:"personal,omitempty"` // Relation, no db tag
}

// StudentFilter narrows a trainer's student listing
type StudentFilter struct {
	Search string
	Limit  int
	Offset int
}
