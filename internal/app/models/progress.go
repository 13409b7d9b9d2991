package models

import (
	"time"

	"github.com/google/uuid"
)

// ProgressRecord is a dated body measurement of a student
type ProgressRecord struct {
	ID        uuid.UUID `json:"id" db:"id"`
	StudentID uuid.UUID `json:"studentId" db:"student_id"`
	Date      time.Time `json:"date" db:"date"`
	Weight    *float64  `json:"weight,omitempty" db:"weight"`      // kg
	BodyFat   *float64  `json:"bodyFat,omitempty" db:"body_fat"`   // percent
	Chest     *float64  `json:"chest,omitempty" db:"chest"`        // cm
	Waist     *float64  `json:"waist,omitempty" db:"waist"`        // cm
	Hips      *float64  `json:"hips,omitempty" db:"hips"`          // cm
	Arm       *float64  `json:"arm,omitempty" db:"arm"`            // cm
	Thigh     *float64  `json:"thigh,omitempty" db:"thigh"`        // cm
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
