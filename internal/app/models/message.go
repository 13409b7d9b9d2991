package models

import (
	"time"

	"github.com/google/uuid"
)

// Message is one entry of the conversation between a trainer and a student
type Message struct {
	ID           uuid.UUID `json:"id" db:"id"`
	StudentID    uuid.UUID `json:"studentId" db:"student_id"`
	PersonalID   uuid.UUID `json:"personalId" db:"personal_id"`
	Content      string    `json:"content" db:"content"`
	FromPersonal bool      `json:"fromPersonal" db:"from_personal"` // sender direction
	Read         bool      `json:"read" db:"read"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

// UnreadCount is the number of unread student messages in one conversation
type UnreadCount struct {
	StudentID   uuid.UUID `json:"studentId"`
	StudentName string    `json:"studentName"`
	Count       int       `json:"count"`
}
