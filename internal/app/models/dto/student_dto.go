package dto

import "github.com/viniciusfeitosaa/gymapp/internal/app/models"

// CreateStudentRequest is the body to add a student
type CreateStudentRequest struct {
	Name         string             `json:"name" binding:"required,min=3,max=120" example:"Ana Lima"`
	Email        *string            `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string            `json:"phone,omitempty"`
	BirthDate    *Date              `json:"birthDate,omitempty" swaggertype:"string" example:"1995-04-12"`
	Gender       *string            `json:"gender,omitempty"`
	Height       *float64           `json:"height,omitempty" binding:"omitempty,gt=0"`
	Weight       *float64           `json:"weight,omitempty" binding:"omitempty,gt=0"`
	Goal         *string            `json:"goal,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
	TrainingDays []models.DayOfWeek `json:"trainingDays,omitempty" binding:"omitempty,dive,weekday"`
}

// UpdateStudentRequest is the trainer's partial update of a student
type UpdateStudentRequest struct {
	Name         *string            `json:"name,omitempty" binding:"omitempty,min=3,max=120"`
	Email        *string            `json:"email,omitempty" binding:"omitempty,email"`
	Phone        *string            `json:"phone,omitempty"`
	BirthDate    *Date              `json:"birthDate,omitempty" swaggertype:"string"`
	Gender       *string            `json:"gender,omitempty"`
	Height       *float64           `json:"height,omitempty" binding:"omitempty,gt=0"`
	Weight       *float64           `json:"weight,omitempty" binding:"omitempty,gt=0"`
	Goal         *string            `json:"goal,omitempty"`
	Notes        *string            `json:"notes,omitempty"`
	TrainingDays []models.DayOfWeek `json:"trainingDays,omitempty" binding:"omitempty,dive,weekday"`
	Active       *bool              `json:"active,omitempty"`
}

// UpdateOwnProfileRequest is the subset of fields a student may change
type UpdateOwnProfileRequest struct {
	Email     *string  `json:"email,omitempty" binding:"omitempty,email"`
	Phone     *string  `json:"phone,omitempty"`
	BirthDate *Date    `json:"birthDate,omitempty" swaggertype:"string"`
	Height    *float64 `json:"height,omitempty" binding:"omitempty,gt=0"`
	Weight    *float64 `json:"weight,omitempty" binding:"omitempty,gt=0"`
}

// StudentListResponse is a page of students
type StudentListResponse struct {
	Students   []models.Student `json:"students"`
	Pagination PaginationInfo   `json:"pagination"`
}

// AccessCodeResponse carries a freshly generated access code
type AccessCodeResponse struct {
	AccessCode string `json:"accessCode" example:"48213"`
}
