package dto

import "github.com/viniciusfeitosaa/gymapp/internal/app/models"

// RegisterRequest is the trainer sign-up body
type RegisterRequest struct {
	Name     string  `json:"name" binding:"required,min=3,max=120" example:"Carlos Souza"`
	Email    string  `json:"email" binding:"required,email" example:"carlos@gym.com"`
	Password string  `json:"password" binding:"required,min=6" example:"segredo123"`
	Phone    *string `json:"phone,omitempty" example:"11999990000"`
	CREF     *string `json:"cref,omitempty" example:"123456-G/SP"`
}

// LoginRequest is the trainer login body
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"carlos@gym.com"`
	Password string `json:"password" binding:"required" example:"segredo123"`
}

// StudentLoginRequest is the student login body
type StudentLoginRequest struct {
	AccessCode string `json:"accessCode" binding:"required,accesscode" example:"48213"`
}

// TrainerAuthResponse is returned by trainer register and login
type TrainerAuthResponse struct {
	Token     string                  `json:"token"`
	ExpiresIn int                     `json:"expiresIn" example:"604800"`
	Personal  *models.PersonalTrainer `json:"personal"`
}

// StudentAuthResponse is returned by student login; the student embeds its trainer
type StudentAuthResponse struct {
	Token     string          `json:"token"`
	ExpiresIn int             `json:"expiresIn" example:"604800"`
	Student   *models.Student `json:"student"`
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	Role     models.Role             `json:"role" example:"personal"`
	Personal *models.PersonalTrainer `json:"personal,omitempty"`
	Student  *models.Student         `json:"student,omitempty"`
}
