package models

import (
	"time"

	"github.com/google/uuid"
)

// PersonalTrainer is the account that owns students, workouts and a subscription
type PersonalTrainer struct {
	ID                  uuid.UUID `json:"id" db:"id"`
	Name                string    `json:"name" db:"name" example:"Carlos Souza"`
	Email               string    `json:"email" db:"email" example:"carlos@gym.com"`
	PasswordHash        string    `json:"-" db:"password_hash"`
	Phone               *string   `json:"phone,omitempty" db:"phone"`
	CREF                *string   `json:"cref,omitempty" db:"cref" example:"123456-G/SP"` // professional registry number
	CPF                 *string   `json:"cpf,omitempty" db:"cpf"`                         // digits only, required for checkout
	Address             *string   `json:"address,omitempty" db:"address"`
	AddressNumber       *string   `json:"addressNumber,omitempty" db:"address_number"`
	Complement          *string   `json:"complement,omitempty" db:"complement"`
	Province            *string   `json:"province,omitempty" db:"province"`
	PostalCode          *string   `json:"postalCode,omitempty" db:"postal_code"`
	City                *string   `json:"city,omitempty" db:"city"`
	State               *string   `json:"state,omitempty" db:"state"`
	MaxStudentsAllowed  int       `json:"maxStudentsAllowed" db:"max_students_allowed" example:"2"`
	AsaasSubscriptionID *string   `json:"-" db:"asaas_subscription_id"`
	CreatedAt           time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt           time.Time `json:"updatedAt" db:"updated_at"`
}

// HasTaxID reports whether a CPF is on file
func (t *PersonalTrainer) HasTaxID() bool {
	return t.CPF != nil && *t.CPF != ""
}

// Plan returns the trainer's current tier
func (t *PersonalTrainer) Plan() Plan {
	return PlanFor(t.MaxStudentsAllowed)
}

// TrainerSummary is the public part of a trainer shown to their students
type TrainerSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
	Phone *string   `json:"phone,omitempty"`
	CREF  *string   `json:"cref,omitempty"`
}

// Summary returns the public profile of t
func (t *PersonalTrainer) Summary() *TrainerSummary {
	return &TrainerSummary{
		ID:    t.ID,
		Name:  t.Name,
		Email: t.Email,
		Phone: t.Phone,
		CREF:  t.CREF,
	}
}
