package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
)

// Trainer describes the account created on first start
type Trainer struct {
	Name     string
	Email    string
	Password string
}

// CreateDefaultTrainer creates the configured trainer unless an account with
// that email already exists. An empty email disables seeding.
func CreateDefaultTrainer(ctx context.Context, trainerRepo repositories.ITrainerRepository, t Trainer, lgr zerolog.Logger) error {
	email := validation.NormalizeEmail(t.Email)
	if email == "" {
		return nil
	}
	if t.Password == "" {
		return fmt.Errorf("seed trainer %s has no password", email)
	}

	exists, err := trainerRepo.EmailExists(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		lgr.Debug().Str("email", email).Msg("Seed trainer already present")
		return nil
	}

	hash, err := auth.HashPassword(t.Password)
	if err != nil {
		return fmt.Errorf("failed to hash seed trainer password: %w", err)
	}

	name := validation.NormalizeName(t.Name)
	if name == "" {
		name = "Personal"
	}

	trainer := &models.PersonalTrainer{
		Name:               name,
		Email:              email,
		PasswordHash:       hash,
		MaxStudentsAllowed: models.PlanFreeMaxStudents,
	}
	if err := trainerRepo.Create(ctx, trainer); err != nil {
		// another instance won the race
		if errors.Is(err, apperrors.ErrEmailAlreadyExists) {
			return nil
		}
		return err
	}

	lgr.Info().Str("trainerId", trainer.ID.String()).Str("email", email).Msg("Seed trainer created")
	return nil
}
