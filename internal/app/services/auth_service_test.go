package services

import (
	"context"
	"errors"
	"testing"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
)

func TestRegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	resp, err := f.auth.Register(ctx, &dto.RegisterRequest{Name: "  Carlos   Souza ", Email: " Carlos@Gym.com ", Password: testPassword})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Personal.Email != "carlos@gym.com" || resp.Personal.Name != "Carlos Souza" {
		t.Fatalf("expected normalized trainer, got %+v", resp.Personal)
	}
	if resp.Personal.MaxStudentsAllowed != models.PlanFreeMaxStudents {
		t.Fatalf("new trainers start on FREE, got %d", resp.Personal.MaxStudentsAllowed)
	}
	principal, err := f.jwt.ValidateToken(resp.Token)
	if err != nil || principal.Role != models.RoleTrainer || principal.ID != resp.Personal.ID {
		t.Fatalf("unexpected token principal %+v, %v", principal, err)
	}

	login, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "CARLOS@gym.com", Password: testPassword})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.Personal.ID != resp.Personal.ID {
		t.Fatalf("login returned another trainer")
	}

	if _, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "carlos@gym.com", Password: testPassword + "x"}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected invalid credentials, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.registerTrainer(t, "carlos@gym.com")

	_, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "Outro Nome", Email: "carlos@gym.com", Password: testPassword})
	if !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	cases := []dto.RegisterRequest{
		{Name: "Jo", Email: "jo@gym.com", Password: testPassword},
		{Name: "Joana", Email: "not-an-email", Password: testPassword},
		{Name: "Joana", Email: "jo@gym.com", Password: "123"},
	}
	for _, req := range cases {
		req := req
		if _, err := f.auth.Register(context.Background(), &req); !errors.Is(err, apperrors.ErrValidationFailed) {
			t.Fatalf("expected validation error for %+v, got %v", req, err)
		}
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t)
	f.registerTrainer(t, "carlos@gym.com")
	ctx := context.Background()

	_, wrongPassword := f.auth.Login(ctx, &dto.LoginRequest{Email: "carlos@gym.com", Password: "errada"})
	_, unknownEmail := f.auth.Login(ctx, &dto.LoginRequest{Email: "ninguem@gym.com", Password: testPassword})

	for _, err := range []error{wrongPassword, unknownEmail} {
		var ce *apperrors.CustomError
		if !errors.As(err, &ce) || ce.Message != "Email ou senha incorretos" {
			t.Fatalf("expected generic credential error, got %v", err)
		}
	}
}

func TestStudentLogin(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	student := f.createStudent(t, trainer.ID, "Ana Lima")
	ctx := context.Background()

	resp, err := f.auth.StudentLogin(ctx, &dto.StudentLoginRequest{AccessCode: student.AccessCode})
	if err != nil {
		t.Fatalf("student login: %v", err)
	}
	if resp.Student.ID != student.ID || resp.Student.Personal == nil || resp.Student.Personal.ID != trainer.ID {
		t.Fatalf("expected student with embedded trainer, got %+v", resp.Student)
	}
	principal, err := f.jwt.ValidateToken(resp.Token)
	if err != nil || !principal.IsStudent() {
		t.Fatalf("expected student token, got %+v, %v", principal, err)
	}

	if _, err := f.auth.StudentLogin(ctx, &dto.StudentLoginRequest{AccessCode: "1234"}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected validation error for short code, got %v", err)
	}
	unknown := "00000"
	if student.AccessCode == unknown {
		unknown = "99999"
	}
	if _, err := f.auth.StudentLogin(ctx, &dto.StudentLoginRequest{AccessCode: unknown}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	student := f.createStudent(t, trainer.ID, "Ana Lima")
	ctx := context.Background()

	me, err := f.auth.Me(ctx, auth.Principal{Role: models.RoleTrainer, ID: trainer.ID})
	if err != nil || me.Personal == nil || me.Student != nil {
		t.Fatalf("unexpected trainer me %+v, %v", me, err)
	}
	me, err = f.auth.Me(ctx, auth.Principal{Role: models.RoleStudent, ID: student.ID})
	if err != nil || me.Student == nil || me.Student.Personal == nil {
		t.Fatalf("unexpected student me %+v, %v", me, err)
	}
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	ctx := context.Background()

	err := f.trainers.ChangePassword(ctx, trainer.ID, &dto.ChangePasswordRequest{CurrentPassword: "errada", NewPassword: "novasenha"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("expected wrong current password, got %v", err)
	}
	if err := f.trainers.ChangePassword(ctx, trainer.ID, &dto.ChangePasswordRequest{CurrentPassword: testPassword, NewPassword: "novasenha"}); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "carlos@gym.com", Password: "novasenha"}); err != nil {
		t.Fatalf("login with new password: %v", err)
	}
	if _, err := f.auth.Login(ctx, &dto.LoginRequest{Email: "carlos@gym.com", Password: testPassword}); !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Fatalf("old password should stop working, got %v", err)
	}
}

func TestUpdateProfileStoresDigitsOnlyCPF(t *testing.T) {
	f := newFixture(t)
	trainer := f.registerTrainer(t, "carlos@gym.com")
	ctx := context.Background()

	cpf := "529.982.247-25"
	updated, err := f.trainers.UpdateProfile(ctx, trainer.ID, &dto.UpdateProfileRequest{CPF: &cpf})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.CPF == nil || *updated.CPF != "52998224725" {
		t.Fatalf("expected digits-only cpf, got %v", updated.CPF)
	}

	bad := "111.111.111-11"
	if _, err := f.trainers.UpdateProfile(ctx, trainer.ID, &dto.UpdateProfileRequest{CPF: &bad}); !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("expected invalid cpf, got %v", err)
	}
}
