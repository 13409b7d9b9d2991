package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
)

func newTestService() *JWTService {
	return NewJWTService(JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 7 * 24 * time.Hour,
		TokenIssuer:    "gymapp-test",
	})
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestService()
	for _, role := range []models.Role{models.RoleTrainer, models.RoleStudent} {
		t.Run(string(role), func(t *testing.T) {
			want := Principal{Role: role, ID: uuid.New()}
			token, err := svc.GenerateToken(want)
			if err != nil {
				t.Fatalf("generate: %v", err)
			}
			got, err := svc.ValidateToken(token)
			if err != nil {
				t.Fatalf("validate: %v", err)
			}
			if got != want {
				t.Fatalf("expected %+v, got %+v", want, got)
			}
		})
	}
}

func TestTokensAreUniquePerIssue(t *testing.T) {
	svc := newTestService()
	p := Principal{Role: models.RoleTrainer, ID: uuid.New()}
	first, _ := svc.GenerateToken(p)
	second, _ := svc.GenerateToken(p)
	if first == second {
		t.Fatalf("expected distinct tokens for consecutive logins")
	}
}

func TestExpiredToken(t *testing.T) {
	svc := newTestService()
	issued := time.Now().Add(-8 * 24 * time.Hour)
	svc.now = func() time.Time { return issued }
	token, err := svc.GenerateToken(Principal{Role: models.RoleStudent, ID: uuid.New()})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	svc.now = time.Now
	if _, err := svc.ValidateToken(token); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	other := NewJWTService(JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour})
	token, _ := other.GenerateToken(Principal{Role: models.RoleTrainer, ID: uuid.New()})

	if _, err := newTestService().ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestMalformedPayloadRejected(t *testing.T) {
	svc := newTestService()
	cases := map[string]Claims{
		"unknown role": {ID: uuid.NewString(), Role: "admin"},
		"missing role": {ID: uuid.NewString()},
		"bad id":       {ID: "42", Role: string(models.RoleTrainer)},
	}
	for name, claims := range cases {
		t.Run(name, func(t *testing.T) {
			claims.RegisteredClaims = jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))}
			token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &claims).SignedString([]byte("test-secret"))
			if err != nil {
				t.Fatalf("sign: %v", err)
			}
			if _, err := svc.ValidateToken(token); !errors.Is(err, ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestGenerateRejectsEmptyPrincipal(t *testing.T) {
	if _, err := newTestService().GenerateToken(Principal{Role: models.RoleTrainer}); err == nil {
		t.Fatalf("expected error for nil id")
	}
}

func TestExtractBearerToken(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def", "abc.def", false},
		{"bearer abc", "abc", false},
		{"", "", true},
		{"Bearer ", "", true},
		{"Basic abc", "", true},
		{"abc", "", true},
	}
	for _, tc := range cases {
		got, err := ExtractBearerToken(tc.header)
		if (err != nil) != tc.wantErr {
			t.Fatalf("%q: unexpected error state %v", tc.header, err)
		}
		if got != tc.want {
			t.Fatalf("%q: expected %q, got %q", tc.header, tc.want, got)
		}
	}
}
