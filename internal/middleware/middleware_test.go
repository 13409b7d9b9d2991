package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/ratelimit"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/validation"
)

func init() {
	gin.SetMode(gin.TestMode)
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := validation.RegisterRules(v); err != nil {
			panic(err)
		}
	}
}

func newJWT() *auth.JWTService {
	return auth.NewJWTService(auth.JWTConfig{SecretKey: "middleware-secret", AccessTokenExp: time.Hour, TokenIssuer: "gymapp-test"})
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var body dto.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

func TestRoleGate(t *testing.T) {
	jwt := newJWT()
	m := NewAuthMiddleware(jwt)

	router := gin.New()
	ok := func(c *gin.Context) {
		p, _ := PrincipalFrom(c)
		c.JSON(http.StatusOK, gin.H{"id": p.ID.String(), "role": p.Role})
	}
	router.GET("/any", m.Authenticate(), ok)
	router.GET("/trainer", m.RequireTrainer(), ok)
	router.GET("/student", m.RequireStudent(), ok)

	trainerToken, err := jwt.GenerateToken(auth.Principal{Role: models.RoleTrainer, ID: uuid.New()})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	studentToken, err := jwt.GenerateToken(auth.Principal{Role: models.RoleStudent, ID: uuid.New()})
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	foreign := auth.NewJWTService(auth.JWTConfig{SecretKey: "other", AccessTokenExp: time.Hour, TokenIssuer: "gymapp-test"})
	forgedToken, _ := foreign.GenerateToken(auth.Principal{Role: models.RoleTrainer, ID: uuid.New()})

	tests := []struct {
		name    string
		path    string
		header  string
		status  int
		message string
	}{
		{"missing header", "/any", "", http.StatusUnauthorized, "Token não fornecido"},
		{"wrong scheme", "/any", "Basic " + trainerToken, http.StatusUnauthorized, "Token não fornecido"},
		{"garbage token", "/any", "Bearer not.a.token", http.StatusForbidden, "Token inválido"},
		{"foreign signature", "/trainer", "Bearer " + forgedToken, http.StatusForbidden, "Token inválido"},
		{"student on trainer route", "/trainer", "Bearer " + studentToken, http.StatusForbidden, "Acesso negado"},
		{"trainer on student route", "/student", "Bearer " + trainerToken, http.StatusForbidden, "Acesso negado"},
		{"trainer on trainer route", "/trainer", "Bearer " + trainerToken, http.StatusOK, ""},
		{"student on any route", "/any", "Bearer " + studentToken, http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d: %s", tt.status, w.Code, w.Body.String())
			}
			if tt.message != "" {
				if body := decodeError(t, w); body.Error != tt.message {
					t.Fatalf("expected %q, got %q", tt.message, body.Error)
				}
			}
		})
	}
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
		code   string
	}{
		{"not found", apperrors.ErrStudentNotFound, http.StatusNotFound, "Aluno não encontrado", ""},
		{"conflict", apperrors.ErrEmailAlreadyExists, http.StatusConflict, "Email já cadastrado", ""},
		{"credentials", apperrors.ErrWrongCredentials, http.StatusUnauthorized, "Email ou senha incorretos", ""},
		{"cpf required", apperrors.ErrTaxIDRequired, http.StatusBadRequest, apperrors.ErrTaxIDRequired.Message, apperrors.CodeTaxIDRequired},
		{"limit", apperrors.ErrStudentLimitReached, http.StatusForbidden, apperrors.ErrStudentLimitReached.Message, apperrors.CodeStudentLimitReached},
		{"gateway", apperrors.NewGatewayError(errors.New("dial tcp: refused")), http.StatusBadGateway, "Falha na comunicação com o gateway de pagamento", apperrors.CodeGateway},
		{"exhausted", apperrors.ErrAccessCodeExhausted, http.StatusServiceUnavailable, apperrors.ErrAccessCodeExhausted.Message, apperrors.CodeAccessCodeExhausted},
		{"bare category", apperrors.ErrResourceNotFound, http.StatusNotFound, "Recurso não encontrado", ""},
		{"unknown is redacted", errors.New("pq: relation students does not exist"), http.StatusInternalServerError, InternalErrorMessage, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

			HandleAPIError(c, tt.err)

			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
			body := decodeError(t, w)
			if body.Error != tt.body || body.Code != tt.code {
				t.Fatalf("unexpected body %+v", body)
			}
			if strings.Contains(w.Body.String(), "refused") || strings.Contains(w.Body.String(), "relation") {
				t.Fatalf("internal error text leaked: %s", w.Body.String())
			}
		})
	}
}

func TestBindJSONReportsFields(t *testing.T) {
	router := gin.New()
	router.POST("/register", func(c *gin.Context) {
		var req dto.RegisterRequest
		if !BindJSON(c, &req) {
			return
		}
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":"Jo","email":"x"}`)))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	var body struct {
		Code    string           `json:"code"`
		Details []dto.FieldError `json:"details"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != apperrors.CodeValidationFailed || len(body.Details) != 3 {
		t.Fatalf("expected three field errors, got %+v", body)
	}
	fields := map[string]bool{}
	for _, fe := range body.Details {
		fields[fe.Field] = true
	}
	for _, f := range []string{"name", "email", "password"} {
		if !fields[f] {
			t.Fatalf("missing field error for %s in %+v", f, body.Details)
		}
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":`)))
	if w.Code != http.StatusBadRequest || decodeError(t, w).Error != "Corpo da requisição inválido" {
		t.Fatalf("expected malformed body rejected, got %d %s", w.Code, w.Body.String())
	}
}

func TestRateLimit(t *testing.T) {
	router := gin.New()
	router.POST("/login", RateLimit(ratelimit.NewMemoryLimiter(2, time.Minute), zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i, w.Code)
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusTooManyRequests || decodeError(t, w).Code != apperrors.CodeTooManyAttempts {
		t.Fatalf("expected 429 TOO_MANY_ATTEMPTS, got %d %s", w.Code, w.Body.String())
	}
}

type brokenLimiter struct{}

func (brokenLimiter) Allow(_ context.Context, _ string) (bool, error) {
	return false, errors.New("redis: connection refused")
}

func TestRateLimitFailsOpen(t *testing.T) {
	router := gin.New()
	router.POST("/login", RateLimit(brokenLimiter{}, zerolog.Nop()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected request through, got %d", w.Code)
	}
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery(zerolog.Nop()))
	router.GET("/boom", func(c *gin.Context) { panic("nil map write") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	if w.Code != http.StatusInternalServerError || decodeError(t, w).Error != InternalErrorMessage {
		t.Fatalf("expected redacted 500, got %d %s", w.Code, w.Body.String())
	}
}
