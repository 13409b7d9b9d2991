package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories/memory"
	"github.com/viniciusfeitosaa/gymapp/internal/config"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/asaas"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/ratelimit"
)

const testWebhookToken = "whsec_test"

func init() {
	gin.SetMode(gin.TestMode)
}

type stubGateway struct {
	checkouts int
}

func (g *stubGateway) CreateCheckout(_ context.Context, _ asaas.CheckoutRequest) (*asaas.Checkout, error) {
	g.checkouts++
	return &asaas.Checkout{ID: "chk_1", Link: "https://sandbox.asaas.com/checkoutSession/show?id=chk_1"}, nil
}

func (g *stubGateway) GetSubscription(_ context.Context, _ string) (*asaas.Subscription, error) {
	return nil, nil
}

func (g *stubGateway) FindActiveSubscription(_ context.Context, _ string) (*asaas.Subscription, error) {
	return nil, nil
}

func (g *stubGateway) CancelSubscription(_ context.Context, _ string) error {
	return nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Server.Mode = "test"
	cfg.Server.FrontendURL = "http://localhost:5173"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.AccessTokenExpiration = "1h"
	cfg.JWT.Issuer = "gymapp"
	cfg.Asaas.PlanName = "Plano PRO"
	cfg.Asaas.PlanValue = 49.90
	cfg.Asaas.WebhookToken = testWebhookToken
	cfg.AccessCode.Length = 5
	cfg.AccessCode.MaxAttempts = 10
	return cfg
}

type testAPI struct {
	router  *gin.Engine
	gateway *stubGateway
}

func newTestAPI(t *testing.T, loginsPerMinute int) *testAPI {
	t.Helper()
	store := memory.NewStore()
	stores := Stores{
		Trainers:           store.Trainers(),
		Students:           store.Students(),
		Workouts:           store.Workouts(),
		WorkoutLogs:        store.WorkoutLogs(),
		Messages:           store.Messages(),
		Progress:           store.Progress(),
		SubscriptionEvents: store.SubscriptionEvents(),
	}
	gateway := &stubGateway{}
	cfg := testConfig()

	deps, err := BuildDependencies(cfg, stores, gateway, ratelimit.NewMemoryLimiter(loginsPerMinute, time.Minute), zerolog.Nop())
	if err != nil {
		t.Fatalf("BuildDependencies: %v", err)
	}
	router, err := SetupRouter(cfg, deps, zerolog.Nop())
	if err != nil {
		t.Fatalf("SetupRouter: %v", err)
	}
	return &testAPI{router: router, gateway: gateway}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body interface{}, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d, body %s", w.Code, want, w.Body.String())
	}
}

func expectCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	expectStatus(t, w, status)
	var body dto.ErrorResponse
	decode(t, w, &body)
	if body.Code != code {
		t.Fatalf("error code = %q, want %q (%s)", body.Code, code, body.Error)
	}
}

func (a *testAPI) registerTrainer(t *testing.T, email string) dto.TrainerAuthResponse {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Carlos Souza", Email: email, Password: "segredo123",
	})
	expectStatus(t, w, http.StatusCreated)
	var resp dto.TrainerAuthResponse
	decode(t, w, &resp)
	return resp
}

func (a *testAPI) createStudent(t *testing.T, token, name string) *httptest.ResponseRecorder {
	t.Helper()
	return a.do(t, http.MethodPost, "/api/students", token, dto.CreateStudentRequest{Name: name})
}

func TestServiceEndpoints(t *testing.T) {
	api := newTestAPI(t, 10)

	w := api.do(t, http.MethodGet, "/", "", nil)
	expectStatus(t, w, http.StatusOK)
	var info dto.ServiceInfo
	decode(t, w, &info)
	if info.Name != "gymapp-api" || info.Status != "running" {
		t.Errorf("service info = %+v", info)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/health", "", nil), http.StatusOK)
	expectStatus(t, api.do(t, http.MethodGet, "/api/nowhere", "", nil), http.StatusNotFound)
}

func TestTrainerAuthFlow(t *testing.T) {
	api := newTestAPI(t, 10)
	reg := api.registerTrainer(t, "carlos@gym.com")
	if reg.Token == "" || reg.Personal == nil || reg.Personal.MaxStudentsAllowed != models.PlanFreeMaxStudents {
		t.Fatalf("unexpected register response %+v", reg)
	}

	w := api.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Name: "Outro Nome", Email: "CARLOS@gym.com", Password: "segredo123",
	})
	expectStatus(t, w, http.StatusConflict)

	w = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "carlos@gym.com", Password: "errada"})
	expectStatus(t, w, http.StatusUnauthorized)

	w = api.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: "carlos@gym.com", Password: "segredo123"})
	expectStatus(t, w, http.StatusOK)

	w = api.do(t, http.MethodGet, "/api/auth/me", reg.Token, nil)
	expectStatus(t, w, http.StatusOK)
	var me dto.MeResponse
	decode(t, w, &me)
	if me.Role != models.RoleTrainer || me.Personal == nil {
		t.Errorf("me = %+v", me)
	}

	w = api.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ca","email":"x","password":"1"}`)
	expectCode(t, w, http.StatusBadRequest, apperrors.CodeValidationFailed)
}

func TestRoleGateOverHTTP(t *testing.T) {
	api := newTestAPI(t, 10)
	trainer := api.registerTrainer(t, "carlos@gym.com")

	expectStatus(t, api.do(t, http.MethodGet, "/api/students", "", nil), http.StatusUnauthorized)
	expectStatus(t, api.do(t, http.MethodGet, "/api/students", "not-a-jwt", nil), http.StatusForbidden)
	expectStatus(t, api.do(t, http.MethodGet, "/api/students/me", trainer.Token, nil), http.StatusForbidden)
	expectStatus(t, api.do(t, http.MethodGet, "/api/students/not-a-uuid", trainer.Token, nil), http.StatusBadRequest)
}

func TestStudentJourney(t *testing.T) {
	api := newTestAPI(t, 10)
	trainer := api.registerTrainer(t, "carlos@gym.com")

	w := api.createStudent(t, trainer.Token, "Ana Lima")
	expectStatus(t, w, http.StatusCreated)
	var student models.Student
	decode(t, w, &student)
	if len(student.AccessCode) != 5 {
		t.Fatalf("access code %q is not 5 characters", student.AccessCode)
	}

	monday := models.DayOfWeek("MONDAY")
	w = api.do(t, http.MethodPost, "/api/workouts", trainer.Token, dto.CreateWorkoutRequest{
		StudentID: student.ID,
		Name:      "Treino A",
		DayOfWeek: &monday,
		Exercises: []dto.ExerciseRequest{{Name: "Supino reto", Sets: 4, Reps: "10-12"}},
	})
	expectStatus(t, w, http.StatusCreated)
	var workout models.Workout
	decode(t, w, &workout)

	w = api.do(t, http.MethodPost, "/api/auth/student/login", "", dto.StudentLoginRequest{AccessCode: student.AccessCode})
	expectStatus(t, w, http.StatusOK)
	var login dto.StudentAuthResponse
	decode(t, w, &login)
	if login.Student == nil || login.Student.Personal == nil || login.Student.Personal.ID != trainer.Personal.ID {
		t.Fatalf("student login should embed the trainer: %+v", login.Student)
	}

	expectStatus(t, api.do(t, http.MethodGet, "/api/students", login.Token, nil), http.StatusForbidden)
	expectStatus(t, api.do(t, http.MethodGet, "/api/students/me", login.Token, nil), http.StatusOK)

	w = api.do(t, http.MethodGet, "/api/workouts/my", login.Token, nil)
	expectStatus(t, w, http.StatusOK)
	var mine []models.Workout
	decode(t, w, &mine)
	if len(mine) != 1 || len(mine[0].Exercises) != 1 {
		t.Fatalf("my workouts = %+v", mine)
	}

	expectStatus(t, api.do(t, http.MethodPost, "/api/workouts/"+workout.ID.String()+"/log", login.Token, nil), http.StatusCreated)

	w = api.do(t, http.MethodPost, "/api/messages/my", login.Token, dto.SendMessageRequest{Content: "Oi, professor"})
	expectStatus(t, w, http.StatusCreated)
	w = api.do(t, http.MethodGet, "/api/messages/unread", trainer.Token, nil)
	expectStatus(t, w, http.StatusOK)
	var unread []models.UnreadCount
	decode(t, w, &unread)
	if len(unread) != 1 || unread[0].Count != 1 {
		t.Errorf("unread = %+v", unread)
	}

	// another trainer cannot see Ana
	other := api.registerTrainer(t, "joana@gym.com")
	expectStatus(t, api.do(t, http.MethodGet, "/api/students/"+student.ID.String(), other.Token, nil), http.StatusNotFound)
	expectStatus(t, api.do(t, http.MethodGet, "/api/workouts/"+workout.ID.String(), other.Token, nil), http.StatusNotFound)
}

func TestStudentLogin(t *testing.T) {
	api := newTestAPI(t, 10)

	w := api.do(t, http.MethodPost, "/api/auth/student/login", "", dto.StudentLoginRequest{AccessCode: "123"})
	expectCode(t, w, http.StatusBadRequest, apperrors.CodeValidationFailed)

	w = api.do(t, http.MethodPost, "/api/auth/student/login", "", dto.StudentLoginRequest{AccessCode: "99999"})
	expectStatus(t, w, http.StatusUnauthorized)
}

func TestStudentLoginRateLimited(t *testing.T) {
	api := newTestAPI(t, 2)
	body := dto.StudentLoginRequest{AccessCode: "99999"}

	for i := 0; i < 2; i++ {
		expectStatus(t, api.do(t, http.MethodPost, "/api/auth/student/login", "", body), http.StatusUnauthorized)
	}
	w := api.do(t, http.MethodPost, "/api/auth/student/login", "", body)
	expectCode(t, w, http.StatusTooManyRequests, apperrors.CodeTooManyAttempts)
	if w.Header().Get("Retry-After") == "" {
		t.Error("missing Retry-After header")
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	api := newTestAPI(t, 10)
	trainer := api.registerTrainer(t, "carlos@gym.com")

	for _, name := range []string{"Ana Lima", "Bruno Dias"} {
		expectStatus(t, api.createStudent(t, trainer.Token, name), http.StatusCreated)
	}
	expectCode(t, api.createStudent(t, trainer.Token, "Caio Reis"), http.StatusForbidden, apperrors.CodeStudentLimitReached)

	expectCode(t, api.do(t, http.MethodPost, "/api/subscription/checkout", trainer.Token, nil), http.StatusBadRequest, apperrors.CodeTaxIDRequired)

	cpf := "529.982.247-25"
	expectStatus(t, api.do(t, http.MethodPut, "/api/personal/profile", trainer.Token, dto.UpdateProfileRequest{CPF: &cpf}), http.StatusOK)

	w := api.do(t, http.MethodPost, "/api/subscription/checkout", trainer.Token, nil)
	expectStatus(t, w, http.StatusOK)
	var checkout dto.CheckoutResponse
	decode(t, w, &checkout)
	if checkout.URL == "" || api.gateway.checkouts != 1 {
		t.Fatalf("checkout = %+v after %d gateway calls", checkout, api.gateway.checkouts)
	}

	event := asaas.WebhookEvent{
		ID:    "evt_1",
		Event: asaas.EventPaymentConfirmed,
		Payment: &asaas.WebhookPayment{
			ID:                "pay_1",
			Subscription:      "sub_1",
			ExternalReference: trainer.Personal.ID.String(),
		},
	}
	expectStatus(t, api.do(t, http.MethodPost, "/api/webhooks/asaas", "", event), http.StatusUnauthorized)
	expectStatus(t, api.do(t, http.MethodPost, "/api/webhooks/asaas", "", "{", asaas.WebhookTokenHeader, testWebhookToken), http.StatusBadRequest)

	// replays apply the same state
	for i := 0; i < 2; i++ {
		w = api.do(t, http.MethodPost, "/api/webhooks/asaas", "", event, asaas.WebhookTokenHeader, testWebhookToken)
		expectStatus(t, w, http.StatusOK)
	}

	w = api.do(t, http.MethodGet, "/api/subscription/status", trainer.Token, nil)
	expectStatus(t, w, http.StatusOK)
	var status dto.SubscriptionStatusResponse
	decode(t, w, &status)
	if status.Plan != models.PlanPro || status.MaxStudentsAllowed != models.PlanProMaxStudents || status.StudentCount != 2 {
		t.Fatalf("status after upgrade = %+v", status)
	}

	expectStatus(t, api.createStudent(t, trainer.Token, "Caio Reis"), http.StatusCreated)

	w = api.do(t, http.MethodPost, "/api/subscription/cancel", trainer.Token, nil)
	expectStatus(t, w, http.StatusOK)
	decode(t, w, &status)
	if status.Plan != models.PlanFree {
		t.Fatalf("status after cancel = %+v", status)
	}
}
