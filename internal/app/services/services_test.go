package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories/memory"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/accesscode"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/asaas"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/auth"
)

const testPassword = "segredo123"

// monday is 2025-03-03, a Monday
var monday = time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

type fixture struct {
	store         *memory.Store
	gateway       *fakeGateway
	jwt           *auth.JWTService
	auth          AuthService
	trainers      TrainerService
	students      StudentService
	workouts      WorkoutService
	messages      MessageService
	progress      ProgressService
	subscriptions SubscriptionService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	gateway := &fakeGateway{}
	jwt := auth.NewJWTService(auth.JWTConfig{SecretKey: "test-secret", AccessTokenExp: time.Hour, TokenIssuer: "gymapp-test"})
	clock := func() time.Time { return monday }
	log := zerolog.Nop()

	return &fixture{
		store:    store,
		gateway:  gateway,
		jwt:      jwt,
		auth:     NewAuthService(store.Trainers(), store.Students(), jwt, log),
		trainers: NewTrainerService(store.Trainers(), log),
		students: NewStudentService(store.Students(), store.Trainers(), accesscode.NewGenerator(5, 10), log),
		workouts: NewWorkoutService(store.Workouts(), store.WorkoutLogs(), store.Students(), clock, log),
		messages: NewMessageService(store.Messages(), store.Students(), log),
		progress: NewProgressService(store.Progress(), store.Students(), clock, log),
		subscriptions: NewSubscriptionService(store.Trainers(), store.Students(), store.SubscriptionEvents(), gateway,
			SubscriptionConfig{PlanName: "Plano PRO", PlanValue: 49.90, FrontendURL: "http://localhost:5173/"}, clock, log),
	}
}

func (f *fixture) registerTrainer(t *testing.T, email string) *models.PersonalTrainer {
	t.Helper()
	resp, err := f.auth.Register(context.Background(), &dto.RegisterRequest{Name: "Carlos Souza", Email: email, Password: testPassword})
	if err != nil {
		t.Fatalf("register %s: %v", email, err)
	}
	return resp.Personal
}

func (f *fixture) createStudent(t *testing.T, trainerID uuid.UUID, name string) *models.Student {
	t.Helper()
	student, err := f.students.Create(context.Background(), trainerID, &dto.CreateStudentRequest{Name: name})
	if err != nil {
		t.Fatalf("create student %s: %v", name, err)
	}
	return student
}

// fakeGateway records calls and answers with preset values
type fakeGateway struct {
	mu sync.Mutex

	checkoutErr  error
	lastCheckout *asaas.CheckoutRequest

	subscriptions map[string]*asaas.Subscription
	lookupErr     error
	lookups       int

	active    *asaas.Subscription
	cancelErr error
	cancelled []string
}

func (g *fakeGateway) CreateCheckout(_ context.Context, req asaas.CheckoutRequest) (*asaas.Checkout, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lastCheckout = &req
	if g.checkoutErr != nil {
		return nil, g.checkoutErr
	}
	return &asaas.Checkout{ID: "chk_1", Link: "https://sandbox.asaas.com/checkoutSession/show?id=chk_1"}, nil
}

func (g *fakeGateway) GetSubscription(_ context.Context, id string) (*asaas.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.lookups++
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	return g.subscriptions[id], nil
}

func (g *fakeGateway) FindActiveSubscription(_ context.Context, _ string) (*asaas.Subscription, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.lookupErr != nil {
		return nil, g.lookupErr
	}
	return g.active, nil
}

func (g *fakeGateway) CancelSubscription(_ context.Context, id string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.cancelErr != nil {
		return g.cancelErr
	}
	g.cancelled = append(g.cancelled, id)
	return nil
}
