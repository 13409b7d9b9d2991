// Package memory provides in-process implementations of the repository
// interfaces. Tests use them to exercise services and routes without Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models"
	"github.com/viniciusfeitosaa/gymapp/internal/app/repositories"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

// Store holds every table; the typed repositories share it so ownership joins work
type Store struct {
	mu        sync.RWMutex
	trainers  map[uuid.UUID]models.PersonalTrainer
	students  map[uuid.UUID]models.Student
	workouts  map[uuid.UUID]models.Workout
	logs      []models.WorkoutLog
	messages  []models.Message
	progress  map[uuid.UUID]models.ProgressRecord
	events    []models.SubscriptionEvent
	sequence  time.Time
}

// NewStore creates an empty store
func NewStore() *Store {
	return &Store{
		trainers: make(map[uuid.UUID]models.PersonalTrainer),
		students: make(map[uuid.UUID]models.Student),
		workouts: make(map[uuid.UUID]models.Workout),
		progress: make(map[uuid.UUID]models.ProgressRecord),
		sequence: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// tick returns strictly increasing timestamps so ordering is deterministic. Caller holds mu.
func (s *Store) tick() time.Time {
	s.sequence = s.sequence.Add(time.Second)
	return s.sequence
}

// Trainers returns the trainer repository view
func (s *Store) Trainers() *TrainerRepository { return &TrainerRepository{s} }

// Students returns the student repository view
func (s *Store) Students() *StudentRepository { return &StudentRepository{s} }

// Workouts returns the workout repository view
func (s *Store) Workouts() *WorkoutRepository { return &WorkoutRepository{s} }

// WorkoutLogs returns the workout log repository view
func (s *Store) WorkoutLogs() *WorkoutLogRepository { return &WorkoutLogRepository{s} }

// Messages returns the message repository view
func (s *Store) Messages() *MessageRepository { return &MessageRepository{s} }

// Progress returns the progress repository view
func (s *Store) Progress() *ProgressRepository { return &ProgressRepository{s} }

// SubscriptionEvents returns the subscription event repository view
func (s *Store) SubscriptionEvents() *SubscriptionEventRepository { return &SubscriptionEventRepository{s} }

// ownsStudent reports whether studentID belongs to trainerID. Caller holds mu.
func (s *Store) ownsStudent(studentID, trainerID uuid.UUID) bool {
	st, ok := s.students[studentID]
	return ok && st.PersonalID == trainerID
}

// TrainerRepository is the in-memory ITrainerRepository
type TrainerRepository struct{ s *Store }

func (r *TrainerRepository) Create(_ context.Context, t *models.PersonalTrainer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.trainers {
		if existing.Email == t.Email {
			return apperrors.ErrEmailAlreadyExists
		}
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.CreatedAt = r.s.tick()
	t.UpdatedAt = t.CreatedAt
	r.s.trainers[t.ID] = *t
	return nil
}

func (r *TrainerRepository) find(match func(models.PersonalTrainer) bool) (*models.PersonalTrainer, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.trainers {
		if match(t) {
			out := t
			return &out, nil
		}
	}
	return nil, apperrors.ErrTrainerNotFound
}

func (r *TrainerRepository) GetByID(_ context.Context, id uuid.UUID) (*models.PersonalTrainer, error) {
	return r.find(func(t models.PersonalTrainer) bool { return t.ID == id })
}

func (r *TrainerRepository) GetByEmail(_ context.Context, email string) (*models.PersonalTrainer, error) {
	return r.find(func(t models.PersonalTrainer) bool { return t.Email == email })
}

func (r *TrainerRepository) GetBySubscriptionID(_ context.Context, subscriptionID string) (*models.PersonalTrainer, error) {
	return r.find(func(t models.PersonalTrainer) bool {
		return t.AsaasSubscriptionID != nil && *t.AsaasSubscriptionID == subscriptionID
	})
}

func (r *TrainerRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	return err == nil, nil
}

func (r *TrainerRepository) update(id uuid.UUID, apply func(*models.PersonalTrainer)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.trainers[id]
	if !ok {
		return apperrors.ErrTrainerNotFound
	}
	apply(&t)
	t.UpdatedAt = r.s.tick()
	r.s.trainers[id] = t
	return nil
}

func (r *TrainerRepository) UpdateProfile(_ context.Context, in *models.PersonalTrainer) error {
	return r.update(in.ID, func(t *models.PersonalTrainer) {
		t.Name, t.Phone, t.CREF, t.CPF = in.Name, in.Phone, in.CREF, in.CPF
		t.Address, t.AddressNumber, t.Complement = in.Address, in.AddressNumber, in.Complement
		t.Province, t.PostalCode, t.City, t.State = in.Province, in.PostalCode, in.City, in.State
	})
}

func (r *TrainerRepository) UpdatePassword(_ context.Context, id uuid.UUID, hash string) error {
	return r.update(id, func(t *models.PersonalTrainer) { t.PasswordHash = hash })
}

func (r *TrainerRepository) SetPlan(_ context.Context, id uuid.UUID, maxStudents int, subscriptionID *string) error {
	return r.update(id, func(t *models.PersonalTrainer) {
		t.MaxStudentsAllowed = maxStudents
		t.AsaasSubscriptionID = subscriptionID
	})
}

// StudentRepository is the in-memory IStudentRepository
type StudentRepository struct{ s *Store }

func (r *StudentRepository) Create(_ context.Context, st *models.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.trainers[st.PersonalID]; !ok {
		return apperrors.ErrTrainerNotFound
	}
	for _, existing := range r.s.students {
		if existing.AccessCode == st.AccessCode {
			return repositories.ErrAccessCodeTaken
		}
	}
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	st.CreatedAt = r.s.tick()
	st.UpdatedAt = st.CreatedAt
	r.s.students[st.ID] = *st
	return nil
}

func (r *StudentRepository) get(match func(models.Student) bool) (*models.Student, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, st := range r.s.students {
		if match(st) {
			out := st
			return &out, nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (r *StudentRepository) GetByID(_ context.Context, id uuid.UUID) (*models.Student, error) {
	return r.get(func(st models.Student) bool { return st.ID == id })
}

func (r *StudentRepository) GetByIDForTrainer(_ context.Context, id, trainerID uuid.UUID) (*models.Student, error) {
	return r.get(func(st models.Student) bool { return st.ID == id && st.PersonalID == trainerID })
}

func (r *StudentRepository) GetByAccessCode(_ context.Context, code string) (*models.Student, error) {
	return r.get(func(st models.Student) bool { return st.AccessCode == code })
}

func (r *StudentRepository) ListByTrainer(_ context.Context, trainerID uuid.UUID, f models.StudentFilter) ([]models.Student, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	all := make([]models.Student, 0)
	for _, st := range r.s.students {
		if st.PersonalID != trainerID {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(st.Name), strings.ToLower(f.Search)) {
			continue
		}
		all = append(all, st)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Name == all[j].Name {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].Name < all[j].Name
	})

	total := int64(len(all))
	if f.Limit > 0 {
		start := f.Offset
		if start > len(all) {
			start = len(all)
		}
		end := start + f.Limit
		if end > len(all) {
			end = len(all)
		}
		all = all[start:end]
	}
	return all, total, nil
}

func (r *StudentRepository) CountByTrainer(_ context.Context, trainerID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, st := range r.s.students {
		if st.PersonalID == trainerID {
			count++
		}
	}
	return count, nil
}

func (r *StudentRepository) AccessCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := r.GetByAccessCode(ctx, code)
	return err == nil, nil
}

func (r *StudentRepository) Update(_ context.Context, in *models.Student) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownsStudent(in.ID, in.PersonalID) {
		return apperrors.ErrStudentNotFound
	}
	st := r.s.students[in.ID]
	code, created := st.AccessCode, st.CreatedAt
	st = *in
	st.AccessCode, st.CreatedAt = code, created
	st.UpdatedAt = r.s.tick()
	r.s.students[in.ID] = st
	return nil
}

func (r *StudentRepository) UpdateAccessCode(_ context.Context, id, trainerID uuid.UUID, code string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownsStudent(id, trainerID) {
		return apperrors.ErrStudentNotFound
	}
	for otherID, other := range r.s.students {
		if otherID != id && other.AccessCode == code {
			return repositories.ErrAccessCodeTaken
		}
	}
	st := r.s.students[id]
	st.AccessCode = code
	st.UpdatedAt = r.s.tick()
	r.s.students[id] = st
	return nil
}

// Delete removes the student and everything hanging off it, like the schema cascade
func (r *StudentRepository) Delete(_ context.Context, id, trainerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if !r.s.ownsStudent(id, trainerID) {
		return apperrors.ErrStudentNotFound
	}
	delete(r.s.students, id)
	for wid, w := range r.s.workouts {
		if w.StudentID == id {
			delete(r.s.workouts, wid)
		}
	}
	for pid, p := range r.s.progress {
		if p.StudentID == id {
			delete(r.s.progress, pid)
		}
	}
	logs := r.s.logs[:0]
	for _, l := range r.s.logs {
		if l.StudentID != id {
			logs = append(logs, l)
		}
	}
	r.s.logs = logs
	messages := r.s.messages[:0]
	for _, m := range r.s.messages {
		if m.StudentID != id {
			messages = append(messages, m)
		}
	}
	r.s.messages = messages
	return nil
}

// WorkoutRepository is the in-memory IWorkoutRepository
type WorkoutRepository struct{ s *Store }

func cloneWorkout(w models.Workout) models.Workout {
	w.Exercises = append([]models.Exercise{}, w.Exercises...)
	sort.SliceStable(w.Exercises, func(i, j int) bool { return w.Exercises[i].Order < w.Exercises[j].Order })
	return w
}

func (r *WorkoutRepository) Create(_ context.Context, w *models.Workout) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.students[w.StudentID]; !ok {
		return apperrors.ErrStudentNotFound
	}
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	for i := range w.Exercises {
		if w.Exercises[i].ID == uuid.Nil {
			w.Exercises[i].ID = uuid.New()
		}
		w.Exercises[i].WorkoutID = w.ID
	}
	w.CreatedAt = r.s.tick()
	w.UpdatedAt = w.CreatedAt
	r.s.workouts[w.ID] = cloneWorkout(*w)
	return nil
}

func (r *WorkoutRepository) GetByIDForTrainer(_ context.Context, id, trainerID uuid.UUID) (*models.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workouts[id]
	if !ok || !r.s.ownsStudent(w.StudentID, trainerID) {
		return nil, apperrors.ErrWorkoutNotFound
	}
	out := cloneWorkout(w)
	return &out, nil
}

func (r *WorkoutRepository) GetByIDForStudent(_ context.Context, id, studentID uuid.UUID) (*models.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	w, ok := r.s.workouts[id]
	if !ok || w.StudentID != studentID {
		return nil, apperrors.ErrWorkoutNotFound
	}
	out := cloneWorkout(w)
	return &out, nil
}

func (r *WorkoutRepository) ListByStudent(_ context.Context, studentID uuid.UUID, activeOnly bool) ([]models.Workout, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Workout, 0)
	for _, w := range r.s.workouts {
		if w.StudentID == studentID && (!activeOnly || w.Active) {
			out = append(out, cloneWorkout(w))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *WorkoutRepository) FindActiveForDay(ctx context.Context, studentID uuid.UUID, day models.DayOfWeek) (*models.Workout, error) {
	workouts, _ := r.ListByStudent(ctx, studentID, true)
	for _, w := range workouts {
		if w.DayOfWeek != nil && *w.DayOfWeek == day {
			out := w
			return &out, nil
		}
	}
	return nil, nil
}

func (r *WorkoutRepository) Update(_ context.Context, in *models.Workout, trainerID uuid.UUID, replaceExercises bool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workouts[in.ID]
	if !ok || !r.s.ownsStudent(w.StudentID, trainerID) {
		return apperrors.ErrWorkoutNotFound
	}
	w.Name, w.DayOfWeek, w.Description, w.Active = in.Name, in.DayOfWeek, in.Description, in.Active
	if replaceExercises {
		for i := range in.Exercises {
			if in.Exercises[i].ID == uuid.Nil {
				in.Exercises[i].ID = uuid.New()
			}
			in.Exercises[i].WorkoutID = w.ID
		}
		w.Exercises = in.Exercises
	}
	w.UpdatedAt = r.s.tick()
	r.s.workouts[w.ID] = cloneWorkout(w)
	return nil
}

func (r *WorkoutRepository) Delete(_ context.Context, id, trainerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	w, ok := r.s.workouts[id]
	if !ok || !r.s.ownsStudent(w.StudentID, trainerID) {
		return apperrors.ErrWorkoutNotFound
	}
	delete(r.s.workouts, id)
	return nil
}

// WorkoutLogRepository is the in-memory IWorkoutLogRepository
type WorkoutLogRepository struct{ s *Store }

func (r *WorkoutLogRepository) Create(_ context.Context, l *models.WorkoutLog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	r.s.logs = append(r.s.logs, *l)
	return nil
}

func (r *WorkoutLogRepository) ListByStudent(_ context.Context, studentID uuid.UUID, limit int) ([]models.WorkoutLog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.WorkoutLog, 0)
	for _, l := range r.s.logs {
		if l.StudentID == studentID {
			if w, ok := r.s.workouts[l.WorkoutID]; ok {
				l.WorkoutName = w.Name
			}
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CompletedAt.After(out[j].CompletedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// MessageRepository is the in-memory IMessageRepository
type MessageRepository struct{ s *Store }

func (r *MessageRepository) Create(_ context.Context, m *models.Message) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	m.CreatedAt = r.s.tick()
	r.s.messages = append(r.s.messages, *m)
	return nil
}

func (r *MessageRepository) ListConversation(_ context.Context, studentID uuid.UUID) ([]models.Message, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.Message, 0)
	for _, m := range r.s.messages {
		if m.StudentID == studentID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *MessageRepository) MarkRead(_ context.Context, studentID uuid.UUID, fromPersonal bool) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for i := range r.s.messages {
		m := &r.s.messages[i]
		if m.StudentID == studentID && m.FromPersonal == fromPersonal && !m.Read {
			m.Read = true
			n++
		}
	}
	return n, nil
}

func (r *MessageRepository) UnreadByTrainer(_ context.Context, trainerID uuid.UUID) ([]models.UnreadCount, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	counts := map[uuid.UUID]*models.UnreadCount{}
	for _, m := range r.s.messages {
		if m.FromPersonal || m.Read || !r.s.ownsStudent(m.StudentID, trainerID) {
			continue
		}
		c, ok := counts[m.StudentID]
		if !ok {
			c = &models.UnreadCount{StudentID: m.StudentID, StudentName: r.s.students[m.StudentID].Name}
			counts[m.StudentID] = c
		}
		c.Count++
	}
	out := make([]models.UnreadCount, 0, len(counts))
	for _, c := range counts {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out, nil
}

// ProgressRepository is the in-memory IProgressRepository
type ProgressRepository struct{ s *Store }

func (r *ProgressRepository) Create(_ context.Context, p *models.ProgressRecord) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = r.s.tick()
	r.s.progress[p.ID] = *p
	return nil
}

func (r *ProgressRepository) ListByStudent(_ context.Context, studentID uuid.UUID) ([]models.ProgressRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.ProgressRecord, 0)
	for _, p := range r.s.progress {
		if p.StudentID == studentID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date.Equal(out[j].Date) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Date.After(out[j].Date)
	})
	return out, nil
}

func (r *ProgressRepository) GetByIDForTrainer(_ context.Context, id, trainerID uuid.UUID) (*models.ProgressRecord, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.progress[id]
	if !ok || !r.s.ownsStudent(p.StudentID, trainerID) {
		return nil, apperrors.ErrProgressNotFound
	}
	return &p, nil
}

func (r *ProgressRepository) Update(_ context.Context, in *models.ProgressRecord, trainerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.progress[in.ID]
	if !ok || !r.s.ownsStudent(p.StudentID, trainerID) {
		return apperrors.ErrProgressNotFound
	}
	in.StudentID, in.CreatedAt = p.StudentID, p.CreatedAt
	r.s.progress[in.ID] = *in
	return nil
}

func (r *ProgressRepository) Delete(_ context.Context, id, trainerID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.progress[id]
	if !ok || !r.s.ownsStudent(p.StudentID, trainerID) {
		return apperrors.ErrProgressNotFound
	}
	delete(r.s.progress, id)
	return nil
}

// SubscriptionEventRepository is the in-memory ISubscriptionEventRepository
type SubscriptionEventRepository struct{ s *Store }

func (r *SubscriptionEventRepository) Record(_ context.Context, e *models.SubscriptionEvent) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.ReceivedAt.IsZero() {
		e.ReceivedAt = r.s.tick()
	}
	r.s.events = append(r.s.events, *e)
	return nil
}

func (r *SubscriptionEventRepository) ListByTrainer(_ context.Context, trainerID uuid.UUID, limit int) ([]models.SubscriptionEvent, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]models.SubscriptionEvent, 0)
	for i := len(r.s.events) - 1; i >= 0; i-- {
		e := r.s.events[i]
		if e.TrainerID != nil && *e.TrainerID == trainerID {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

// All returns every recorded delivery, oldest first
func (r *SubscriptionEventRepository) All() []models.SubscriptionEvent {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return append([]models.SubscriptionEvent{}, r.s.events...)
}

var (
	_ repositories.ITrainerRepository           = (*TrainerRepository)(nil)
	_ repositories.IStudentRepository           = (*StudentRepository)(nil)
	_ repositories.IWorkoutRepository           = (*WorkoutRepository)(nil)
	_ repositories.IWorkoutLogRepository        = (*WorkoutLogRepository)(nil)
	_ repositories.IMessageRepository           = (*MessageRepository)(nil)
	_ repositories.IProgressRepository          = (*ProgressRepository)(nil)
	_ repositories.ISubscriptionEventRepository = (*SubscriptionEventRepository)(nil)
)
