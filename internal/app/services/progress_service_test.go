package services

import (
	"context"
	"errors"
	"testing"

	"github.com/viniciusfeitosaa/gymapp/internal/app/models/dto"
	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

func TestProgressRecords(t *testing.T) {
	f := newFixture(t)
	owner := f.registerTrainer(t, "carlos@gym.com")
	other := f.registerTrainer(t, "marina@gym.com")
	ana := f.createStudent(t, owner.ID, "Ana Lima")
	ctx := context.Background()

	weight := 62.0
	today, err := f.progress.Create(ctx, owner.ID, ana.ID, &dto.ProgressRequest{Weight: &weight})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if today.Date.Year() != 2025 || today.Date.Month() != 3 || today.Date.Day() != 3 || today.Date.Hour() != 0 {
		t.Fatalf("expected date defaulting to today, got %v", today.Date)
	}

	var older dto.Date
	if err := older.UnmarshalJSON([]byte(`"2025-02-01"`)); err != nil {
		t.Fatalf("date: %v", err)
	}
	if _, err := f.progress.Create(ctx, owner.ID, ana.ID, &dto.ProgressRequest{Date: &older, Weight: &weight}); err != nil {
		t.Fatalf("create older: %v", err)
	}

	mine, err := f.progress.MyProgress(ctx, ana.ID)
	if err != nil || len(mine) != 2 || mine[0].ID != today.ID {
		t.Fatalf("expected newest first, got %+v, %v", mine, err)
	}

	newWeight := 61.0
	if _, err := f.progress.Update(ctx, other.ID, today.ID, &dto.ProgressRequest{Weight: &newWeight}); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected foreign update rejected, got %v", err)
	}
	updated, err := f.progress.Update(ctx, owner.ID, today.ID, &dto.ProgressRequest{Weight: &newWeight})
	if err != nil || *updated.Weight != newWeight || !updated.Date.Equal(today.Date) {
		t.Fatalf("unexpected update %+v, %v", updated, err)
	}

	if err := f.progress.Delete(ctx, other.ID, today.ID); !errors.Is(err, apperrors.ErrResourceNotFound) {
		t.Fatalf("expected foreign delete rejected, got %v", err)
	}
	if err := f.progress.Delete(ctx, owner.ID, today.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	list, _ := f.progress.ListForStudent(ctx, owner.ID, ana.ID)
	if len(list) != 1 {
		t.Fatalf("expected one record left, got %d", len(list))
	}
}
