package accesscode

import (
	"context"
	"errors"
	"testing"

	"github.com/viniciusfeitosaa/gymapp/internal/pkg/apperrors"
)

func TestDrawIsNumericWithFixedLength(t *testing.T) {
	g := NewGenerator(5, 10)
	for i := 0; i < 200; i++ {
		code, err := g.Draw()
		if err != nil {
			t.Fatalf("draw: %v", err)
		}
		if len(code) != 5 {
			t.Fatalf("expected 5 characters, got %q", code)
		}
		for _, r := range code {
			if r < '0' || r > '9' {
				t.Fatalf("expected digits only, got %q", code)
			}
		}
	}
}

func storeNothing(context.Context, string) error { return nil }

func TestAssignSkipsTakenCodes(t *testing.T) {
	g := NewGenerator(5, 10)
	calls := 0
	var stored string
	code, err := g.Assign(context.Background(),
		func(_ context.Context, _ string) (bool, error) {
			calls++
			return calls < 3, nil
		},
		func(_ context.Context, c string) error {
			stored = c
			return nil
		})
	if err != nil {
		t.Fatalf("assign: %v", err)
	}
	if calls != 3 || len(code) != 5 {
		t.Fatalf("expected free code on third draw, got %q after %d calls", code, calls)
	}
	if stored != code {
		t.Fatalf("stored %q, returned %q", stored, code)
	}
}

func TestAssignExhaustsKeyspace(t *testing.T) {
	g := NewGenerator(5, 4)
	calls := 0
	_, err := g.Assign(context.Background(), func(_ context.Context, _ string) (bool, error) {
		calls++
		return true, nil
	}, storeNothing)
	if !errors.Is(err, apperrors.ErrExhaustedKeyspace) {
		t.Fatalf("expected ErrExhaustedKeyspace, got %v", err)
	}
	if calls != 4 {
		t.Fatalf("expected 4 attempts, got %d", calls)
	}
}

func TestAssignPropagatesErrors(t *testing.T) {
	boom := errors.New("db down")
	_, err := NewGenerator(5, 3).Assign(context.Background(), func(context.Context, string) (bool, error) {
		return false, boom
	}, storeNothing)
	if !errors.Is(err, boom) {
		t.Fatalf("expected lookup error, got %v", err)
	}

	_, err = NewGenerator(5, 3).Assign(context.Background(),
		func(context.Context, string) (bool, error) { return false, nil },
		func(context.Context, string) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestAssignRetriesWriteCollisions(t *testing.T) {
	g := NewGenerator(5, 3)
	writes := 0
	code, err := g.Assign(context.Background(),
		func(context.Context, string) (bool, error) { return false, nil },
		func(context.Context, string) error {
			writes++
			if writes == 1 {
				return ErrCollision
			}
			return nil
		})
	if err != nil || len(code) != 5 {
		t.Fatalf("expected code after one collision, got %q, %v", code, err)
	}
	if writes != 2 {
		t.Fatalf("expected 2 writes, got %d", writes)
	}
}

func TestAssignSharesAttemptBudget(t *testing.T) {
	g := NewGenerator(5, 4)
	checks, writes := 0, 0
	_, err := g.Assign(context.Background(),
		func(context.Context, string) (bool, error) {
			checks++
			return checks%2 == 1, nil
		},
		func(context.Context, string) error {
			writes++
			return ErrCollision
		})
	if !errors.Is(err, apperrors.ErrAccessCodeExhausted) {
		t.Fatalf("expected exhaustion, got %v", err)
	}
	if checks != 4 || writes != 2 {
		t.Fatalf("expected 4 draws and 2 writes in total, got %d and %d", checks, writes)
	}
}
