package usecases_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/usecases"
)

func TestSweepService_SweepsOnlyExpiredFlagged(t *testing.T) {
	deactivated := make(map[string]int)
	repo := &mockBagRepo{
		deactivateFn: func(ctx context.Context, id string, updatedAt time.Time) error {
			deactivated[id]++
			return nil
		},
	}

	live := validBag("live-1", "shop-1", dayOffset(1))
	expiredFlagged := validBag("exp-1", "shop-1", dayOffset(-1))
	expiredSwept := validBag("exp-2", "shop-1", dayOffset(-1))
	expiredSwept.IsActive = false
	expiredSwept.IsAvailable = false

	svc := usecases.NewSweepService(repo, nil, 0)
	swept, err := svc.SweepAndReconcile(context.Background(), []domain.Bag{live, expiredFlagged, expiredSwept})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d, want 1", swept)
	}
	if len(deactivated) != 1 || deactivated["exp-1"] != 1 {
		t.Errorf("expected exactly one deactivation of exp-1, got %v", deactivated)
	}
}

func TestSweepService_Idempotent(t *testing.T) {
	calls := 0
	repo := &mockBagRepo{
		deactivateFn: func(ctx context.Context, id string, updatedAt time.Time) error {
			calls++
			return nil
		},
	}

	bags := []domain.Bag{validBag("exp-1", "shop-1", dayOffset(-1))}
	svc := usecases.NewSweepService(repo, nil, 0)

	if _, err := svc.SweepAndReconcile(context.Background(), bags); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	// The first pass cleared the in-memory flags; the second pass must see
	// nothing to do.
	swept, err := svc.SweepAndReconcile(context.Background(), bags)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if swept != 0 {
		t.Errorf("second pass swept %d bags, want 0", swept)
	}
	if calls != 1 {
		t.Errorf("deactivate called %d times, want 1", calls)
	}
}

func TestSweepService_ToleratesPerBagFailure(t *testing.T) {
	deactivated := make(map[string]int)
	repo := &mockBagRepo{
		deactivateFn: func(ctx context.Context, id string, updatedAt time.Time) error {
			if id == "exp-bad" {
				return fmt.Errorf("row locked")
			}
			deactivated[id]++
			return nil
		},
	}

	bags := []domain.Bag{
		validBag("exp-bad", "shop-1", dayOffset(-1)),
		validBag("exp-ok", "shop-1", dayOffset(-1)),
	}

	svc := usecases.NewSweepService(repo, nil, 0)
	swept, err := svc.SweepAndReconcile(context.Background(), bags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d, want 1 (failure must not stop the pass)", swept)
	}
	if deactivated["exp-ok"] != 1 {
		t.Error("healthy bag was not swept after the failing one")
	}
}

func TestSweepService_SweepAll_PublishesExpiredEvents(t *testing.T) {
	repo := &mockBagRepo{
		listFlaggedActiveFn: func(ctx context.Context) ([]domain.Bag, error) {
			return []domain.Bag{
				validBag("exp-1", "shop-1", dayOffset(-1)),
				validBag("live-1", "shop-1", dayOffset(1)),
			}, nil
		},
	}
	var expiredIDs []string
	pub := &mockPublisher{
		bagExpiredFn: func(ctx context.Context, bagID string) error {
			expiredIDs = append(expiredIDs, bagID)
			return nil
		},
	}

	svc := usecases.NewSweepService(repo, pub, 0)
	swept, err := svc.SweepAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if swept != 1 {
		t.Errorf("swept = %d, want 1", swept)
	}
	if len(expiredIDs) != 1 || expiredIDs[0] != "exp-1" {
		t.Errorf("expired events = %v, want [exp-1]", expiredIDs)
	}
}

func TestSweepService_SweepAll_ListError(t *testing.T) {
	repo := &mockBagRepo{
		listFlaggedActiveFn: func(ctx context.Context) ([]domain.Bag, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := usecases.NewSweepService(repo, nil, 0)
	if _, err := svc.SweepAll(context.Background()); err == nil {
		t.Error("expected error when candidate listing fails")
	}
}
