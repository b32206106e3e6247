package usecases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/usecases"
)

// --- Mock ReservationRepository ---

type mockReservationRepo struct {
	createFn        func(ctx context.Context, res *domain.Reservation) error
	getByCodeFn     func(ctx context.Context, code string) (*domain.Reservation, error)
	markCollectedFn func(ctx context.Context, code string) error
	cancelFn        func(ctx context.Context, code string) error
}

func (m *mockReservationRepo) Create(ctx context.Context, res *domain.Reservation) error {
	if m.createFn != nil {
		return m.createFn(ctx, res)
	}
	return nil
}

func (m *mockReservationRepo) GetByCode(ctx context.Context, code string) (*domain.Reservation, error) {
	if m.getByCodeFn != nil {
		return m.getByCodeFn(ctx, code)
	}
	return nil, nil
}

func (m *mockReservationRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Reservation, error) {
	return nil, nil
}

func (m *mockReservationRepo) MarkCollected(ctx context.Context, code string) error {
	if m.markCollectedFn != nil {
		return m.markCollectedFn(ctx, code)
	}
	return nil
}

func (m *mockReservationRepo) Cancel(ctx context.Context, code string) error {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, code)
	}
	return nil
}

// --- Tests ---

func TestReservationService_Reserve(t *testing.T) {
	bagRepo := &mockBagRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Bag, error) {
			bag := validBag(id, "shop-1", dayOffset(1))
			bag.RemainingQuantity = 3
			return &bag, nil
		},
	}
	var created *domain.Reservation
	resRepo := &mockReservationRepo{
		createFn: func(ctx context.Context, res *domain.Reservation) error {
			created = res
			return nil
		},
	}

	svc := usecases.NewReservationService(resRepo, bagRepo, nil, nil)
	res, err := svc.Reserve(context.Background(), "cust-1", "bag-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("reservation was not created")
	}
	if !strings.HasPrefix(res.PickupCode, "LB-") {
		t.Errorf("pickup code %q missing LB- prefix", res.PickupCode)
	}
	if res.Status != domain.ReservationPending {
		t.Errorf("status = %s, want %s", res.Status, domain.ReservationPending)
	}
	if res.Quantity != 2 || res.BagID != "bag-1" || res.CustomerID != "cust-1" {
		t.Errorf("reservation fields wrong: %+v", res)
	}
}

func TestReservationService_Reserve_ExpiredBag(t *testing.T) {
	bagRepo := &mockBagRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Bag, error) {
			bag := validBag(id, "shop-1", dayOffset(-1))
			return &bag, nil
		},
	}
	svc := usecases.NewReservationService(&mockReservationRepo{}, bagRepo, nil, nil)
	if _, err := svc.Reserve(context.Background(), "cust-1", "bag-1", 1); err == nil {
		t.Error("expected error reserving an expired bag")
	}
}

func TestReservationService_Reserve_QuantityChecks(t *testing.T) {
	bagRepo := &mockBagRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Bag, error) {
			bag := validBag(id, "shop-1", dayOffset(1))
			bag.RemainingQuantity = 1
			return &bag, nil
		},
	}
	svc := usecases.NewReservationService(&mockReservationRepo{}, bagRepo, nil, nil)

	if _, err := svc.Reserve(context.Background(), "cust-1", "bag-1", 0); err == nil {
		t.Error("expected error for zero quantity")
	}
	if _, err := svc.Reserve(context.Background(), "cust-1", "bag-1", 2); err == nil {
		t.Error("expected error when quantity exceeds remaining")
	}
}

func TestReservationService_Collect_EmptyCode(t *testing.T) {
	svc := usecases.NewReservationService(&mockReservationRepo{}, &mockBagRepo{}, nil, nil)
	if err := svc.Collect(context.Background(), ""); err == nil {
		t.Error("expected error for empty pickup code")
	}
	if err := svc.Cancel(context.Background(), ""); err == nil {
		t.Error("expected error for empty pickup code")
	}
}
