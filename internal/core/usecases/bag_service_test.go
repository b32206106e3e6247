package usecases_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/usecases"
)

// --- Mock BagRepository ---

type mockBagRepo struct {
	createFn            func(ctx context.Context, bag *domain.Bag) error
	getByIDFn           func(ctx context.Context, id string) (*domain.Bag, error)
	listByShopFn        func(ctx context.Context, shopID string) ([]domain.Bag, error)
	findNearbyFn        func(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Bag, error)
	listFlaggedActiveFn func(ctx context.Context) ([]domain.Bag, error)
	deactivateFn        func(ctx context.Context, id string, updatedAt time.Time) error
}

func (m *mockBagRepo) Create(ctx context.Context, bag *domain.Bag) error {
	if m.createFn != nil {
		return m.createFn(ctx, bag)
	}
	return nil
}

func (m *mockBagRepo) GetByID(ctx context.Context, id string) (*domain.Bag, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, nil
}

func (m *mockBagRepo) ListByShop(ctx context.Context, shopID string) ([]domain.Bag, error) {
	if m.listByShopFn != nil {
		return m.listByShopFn(ctx, shopID)
	}
	return nil, nil
}

func (m *mockBagRepo) FindNearby(ctx context.Context, lat, lon, radius float64, limit int) ([]domain.Bag, error) {
	if m.findNearbyFn != nil {
		return m.findNearbyFn(ctx, lat, lon, radius, limit)
	}
	return nil, nil
}

func (m *mockBagRepo) ListFlaggedActive(ctx context.Context) ([]domain.Bag, error) {
	if m.listFlaggedActiveFn != nil {
		return m.listFlaggedActiveFn(ctx)
	}
	return nil, nil
}

func (m *mockBagRepo) Deactivate(ctx context.Context, id string, updatedAt time.Time) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, id, updatedAt)
	}
	return nil
}

func (m *mockBagRepo) UpsertBatch(ctx context.Context, bags []domain.Bag) error { return nil }

// --- Mock EventPublisher ---

type mockPublisher struct {
	bagPostedFn  func(ctx context.Context, bag *domain.Bag) error
	bagExpiredFn func(ctx context.Context, bagID string) error
	reservedFn   func(ctx context.Context, res *domain.Reservation) error
}

func (m *mockPublisher) PublishBagPosted(ctx context.Context, bag *domain.Bag) error {
	if m.bagPostedFn != nil {
		return m.bagPostedFn(ctx, bag)
	}
	return nil
}

func (m *mockPublisher) PublishBagExpired(ctx context.Context, bagID string) error {
	if m.bagExpiredFn != nil {
		return m.bagExpiredFn(ctx, bagID)
	}
	return nil
}

func (m *mockPublisher) PublishReservationCreated(ctx context.Context, res *domain.Reservation) error {
	if m.reservedFn != nil {
		return m.reservedFn(ctx, res)
	}
	return nil
}

func (m *mockPublisher) PublishBroadcast(ctx context.Context, data []byte) error { return nil }

// --- Helpers ---

func dayOffset(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}

func validBag(id, shopID string, collectionDate string) domain.Bag {
	return domain.Bag{
		ID:               id,
		ShopID:           shopID,
		Title:            "Surprise bag",
		OriginalPrice:    12,
		DiscountedPrice:  4,
		TotalQuantity:    5,
		CollectionDate:   collectionDate,
		CollectionWindow: domain.CollectionWindow{Start: "17:00", End: "20:00"},
		IsActive:         true,
		IsAvailable:      true,
	}
}

// --- Tests ---

func TestBagService_Post(t *testing.T) {
	var created *domain.Bag
	repo := &mockBagRepo{
		createFn: func(ctx context.Context, bag *domain.Bag) error {
			created = bag
			return nil
		},
	}
	published := false
	pub := &mockPublisher{
		bagPostedFn: func(ctx context.Context, bag *domain.Bag) error {
			published = true
			return nil
		},
	}

	svc := usecases.NewBagService(repo, pub, nil)
	bag := validBag("", "shop-1", dayOffset(1))
	bag.RemainingQuantity = 0

	if err := svc.Post(context.Background(), &bag); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created == nil {
		t.Fatal("bag was not created")
	}
	if created.RemainingQuantity != created.TotalQuantity {
		t.Errorf("remaining quantity not defaulted: got %d, want %d", created.RemainingQuantity, created.TotalQuantity)
	}
	if !created.IsActive || !created.IsAvailable {
		t.Error("new bag must be flagged active and available")
	}
	if !published {
		t.Error("bag posted event was not published")
	}
}

func TestBagService_Post_Invalid(t *testing.T) {
	svc := usecases.NewBagService(&mockBagRepo{}, nil, nil)

	cases := map[string]func(*domain.Bag){
		"missing shop":     func(b *domain.Bag) { b.ShopID = "" },
		"missing title":    func(b *domain.Bag) { b.Title = "" },
		"zero quantity":    func(b *domain.Bag) { b.TotalQuantity = 0 },
		"discount too big": func(b *domain.Bag) { b.DiscountedPrice = b.OriginalPrice + 1 },
		"bad window":       func(b *domain.Bag) { b.CollectionWindow.End = "late" },
	}
	for name, mutate := range cases {
		bag := validBag("", "shop-1", dayOffset(1))
		mutate(&bag)
		if err := svc.Post(context.Background(), &bag); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestBagService_ListByShop_Partitions(t *testing.T) {
	repo := &mockBagRepo{
		listByShopFn: func(ctx context.Context, shopID string) ([]domain.Bag, error) {
			live := validBag("live-1", shopID, dayOffset(1))
			expired := validBag("exp-1", shopID, dayOffset(-1))
			cancelled := validBag("can-1", shopID, dayOffset(1))
			cancelled.IsActive = false
			cancelled.IsAvailable = false
			return []domain.Bag{live, expired, cancelled}, nil
		},
	}

	svc := usecases.NewBagService(repo, nil, nil)
	listing, err := svc.ListByShop(context.Background(), "shop-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(listing.Active) != 1 || listing.Active[0].ID != "live-1" {
		t.Errorf("active partition wrong: %+v", listing.Active)
	}
	if len(listing.Expired) != 1 || listing.Expired[0].ID != "exp-1" {
		t.Errorf("expired partition wrong: %+v", listing.Expired)
	}
	if len(listing.Cancelled) != 1 || listing.Cancelled[0].ID != "can-1" {
		t.Errorf("cancelled partition wrong: %+v", listing.Cancelled)
	}
	if listing.Active[0].Status != domain.BagLive {
		t.Errorf("status not attached: %s", listing.Active[0].Status)
	}
}

func TestBagService_ListByShop_ReconcilesExpired(t *testing.T) {
	deactivated := make(map[string]int)
	repo := &mockBagRepo{
		listByShopFn: func(ctx context.Context, shopID string) ([]domain.Bag, error) {
			return []domain.Bag{
				validBag("live-1", shopID, dayOffset(1)),
				validBag("exp-1", shopID, dayOffset(-1)),
				func() domain.Bag {
					b := validBag("can-1", shopID, dayOffset(1))
					b.IsActive = false
					b.IsAvailable = false
					return b
				}(),
			}, nil
		},
		deactivateFn: func(ctx context.Context, id string, updatedAt time.Time) error {
			deactivated[id]++
			return nil
		},
	}

	sweeper := usecases.NewSweepService(repo, nil, 0)
	svc := usecases.NewBagService(repo, nil, sweeper)

	if _, err := svc.ListByShop(context.Background(), "shop-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Only the bag that is past deadline but still flagged gets written back.
	if len(deactivated) != 1 || deactivated["exp-1"] != 1 {
		t.Errorf("expected exactly one deactivation of exp-1, got %v", deactivated)
	}
}

func TestBagService_ListByShop_RepoError(t *testing.T) {
	repo := &mockBagRepo{
		listByShopFn: func(ctx context.Context, shopID string) ([]domain.Bag, error) {
			return nil, fmt.Errorf("connection refused")
		},
	}
	svc := usecases.NewBagService(repo, nil, nil)
	if _, err := svc.ListByShop(context.Background(), "shop-1"); err == nil {
		t.Error("expected error from repository")
	}
}
