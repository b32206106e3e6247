package usecases_test

import (
	"context"
	"testing"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/usecases"
)

func TestShopService_Upsert_Validation(t *testing.T) {
	svc := usecases.NewShopService(&mockShopRepo{}, nil)

	err := svc.Upsert(context.Background(), &domain.Shop{Name: "", Location: domain.GeoPoint{Lat: 6.9, Lon: 79.8}})
	if err == nil {
		t.Error("expected error for empty name")
	}

	err = svc.Upsert(context.Background(), &domain.Shop{Name: "Kade", Location: domain.GeoPoint{Lat: 95, Lon: 79.8}})
	if err == nil {
		t.Error("expected error for out-of-range latitude")
	}

	err = svc.Upsert(context.Background(), &domain.Shop{Name: "Kade", Location: domain.GeoPoint{Lat: 6.9, Lon: 79.8}})
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestShopService_GetByID(t *testing.T) {
	repo := &mockShopRepo{
		getByIDFn: func(ctx context.Context, id string) (*domain.Shop, error) {
			return &domain.Shop{ID: id, Name: "Pastry Corner"}, nil
		},
	}
	svc := usecases.NewShopService(repo, nil)
	shop, err := svc.GetByID(context.Background(), "shop-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if shop.ID != "shop-7" {
		t.Errorf("expected id shop-7, got %s", shop.ID)
	}
}

func TestFavoriteService_RequiresIDs(t *testing.T) {
	svc := usecases.NewFavoriteService(&mockFavoriteRepo{})
	if err := svc.Add(context.Background(), "", "shop-1"); err == nil {
		t.Error("expected error for empty customer id")
	}
	if err := svc.Remove(context.Background(), "cust-1", ""); err == nil {
		t.Error("expected error for empty shop id")
	}
	if err := svc.Add(context.Background(), "cust-1", "shop-1"); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

type mockFavoriteRepo struct{}

func (m *mockFavoriteRepo) Add(ctx context.Context, customerID, shopID string) error    { return nil }
func (m *mockFavoriteRepo) Remove(ctx context.Context, customerID, shopID string) error { return nil }
func (m *mockFavoriteRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Shop, error) {
	return nil, nil
}
