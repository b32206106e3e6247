package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/ports"
)

// BagListing is a shop's bag list partitioned by derived lifecycle state.
type BagListing struct {
	Active    []domain.Bag `json:"active"`
	Expired   []domain.Bag `json:"expired"`
	Cancelled []domain.Bag `json:"cancelled"`
}

// BagService handles shop-side bag management.
type BagService struct {
	bags      ports.BagRepository
	publisher ports.EventPublisher
	sweeper   *SweepService
}

// NewBagService creates a new BagService. publisher and sweeper may be nil.
func NewBagService(bags ports.BagRepository, publisher ports.EventPublisher, sweeper *SweepService) *BagService {
	return &BagService{bags: bags, publisher: publisher, sweeper: sweeper}
}

// Post validates and persists a new bag listing.
func (s *BagService) Post(ctx context.Context, bag *domain.Bag) error {
	if bag.ShopID == "" {
		return fmt.Errorf("shop id is required")
	}
	if bag.Title == "" {
		return fmt.Errorf("title is required")
	}
	if bag.TotalQuantity <= 0 {
		return fmt.Errorf("total quantity must be positive")
	}
	if bag.RemainingQuantity == 0 {
		bag.RemainingQuantity = bag.TotalQuantity
	}
	if bag.RemainingQuantity > bag.TotalQuantity || bag.RemainingQuantity < 0 {
		return fmt.Errorf("remaining quantity %d out of range [0, %d]", bag.RemainingQuantity, bag.TotalQuantity)
	}
	if bag.DiscountedPrice > bag.OriginalPrice {
		return fmt.Errorf("discounted price must not exceed original price")
	}
	if _, ok := bag.ExpiresAt(); !ok {
		return fmt.Errorf("invalid collection date %q / window end %q", bag.CollectionDate, bag.CollectionWindow.End)
	}

	bag.IsActive = true
	bag.IsAvailable = true

	if err := s.bags.Create(ctx, bag); err != nil {
		return fmt.Errorf("create bag: %w", err)
	}

	if s.publisher != nil {
		_ = s.publisher.PublishBagPosted(ctx, bag)
	}
	return nil
}

// GetByID returns a single bag with its derived status attached.
func (s *BagService) GetByID(ctx context.Context, id string) (*domain.Bag, error) {
	bag, err := s.bags.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	bag.Status = domain.Classify(bag, time.Now())
	return bag, nil
}

// Deactivate marks a bag as no longer for sale. One-way: the sweep and the
// manual path converge on the same flag state.
func (s *BagService) Deactivate(ctx context.Context, id string) error {
	return s.bags.Deactivate(ctx, id, time.Now())
}

// ListByShop loads a shop's bags and partitions them by lifecycle state.
// Loading a fresh list also kicks a best-effort reconcile pass over the
// expired-but-still-flagged subset so storage catches up with the clock.
func (s *BagService) ListByShop(ctx context.Context, shopID string) (*BagListing, error) {
	bags, err := s.bags.ListByShop(ctx, shopID)
	if err != nil {
		return nil, fmt.Errorf("list bags for shop %s: %w", shopID, err)
	}

	now := time.Now()
	listing := &BagListing{}
	for i := range bags {
		bags[i].Status = domain.Classify(&bags[i], now)
		switch bags[i].Status {
		case domain.BagExpired:
			listing.Expired = append(listing.Expired, bags[i])
		case domain.BagCancelled:
			listing.Cancelled = append(listing.Cancelled, bags[i])
		default:
			listing.Active = append(listing.Active, bags[i])
		}
	}

	if s.sweeper != nil && len(listing.Expired) > 0 {
		_, _ = s.sweeper.SweepAndReconcile(ctx, listing.Expired)
	}

	return listing, nil
}
