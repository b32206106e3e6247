package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/sandunt/lastbag/internal/core/domain"
	"github.com/sandunt/lastbag/internal/core/ports"
)

// DefaultSweepInterval is how often the background sweep runs.
const DefaultSweepInterval = 5 * time.Minute

// SweepService reconciles stored availability flags with the clock. A bag is
// expired the moment its pickup deadline passes regardless of what storage
// says; the sweep writes that fact back so queries and listings stop serving
// stale flags.
type SweepService struct {
	bags      ports.BagRepository
	publisher ports.EventPublisher
	interval  time.Duration
}

// NewSweepService creates a new SweepService. publisher may be nil. A
// non-positive interval falls back to DefaultSweepInterval.
func NewSweepService(bags ports.BagRepository, publisher ports.EventPublisher, interval time.Duration) *SweepService {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &SweepService{bags: bags, publisher: publisher, interval: interval}
}

// SweepAndReconcile deactivates every bag in the given slice that is past its
// deadline but still flagged active or available. One failed bag never stops
// the pass; the error is logged and the loop moves on. Running it twice over
// the same bags is a no-op the second time: once the flags are cleared the
// bag no longer qualifies.
func (s *SweepService) SweepAndReconcile(ctx context.Context, bags []domain.Bag) (int, error) {
	now := time.Now()
	swept := 0

	for i := range bags {
		b := &bags[i]
		if !b.IsActive && !b.IsAvailable {
			continue
		}
		if domain.Classify(b, now) != domain.BagExpired {
			continue
		}

		if err := s.bags.Deactivate(ctx, b.ID, now); err != nil {
			slog.Error("failed to deactivate expired bag",
				"bag_id", b.ID,
				"shop_id", b.ShopID,
				"error", err,
			)
			continue
		}
		b.IsActive = false
		b.IsAvailable = false
		b.UpdatedAt = now
		swept++

		if s.publisher != nil {
			_ = s.publisher.PublishBagExpired(ctx, b.ID)
		}
	}

	return swept, nil
}

// SweepAll runs one full reconcile pass over every flagged bag in storage.
func (s *SweepService) SweepAll(ctx context.Context) (int, error) {
	bags, err := s.bags.ListFlaggedActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sweep candidates: %w", err)
	}
	return s.SweepAndReconcile(ctx, bags)
}

// Interval reports how often a background runner should call SweepAll.
func (s *SweepService) Interval() time.Duration {
	return s.interval
}
