package domain

import (
	"log/slog"
	"time"
)

// BagStatus is the derived lifecycle state of a bag.
type BagStatus string

const (
	BagLive      BagStatus = "live"
	BagExpired   BagStatus = "expired"
	BagCancelled BagStatus = "cancelled"
)

var windowLayouts = []string{"2006-01-02 15:04", "2006-01-02 15:04:05"}

// ExpiresAt combines the bag's collection date with the end of its pickup
// window, interpreted in local time with seconds zeroed. ok is false when
// either field is unparseable.
func (b *Bag) ExpiresAt() (expiresAt time.Time, ok bool) {
	raw := b.CollectionDate + " " + b.CollectionWindow.End
	for _, layout := range windowLayouts {
		t, err := time.ParseInLocation(layout, raw, time.Local)
		if err == nil {
			return t.Truncate(time.Minute), true
		}
	}
	return time.Time{}, false
}

// Classify derives the bag's lifecycle state at the given instant.
// Expiration is purely a function of time and dominates the flags: a bag past
// its pickup deadline is expired even if storage was never updated. A bag with
// an unparseable window is treated as not expired — fail safe toward keeping
// it visible — and the condition is logged rather than raised.
func Classify(b *Bag, now time.Time) BagStatus {
	expiresAt, ok := b.ExpiresAt()
	if !ok {
		slog.Warn("bag has unparseable collection window, treating as not expired",
			"bag_id", b.ID,
			"collection_date", b.CollectionDate,
			"window_end", b.CollectionWindow.End,
		)
	} else if now.After(expiresAt) {
		return BagExpired
	}

	if !b.IsActive || !b.IsAvailable {
		return BagCancelled
	}
	return BagLive
}
