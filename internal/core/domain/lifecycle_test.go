package domain

import (
	"testing"
	"time"
)

func dateString(t time.Time) string {
	return t.Format("2006-01-02")
}

func TestClassify_ExpiredDominatesFlags(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	bag := &Bag{
		ID:               "bag-1",
		CollectionDate:   dateString(now.AddDate(0, 0, -1)),
		CollectionWindow: CollectionWindow{Start: "17:00", End: "20:00"},
		IsActive:         true,
		IsAvailable:      true,
	}

	if got := Classify(bag, now); got != BagExpired {
		t.Errorf("past deadline with live flags = %s, want %s", got, BagExpired)
	}
}

func TestClassify_CancelledBeforeDeadline(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	bag := &Bag{
		ID:               "bag-2",
		CollectionDate:   dateString(now.AddDate(0, 0, 1)),
		CollectionWindow: CollectionWindow{Start: "17:00", End: "20:00"},
		IsActive:         false,
		IsAvailable:      true,
	}

	if got := Classify(bag, now); got != BagCancelled {
		t.Errorf("deactivated future bag = %s, want %s", got, BagCancelled)
	}

	// The same bag reclassifies as expired once the deadline passes,
	// regardless of the flags.
	if got := Classify(bag, now.AddDate(0, 0, 2)); got != BagExpired {
		t.Errorf("deactivated past bag = %s, want %s", got, BagExpired)
	}
}

func TestClassify_Live(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	bag := &Bag{
		ID:               "bag-3",
		CollectionDate:   dateString(now.AddDate(0, 0, 1)),
		CollectionWindow: CollectionWindow{Start: "17:00", End: "20:00"},
		IsActive:         true,
		IsAvailable:      true,
	}

	if got := Classify(bag, now); got != BagLive {
		t.Errorf("future active bag = %s, want %s", got, BagLive)
	}
}

func TestClassify_UnavailableIsCancelled(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	bag := &Bag{
		ID:               "bag-4",
		CollectionDate:   dateString(now.AddDate(0, 0, 1)),
		CollectionWindow: CollectionWindow{Start: "17:00", End: "20:00"},
		IsActive:         true,
		IsAvailable:      false,
	}

	if got := Classify(bag, now); got != BagCancelled {
		t.Errorf("unavailable bag = %s, want %s", got, BagCancelled)
	}
}

func TestClassify_UnparseableWindowFailsSafe(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.Local)
	cases := []*Bag{
		{ID: "b", CollectionDate: "not-a-date", CollectionWindow: CollectionWindow{End: "20:00"}, IsActive: true, IsAvailable: true},
		{ID: "b", CollectionDate: dateString(now), CollectionWindow: CollectionWindow{End: "late"}, IsActive: true, IsAvailable: true},
		{ID: "b", CollectionDate: "", CollectionWindow: CollectionWindow{End: ""}, IsActive: true, IsAvailable: true},
	}
	for i, bag := range cases {
		if got := Classify(bag, now); got != BagLive {
			t.Errorf("case %d: unparseable window = %s, want %s (never hide a bag on a parse error)", i, got, BagLive)
		}
	}
}

func TestExpiresAt_MinutePrecision(t *testing.T) {
	bag := &Bag{
		CollectionDate:   "2025-03-15",
		CollectionWindow: CollectionWindow{End: "20:00:45"},
	}
	expiresAt, ok := bag.ExpiresAt()
	if !ok {
		t.Fatal("expected window with seconds to parse")
	}
	if expiresAt.Second() != 0 || expiresAt.Nanosecond() != 0 {
		t.Errorf("seconds not zeroed: %v", expiresAt)
	}
	want := time.Date(2025, 3, 15, 20, 0, 0, 0, time.Local)
	if !expiresAt.Equal(want) {
		t.Errorf("expiresAt = %v, want %v", expiresAt, want)
	}
}

func TestClassify_ExactDeadlineIsNotExpired(t *testing.T) {
	bag := &Bag{
		CollectionDate:   "2025-03-15",
		CollectionWindow: CollectionWindow{End: "20:00"},
		IsActive:         true,
		IsAvailable:      true,
	}
	deadline := time.Date(2025, 3, 15, 20, 0, 0, 0, time.Local)

	if got := Classify(bag, deadline); got != BagLive {
		t.Errorf("at the exact deadline = %s, want %s", got, BagLive)
	}
	if got := Classify(bag, deadline.Add(time.Second)); got != BagExpired {
		t.Errorf("one second past = %s, want %s", got, BagExpired)
	}
}
