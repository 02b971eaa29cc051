package subscription

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestIndexSeenAndMark(t *testing.T) {
	idx := NewIndex()

	if idx.Seen("s1") {
		t.Error("fresh index reports s1 as seen")
	}
	idx.Mark("s1")
	if !idx.Seen("s1") {
		t.Error("marked stream id not reported as seen")
	}
	if idx.Seen("s2") {
		t.Error("unmarked stream id reported as seen")
	}
}

func sub(id int64, streamID, merchant, amount string, createdAt time.Time) *Subscription {
	return &Subscription{
		ID:           id,
		StreamID:     streamID,
		MerchantName: merchant,
		Amount:       decimal.RequireFromString(amount),
		CreatedAt:    createdAt,
	}
}

func TestCollapseByStreamID(t *testing.T) {
	now := time.Now()
	subs := []*Subscription{
		sub(1, "s1", "Netflix", "15.99", now),
		sub(2, "s1", "Netflix", "15.99", now.Add(time.Hour)),
		sub(3, "s2", "Spotify", "9.99", now),
	}

	got := Collapse(subs)
	if len(got) != 2 {
		t.Fatalf("Collapse returned %d records, want 2", len(got))
	}
	if got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("Collapse kept ids [%d, %d], want [1, 3]", got[0].ID, got[1].ID)
	}
}

func TestCollapseFallbackKeepsNewest(t *testing.T) {
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	newer := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	subs := []*Subscription{
		sub(1, "", "Gym", "40", old),
		sub(2, "", "Gym", "40", newer),
		sub(3, "", "Gym", "25", old), // different amount, different group
	}

	got := Collapse(subs)
	if len(got) != 2 {
		t.Fatalf("Collapse returned %d records, want 2", len(got))
	}
	if got[0].ID != 2 {
		t.Errorf("Collapse kept id %d for duplicate group, want the newer record 2", got[0].ID)
	}
	if got[1].ID != 3 {
		t.Errorf("Collapse kept id %d in second slot, want 3", got[1].ID)
	}
}

func TestCollapseMixedKeysDeterministic(t *testing.T) {
	now := time.Now()
	subs := []*Subscription{
		sub(1, "s1", "Netflix", "15.99", now),
		sub(2, "", "Gym", "40", now),
		sub(3, "s1", "Netflix", "15.99", now),
		sub(4, "", "Gym", "40", now.Add(time.Hour)),
	}

	first := Collapse(subs)
	second := Collapse(subs)

	if len(first) != len(second) {
		t.Fatalf("repeated Collapse disagrees on length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("repeated Collapse disagrees at %d: %d vs %d", i, first[i].ID, second[i].ID)
		}
	}
	if len(first) != 2 {
		t.Fatalf("Collapse returned %d records, want 2", len(first))
	}
}
