package hls

import (
	"errors"
	"testing"
)

func manifestOf(tiers ...Tier) Manifest {
	var m Manifest
	for _, tier := range tiers {
		m.Variants = append(m.Variants, Variant{Tier: tier, URL: "https://example.is/" + string(tier) + ".m3u8"})
	}
	return m
}

func TestSelectExactMatch(t *testing.T) {
	sel, err := Select(manifestOf(Tier480, Tier720, Tier1080), Tier720)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Tier != Tier720 || sel.Fallback {
		t.Fatalf("expected exact 720p with no fallback, got %+v", sel)
	}
}

func TestSelectFallsBackToNearestLower(t *testing.T) {
	sel, err := Select(manifestOf(Tier240, Tier480), Tier720)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Tier != Tier480 {
		t.Fatalf("expected 480p, got %s", sel.Tier)
	}
	if !sel.Fallback {
		t.Fatal("expected fallback flag when substituting tiers")
	}
	if sel.Requested != Tier720 {
		t.Fatalf("requested tier not preserved: %+v", sel)
	}
}

func TestSelectFallsBackUpwardWhenNothingLower(t *testing.T) {
	sel, err := Select(manifestOf(Tier720, Tier1080), Tier240)
	if err != nil {
		t.Fatalf("Select returned error: %v", err)
	}
	if sel.Tier != Tier720 || !sel.Fallback {
		t.Fatalf("expected 720p fallback, got %+v", sel)
	}
}

func TestSelectEmptyManifest(t *testing.T) {
	if _, err := Select(Manifest{}, Tier720); !errors.Is(err, ErrNoStream) {
		t.Fatalf("expected ErrNoStream, got %v", err)
	}
}

func TestParseTier(t *testing.T) {
	if tier, err := ParseTier(" 720P "); err != nil || tier != Tier720 {
		t.Fatalf("ParseTier(720P) = %v, %v", tier, err)
	}
	if _, err := ParseTier("4k"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}

func TestTierForHeightBucketsDownward(t *testing.T) {
	tests := []struct {
		height int
		want   Tier
		ok     bool
	}{
		{1080, Tier1080, true},
		{720, Tier720, true},
		{404, Tier360, true},
		{239, "", false},
	}
	for _, tt := range tests {
		got, ok := TierForHeight(tt.height)
		if got != tt.want || ok != tt.ok {
			t.Errorf("TierForHeight(%d) = %v, %v; want %v, %v", tt.height, got, ok, tt.want, tt.ok)
		}
	}
}
