package hls

import "errors"

// ErrNoStream indicates a manifest offered no usable variants.
var ErrNoStream = errors.New("no stream available")

// Selection is the outcome of picking a variant for a requested tier.
// Fallback is set whenever the delivered tier differs from the requested one
// so callers can report the substitution.
type Selection struct {
	Requested Tier
	Tier      Tier
	URL       string
	Fallback  bool
}

// Select picks the variant for the requested tier. When the exact tier is
// absent it walks the fixed tier order downward from just below the request,
// then upward, returning the first tier the manifest offers. Only an empty
// manifest fails.
func Select(manifest Manifest, requested Tier) (Selection, error) {
	if variant, ok := manifest.TierAvailable(requested); ok {
		return Selection{Requested: requested, Tier: requested, URL: variant.URL}, nil
	}

	start := requested.index()
	for i := start - 1; i >= 0; i-- {
		if variant, ok := manifest.TierAvailable(Tiers[i]); ok {
			return Selection{Requested: requested, Tier: Tiers[i], URL: variant.URL, Fallback: true}, nil
		}
	}
	for i := start + 1; i < len(Tiers); i++ {
		if variant, ok := manifest.TierAvailable(Tiers[i]); ok {
			return Selection{Requested: requested, Tier: Tiers[i], URL: variant.URL, Fallback: true}, nil
		}
	}
	return Selection{}, ErrNoStream
}
