package hls

import (
	"fmt"
	"strings"
)

// Tier identifies one of the fixed quality classes a stream can be requested
// or delivered at.
type Tier string

const (
	Tier240 Tier = "240p"
	Tier360 Tier = "360p"
	Tier480 Tier = "480p"
	Tier720 Tier = "720p"
	Tier1080 Tier = "1080p"
)

// Tiers lists every known tier from lowest to highest quality.
var Tiers = []Tier{Tier240, Tier360, Tier480, Tier720, Tier1080}

var tierHeights = map[Tier]int{
	Tier240:  240,
	Tier360:  360,
	Tier480:  480,
	Tier720:  720,
	Tier1080: 1080,
}

// ParseTier validates a tier string such as "720p".
func ParseTier(value string) (Tier, error) {
	tier := Tier(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := tierHeights[tier]; !ok {
		return "", fmt.Errorf("unknown quality tier %q (expected one of %s)", value, tierList())
	}
	return tier, nil
}

// Height returns the vertical resolution the tier corresponds to.
func (t Tier) Height() int {
	return tierHeights[t]
}

// index returns the tier's position in the ordered Tiers list, or -1.
func (t Tier) index() int {
	for i, candidate := range Tiers {
		if candidate == t {
			return i
		}
	}
	return -1
}

// TierForHeight maps a playlist resolution height to the tier it belongs to.
// Heights between tiers bucket downward so a 404-line stream reports as 360p
// rather than claiming quality it does not have.
func TierForHeight(height int) (Tier, bool) {
	matched := Tier("")
	for _, tier := range Tiers {
		if height >= tierHeights[tier] {
			matched = tier
		}
	}
	if matched == "" {
		return "", false
	}
	return matched, true
}

func tierList() string {
	names := make([]string, len(Tiers))
	for i, tier := range Tiers {
		names[i] = string(tier)
	}
	return strings.Join(names, ", ")
}
