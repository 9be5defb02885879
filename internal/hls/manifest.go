package hls

import (
	"bufio"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Variant is one quality rendition offered by a master playlist.
type Variant struct {
	Tier      Tier
	Bandwidth int
	URL       string
}

// Manifest is the ordered set of variants for one episode, lowest tier first.
type Manifest struct {
	Variants []Variant
}

// TierAvailable reports whether the manifest offers the exact tier.
func (m Manifest) TierAvailable(tier Tier) (Variant, bool) {
	for _, variant := range m.Variants {
		if variant.Tier == tier {
			return variant, true
		}
	}
	return Variant{}, false
}

// TierNames returns the offered tiers lowest first, for display.
func (m Manifest) TierNames() []string {
	names := make([]string, 0, len(m.Variants))
	for _, variant := range m.Variants {
		names = append(names, string(variant.Tier))
	}
	return names
}

// ParseMasterPlaylist reads an HLS master playlist and extracts one variant
// per #EXT-X-STREAM-INF entry. Relative media playlist URIs are resolved
// against base. Entries without a recognizable resolution are skipped; the
// returned manifest is sorted lowest tier first with one variant per tier
// (highest bandwidth wins a tie).
func ParseMasterPlaylist(r io.Reader, base string) (Manifest, error) {
	baseURL, err := url.Parse(base)
	if err != nil {
		return Manifest{}, fmt.Errorf("parse playlist base url: %w", err)
	}

	byTier := make(map[Tier]Variant)
	scanner := bufio.NewScanner(r)
	var pending *Variant
	sawHeader := false
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			continue
		case line == "#EXTM3U":
			sawHeader = true
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF:"):
			variant := parseStreamInf(strings.TrimPrefix(line, "#EXT-X-STREAM-INF:"))
			pending = &variant
		case strings.HasPrefix(line, "#"):
			continue
		default:
			if pending == nil {
				continue
			}
			variant := *pending
			pending = nil
			if variant.Tier == "" {
				continue
			}
			ref, err := url.Parse(line)
			if err != nil {
				continue
			}
			variant.URL = baseURL.ResolveReference(ref).String()
			if existing, ok := byTier[variant.Tier]; !ok || variant.Bandwidth > existing.Bandwidth {
				byTier[variant.Tier] = variant
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Manifest{}, fmt.Errorf("read playlist: %w", err)
	}
	if !sawHeader {
		return Manifest{}, fmt.Errorf("not an m3u8 playlist (missing #EXTM3U header)")
	}

	variants := make([]Variant, 0, len(byTier))
	for _, variant := range byTier {
		variants = append(variants, variant)
	}
	sort.Slice(variants, func(i, j int) bool {
		return variants[i].Tier.Height() < variants[j].Tier.Height()
	})
	return Manifest{Variants: variants}, nil
}

func parseStreamInf(attrs string) Variant {
	var variant Variant
	for _, attr := range splitAttributes(attrs) {
		key, value, ok := strings.Cut(attr, "=")
		if !ok {
			continue
		}
		switch strings.ToUpper(strings.TrimSpace(key)) {
		case "BANDWIDTH":
			if bandwidth, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				variant.Bandwidth = bandwidth
			}
		case "RESOLUTION":
			_, heightPart, ok := strings.Cut(strings.TrimSpace(value), "x")
			if !ok {
				continue
			}
			height, err := strconv.Atoi(heightPart)
			if err != nil {
				continue
			}
			if tier, ok := TierForHeight(height); ok {
				variant.Tier = tier
			}
		}
	}
	return variant
}

// splitAttributes splits an attribute list on commas outside quoted values.
func splitAttributes(attrs string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false
	for _, r := range attrs {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}
