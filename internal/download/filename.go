package download

import (
	"fmt"
	"strings"

	"github.com/HaukurPall/ruv-dl/internal/catalog"
	"github.com/HaukurPall/ruv-dl/internal/hls"
	"github.com/HaukurPall/ruv-dl/internal/textutil"
)

// Filename segments are joined with " ||| " so other tooling can split the
// program title, episode title, and foreign title back out of the name.
const segmentSeparator = " ||| "

// OutputFileName builds the canonical artifact name for an episode at a
// tier: "<program> ||| <episode> ||| <foreign> [<tier>].mp4". The name is
// stable for a given (program, episode, tier).
func OutputFileName(episode catalog.Episode, tier hls.Tier) string {
	return fmt.Sprintf("%s%s%s%s%s [%s].mp4",
		segment(episode.ProgramTitle, "Unknown program"),
		segmentSeparator,
		segment(episodeTitleSegment(episode), "Unknown episode"),
		segmentSeparator,
		segment(episode.ForeignTitle, "None"),
		tier,
	)
}

// episodeTitleSegment disambiguates episodes that share a title within a
// program by appending the first-air date. Distinct dedup keys must never
// produce colliding filenames, and re-aired content often reuses titles.
func episodeTitleSegment(episode catalog.Episode) string {
	title := strings.TrimSpace(episode.Title)
	if title == "" {
		return firstRunDate(episode.FirstRun)
	}
	return title
}

// disambiguate rewrites episode titles so every episode in the batch maps to
// a unique filename. Shared titles get a first-air date suffix; same-day
// rebroadcasts keep the full timestamp so distinct episodes never collide on
// disk, and episodes with no first-air time fall back to the catalog ID.
func disambiguate(episodes []catalog.Episode) []catalog.Episode {
	seen := make(map[string]int)
	dated := make(map[string]int)
	for _, ep := range episodes {
		seen[titleKey(ep)]++
		dated[titleKey(ep)+"\x00"+firstRunDate(ep.FirstRun)]++
	}
	out := make([]catalog.Episode, len(episodes))
	for i, ep := range episodes {
		out[i] = ep
		if seen[titleKey(ep)] <= 1 {
			continue
		}
		suffix := firstRunDate(ep.FirstRun)
		if dated[titleKey(ep)+"\x00"+suffix] > 1 {
			suffix = strings.TrimSpace(ep.FirstRun)
		}
		if suffix == "" {
			suffix = ep.ID
		}
		out[i].Title = strings.TrimSpace(ep.Title + " (" + suffix + ")")
	}
	return out
}

func titleKey(ep catalog.Episode) string {
	return textutil.NormalizeTitle(ep.ProgramTitle) + "\x00" + textutil.NormalizeTitle(ep.Title)
}

// firstRunDate extracts the date part of a catalog first-air timestamp such
// as "2018-01-18T17:29:00" or "2009-01-01 22:10:00".
func firstRunDate(firstRun string) string {
	firstRun = strings.TrimSpace(firstRun)
	for _, sep := range []string{"T", " "} {
		if date, _, ok := strings.Cut(firstRun, sep); ok {
			return date
		}
	}
	return firstRun
}

func segment(value, fallback string) string {
	sanitized := textutil.SanitizeFileName(value)
	if sanitized == "" {
		return fallback
	}
	return sanitized
}
