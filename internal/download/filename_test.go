package download

import (
	"testing"

	"github.com/HaukurPall/ruv-dl/internal/catalog"
	"github.com/HaukurPall/ruv-dl/internal/hls"
)

func TestOutputFileName(t *testing.T) {
	tests := []struct {
		name    string
		episode catalog.Episode
		tier    hls.Tier
		want    string
	}{
		{
			name: "complete metadata",
			episode: catalog.Episode{
				ProgramTitle: "Hvolpasveitin",
				Title:        "Kafbáturinn",
				ForeignTitle: "Paw Patrol",
			},
			tier: hls.Tier1080,
			want: "Hvolpasveitin ||| Kafbáturinn ||| Paw Patrol [1080p].mp4",
		},
		{
			name: "missing foreign title",
			episode: catalog.Episode{
				ProgramTitle: "Fréttir",
				Title:        "Kvöldfréttir",
			},
			tier: hls.Tier720,
			want: "Fréttir ||| Kvöldfréttir ||| None [720p].mp4",
		},
		{
			name: "empty episode title falls back to firstrun date",
			episode: catalog.Episode{
				ProgramTitle: "Landinn",
				FirstRun:     "2024-03-10 19:40:00",
				ForeignTitle: "The Local",
			},
			tier: hls.Tier480,
			want: "Landinn ||| 2024-03-10 ||| The Local [480p].mp4",
		},
		{
			name: "unsafe characters sanitized",
			episode: catalog.Episode{
				ProgramTitle: "Spurningar/Svör",
				Title:        "Hvað næst?",
				ForeignTitle: "Q: A",
			},
			tier: hls.Tier1080,
			want: "Spurningar-Svör ||| Hvað næst ||| Q- A [1080p].mp4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OutputFileName(tt.episode, tt.tier); got != tt.want {
				t.Errorf("OutputFileName() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisambiguateAppendsDateToDuplicates(t *testing.T) {
	episodes := []catalog.Episode{
		{ProgramTitle: "Leiðarljós", Title: "Þáttur", FirstRun: "2023-01-02 20:00:00"},
		{ProgramTitle: "Leiðarljós", Title: "Þáttur", FirstRun: "2023-01-09 20:00:00"},
		{ProgramTitle: "Leiðarljós", Title: "Lokaþáttur", FirstRun: "2023-01-16 20:00:00"},
	}
	out := disambiguate(episodes)
	if got, want := out[0].Title, "Þáttur (2023-01-02)"; got != want {
		t.Errorf("first duplicate = %q, want %q", got, want)
	}
	if got, want := out[1].Title, "Þáttur (2023-01-09)"; got != want {
		t.Errorf("second duplicate = %q, want %q", got, want)
	}
	if got, want := out[2].Title, "Lokaþáttur"; got != want {
		t.Errorf("unique title = %q, want %q", got, want)
	}
}

func TestDisambiguateSameDayRebroadcastsKeepTime(t *testing.T) {
	episodes := []catalog.Episode{
		{ProgramTitle: "Fréttir", Title: "Fréttir", FirstRun: "2024-02-05 12:00:00"},
		{ProgramTitle: "Fréttir", Title: "Fréttir", FirstRun: "2024-02-05 19:00:00"},
	}
	out := disambiguate(episodes)
	if got, want := out[0].Title, "Fréttir (2024-02-05 12:00:00)"; got != want {
		t.Errorf("noon broadcast = %q, want %q", got, want)
	}
	if got, want := out[1].Title, "Fréttir (2024-02-05 19:00:00)"; got != want {
		t.Errorf("evening broadcast = %q, want %q", got, want)
	}
	first := OutputFileName(out[0], hls.Tier720)
	second := OutputFileName(out[1], hls.Tier720)
	if first == second {
		t.Errorf("same-day rebroadcasts share file name %q", first)
	}
}

func TestDisambiguateMissingFirstRunUsesID(t *testing.T) {
	episodes := []catalog.Episode{
		{ID: "11111", ProgramTitle: "Stundin okkar", Title: "Stundin okkar"},
		{ID: "22222", ProgramTitle: "Stundin okkar", Title: "Stundin okkar"},
	}
	out := disambiguate(episodes)
	if got, want := out[0].Title, "Stundin okkar (11111)"; got != want {
		t.Errorf("first episode = %q, want %q", got, want)
	}
	if got, want := out[1].Title, "Stundin okkar (22222)"; got != want {
		t.Errorf("second episode = %q, want %q", got, want)
	}
}

func TestDisambiguateLeavesUniqueTitlesAlone(t *testing.T) {
	episodes := []catalog.Episode{
		{ProgramTitle: "Landinn", Title: "Fyrsti", FirstRun: "2024-01-01 19:40:00"},
		{ProgramTitle: "Landinn", Title: "Annar", FirstRun: "2024-01-08 19:40:00"},
	}
	out := disambiguate(episodes)
	for i, ep := range out {
		if ep.Title != episodes[i].Title {
			t.Errorf("episode %d title changed to %q", i, ep.Title)
		}
	}
}
