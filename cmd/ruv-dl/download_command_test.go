package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/cobra"

	"github.com/HaukurPall/ruv-dl/internal/catalog"
	"github.com/HaukurPall/ruv-dl/internal/download"
	"github.com/HaukurPall/ruv-dl/internal/hls"
)

func TestDownloadCommandRejectsBadQuality(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	_, _, err := runCLI(t, []string{"download", "--quality", "4k", "12345"}, configPath)
	if err == nil {
		t.Fatal("expected error for unknown quality tier")
	}
	requireContains(t, err.Error(), "quality")
}

func TestDownloadCommandRejectsTooManyWorkers(t *testing.T) {
	configPath, _ := writeTestConfig(t)

	_, _, err := runCLI(t, []string{"download", "--workers", "9", "12345"}, configPath)
	if err == nil {
		t.Fatal("expected error for too many workers")
	}
	requireContains(t, err.Error(), "workers")
}

func TestCountNoun(t *testing.T) {
	if got := countNoun(1, "episode"); got != "1 episode" {
		t.Errorf("countNoun(1) = %q", got)
	}
	if got := countNoun(3, "episode"); got != "3 episodes" {
		t.Errorf("countNoun(3) = %q", got)
	}
	if got := countNoun(0, "episode"); got != "0 episodes" {
		t.Errorf("countNoun(0) = %q", got)
	}
}

func TestRenderReport(t *testing.T) {
	report := &download.Report{
		Requested: 2,
		Completed: []download.Completed{
			{
				Episode: catalog.Episode{ProgramTitle: "Hvolpasveitin", Title: "E07"},
				Tier:    hls.Tier480,
				// requested tier was unavailable
				Fallback: true,
				Path:     "/tmp/does-not-exist.mp4",
			},
		},
		Failed: []download.Failed{
			{
				Episode: catalog.Episode{ProgramTitle: "Hvolpasveitin", Title: "E08"},
				Err:     errors.New("transfer aborted"),
			},
		},
		ProgramErrors: []download.ProgramError{
			{ProgramID: "99999", Err: catalog.ErrNotFound},
		},
	}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	renderReport(cmd, report)

	requireContains(t, out.String(), "480p (fallback)")
	requireContains(t, out.String(), "transfer aborted")
	requireContains(t, out.String(), "Program 99999 failed")
	requireContains(t, out.String(), "1 episode downloaded, 0 episodes skipped, 1 episode failed")
}
