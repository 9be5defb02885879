package organize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HaukurPall/ruv-dl/internal/logging"
)

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestOrganizerMovesIntoSeasonLayout(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	source := filepath.Join(srcDir, "Hvolpasveitin ||| E07 ||| Paw Patrol II [720p].mp4")
	writeTestFile(t, source, "payload")

	org := New(destDir, nil, false, logging.NewNop())
	results, err := org.Run([]string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 1 || results[0].Action != ActionMoved {
		t.Fatalf("results = %+v", results)
	}

	want := filepath.Join(destDir, "Paw Patrol", "Season 02", "Paw Patrol - S02E07 [720p].mp4")
	if results[0].Target != want {
		t.Errorf("target = %q, want %q", results[0].Target, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("organized file missing: %v", err)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Errorf("source still present: %v", err)
	}
}

func TestOrganizerDryRunLeavesFiles(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	source := filepath.Join(srcDir, "Hvolpasveitin ||| E01 ||| Paw Patrol [1080p].mp4")
	writeTestFile(t, source, "payload")

	org := New(destDir, nil, true, logging.NewNop())
	results, err := org.Run([]string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Action != ActionWouldMove {
		t.Errorf("action = %q, want %q", results[0].Action, ActionWouldMove)
	}
	if _, err := os.Stat(source); err != nil {
		t.Errorf("dry run moved the file: %v", err)
	}
	entries, _ := os.ReadDir(destDir)
	if len(entries) != 0 {
		t.Errorf("dry run created destination entries: %v", entries)
	}
}

func TestOrganizerUsesTranslationWhenForeignTitleMissing(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	source := filepath.Join(srcDir, "Fjallið ||| E03 ||| None [480p].mp4")
	writeTestFile(t, source, "payload")

	translations := map[string]string{"Fjallið": "The Mountain"}
	org := New(destDir, translations, false, logging.NewNop())
	results, err := org.Run([]string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := filepath.Join(destDir, "The Mountain", "Season 01", "The Mountain - S01E03 [480p].mp4")
	if results[0].Target != want {
		t.Errorf("target = %q, want %q", results[0].Target, want)
	}
	if _, err := os.Stat(want); err != nil {
		t.Errorf("organized file missing: %v", err)
	}
}

func TestOrganizerSkipsUntranslatableAndUnrecognized(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	noForeign := filepath.Join(srcDir, "Fjallið ||| E03 ||| None [480p].mp4")
	stray := filepath.Join(srcDir, "random.mp4")
	writeTestFile(t, noForeign, "payload")
	writeTestFile(t, stray, "payload")

	org := New(destDir, nil, false, logging.NewNop())
	results, err := org.Run([]string{noForeign, stray})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Action != ActionNoShowName {
		t.Errorf("no-foreign action = %q", results[0].Action)
	}
	if results[1].Action != ActionNoMatch {
		t.Errorf("stray action = %q", results[1].Action)
	}
	for _, path := range []string{noForeign, stray} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("skipped file moved: %v", err)
		}
	}
}

func TestOrganizerReportsExistingDestination(t *testing.T) {
	srcDir := t.TempDir()
	destDir := t.TempDir()
	source := filepath.Join(srcDir, "Hvolpasveitin ||| E07 ||| Paw Patrol [720p].mp4")
	target := filepath.Join(destDir, "Paw Patrol", "Season 01", "Paw Patrol - S01E07 [720p].mp4")
	writeTestFile(t, source, "payload")
	writeTestFile(t, target, "payload")

	org := New(destDir, nil, false, logging.NewNop())
	results, err := org.Run([]string{source})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if results[0].Action != ActionDestination || !results[0].SameChecksum {
		t.Errorf("result = %+v", results[0])
	}
	if _, err := os.Stat(source); err != nil {
		t.Errorf("source moved despite existing destination: %v", err)
	}
}

func TestLoadTranslations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "translations.json")

	got, err := LoadTranslations(path)
	if err != nil {
		t.Fatalf("missing file: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("missing file mapping = %v, want empty", got)
	}

	writeTestFile(t, path, `{"Fjallið": "The Mountain"}`)
	got, err = LoadTranslations(path)
	if err != nil {
		t.Fatalf("LoadTranslations: %v", err)
	}
	if got["Fjallið"] != "The Mountain" {
		t.Errorf("mapping = %v", got)
	}
}
