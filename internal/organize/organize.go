package organize

import (
	"crypto/md5"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/HaukurPall/ruv-dl/internal/fileutil"
	"github.com/HaukurPall/ruv-dl/internal/logging"
)

// Action says what happened (or would happen) to one file.
type Action string

const (
	ActionMoved       Action = "moved"
	ActionWouldMove   Action = "would move"
	ActionNoMatch     Action = "name not recognized"
	ActionNoShowName  Action = "no foreign title or translation"
	ActionDestination Action = "destination exists"
)

// Result describes the outcome for one input file.
type Result struct {
	Source       string
	Target       string
	Action       Action
	SameChecksum bool // set when the destination already exists
}

// Organizer moves download files into a <show>/Season NN/ library layout.
type Organizer struct {
	destination  string
	translations map[string]string
	dryRun       bool
	logger       *slog.Logger
}

// New builds an Organizer. translations maps local program titles to show
// names for files whose foreign title segment is missing.
func New(destination string, translations map[string]string, dryRun bool, logger *slog.Logger) *Organizer {
	if logger == nil {
		logger = logging.NewNop()
	}
	if translations == nil {
		translations = map[string]string{}
	}
	return &Organizer{
		destination:  destination,
		translations: translations,
		dryRun:       dryRun,
		logger:       logger,
	}
}

// Run organizes the given files. Unrecognized files are reported and left
// alone; only I/O failures produce an error.
func (o *Organizer) Run(files []string) ([]Result, error) {
	results := make([]Result, 0, len(files))
	for _, file := range files {
		result, err := o.organizeFile(file)
		if err != nil {
			return results, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (o *Organizer) organizeFile(path string) (Result, error) {
	result := Result{Source: path}

	parsed, ok := parseFileName(filepath.Base(path))
	if !ok {
		o.logger.Warn("skipping file, name not recognized", "path", path)
		result.Action = ActionNoMatch
		return result, nil
	}

	showName := parsed.ForeignTitle
	if showName == "None" {
		translated, ok := o.translations[parsed.ProgramTitle]
		if !ok {
			o.logger.Warn("skipping file, no foreign title", "path", path, "program", parsed.ProgramTitle)
			result.Action = ActionNoShowName
			return result, nil
		}
		o.logger.Info("using translated show name", "program", parsed.ProgramTitle, "show", translated)
		showName = translated
	}

	showName, season := splitSeason(showName)
	target := filepath.Join(
		o.destination,
		showName,
		fmt.Sprintf("Season %02d", season),
		libraryFileName(showName, season, parsed),
	)
	result.Target = target

	if _, err := os.Stat(target); err == nil {
		same, err := sameChecksum(path, target)
		if err != nil {
			return result, err
		}
		result.Action = ActionDestination
		result.SameChecksum = same
		o.logger.Warn("destination exists, not moving", "target", target, "same_checksum", same)
		return result, nil
	}

	if o.dryRun {
		o.logger.Info("would move", "source", path, "target", target)
		result.Action = ActionWouldMove
		return result, nil
	}

	o.logger.Info("moving", "source", path, "target", target)
	if err := fileutil.MoveFile(path, target); err != nil {
		return result, fmt.Errorf("move %s: %w", path, err)
	}
	result.Action = ActionMoved
	return result, nil
}

func sameChecksum(a, b string) (bool, error) {
	sumA, err := checksumFile(a)
	if err != nil {
		return false, err
	}
	sumB, err := checksumFile(b)
	if err != nil {
		return false, err
	}
	return sumA == sumB, nil
}

func checksumFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	hash := md5.New()
	if _, err := io.Copy(hash, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

// LoadTranslations reads a JSON object of local title to show name mappings.
// A missing file is an empty mapping.
func LoadTranslations(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	translations := map[string]string{}
	if err := json.Unmarshal(data, &translations); err != nil {
		return nil, fmt.Errorf("parse translations %s: %w", path, err)
	}
	return translations, nil
}
