package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Wire shapes for the GraphQL gateway. These stay private: everything
// leaving this package is the normalized model or a typed error.

type envelope struct {
	Data struct {
		Program *programPayload `json:"Program"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type programPayload struct {
	ID               json.Number      `json:"id"`
	Title            string           `json:"title"`
	ForeignTitle     *string          `json:"foreign_title"`
	ShortDescription *string          `json:"short_description"`
	Episodes         []episodePayload `json:"episodes"`
}

type episodePayload struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	FirstRun  string            `json:"firstrun"`
	Duration  int               `json:"duration"`
	File      string            `json:"file"`
	Subtitles []subtitlePayload `json:"subtitles"`
}

type subtitlePayload struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func decodeEnvelope(body []byte) (*programPayload, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(env.Errors) > 0 {
		return nil, fmt.Errorf("catalog error: %s", env.Errors[0].Message)
	}
	if env.Data.Program == nil {
		return nil, ErrNotFound
	}
	return env.Data.Program, nil
}

// parseProgram validates a getEpisode response into the normalized model.
func parseProgram(body []byte, programID string) (*Program, error) {
	payload, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(payload.Title) == "" {
		return nil, fmt.Errorf("%w: program %s has no title", ErrMalformed, programID)
	}

	id := payload.ID.String()
	if id == "" {
		id = programID
	}
	program := &Program{
		ID:               id,
		Title:            payload.Title,
		ForeignTitle:     deref(payload.ForeignTitle),
		ShortDescription: deref(payload.ShortDescription),
	}
	for _, ep := range payload.Episodes {
		if strings.TrimSpace(ep.ID) == "" {
			return nil, fmt.Errorf("%w: program %s has an episode without an id", ErrMalformed, programID)
		}
		program.Episodes = append(program.Episodes, Episode{
			ID:           ep.ID,
			ProgramID:    id,
			ProgramTitle: payload.Title,
			ForeignTitle: program.ForeignTitle,
			Title:        ep.Title,
			FirstRun:     ep.FirstRun,
			Duration:     ep.Duration,
		})
	}
	return program, nil
}

// parseEpisodeDetail validates a getSerie response, which nests a single
// episode inside its program.
func parseEpisodeDetail(body []byte, episodeID string) (*Episode, error) {
	payload, err := decodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if len(payload.Episodes) == 0 {
		return nil, fmt.Errorf("episode %s: %w", episodeID, ErrNotFound)
	}
	ep := payload.Episodes[0]
	if strings.TrimSpace(ep.File) == "" {
		return nil, fmt.Errorf("%w: episode %s has no stream manifest", ErrMalformed, episodeID)
	}
	episode := &Episode{
		ID:          ep.ID,
		Title:       ep.Title,
		FirstRun:    ep.FirstRun,
		Duration:    ep.Duration,
		ManifestURL: ep.File,
	}
	for _, sub := range ep.Subtitles {
		if strings.TrimSpace(sub.Value) == "" {
			continue
		}
		episode.Subtitles = append(episode.Subtitles, Subtitle{Language: sub.Name, URL: sub.Value})
	}
	return episode, nil
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
