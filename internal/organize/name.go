package organize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// fileNamePattern matches the download file name layout:
// "<program> ||| <episode> ||| <foreign> [<quality>].mp4". The quality
// segment is optional so files renamed by hand still parse.
var fileNamePattern = regexp.MustCompile(`^(.+?) \|\|\| (.+?) \|\|\| (.+?)( \[.+?\])?\.mp4$`)

// parsedName is the metadata recovered from a download file name.
type parsedName struct {
	ProgramTitle string
	EpisodeTitle string
	ForeignTitle string
	Quality      string // includes the leading space and brackets, or empty
}

func parseFileName(name string) (parsedName, bool) {
	match := fileNamePattern.FindStringSubmatch(name)
	if match == nil {
		return parsedName{}, false
	}
	return parsedName{
		ProgramTitle: match[1],
		EpisodeTitle: match[2],
		ForeignTitle: match[3],
		Quality:      match[4],
	}, true
}

var romanNumerals = map[string]int{
	"I": 1, "II": 2, "III": 3, "IV": 4, "V": 5,
	"VI": 6, "VII": 7, "VIII": 8, "IX": 9, "X": 10,
}

var romanSuffixPattern = regexp.MustCompile(`\b(VIII|VII|VI|IX|IV|V|X|III|II|I)$`)

// splitSeason peels a trailing roman numeral off a show title. "Friends III"
// becomes ("Friends", 3); titles without a numeral are season 1.
func splitSeason(title string) (string, int) {
	match := romanSuffixPattern.FindString(title)
	if match == "" {
		return title, 1
	}
	return strings.TrimSpace(strings.TrimSuffix(title, match)), romanNumerals[match]
}

var (
	singleEpisodePattern = regexp.MustCompile(`^E(\d+)$`)
	doubleEpisodePattern = regexp.MustCompile(`^E(\d+)-E(\d+)$`)
)

// guessEpisodeRange recovers episode numbers from an episode title. It
// understands "Exx", "Exx-Eyy", and titles whose second word is a number
// ("Þáttur 7"). Returns ok=false when no number can be found.
func guessEpisodeRange(episodeTitle string) (start, end int, ok bool) {
	if match := doubleEpisodePattern.FindStringSubmatch(episodeTitle); match != nil {
		start, _ = strconv.Atoi(match[1])
		end, _ = strconv.Atoi(match[2])
		return start, end, true
	}
	if match := singleEpisodePattern.FindStringSubmatch(episodeTitle); match != nil {
		start, _ = strconv.Atoi(match[1])
		return start, start, true
	}
	words := strings.Split(episodeTitle, " ")
	if len(words) < 2 {
		return 0, 0, false
	}
	number, err := strconv.Atoi(words[1])
	if err != nil {
		return 0, 0, false
	}
	return number, number, true
}

// libraryFileName builds the organized name for one episode.
func libraryFileName(showName string, season int, parsed parsedName) string {
	start, end, ok := guessEpisodeRange(parsed.EpisodeTitle)
	switch {
	case ok && start == end:
		return fmt.Sprintf("%s - S%02dE%02d%s.mp4", showName, season, start, parsed.Quality)
	case ok:
		return fmt.Sprintf("%s - S%02dE%02d-E%02d%s.mp4", showName, season, start, end, parsed.Quality)
	default:
		return fmt.Sprintf("%s - S%02d - %s%s.mp4", showName, season, parsed.EpisodeTitle, parsed.Quality)
	}
}
