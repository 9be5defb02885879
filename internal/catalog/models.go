package catalog

// Program is the normalized representation of one catalog program and its
// episodes, decoupled from the remote response shape. Programs are fetched
// fresh each run and never cached across process invocations.
type Program struct {
	ID               string
	Title            string
	ForeignTitle     string
	ShortDescription string
	Episodes         []Episode
}

// Episode is one aired entry of a program. ProgramID and ProgramTitle are a
// weak back-reference for lookup and naming only.
type Episode struct {
	ID           string
	ProgramID    string
	ProgramTitle string
	ForeignTitle string
	Title        string
	FirstRun     string // catalog timestamp, e.g. 2018-01-18T17:29:00
	Duration     int    // seconds
	ManifestURL  string // HLS master playlist for this episode
	Subtitles    []Subtitle
}

// Subtitle references one subtitle track offered for an episode.
type Subtitle struct {
	Language string
	URL      string
}
