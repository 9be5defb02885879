package download

import (
	"sync"

	"github.com/HaukurPall/ruv-dl/internal/catalog"
	"github.com/HaukurPall/ruv-dl/internal/hls"
)

// Completed records one episode fetched and committed this run.
type Completed struct {
	Episode  catalog.Episode
	Tier     hls.Tier
	Fallback bool // tier differs from the requested one
	Path     string
}

// Skipped records one episode that needed no transfer.
type Skipped struct {
	Episode catalog.Episode
	Reason  string
}

// Failed records one episode whose pipeline failed. Failures never abort
// sibling episodes or programs.
type Failed struct {
	Episode catalog.Episode
	Err     error
}

// ProgramError records a program whose catalog fetch failed outright.
type ProgramError struct {
	ProgramID string
	Err       error
}

// Report aggregates the outcome of one DownloadPrograms run. Workers append
// concurrently; read it only after the run returns.
type Report struct {
	mu sync.Mutex

	Requested     int
	Completed     []Completed
	Skipped       []Skipped
	Failed        []Failed
	ProgramErrors []ProgramError
}

func (r *Report) addCompleted(c Completed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Completed = append(r.Completed, c)
}

func (r *Report) addSkipped(s Skipped) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Skipped = append(r.Skipped, s)
}

func (r *Report) addFailed(f Failed) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Failed = append(r.Failed, f)
}

func (r *Report) addProgramError(e ProgramError) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ProgramErrors = append(r.ProgramErrors, e)
}

// AllProgramsFailed reports whether every requested program failed to fetch.
// This is the only condition that makes the whole run a process-level
// failure; individual episode failures are partial success.
func (r *Report) AllProgramsFailed() bool {
	return r.Requested > 0 && len(r.ProgramErrors) == r.Requested
}
