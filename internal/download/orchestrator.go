package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/HaukurPall/ruv-dl/internal/catalog"
	"github.com/HaukurPall/ruv-dl/internal/ffmpeg"
	"github.com/HaukurPall/ruv-dl/internal/fileutil"
	"github.com/HaukurPall/ruv-dl/internal/hls"
	"github.com/HaukurPall/ruv-dl/internal/ledger"
	"github.com/HaukurPall/ruv-dl/internal/logging"
)

// CatalogClient is the catalog collaborator the orchestrator consumes.
type CatalogClient interface {
	FetchProgram(ctx context.Context, programID string) (*catalog.Program, error)
}

// ManifestLoader resolves an episode's stream manifest.
type ManifestLoader interface {
	FetchManifest(ctx context.Context, url string) (hls.Manifest, error)
}

// ProgressFunc receives transfer progress for one episode.
type ProgressFunc func(episode catalog.Episode, update ffmpeg.ProgressUpdate)

// Options configures an Orchestrator.
type Options struct {
	DownloadDir  string
	Workers      int           // bounded worker pool size; defaults to 2
	FetchTimeout time.Duration // 0 means no per-episode timeout
	Logger       *slog.Logger
	OnProgress   ProgressFunc
}

// Orchestrator drives the per-episode download pipeline: catalog fetch,
// ledger partition, stream selection, external transfer, verification, and
// ledger commit.
type Orchestrator struct {
	catalog   CatalogClient
	manifests ManifestLoader
	fetcher   ffmpeg.Fetcher
	prober    ffmpeg.Prober
	ledger    *ledger.Ledger
	opts      Options
	logger    *slog.Logger
}

// New wires an Orchestrator from its collaborators.
func New(cat CatalogClient, manifests ManifestLoader, fetcher ffmpeg.Fetcher, prober ffmpeg.Prober, led *ledger.Ledger, opts Options) (*Orchestrator, error) {
	if cat == nil || manifests == nil || fetcher == nil || led == nil {
		return nil, errors.New("orchestrator requires catalog, manifest loader, fetcher, and ledger")
	}
	if opts.DownloadDir == "" {
		return nil, errors.New("download directory required")
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		catalog:   cat,
		manifests: manifests,
		fetcher:   fetcher,
		prober:    prober,
		ledger:    led,
		opts:      opts,
		logger:    logger,
	}, nil
}

// DownloadPrograms fetches every not-yet-downloaded episode of the
// requested programs at the requested tier. One program's catalog failure
// or one episode's fetch failure never aborts sibling work; the returned
// Report enumerates everything. The error is non-nil only for run-level
// interruption (context cancellation).
func (o *Orchestrator) DownloadPrograms(ctx context.Context, programIDs []string, quality hls.Tier) (*Report, error) {
	report := &Report{Requested: len(programIDs)}
	runID := uuid.NewString()
	logger := o.logger.With("run_id", runID)

	var pending []catalog.Episode
	for _, programID := range programIDs {
		program, err := o.catalog.FetchProgram(ctx, programID)
		if err != nil {
			if ctx.Err() != nil {
				return report, ctx.Err()
			}
			logger.Warn("program fetch failed", "program_id", programID, "error", err)
			report.addProgramError(ProgramError{ProgramID: programID, Err: err})
			continue
		}
		logger.Info("program fetched", "program_id", programID, "title", program.Title, "episodes", len(program.Episodes))

		for _, episode := range disambiguate(program.Episodes) {
			if o.ledger.Contains(o.keyFor(episode)) {
				report.addSkipped(Skipped{Episode: episode, Reason: "already downloaded"})
				continue
			}
			pending = append(pending, episode)
		}
	}
	logger.Info("episodes pending", "count", len(pending), "skipped", len(report.Skipped))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(o.opts.Workers)
	for _, episode := range pending {
		episode := episode
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			o.processEpisode(groupCtx, logger, episode, quality, report)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return report, err
	}
	return report, nil
}

// processEpisode runs the full pipeline for one episode. All failures are
// recorded on the report; nothing escalates.
func (o *Orchestrator) processEpisode(ctx context.Context, logger *slog.Logger, episode catalog.Episode, quality hls.Tier, report *Report) {
	logger = logger.With("program", episode.ProgramTitle, "episode", episode.Title)

	manifest, err := o.manifests.FetchManifest(ctx, episode.ManifestURL)
	if err != nil {
		logger.Warn("manifest fetch failed", "error", err)
		report.addFailed(Failed{Episode: episode, Err: fmt.Errorf("resolve manifest: %w", err)})
		return
	}

	selection, err := hls.Select(manifest, quality)
	if err != nil {
		logger.Warn("no usable stream", "error", err)
		report.addFailed(Failed{Episode: episode, Err: err})
		return
	}
	if selection.Fallback {
		logger.Warn("quality fallback", "requested", selection.Requested, "using", selection.Tier)
	}

	outputPath := filepath.Join(o.opts.DownloadDir, OutputFileName(episode, selection.Tier))

	// A verified file from an earlier interrupted run counts as done; it
	// just never made it into the ledger.
	if ok, _ := fileutil.NonEmptyFile(outputPath); ok && o.probe(ctx, outputPath) == nil {
		logger.Info("existing file verified, recording completion")
		if err := o.commit(episode, selection, outputPath); err != nil {
			report.addFailed(Failed{Episode: episode, Err: err})
			return
		}
		report.addSkipped(Skipped{Episode: episode, Reason: "existing file verified"})
		return
	}

	fetchCtx := ctx
	if o.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, o.opts.FetchTimeout)
		defer cancel()
	}

	// Transfers land under a temp name and are renamed only after
	// verification, so a crash can never leave a plausible final file.
	partPath := fmt.Sprintf("%s.%s.part", outputPath, uuid.NewString()[:8])
	defer os.Remove(partPath)

	var onProgress func(ffmpeg.ProgressUpdate)
	if o.opts.OnProgress != nil {
		onProgress = func(update ffmpeg.ProgressUpdate) {
			o.opts.OnProgress(episode, update)
		}
	}

	logger.Info("fetch started", "tier", selection.Tier, "url", selection.URL)
	err = o.fetcher.Fetch(fetchCtx, ffmpeg.FetchRequest{
		StreamURL:   selection.URL,
		SubtitleURL: subtitleURL(episode),
		OutputPath:  partPath,
	}, onProgress)
	if err != nil {
		logger.Warn("fetch failed", "error", err)
		report.addFailed(Failed{Episode: episode, Err: fmt.Errorf("%w: %v", ErrFetchFailed, err)})
		return
	}

	if ok, statErr := fileutil.NonEmptyFile(partPath); statErr != nil || !ok {
		logger.Warn("fetch produced no output", "error", statErr)
		report.addFailed(Failed{Episode: episode, Err: fmt.Errorf("%w: output file missing or empty", ErrFetchFailed)})
		return
	}
	if err := o.probe(ctx, partPath); err != nil {
		logger.Warn("integrity check failed", "error", err)
		report.addFailed(Failed{Episode: episode, Err: fmt.Errorf("%w: %v", ErrFetchFailed, err)})
		return
	}
	if err := os.Rename(partPath, outputPath); err != nil {
		report.addFailed(Failed{Episode: episode, Err: fmt.Errorf("%w: %v", ErrFetchFailed, err)})
		return
	}

	if err := o.commit(episode, selection, outputPath); err != nil {
		report.addFailed(Failed{Episode: episode, Err: err})
		return
	}
	logger.Info("fetch complete", "tier", selection.Tier, "path", outputPath, "fallback", selection.Fallback)
	report.addCompleted(Completed{
		Episode:  episode,
		Tier:     selection.Tier,
		Fallback: selection.Fallback,
		Path:     outputPath,
	})
}

// commit records a confirmed download. Called only after the output file is
// verified on disk.
func (o *Orchestrator) commit(episode catalog.Episode, selection hls.Selection, outputPath string) error {
	entry := ledger.Entry{
		ProgramTitle: episode.ProgramTitle,
		EpisodeTitle: episode.Title,
		ForeignTitle: episode.ForeignTitle,
		FirstRun:     o.firstRunKey(episode),
		ProgramID:    episode.ProgramID,
		EpisodeID:    episode.ID,
		Path:         outputPath,
		Quality:      string(selection.Tier),
		CompletedAt:  time.Now().UTC(),
	}
	if err := o.ledger.Append(entry); err != nil {
		return fmt.Errorf("%w: %v", ErrLedgerWrite, err)
	}
	return nil
}

func (o *Orchestrator) probe(ctx context.Context, path string) error {
	if o.prober == nil {
		return nil
	}
	return o.prober.Probe(ctx, path)
}

// keyFor computes the dedup key. The catalog occasionally omits firstrun;
// those episodes fall back to the catalog id rather than colliding on an
// empty timestamp.
func (o *Orchestrator) keyFor(episode catalog.Episode) ledger.Key {
	return ledger.NewKey(episode.ProgramTitle, o.firstRunKey(episode))
}

func (o *Orchestrator) firstRunKey(episode catalog.Episode) string {
	if episode.FirstRun != "" {
		return episode.FirstRun
	}
	return "episode:" + episode.ID
}

func subtitleURL(episode catalog.Episode) string {
	if len(episode.Subtitles) == 0 {
		return ""
	}
	return episode.Subtitles[0].URL
}
