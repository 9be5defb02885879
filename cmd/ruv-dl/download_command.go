package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/HaukurPall/ruv-dl/internal/catalog"
	"github.com/HaukurPall/ruv-dl/internal/download"
	"github.com/HaukurPall/ruv-dl/internal/ffmpeg"
	"github.com/HaukurPall/ruv-dl/internal/hls"
	"github.com/HaukurPall/ruv-dl/internal/ledger"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var qualityFlag string
	var workersFlag int
	var timeoutFlag int

	cmd := &cobra.Command{
		Use:   "download [program-id...]",
		Short: "Download new episodes of the given programs",
		Long: "Download every episode of the given programs that has not been " +
			"downloaded before. Program ids are taken from the arguments, or from " +
			"stdin when piped. Episodes already recorded in the download ledger " +
			"are skipped.",
		RunE: func(cmd *cobra.Command, args []string) error {
			programIDs, err := resolveProgramIDs(args)
			if err != nil {
				return err
			}
			if len(programIDs) == 0 {
				return fmt.Errorf("no program ids given; pass them as arguments or pipe them to stdin")
			}

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			quality := cfg.Download.Quality
			if qualityFlag != "" {
				quality = qualityFlag
			}
			tier, err := hls.ParseTier(quality)
			if err != nil {
				return err
			}
			workers := cfg.Download.Workers
			if workersFlag > 0 {
				if workersFlag > 8 {
					return errors.New("--workers must be 8 or fewer; the remote service is the bottleneck")
				}
				workers = workersFlag
			}
			fetchTimeout := time.Duration(cfg.Download.FetchTimeout) * time.Second
			if timeoutFlag > 0 {
				fetchTimeout = time.Duration(timeoutFlag) * time.Second
			}

			logger, closeLogger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer closeLogger()

			// One run at a time per work directory; concurrent runs would
			// race on the ledger and on partially written files.
			lock := flock.New(filepath.Join(cfg.Paths.WorkDir, "ruv-dl.lock"))
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire work dir lock: %w", err)
			}
			if !locked {
				return fmt.Errorf("another ruv-dl run is already using %s", cfg.Paths.WorkDir)
			}
			defer lock.Unlock()

			led, err := ledger.Open(cfg.Paths.LedgerPath, logger)
			if err != nil {
				return err
			}
			defer led.Close()
			if skipped := led.SkippedRecords(); skipped > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignored %d malformed ledger line(s) in %s\n", skipped, cfg.Paths.LedgerPath)
			}

			client, err := ctx.newCatalogClient()
			if err != nil {
				return err
			}

			progress, finishProgress := newDownloadProgress()
			ffmpegClient := ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Download.FFmpegBinary))
			orch, err := download.New(
				client,
				hls.NewLoader(),
				ffmpegClient,
				ffmpegClient,
				led,
				download.Options{
					DownloadDir:  cfg.Paths.DownloadDir,
					Workers:      workers,
					FetchTimeout: fetchTimeout,
					Logger:       logger,
					OnProgress:   progress,
				},
			)
			if err != nil {
				return err
			}

			runCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			report, err := orch.DownloadPrograms(runCtx, programIDs, tier)
			finishProgress()
			if err != nil {
				return err
			}

			renderReport(cmd, report)
			if report.AllProgramsFailed() {
				return fmt.Errorf("all %d requested programs failed", report.Requested)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Quality tier (240p, 360p, 480p, 720p, 1080p)")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Concurrent downloads (max 8)")
	cmd.Flags().IntVar(&timeoutFlag, "timeout", 0, "Per-episode fetch timeout in seconds")
	return cmd
}

// resolveProgramIDs takes ids from the arguments, falling back to stdin when
// the command is on the receiving end of a pipe.
func resolveProgramIDs(args []string) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return nil, nil
	}
	var ids []string
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(bufio.ScanWords)
	for scanner.Scan() {
		ids = append(ids, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read program ids from stdin: %w", err)
	}
	return ids, nil
}

// newDownloadProgress returns a progress callback feeding a byte-count bar
// on interactive terminals, and a no-op otherwise. Concurrent workers report
// independently; the bar shows the cumulative transferred size.
func newDownloadProgress() (download.ProgressFunc, func()) {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return nil, func() {}
	}
	bar := progressbar.DefaultBytes(-1, "downloading")

	var mu sync.Mutex
	transferred := map[string]int64{}
	progress := func(episode catalog.Episode, update ffmpeg.ProgressUpdate) {
		if update.TotalSize <= 0 {
			return
		}
		mu.Lock()
		delta := update.TotalSize - transferred[episode.ID]
		transferred[episode.ID] = update.TotalSize
		mu.Unlock()
		if delta > 0 {
			bar.Add64(delta)
		}
	}
	return progress, func() { bar.Finish() }
}

func renderReport(cmd *cobra.Command, report *download.Report) {
	out := cmd.OutOrStdout()

	if len(report.Completed) > 0 {
		tbl := newEpisodeTable(out, "Program", "Episode", "Quality", "Size", "Path")
		tbl.rightAlign(4)
		for _, c := range report.Completed {
			quality := string(c.Tier)
			if c.Fallback {
				quality += " (fallback)"
			}
			tbl.addRow(c.Episode.ProgramTitle, c.Episode.Title, quality, fileSize(c.Path), c.Path)
		}
		tbl.render()
	}

	if len(report.Failed) > 0 {
		fmt.Fprintln(out, "Failed episodes:")
		for _, f := range report.Failed {
			fmt.Fprintf(out, "  %s - %s: %v\n", f.Episode.ProgramTitle, f.Episode.Title, f.Err)
		}
	}
	for _, pe := range report.ProgramErrors {
		fmt.Fprintf(out, "Program %s failed: %v\n", pe.ProgramID, pe.Err)
	}

	fmt.Fprintf(out, "%s downloaded, %s skipped, %s failed\n",
		countNoun(len(report.Completed), "episode"),
		countNoun(len(report.Skipped), "episode"),
		countNoun(len(report.Failed), "episode"))
}

func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil {
		return "?"
	}
	return humanize.Bytes(uint64(info.Size()))
}

func countNoun(count int, noun string) string {
	if count == 1 {
		return "1 " + noun
	}
	return strconv.Itoa(count) + " " + noun + "s"
}
