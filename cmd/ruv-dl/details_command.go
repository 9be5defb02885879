package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/HaukurPall/ruv-dl/internal/hls"
)

func newDetailsCommand(ctx *commandContext) *cobra.Command {
	var probeStreams bool

	cmd := &cobra.Command{
		Use:   "details <program-id>...",
		Short: "Show the episodes of one or more programs",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, closeLogger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer closeLogger()

			client, err := ctx.newCatalogClient()
			if err != nil {
				return err
			}
			loader := hls.NewLoader()

			headers := []string{"Program", "Episode", "First aired", "Duration", "Episode ID", "URL"}
			if probeStreams {
				headers = append(headers, "Qualities")
			}
			tbl := newEpisodeTable(cmd.OutOrStdout(), headers...)
			tbl.rightAlign(4)

			var failures int
			for _, programID := range args {
				program, err := client.FetchProgram(cmd.Context(), programID)
				if err != nil {
					logger.Warn("program fetch failed", "program_id", programID, "error", err)
					fmt.Fprintf(cmd.ErrOrStderr(), "Program %s: %v\n", programID, err)
					failures++
					continue
				}
				for _, episode := range program.Episodes {
					row := []string{
						program.Title,
						episode.Title,
						firstAired(episode.FirstRun),
						episodeDuration(episode.Duration),
						episode.ID,
						episode.ManifestURL,
					}
					if probeStreams {
						row = append(row, availableTiers(cmd, loader, episode.ManifestURL))
					}
					tbl.addRow(row...)
				}
			}
			tbl.render()

			if failures == len(args) {
				return fmt.Errorf("all %d requested programs failed", len(args))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&probeStreams, "qualities", false, "Fetch each episode's manifest and list available quality tiers")
	return cmd
}

func firstAired(firstRun string) string {
	if firstRun == "" {
		return "unknown"
	}
	return firstRun
}

func episodeDuration(seconds int) string {
	if seconds <= 0 {
		return "?"
	}
	return (time.Duration(seconds) * time.Second).String()
}

func availableTiers(cmd *cobra.Command, loader *hls.Loader, manifestURL string) string {
	manifest, err := loader.FetchManifest(cmd.Context(), manifestURL)
	if err != nil {
		return "unavailable"
	}
	return strings.Join(manifest.TierNames(), ", ")
}
