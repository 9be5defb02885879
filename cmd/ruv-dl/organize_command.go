package main

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/HaukurPall/ruv-dl/internal/organize"
)

func newOrganizeCommand(ctx *commandContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "organize [file...]",
		Short: "Sort downloaded episodes into a show/season library",
		Long: "Move downloaded episode files into <organized_dir>/<show>/Season NN/. " +
			"Show names come from the foreign title in the file name, with " +
			"translations.json filling the gaps. Without arguments every .mp4 in " +
			"the download directory is considered.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, closeLogger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			defer closeLogger()

			files := args
			if len(files) == 0 {
				files, err = filepath.Glob(filepath.Join(cfg.Paths.DownloadDir, "*.mp4"))
				if err != nil {
					return fmt.Errorf("list download directory: %w", err)
				}
				sort.Strings(files)
			}
			if len(files) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to organize.")
				return nil
			}

			translations, err := organize.LoadTranslations(cfg.Paths.Translations)
			if err != nil {
				return err
			}

			org := organize.New(cfg.Paths.OrganizedDir, translations, dryRun, logger)
			results, err := org.Run(files)
			if err != nil {
				return err
			}

			tbl := newEpisodeTable(cmd.OutOrStdout(), "File", "Outcome", "Destination")
			for _, result := range results {
				outcome := string(result.Action)
				if result.Action == organize.ActionDestination {
					if result.SameChecksum {
						outcome += " (same content)"
					} else {
						outcome += " (content differs)"
					}
				}
				tbl.addRow(filepath.Base(result.Source), outcome, result.Target)
			}
			tbl.render()
			return nil
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "n", false, "Report what would be moved without moving anything")
	return cmd
}
