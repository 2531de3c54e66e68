package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenesync/internal/align"
	"scenesync/internal/mapping"
	"scenesync/internal/transcript"
)

func newAlignCommand(ctx *commandContext) *cobra.Command {
	var (
		transcriptPath string
		mappingPath    string
		outPath        string
	)

	cmd := &cobra.Command{
		Use:   "align",
		Short: "Resolve mapping phrases against an existing transcript",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			tr, err := transcript.Load(transcriptPath)
			if err != nil {
				return err
			}
			m, err := mapping.Load(mappingPath)
			if err != nil {
				return err
			}

			resolver := align.NewResolver(align.Options{
				Threshold:    m.Matching.SimilarityThreshold,
				CoarseFloor:  cfg.Matching.CoarseFloor,
				CoarseMargin: cfg.Matching.CoarseMargin,
				SearchPad:    cfg.Matching.SearchPad,
				FoldAccents:  cfg.Matching.FoldAccents,
			}, logger)

			resolved, err := resolver.Resolve(m.Rules, tr)
			if err != nil {
				return err
			}
			if err := align.SaveResolved(outPath, resolved); err != nil {
				return err
			}

			headers := []string{"#", "Image", "Start", "Token Set", "Edit", "Matched Window"}
			rows := make([][]string, 0, len(resolved))
			for _, phrase := range resolved {
				rows = append(rows, []string{
					fmt.Sprintf("%d", phrase.Index),
					phrase.Image,
					fmt.Sprintf("%.3f", phrase.Start),
					fmt.Sprintf("%d", phrase.Similarity.TokenSet),
					fmt.Sprintf("%d", phrase.Similarity.Edit),
					phrase.Match.WindowText,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, renderTable(headers, rows))
			fmt.Fprintf(out, "Wrote %d resolved phrases to %s\n", len(resolved), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&transcriptPath, "transcript", "", "Path to a transcript artifact")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "JSON mapping of phrases to images")
	cmd.Flags().StringVar(&outPath, "out", "resolved.json", "Destination for the resolved-phrase artifact")
	_ = cmd.MarkFlagRequired("transcript")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}
