package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenesync/internal/pipeline"
	"scenesync/internal/render"
	"scenesync/internal/transcribe"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var (
		audioPath   string
		imagesDir   string
		mappingPath string
		outDir      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Transcribe, align, and render a video in one pass",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			backend, err := transcribe.New(cfg)
			if err != nil {
				return err
			}
			p := pipeline.New(cfg, logger, store, backend, render.NewFFmpeg(logger), render.ProbeDuration)

			result, err := p.Run(cmd.Context(), pipeline.Request{
				AudioPath:   audioPath,
				ImagesDir:   imagesDir,
				MappingPath: mappingPath,
				OutDir:      outDir,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Run %s complete\n", result.RunID)
			fmt.Fprintf(out, "- Transcript: %s\n", result.TranscriptPath)
			if result.ResolvedPath != "" {
				fmt.Fprintf(out, "- Resolved:   %s\n", result.ResolvedPath)
			}
			fmt.Fprintf(out, "- Timeline:   %s\n", result.TimelinePath)
			fmt.Fprintf(out, "- Video:      %s\n", result.VideoPath)
			if result.UsedSegmentFallback {
				fmt.Fprintln(out, "Note: phrase alignment was not possible; segment-level matching was used")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "Path to the narration audio file")
	cmd.Flags().StringVar(&imagesDir, "images", "", "Folder containing images referenced by the mapping")
	cmd.Flags().StringVar(&mappingPath, "mapping", "", "JSON mapping of phrases to images")
	cmd.Flags().StringVar(&outDir, "out", "./out", "Output folder for artifacts and the rendered video")
	_ = cmd.MarkFlagRequired("audio")
	_ = cmd.MarkFlagRequired("images")
	_ = cmd.MarkFlagRequired("mapping")

	return cmd
}
