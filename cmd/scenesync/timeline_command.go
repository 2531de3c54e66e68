package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenesync/internal/align"
	"scenesync/internal/render"
	"scenesync/internal/timeline"
)

func newTimelineCommand(ctx *commandContext) *cobra.Command {
	var (
		resolvedPath string
		audioPath    string
		outPath      string
		fps          int
	)

	cmd := &cobra.Command{
		Use:   "timeline",
		Short: "Build a frame-quantized timeline from resolved phrases",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			resolved, err := align.LoadResolved(resolvedPath)
			if err != nil {
				return err
			}
			duration, err := render.ProbeDuration(cmd.Context(), audioPath)
			if err != nil {
				return err
			}

			if fps <= 0 {
				fps = cfg.Video.FPS
			}
			audio := timeline.AudioInfo{Path: audioPath, Duration: duration}
			tl := timeline.BuildFromPhrases(resolved, audio, fps, logger)
			if err := tl.Validate(); err != nil {
				return err
			}
			if err := tl.Save(outPath); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote timeline with %d items (%.3fs at %d fps) to %s\n",
				len(tl.Items), duration, fps, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&resolvedPath, "resolved", "", "Path to a resolved-phrase artifact")
	cmd.Flags().StringVar(&audioPath, "audio", "", "Path to the narration audio file")
	cmd.Flags().StringVar(&outPath, "out", "timeline.json", "Destination for the timeline artifact")
	cmd.Flags().IntVar(&fps, "fps", 0, "Frame rate for quantization (defaults to the configured video fps)")
	_ = cmd.MarkFlagRequired("resolved")
	_ = cmd.MarkFlagRequired("audio")

	return cmd
}
