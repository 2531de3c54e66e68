package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenesync/internal/render"
	"scenesync/internal/timeline"
)

func newRenderCommand(ctx *commandContext) *cobra.Command {
	var (
		timelinePath string
		imagesDir    string
		outPath      string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render an existing timeline to MP4 with FFmpeg",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			tl, err := timeline.Load(timelinePath)
			if err != nil {
				return err
			}
			if err := tl.Validate(); err != nil {
				return err
			}

			renderer := render.NewFFmpeg(logger)
			opts := render.Options{Width: cfg.Video.Width, Height: cfg.Video.Height, FPS: cfg.Video.FPS}
			if err := renderer.Render(cmd.Context(), tl, imagesDir, outPath, opts); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d scenes to %s\n", len(tl.Items), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&timelinePath, "timeline", "", "Path to a timeline artifact")
	cmd.Flags().StringVar(&imagesDir, "images", "", "Folder containing images referenced by the timeline")
	cmd.Flags().StringVar(&outPath, "out", "output.mp4", "Destination for the rendered video")
	_ = cmd.MarkFlagRequired("timeline")
	_ = cmd.MarkFlagRequired("images")

	return cmd
}
