package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scenesync/internal/pipeline"
	"scenesync/internal/transcribe"
)

func newTranscribeCommand(ctx *commandContext) *cobra.Command {
	var (
		audioPath string
		outPath   string
	)

	cmd := &cobra.Command{
		Use:   "transcribe",
		Short: "Transcribe audio to a word-timestamped transcript artifact",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			backend, err := transcribe.New(cfg)
			if err != nil {
				return err
			}

			p := pipeline.New(cfg, logger, nil, backend, nil, nil)
			tr, err := p.Transcribe(cmd.Context(), audioPath, outPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Transcribed %d words across %d segments to %s\n",
				len(tr.Words), len(tr.Segments), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&audioPath, "audio", "", "Path to the narration audio file")
	cmd.Flags().StringVar(&outPath, "out", "transcript.json", "Destination for the transcript artifact")
	_ = cmd.MarkFlagRequired("audio")

	return cmd
}
