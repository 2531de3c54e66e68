package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scenesync/internal/mapping"
)

func newMappingCommand(ctx *commandContext) *cobra.Command {
	mappingCmd := &cobra.Command{
		Use:   "mapping",
		Short: "Mapping file utilities",
	}

	mappingCmd.AddCommand(newMappingInitCommand())
	mappingCmd.AddCommand(newMappingValidateCommand())

	return mappingCmd
}

func newMappingInitCommand() *cobra.Command {
	var (
		targetPath string
		overwrite  bool
	)

	cmd := &cobra.Command{
		Use:         "init",
		Short:       "Create a starter mapping file",
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if !overwrite {
				if _, err := os.Stat(targetPath); err == nil {
					return fmt.Errorf("mapping file already exists at %s (use --overwrite to replace it)", targetPath)
				} else if !os.IsNotExist(err) {
					return fmt.Errorf("check mapping path: %w", err)
				}
			}
			if err := os.WriteFile(targetPath, mapping.Template(), 0o644); err != nil {
				return fmt.Errorf("write mapping template: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Wrote starter mapping to %s\n", targetPath)
			fmt.Fprintln(out, "Edit each rule's text to the full phrase as spoken in the narration.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "mapping.json", "Destination for the mapping file")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Overwrite an existing mapping file")
	return cmd
}

func newMappingValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "validate <path>",
		Short:       "Validate a mapping file",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := mapping.Load(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Mapping valid: %d rules, mode %s, threshold %d\n",
				len(m.Rules), m.Matching.Mode, m.Matching.SimilarityThreshold)
			return nil
		},
	}
}
