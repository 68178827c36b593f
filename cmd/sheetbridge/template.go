package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JakeFAU/sheetbridge/internal/sheet"
)

func newTemplateCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the URL import template workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			payload, err := sheet.EncodeTemplate()
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, payload, 0o644); err != nil { //nolint:gosec // template is not sensitive
				return fmt.Errorf("write template: %w", err)
			}
			cmd.Printf("wrote %s (%d bytes)\n", out, len(payload))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "import_template.xlsx", "destination file")
	return cmd
}
