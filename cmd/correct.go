package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var correctCmd = &cobra.Command{
	Use:   "correct <sample-id> <taxonomy>",
	Short: "Store a manually corrected taxonomy for a sample",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sampleID := args[0]
		taxonomy := strings.Join(args[1:], " ")

		message, err := newClient(cfg).SubmitCorrection(context.Background(), sampleID, taxonomy)
		if err != nil {
			return fmt.Errorf("submitting correction for sample %s: %w", sampleID, err)
		}
		if message == "" {
			message = fmt.Sprintf("Correction stored for %s", sampleID)
		}
		fmt.Println(message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correctCmd)
}
