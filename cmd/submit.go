package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxonomiaia/taxocli/internal/progress"
	"github.com/taxonomiaia/taxocli/internal/workflow"
)

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Submit a sample for analysis and wait for its classification",
	Long: `Registers a sample from its QR code, uploads the genome file and the
optional colony image, then polls the service until the classification is
ready.`,
	RunE: runSubmit,
}

func init() {
	submitCmd.Flags().String("code", "", "sample QR code (required)")
	submitCmd.Flags().String("genome", "", "path to the genome file (required)")
	submitCmd.Flags().String("image", "", "path to an optional colony image")
	submitCmd.Flags().Bool("no-wait", false, "return after upload instead of waiting for the result")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	code, _ := cmd.Flags().GetString("code")
	genome, _ := cmd.Flags().GetString("genome")
	image, _ := cmd.Flags().GetString("image")
	noWait, _ := cmd.Flags().GetBool("no-wait")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	opts := []workflow.Option{
		workflow.WithInterval(time.Duration(cfg.PollIntervalSeconds) * time.Second),
	}
	if verbose {
		opts = append(opts, workflow.WithLogf(log.Printf))
	}
	wf := workflow.New(newClient(cfg), opts...)

	reporter := progress.NewReporter()
	reporter.Start("Submitting sample...")

	poller, err := wf.Start(ctx, workflow.Request{
		Code:       code,
		GenomePath: genome,
		ImagePath:  image,
	}, reporter.Tick)
	if err != nil {
		reporter.Finish()
		return err
	}

	if noWait {
		reporter.Finish()
		fmt.Printf("Sample %s submitted. Check progress with `taxocli results %s`.\n",
			poller.SampleID(), poller.SampleID())
		poller.Cancel()
		return nil
	}

	summary, err := poller.Wait()
	reporter.Finish()
	if err != nil {
		return fmt.Errorf("waiting for analysis of sample %s: %w", poller.SampleID(), err)
	}

	fmt.Println("Analysis completed.")
	fmt.Println()
	fmt.Printf("Confidence: %s\n", orPlaceholder(string(summary.Result.Confidence)))
	fmt.Printf("Evidence: %s\n", orPlaceholder(summary.Result.Evidence))
	fmt.Println()
	fmt.Printf("Full result: taxocli results %s\n", summary.SampleID)
	return nil
}

func orPlaceholder(s string) string {
	if s == "" {
		return "—"
	}
	return s
}
