package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/taxonomiaia/taxocli/internal/listing"
	"github.com/taxonomiaia/taxocli/internal/render"
	"github.com/taxonomiaia/taxocli/internal/session"
)

var resultsCmd = &cobra.Command{
	Use:   "results [sample-id]",
	Short: "Show classification results",
	Long: `Without arguments, lists every registered sample. With a sample id,
looks up that single sample. Use --html to also write the cards as a
standalone HTML report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().Bool("html", false, "write an HTML report to the configured report_dir")
	resultsCmd.Flags().Bool("completed", false, "list only samples whose analysis has finished")
	rootCmd.AddCommand(resultsCmd)
}

// termSurface renders loader output to the terminal.
type termSurface struct {
	cards []render.Card
}

func (s *termSurface) Card(c render.Card) {
	s.cards = append(s.cards, c)
	fmt.Println(c.Text())
}

func (s *termSurface) Notice(text string) {
	fmt.Println(text)
}

func (s *termSurface) Error(text string, err error) {
	fmt.Fprintf(os.Stderr, "%s\n  %v\n", text, err)
}

func runResults(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	var id string
	if len(args) == 1 {
		id = args[0]
	}
	htmlOut, _ := cmd.Flags().GetBool("html")
	completedOnly, _ := cmd.Flags().GetBool("completed")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	client := newClient(cfg)
	surface := &termSurface{}

	if completedOnly && id == "" {
		records, err := client.FetchCompletedResults(ctx)
		if err != nil {
			surface.Error("Could not reach the server or decode its response.", err)
			return nil
		}
		if len(records) == 0 {
			surface.Notice("No completed samples yet.")
			return nil
		}
		for _, rec := range records {
			surface.Card(render.BuildCard(rec.SampleID, rec.Result))
		}
	} else {
		active := &session.ActiveSample{}
		loader := listing.New(client, active, listing.WithStride(80*time.Millisecond))
		loader.Load(ctx, id, surface)
	}

	if htmlOut && len(surface.cards) > 0 {
		path := filepath.Join(cfg.ReportDir, "results.html")
		if err := render.WriteReportFile(path, surface.cards); err != nil {
			return err
		}
		fmt.Printf("HTML report written to %s\n", path)
	}
	return nil
}
