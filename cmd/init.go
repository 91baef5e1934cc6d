package cmd

import (
	"github.com/spf13/cobra"

	"github.com/taxonomiaia/taxocli/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize taxocli configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to pick the analysis service origin and generates a .taxocli.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
