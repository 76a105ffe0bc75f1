package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "planctl",
	Short: "Student transport planning toolkit",
	Long: `planctl generates synthetic rosters, computes transport plans from
roster CSV files and manages the roster database used by the API server.`,
}

func init() {
	cobra.OnInitialize(func() {
		// .env is optional; deployed environments set variables directly.
		_ = godotenv.Load()
	})
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (yaml or json)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }
