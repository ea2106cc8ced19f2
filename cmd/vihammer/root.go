package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "vihammer",
	Short: "vihammer constructs the split CPU/GPU coherence topology " +
		"used by heterogeneous simulations.",
	Long: `vihammer constructs the split CPU/GPU coherence topology used ` +
		`by heterogeneous simulations. It extends a CPU-side base fragment ` +
		`with the GPU cache hierarchy and device directories, and can ` +
		`record the result or serve it for inspection.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	// A .env file, when present, provides defaults for the environment
	// variables the subcommands read.
	_ = godotenv.Load()

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
