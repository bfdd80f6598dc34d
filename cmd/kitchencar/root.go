package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootCmd = &cobra.Command{
	Use:   "kitchencar",
	Short: "Aggregate Tokyo food-truck schedules from venue sites",
	Long: "Kitchencar scrapes the published schedules of several Tokyo venues,\n" +
		"resolves vendor names against the truck registry, and writes the merged\n" +
		"schedule artifacts consumed by the display front end.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(coverageCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
