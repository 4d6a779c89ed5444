package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site",
	Long: `Serves a single-page developer portfolio: hero, about, projects and a
contact form that relays messages through Web3Forms. Page state lives on
the server and HTMX swaps in the fragments that change.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
