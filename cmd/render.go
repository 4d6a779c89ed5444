package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/prateekydv01/portfolio/internal/content"
	"github.com/prateekydv01/portfolio/internal/page"
	"github.com/prateekydv01/portfolio/internal/view"
)

var renderOut string

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Write the initial page HTML",
	Long:  `Renders the page as a fresh visitor first sees it. Useful for checking content edits without starting the server.`,
	Run: func(cmd *cobra.Command, args []string) {
		site, err := content.Load()
		exitOnError(err)
		views, err := view.New(site)
		exitOnError(err)

		var w io.Writer = os.Stdout
		if renderOut != "" {
			f, err := os.Create(renderOut)
			exitOnError(err)
			defer f.Close()
			w = f
		}

		buf := bufio.NewWriter(w)
		exitOnError(views.Render(buf, "page", views.Page(page.New())))
		exitOnError(buf.Flush())

		if renderOut != "" {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", renderOut)
		}
	},
}

func init() {
	renderCmd.Flags().StringVarP(&renderOut, "out", "o", "", "output file (default stdout)")
	rootCmd.AddCommand(renderCmd)
}
