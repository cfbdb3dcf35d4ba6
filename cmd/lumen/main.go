package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦  ╦ ╦╔╦╗╔═╗╔╗╔
  ║  ║ ║║║║║╣ ║║║
  ╩═╝╚═╝╩ ╩╚═╝╝╚╝
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "lumen",
		Short: "Client-side routing and page delivery for static sites",
		Long: `Lumen builds single-page sites around a client-side router.

Pages are plain HTML fragments resolved by pattern, wrapped in
layouts, and swapped in place without full page loads. Features:

  • Pattern routes with dynamic and catch-all segments
  • Remote page fragments with template interpolation
  • Layout composition and bounded page caching
  • Hot reload development server
  • One-command deploy to object storage`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		createCmd(),
		devCmd(),
		buildCmd(),
		deployCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Print(banner)
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}
