// Command sitecheck checks a list of websites concurrently and prints one line
// per URL as results arrive.
//
// Usage:
//
//	sitecheck check https://example.com https://example.org
//	sitecheck check -f targets.yaml --workers 8 --json-out results.json
//	sitecheck validate -f "targets/**/*.yaml"
//	sitecheck version
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// set via -ldflags "-X main.version=..."
var (
	version = "dev"
	commit  = "none"
)

var rootCmd = &cobra.Command{
	Use:   "sitecheck",
	Short: "Concurrent website availability checker",
	Long: `sitecheck issues an HTTP GET to every URL with a fixed pool of workers,
retrying transport failures a bounded number of times, and prints the status
code or error of each URL as soon as it is known.

Any status code counts as a successful check; only transport failures
(DNS, connection, TLS, timeout) are reported as errors.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "sitecheck %s (commit %s)\n", version, commit)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
