// Command brawlboss-cli calls the brawlboss HTTP endpoints.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	host    string
	timeout time.Duration
	client  = &http.Client{}
)

var rootCmd = &cobra.Command{
	Use:   "brawlboss-cli",
	Short: "Talk to a running brawlboss server",
	Long: `brawlboss-cli triggers club updates and reads stored members, rankings,
player profiles and metrics from a brawlboss server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		client.Timeout = timeout
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&host, "host", "http://localhost:8080", "The host address of the server")
	// A full update walks every member, so the default leaves room for it.
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 2*time.Minute, "Request timeout")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
