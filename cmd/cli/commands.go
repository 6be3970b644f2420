package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var (
	dryRun bool
	post   bool
)

func init() {
	updateCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log notifications instead of sending them")
	rankingsCmd.Flags().BoolVar(&post, "post", false, "Also post the rankings to the Slack channel")
	rankingsCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Log the Slack message instead of posting it")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(membersCmd)
	rootCmd.AddCommand(rankingsCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/health")
	},
}

var updateCmd = &cobra.Command{
	Use:   "update",
	Short: "Fetch the club, its members and their battle logs now",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodPost, withQuery("/update", url.Values{"dry_run": {strconv.FormatBool(dryRun)}}))
	},
}

var membersCmd = &cobra.Command{
	Use:   "members",
	Short: "List the stored club members",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/members")
	},
}

var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Show the club rankings for the past seven days",
	RunE: func(cmd *cobra.Command, args []string) error {
		q := url.Values{"post": {strconv.FormatBool(post)}, "dry_run": {strconv.FormatBool(dryRun)}}
		return performRequest(http.MethodGet, withQuery("/rankings", q))
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile <tag>",
	Short: "Show a stored player with their battle stats",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag := strings.TrimLeft(strings.TrimSpace(args[0]), "#")
		return performRequest(http.MethodGet, "/players/"+url.PathEscape(tag))
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performRequest(http.MethodGet, "/metrics")
	},
}

func withQuery(endpoint string, q url.Values) string {
	return endpoint + "?" + q.Encode()
}

func performRequest(method, endpoint string) error {
	target := host + endpoint
	fmt.Printf("Making %s request to %s\n", method, target)

	req, err := http.NewRequest(method, target, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	fmt.Printf("Status Code: %d\n", resp.StatusCode)
	fmt.Println("Response Body:")
	fmt.Println(string(body))

	return nil
}
