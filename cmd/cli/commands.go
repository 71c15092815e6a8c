package main

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/spf13/cobra"
)

var (
	window    string
	versus    string
	limit     int
	unhide    bool
	matchesOf string
)

func init() {
	leaderboardCmd.Flags().StringVar(&window, "window", "", "Time window (today, week, month, 7day, 30day, all)")
	matchesCmd.Flags().StringVar(&matchesOf, "player", "", "Only matches involving this player")
	matchesCmd.Flags().StringVar(&versus, "versus", "", "Only matches against this opponent")
	matchesCmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of matches returned (0 = all)")
	matchesCmd.Flags().StringVar(&window, "window", "", "Time window (today, week, month, 7day, 30day, all)")
	playerCmd.Flags().StringVar(&window, "window", "", "Time window (today, week, month, 7day, 30day, all)")
	hideCmd.Flags().BoolVar(&unhide, "unhide", false, "Unhide the player instead")

	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(leaderboardCmd)
	rootCmd.AddCommand(matchesCmd)
	rootCmd.AddCommand(playerCmd)
	rootCmd.AddCommand(versusCmd)
	rootCmd.AddCommand(hideCmd)
	rootCmd.AddCommand(deleteMatchCmd)
	rootCmd.AddCommand(rebuildCmd)
	rootCmd.AddCommand(metricsCmd)
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/health", nil)
	},
}

var recordCmd = &cobra.Command{
	Use:   "record <winner> <loser>",
	Short: "Record a decided match",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/record", url.Values{"winner": {args[0]}, "loser": {args[1]}})
	},
}

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Show the ranked standings",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if window != "" {
			params.Set("window", window)
		}
		return performGetRequest("/leaderboard", params)
	},
}

var matchesCmd = &cobra.Command{
	Use:   "matches",
	Short: "List recorded matches",
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{}
		if matchesOf != "" {
			params.Set("player", matchesOf)
		}
		if versus != "" {
			params.Set("versus", versus)
		}
		if limit > 0 {
			params.Set("limit", fmt.Sprint(limit))
		}
		if window != "" {
			params.Set("window", window)
		}
		return performGetRequest("/matches", params)
	},
}

var playerCmd = &cobra.Command{
	Use:   "player <name>",
	Short: "Show a player's profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{"name": {args[0]}}
		if window != "" {
			params.Set("window", window)
		}
		return performGetRequest("/player", params)
	},
}

var versusCmd = &cobra.Command{
	Use:   "versus <one> <two>",
	Short: "Compare two players head to head",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/versus", url.Values{"one": {args[0]}, "two": {args[1]}})
	},
}

var hideCmd = &cobra.Command{
	Use:   "hide <name>",
	Short: "Hide a player from all aggregate views",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		params := url.Values{"name": {args[0]}}
		if unhide {
			params.Set("hidden", "false")
		}
		return performGetRequest("/admin/hide-player", params)
	},
}

var deleteMatchCmd = &cobra.Command{
	Use:   "delete-match <id>",
	Short: "Delete a match and rebuild player state",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/admin/delete-match", url.Values{"id": {args[0]}})
	},
}

var rebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Replay the full match ledger from scratch",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/admin/rebuild", nil)
	},
}

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Get application metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		return performGetRequest("/metrics", nil)
	},
}

func performGetRequest(endpoint string, params url.Values) error {
	url := host + endpoint
	if len(params) > 0 {
		url += "?" + params.Encode()
	}
	fmt.Printf("Making request to %s\n", url)

	resp, err := http.Get(url)
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
