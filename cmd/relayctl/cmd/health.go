package cmd

import (
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

// healthCmd represents the health command
var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the health of the relay service",
	Long:  `Check the health status of the relay's /healthz endpoint, including broker connectivity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := &http.Client{Timeout: timeout}
		resp, err := client.Get(serverAddr + "/healthz")
		if err != nil {
			return fmt.Errorf("health check failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			fmt.Println("✓ Service is healthy")
		} else {
			fmt.Printf("✗ Service is unhealthy (HTTP %d)\n", resp.StatusCode)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
