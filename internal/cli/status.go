package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Get server status and self-monitoring metrics",
	Long:  `Query the running drainfox server for its system state and model status.`,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := NewClient()

	data, status, err := client.Get("/status")
	if err != nil {
		return fmt.Errorf("failed to get status: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", status, string(data))
	}

	if jsonOut {
		fmt.Println(string(data))
		return nil
	}

	// Pretty print
	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	fmt.Println("=== Drainfox Status ===")

	if version, ok := result["version"].(string); ok {
		fmt.Printf("\nVersion: %s\n", version)
	}

	if loaded, ok := result["model_loaded"].(bool); ok {
		if loaded {
			fmt.Println("Model:   loaded")
		} else {
			fmt.Println("Model:   not trained")
		}
	}

	system, ok := result["system"].(map[string]any)
	if !ok {
		return nil
	}

	if cpu, ok := system["cpu"].(map[string]any); ok {
		fmt.Printf("\nCPU:\n")
		fmt.Printf("  Usage: %.1f%%\n", cpu["usage_percent"])
	}

	if mem, ok := system["memory"].(map[string]any); ok {
		fmt.Printf("\nMemory:\n")
		fmt.Printf("  Usage: %.1f%%\n", mem["usage_percent"])
		if total, ok := mem["total_bytes"].(float64); ok {
			fmt.Printf("  Total: %.1f GB\n", total/1024/1024/1024)
		}
		if used, ok := mem["used_bytes"].(float64); ok {
			fmt.Printf("  Used:  %.1f GB\n", used/1024/1024/1024)
		}
	}

	if proc, ok := system["process"].(map[string]any); ok {
		fmt.Printf("\nProcess:\n")
		fmt.Printf("  PID: %.0f\n", proc["pid"])
		if rss, ok := proc["rss_bytes"].(float64); ok {
			fmt.Printf("  RSS: %.1f MB\n", rss/1024/1024)
		}
		fmt.Printf("  Threads: %.0f\n", proc["threads"])
	}

	return nil
}
