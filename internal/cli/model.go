package cli

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var modelCmd = &cobra.Command{
	Use:   "model",
	Short: "Inspect the trained model",
}

var modelInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the loaded model and its artifact on the server",
	RunE:  runModelInfo,
}

func init() {
	modelCmd.AddCommand(modelInfoCmd)
	rootCmd.AddCommand(modelCmd)
}

func runModelInfo(cmd *cobra.Command, args []string) error {
	client := NewClient()

	data, status, err := client.Get("/model/info")
	if err != nil {
		return fmt.Errorf("failed to get model info: %w", err)
	}

	if status != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", status, string(data))
	}

	if jsonOut {
		fmt.Println(string(data))
		return nil
	}

	var result map[string]any
	if err := json.Unmarshal(data, &result); err != nil {
		return err
	}

	loaded, _ := result["loaded"].(bool)
	if !loaded {
		fmt.Println("No model loaded")
		return nil
	}

	fmt.Printf("Model: %s\n", result["model"])

	if features, ok := result["features"].([]any); ok {
		fmt.Println("Features:")
		for _, f := range features {
			fmt.Printf("  %s\n", f)
		}
	}

	if artifact, ok := result["artifact"].(map[string]any); ok {
		if path, ok := artifact["path"].(string); ok {
			fmt.Printf("Artifact: %s\n", path)
		}
		if size, ok := artifact["size"].(float64); ok && size > 0 {
			fmt.Printf("Size:     %.1f KB\n", size/1024)
		}
	}

	return nil
}
