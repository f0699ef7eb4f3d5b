package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type serviceStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Services  struct {
		Database serviceStatus `json:"database"`
		LLM      serviceStatus `json:"llm"`
	} `json:"services"`
	Keys map[string]bool `json:"keys"`
}

func main() {
	url := "http://localhost:8080/health"
	if len(os.Args) > 1 {
		url = os.Args[1]
	}

	if err := check(url, os.Stdout); err != nil {
		fmt.Printf("Health check failed: %v\n", err)
		os.Exit(1)
	}
}

func check(url string, out io.Writer) error {
	fmt.Fprintf(out, "Testing health endpoint: %s\n", url)

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("connecting to health endpoint: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	fmt.Fprintf(out, "Response Status: %s\n", resp.Status)

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return fmt.Errorf("parsing JSON response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d, database: %s %s", resp.StatusCode, health.Services.Database.Status, health.Services.Database.Error)
	}
	if health.Services.Database.Status != "ok" {
		return fmt.Errorf("database status is %q: %s", health.Services.Database.Status, health.Services.Database.Error)
	}

	fmt.Fprintf(out, "Health check passed\n")
	fmt.Fprintf(out, "   Status: %s\n", health.Status)
	fmt.Fprintf(out, "   Version: %s\n", health.Version)
	fmt.Fprintf(out, "   Database: %s\n", health.Services.Database.Status)
	fmt.Fprintf(out, "   LLM: %s %s\n", health.Services.LLM.Status, health.Services.LLM.Error)
	for _, key := range []string{"openai", "tavily", "github"} {
		state := "not set"
		if health.Keys[key] {
			state = "set"
		}
		fmt.Fprintf(out, "   %s key: %s\n", key, state)
	}
	fmt.Fprintf(out, "   Timestamp: %s\n", health.Timestamp)
	return nil
}
