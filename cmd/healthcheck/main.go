package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"
)

func main() {
	addr := normalizeAddr(os.Getenv("REPORTDECK_LISTEN_ADDR"))
	client := &http.Client{Timeout: 2 * time.Second}
	os.Exit(check(client, "http://"+addr))
}

// check probes the status endpoint rather than the bare liveness route: a
// healthy process must also be serving well-formed resolution state, so a
// malformed body or a missing mode fails the probe.
func check(client *http.Client, baseURL string) int {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+"/api/v1/status", nil)
	if err != nil {
		return 1
	}

	resp, err := client.Do(req)
	if err != nil {
		return 1
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return 1
	}

	var status struct {
		Mode string `json:"mode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil || status.Mode == "" {
		return 1
	}

	if status.Mode == "demo" {
		// Still healthy, but make the degraded mode visible in probe logs.
		fmt.Fprintln(os.Stderr, "serving demo data: no credentials resolved")
	}

	return 0
}

// normalizeAddr ensures the healthcheck connects to loopback rather than the
// bind-all address. Docker containers bind 0.0.0.0 but the healthcheck runs
// inside the same container, so loopback is reachable and more correct.
func normalizeAddr(raw string) string {
	if raw == "" {
		return "127.0.0.1:8080"
	}

	host, port, err := net.SplitHostPort(raw)
	if err != nil {
		return "127.0.0.1:8080"
	}

	if host == "" || host == "0.0.0.0" {
		host = "127.0.0.1"
	}

	return net.JoinHostPort(host, port)
}
