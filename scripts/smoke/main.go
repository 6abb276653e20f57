// Command smoke probes a running API instance and reports per-endpoint
// health. Used after deploys to confirm the public surface and the
// dashboard guards respond before traffic is cut over.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

type probe struct {
	Method string
	Path   string
	// Expect is the status the endpoint must return. Guarded routes are
	// probed without credentials and must answer 401.
	Expect int
}

var probes = []probe{
	{http.MethodGet, "/health", http.StatusOK},
	{http.MethodGet, "/ready", http.StatusOK},
	{http.MethodGet, "/metrics", http.StatusOK},
	{http.MethodGet, "/api/v1/tutors", http.StatusOK},
	{http.MethodGet, "/api/v1/videos", http.StatusOK},
	{http.MethodGet, "/api/v1/products", http.StatusOK},
	{http.MethodGet, "/api/v1/school/students", http.StatusUnauthorized},
	{http.MethodGet, "/api/v1/admin/schools", http.StatusUnauthorized},
}

type result struct {
	Probe    probe
	Status   int
	Duration time.Duration
	Err      error
}

func main() {
	base := flag.String("base", "http://localhost:8080", "base URL of the API instance")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	jsonOut := flag.Bool("json", false, "emit results as JSON")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	results := make([]result, 0, len(probes))
	failed := 0

	for _, p := range probes {
		res := run(client, strings.TrimRight(*base, "/"), p)
		if res.Err != nil || res.Status != p.Expect {
			failed++
		}
		results = append(results, res)
	}

	if *jsonOut {
		report := make([]map[string]interface{}, 0, len(results))
		for _, res := range results {
			entry := map[string]interface{}{
				"method":      res.Probe.Method,
				"path":        res.Probe.Path,
				"expected":    res.Probe.Expect,
				"status":      res.Status,
				"duration_ms": res.Duration.Milliseconds(),
			}
			if res.Err != nil {
				entry["error"] = res.Err.Error()
			}
			report = append(report, entry)
		}
		_ = json.NewEncoder(os.Stdout).Encode(report)
	} else {
		for _, res := range results {
			mark := "ok"
			if res.Err != nil {
				mark = "error: " + res.Err.Error()
			} else if res.Status != res.Probe.Expect {
				mark = fmt.Sprintf("got %d, want %d", res.Status, res.Probe.Expect)
			}
			fmt.Printf("%-6s %-28s %-8s %v\n", res.Probe.Method, res.Probe.Path, mark, res.Duration.Round(time.Millisecond))
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d probes failed\n", failed, len(probes))
		os.Exit(1)
	}
}

func run(client *http.Client, base string, p probe) result {
	req, err := http.NewRequest(p.Method, base+p.Path, nil)
	if err != nil {
		return result{Probe: p, Err: err}
	}
	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return result{Probe: p, Duration: elapsed, Err: err}
	}
	defer resp.Body.Close()
	return result{Probe: p, Status: resp.StatusCode, Duration: elapsed}
}
