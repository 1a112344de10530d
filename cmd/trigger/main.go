// The trigger binary is the external periodic caller the drawing
// endpoint relies on: it POSTs the drawing service on a fixed interval.
// Deploy it as a sidecar or a cron-style process; the server itself
// never schedules anything in-process.
package main

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTargetURL = "http://localhost:8080/"
	defaultInterval  = time.Hour
	requestTimeout   = 30 * time.Second

	// Hard cap: at most one trigger per minute no matter how the
	// interval is configured.
	minTriggerGap = time.Minute
)

type drawingResponse struct {
	Success bool `json:"success"`
	Results []struct {
		CompanyID string `json:"company_id"`
		Status    string `json:"status"`
		Error     string `json:"error"`
	} `json:"results"`
}

func main() {
	targetURL := os.Getenv("TRIGGER_URL")
	if targetURL == "" {
		targetURL = defaultTargetURL
	}

	interval := defaultInterval
	if raw := os.Getenv("TRIGGER_INTERVAL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			log.Fatalf("Invalid TRIGGER_INTERVAL %q: %v", raw, err)
		}
		interval = parsed
	}

	client := &http.Client{Timeout: requestTimeout}
	limiter := rate.NewLimiter(rate.Every(minTriggerGap), 1)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Printf("Triggering %s every %s", targetURL, interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Fire once at startup so a freshly deployed service schedules its
	// companies immediately instead of waiting a full interval.
	runOnce(ctx, client, limiter, targetURL)

	for {
		select {
		case <-ctx.Done():
			log.Println("Trigger exiting")
			return
		case <-ticker.C:
			runOnce(ctx, client, limiter, targetURL)
		}
	}
}

func runOnce(ctx context.Context, client *http.Client, limiter *rate.Limiter, targetURL string) {
	if err := limiter.Wait(ctx); err != nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, targetURL, nil)
	if err != nil {
		log.Printf("Failed to build trigger request: %v", err)
		return
	}

	resp, err := client.Do(req)
	if err != nil {
		log.Printf("Trigger request failed: %v", err)
		return
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if resp.StatusCode != http.StatusOK {
		log.Printf("Drawing run returned status %d: %s", resp.StatusCode, body)
		return
	}

	var parsed drawingResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		log.Printf("Drawing run returned unparseable body: %v", err)
		return
	}

	var drawn, scheduled, failed int
	for _, r := range parsed.Results {
		switch r.Status {
		case "drawn":
			drawn++
		case "scheduled":
			scheduled++
		case "failed":
			failed++
			log.Printf("Company %s failed: %s", r.CompanyID, r.Error)
		}
	}
	log.Printf("Drawing run complete: %d drawn, %d scheduled, %d failed", drawn, scheduled, failed)
}
