//go:build integration
// +build integration

package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"
)

type envelope map[string]interface{}

var client = &http.Client{Timeout: 10 * time.Second}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func baseURL() string {
	return envOrDefault("INTEGRATION_BASE_URL", "http://localhost:8080")
}

func call(t *testing.T, method, path string, payload interface{}) (int, envelope) {
	t.Helper()

	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}

	req, err := http.NewRequest(method, fmt.Sprintf("%s%s", baseURL(), path), &body)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out envelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode %s %s response: %v", method, path, err)
	}
	return resp.StatusCode, out
}

func createQuestion(t *testing.T, category int) int {
	t.Helper()

	status, body := call(t, http.MethodPost, "/questions", map[string]interface{}{
		"question":   fmt.Sprintf("integration question %d", time.Now().UnixNano()),
		"answer":     "integration",
		"category":   fmt.Sprint(category),
		"difficulty": 1,
	})
	if status != http.StatusOK {
		t.Fatalf("unexpected create status: %d (%v)", status, body)
	}
	id, ok := body["created"].(float64)
	if !ok {
		t.Fatalf("created id missing in %v", body)
	}
	return int(id)
}
