package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadFixtures_BaseOnly(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mock-validator.json", `{"is_valid":true,"confidence":0.9}`)
	writeFixture(t, dir, "mock-strict.json", `{"is_valid":false,"confidence":0.8}`)

	fixtures, err := loadFixtures(dir)
	if err != nil {
		t.Fatalf("loadFixtures: %v", err)
	}

	if len(fixtures) != 2 {
		t.Fatalf("expected 2 models, got %d", len(fixtures))
	}

	for model, seq := range fixtures {
		if len(seq) != 1 {
			t.Errorf("model %q: expected 1 fixture, got %d", model, len(seq))
		}
	}
}

func TestLoadFixtures_Sequential(t *testing.T) {
	dir := t.TempDir()

	// Numbered fixtures model an invalid verdict followed by a valid one.
	writeFixture(t, dir, "mock-validator.1.json", `{"is_valid":false,"issues":["missing mapping"]}`)
	writeFixture(t, dir, "mock-validator.2.json", `{"is_valid":true,"analysis":"revised"}`)
	writeFixture(t, dir, "mock-validator.json", `{"is_valid":true,"analysis":"fallback"}`)

	writeFixture(t, dir, "mock-strict.json", `{"is_valid":false}`)

	fixtures, err := loadFixtures(dir)
	if err != nil {
		t.Fatalf("loadFixtures: %v", err)
	}

	seq := fixtures["mock-validator"]
	if len(seq) != 3 {
		t.Fatalf("mock-validator: expected 3 fixtures, got %d", len(seq))
	}
	if !strings.Contains(seq[0], "missing mapping") {
		t.Errorf("fixture[0] should be the invalid verdict, got: %s", seq[0])
	}
	if !strings.Contains(seq[1], "revised") {
		t.Errorf("fixture[1] should be the revised verdict, got: %s", seq[1])
	}
	if !strings.Contains(seq[2], "fallback") {
		t.Errorf("fixture[2] should be the fallback verdict, got: %s", seq[2])
	}
}

func TestLoadFixtures_RejectsInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mock-validator.json", `{not json`)

	if _, err := loadFixtures(dir); err == nil {
		t.Fatal("expected error for invalid JSON fixture")
	}
}

func TestChatCompletions_SequentialThenFallback(t *testing.T) {
	s := newServer(map[string][]string{
		"mock-validator": {
			`{"is_valid":false}`,
			`{"is_valid":true}`,
		},
	})

	for i, want := range []string{`"is_valid":false`, `"is_valid":true`, `"is_valid":true`} {
		content := completeOnce(t, s, "mock-validator")
		if !strings.Contains(content, want) {
			t.Errorf("call %d: expected %s, got: %s", i+1, want, content)
		}
	}
}

func TestChatCompletions_UnknownModelGetsDefaultVerdict(t *testing.T) {
	s := newServer(map[string][]string{})

	content := completeOnce(t, s, "qwen2.5-coder:32b")
	if !strings.Contains(content, `"is_valid": true`) {
		t.Errorf("expected built-in approving verdict, got: %s", content)
	}

	var verdict struct {
		IsValid    bool    `json:"is_valid"`
		Confidence float64 `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		t.Fatalf("default verdict is not valid JSON: %v", err)
	}
	if verdict.Confidence != 0.9 {
		t.Errorf("expected confidence 0.9, got %f", verdict.Confidence)
	}
}

func TestRequestsEndpointCapturesPrompts(t *testing.T) {
	s := newServer(map[string][]string{})
	completeOnce(t, s, "mock-validator")

	req := httptest.NewRequest(http.MethodGet, "/requests?model=mock-validator", nil)
	rec := httptest.NewRecorder()
	s.handleRequests(rec, req)

	var body struct {
		RequestsByModel map[string][]capturedRequest `json:"requests_by_model"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode /requests response: %v", err)
	}
	captured := body.RequestsByModel["mock-validator"]
	if len(captured) != 1 {
		t.Fatalf("expected 1 captured request, got %d", len(captured))
	}
	if captured[0].Messages[0].Content != "judge this" {
		t.Errorf("unexpected captured prompt: %q", captured[0].Messages[0].Content)
	}
}

func completeOnce(t *testing.T, s *server, model string) string {
	t.Helper()

	payload, _ := json.Marshal(chatRequest{
		Model:    model,
		Messages: []chatMessage{{Role: "user", Content: "judge this"}},
	})
	req := httptest.NewRequest(http.MethodPost, "/v1/chat/completions", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	s.handleChatCompletions(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("chat completion returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp chatResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Choices) != 1 {
		t.Fatalf("expected 1 choice, got %d", len(resp.Choices))
	}
	return resp.Choices[0].Message.Content
}

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}
