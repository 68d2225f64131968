package review

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/forwauzz/section7eval/internal/config"
	"github.com/forwauzz/section7eval/internal/report"
	"github.com/forwauzz/section7eval/internal/rules"
)

// --- Template ---

func TestLoadTemplate_DefaultWhenNoPath(t *testing.T) {
	tmpl, err := LoadTemplate("")
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	out := tmpl.Build(Material{Gold: "GOLD", Output: "SORTIE", Report: "RAPPORT", Checklist: "GRILLE"})
	for _, want := range []string{"GOLD", "SORTIE", "RAPPORT", "GRILLE"} {
		if !strings.Contains(out, want) {
			t.Errorf("built prompt missing %q", want)
		}
	}
	if strings.Contains(out, "{gold}") {
		t.Error("placeholder {gold} left unsubstituted")
	}
}

func TestLoadTemplate_RejectsUnknownPlaceholder(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("Voici {surprise}"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadTemplate(path); err == nil {
		t.Error("unknown placeholder should be rejected at load time")
	}
}

func TestLoadTemplate_CustomFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("Rapport: {report}"), 0o644); err != nil {
		t.Fatal(err)
	}
	tmpl, err := LoadTemplate(path)
	if err != nil {
		t.Fatalf("LoadTemplate: %v", err)
	}
	if got := tmpl.Build(Material{Report: "X"}); got != "Rapport: X" {
		t.Errorf("Build = %q", got)
	}
}

// --- Checklist ---

func TestLoadChecklist_EmptyPathIsNil(t *testing.T) {
	c, err := LoadChecklist("")
	if err != nil {
		t.Fatalf("LoadChecklist: %v", err)
	}
	if c.Format() != "" {
		t.Errorf("nil checklist should format to empty string, got %q", c.Format())
	}
}

func TestLoadChecklist_InvalidJSONRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checklist.json")
	if err := os.WriteFile(path, []byte("{pas du json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadChecklist(path); err == nil {
		t.Error("invalid JSON should be rejected")
	}
}

func TestLoadChecklist_FormatsIndented(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checklist.json")
	if err := os.WriteFile(path, []byte(`{"critères":["en-tête","chronologie"]}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadChecklist(path)
	if err != nil {
		t.Fatalf("LoadChecklist: %v", err)
	}
	if !strings.Contains(c.Format(), "chronologie") {
		t.Errorf("Format missing checklist content: %q", c.Format())
	}
}

// --- Providers ---

func TestNewProvider_InvalidFormat(t *testing.T) {
	for _, s := range []string{"", "gpt-4o", "openai:", ":gpt-4o", "mistral:large"} {
		if _, err := NewProvider(s); err == nil {
			t.Errorf("NewProvider(%q) should fail", s)
		}
	}
}

func TestNewProvider_MissingKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	if _, err := NewProvider("openai:gpt-4o"); err == nil {
		t.Error("missing OPENAI_API_KEY should fail at construction")
	}
}

func TestOpenAIProvider_Complete(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		var req openaiRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		resp := map[string]any{
			"model": "gpt-4o",
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "Avis favorable."}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	old := openaiAPIURL
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	p := &openaiProvider{model: "gpt-4o", apiKey: "test-key"}
	resp, err := p.Complete(context.Background(), &Request{UserPrompt: "question"})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if resp.Content != "Avis favorable." {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.Model != "openai:gpt-4o" {
		t.Errorf("Model = %q", resp.Model)
	}
}

func TestAnthropicProvider_ErrorSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad model"}}`))
	}))
	defer srv.Close()

	old := anthropicAPIURL
	SetAnthropicAPIURL(srv.URL)
	defer SetAnthropicAPIURL(old)

	p := &anthropicProvider{model: "nope", apiKey: "k"}
	_, err := p.Complete(context.Background(), &Request{UserPrompt: "q"})
	if err == nil || !strings.Contains(err.Error(), "bad model") {
		t.Errorf("error = %v, want API message surfaced", err)
	}
}

// --- Run ---

func TestRun_BuildsPromptFromReportAndFiles(t *testing.T) {
	dir := t.TempDir()
	goldPath := filepath.Join(dir, "gold.md")
	outPath := filepath.Join(dir, "out.md")
	if err := os.WriteFile(goldPath, []byte("texte de référence"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(outPath, []byte("texte produit"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Messages[len(req.Messages)-1].Content
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "gpt-4o",
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	old := openaiAPIURL
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	rep := &report.Report{
		ID:       "case_A",
		GoldPath: goldPath, OutputPath: outPath,
		Issues: []rules.Outcome{{Rule: "header", OK: false}},
	}
	cfg := config.ReviewConfig{ExcerptLimit: 2000, Temperature: 0.1}

	answer, err := Run(context.Background(), cfg, rep, &openaiProvider{model: "gpt-4o", apiKey: "k"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if answer != "ok" {
		t.Errorf("answer = %q", answer)
	}
	for _, want := range []string{"texte de référence", "texte produit", `"rule": "header"`} {
		if !strings.Contains(gotPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestRun_MissingOutputUsesMarker(t *testing.T) {
	dir := t.TempDir()
	goldPath := filepath.Join(dir, "gold.md")
	if err := os.WriteFile(goldPath, []byte("référence"), 0o644); err != nil {
		t.Fatal(err)
	}

	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req openaiRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Messages[len(req.Messages)-1].Content
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":   "gpt-4o",
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer srv.Close()

	old := openaiAPIURL
	SetOpenAIAPIURL(srv.URL)
	defer SetOpenAIAPIURL(old)

	rep := &report.Report{
		ID:       "case_B",
		GoldPath: goldPath, OutputPath: filepath.Join(dir, "absent.md"),
	}
	_, err := Run(context.Background(), config.ReviewConfig{ExcerptLimit: 100}, rep, &openaiProvider{model: "m", apiKey: "k"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(gotPrompt, missingOutputMarker) {
		t.Errorf("prompt should carry the missing-output marker, got %q", gotPrompt)
	}
}

func TestRun_MissingGoldIsError(t *testing.T) {
	rep := &report.Report{GoldPath: filepath.Join(t.TempDir(), "absent.md")}
	_, err := Run(context.Background(), config.ReviewConfig{ExcerptLimit: 100}, rep, nil)
	if err == nil {
		t.Error("missing gold should fail the review")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("court", 10); got != "court" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("éléphantesque", 5); got != "éléph..." {
		t.Errorf("truncate = %q", got)
	}
}
