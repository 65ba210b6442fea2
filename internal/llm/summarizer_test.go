package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/reformcast/internal/model"
)

// MockProvider implements the Provider interface for testing
type MockProvider struct {
	name      string
	available bool
	response  *SummarizeResponse
	err       error

	lastRequest SummarizeRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error) {
	m.lastRequest = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *MockProvider) IsAvailable(ctx context.Context) bool {
	return m.available
}

func sampleReport() model.Report {
	return model.Report{
		Subject:  "Labor reform",
		BaseCase: model.Posterior{Success: 0.11, Failure: 0.89},
		Scenarios: []model.ScenarioResult{
			{Name: "Base Case (Most Likely)", Success: 0.11, Failure: 0.89},
			{Name: "Worst Case", Success: 0.01, Failure: 0.99},
		},
		Sensitivity: []model.SensitivityResult{
			{Variable: "legislative_majority", BaseProbability: 0.11, NewProbability: 0.02, Change: -0.09, PercentChange: -81.818},
		},
		Simulation: model.SimulationSummary{Trials: 10000, Seed: 42, SuccessRate: 0.1, MeanProbability: 0.1},
	}
}

func TestNewSummarizer_DisabledProvider(t *testing.T) {
	summarizer, err := NewSummarizer(Config{Provider: ""})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if summarizer.IsEnabled() {
		t.Error("Expected summarizer to be disabled")
	}
	if summarizer.ProviderName() != "" {
		t.Error("Expected empty provider name when disabled")
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleReport())
	if err != nil || summary != nil {
		t.Errorf("Expected nil summary and no error when disabled, got %v, %v", summary, err)
	}
}

func TestNewSummarizer_UnknownProvider(t *testing.T) {
	if _, err := NewSummarizer(Config{Provider: "nope"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
}

func TestSummarizer_GenerateSummary_ProviderUnavailable(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: false},
		config:   Config{StrictNumbers: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleReport())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if summary == nil {
		t.Fatal("Expected summary object with warnings")
	}
	if summary.Enabled {
		t.Error("Expected summary to be marked as disabled")
	}
	if len(summary.Warnings) == 0 || !strings.Contains(summary.Warnings[0], "not available") {
		t.Errorf("Expected unavailability warning, got %v", summary.Warnings)
	}
}

func TestSummarizer_GenerateSummary_Success(t *testing.T) {
	mock := &MockProvider{
		name:      "test-provider",
		available: true,
		response: &SummarizeResponse{
			Summary:      "Success sits at 11.0%.",
			CitedNumbers: []string{"11.0"},
			Model:        "test-model",
			TokensUsed:   150,
		},
	}
	summarizer := &Summarizer{
		provider: mock,
		config:   Config{Model: "test-model", StrictNumbers: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleReport())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !summary.Enabled {
		t.Error("Expected summary to be enabled")
	}
	if summary.Provider != "test-provider" {
		t.Errorf("Expected provider 'test-provider', got '%s'", summary.Provider)
	}
	if summary.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", summary.Model)
	}
	if !summary.StrictNumbers {
		t.Error("Expected strict numbers mode to be enabled")
	}
	if summary.SummaryMD != "Success sits at 11.0%." {
		t.Errorf("Expected summary text to match, got '%s'", summary.SummaryMD)
	}

	joined := strings.Join(summary.Warnings, "\n")
	if !strings.Contains(joined, "Tokens used: 150") {
		t.Error("Expected warning about tokens used")
	}
	if !strings.Contains(joined, "Verified 1 figures") {
		t.Errorf("Expected verification note, got %v", summary.Warnings)
	}

	if len(mock.lastRequest.AllowedNumbers) == 0 {
		t.Error("Expected provider to receive an allowlist")
	}
}

func TestSummarizer_GenerateSummary_ProviderError(t *testing.T) {
	summarizer := &Summarizer{
		provider: &MockProvider{name: "test-provider", available: true, err: errors.New("API rate limit exceeded")},
		config:   Config{StrictNumbers: true},
	}

	summary, err := summarizer.GenerateSummary(context.Background(), sampleReport())
	if err != nil {
		t.Errorf("Expected no error (graceful degradation), got %v", err)
	}
	if summary == nil || !summary.Enabled {
		t.Fatal("Expected enabled summary carrying the failure")
	}
	if summary.SummaryMD != "" {
		t.Errorf("Expected no summary text, got %q", summary.SummaryMD)
	}

	found := false
	for _, w := range summary.Warnings {
		if strings.Contains(w, "failed") && strings.Contains(w, "rate limit") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected warning to mention error: %v", summary.Warnings)
	}
}

func TestRenderSeparateMarkdown(t *testing.T) {
	if RenderSeparateMarkdown(nil) != "" {
		t.Error("Expected empty markdown when nil")
	}
	if RenderSeparateMarkdown(&model.LLMSummary{Enabled: false}) != "" {
		t.Error("Expected empty markdown when disabled")
	}

	md := RenderSeparateMarkdown(&model.LLMSummary{
		Enabled:       true,
		Provider:      "openai",
		Model:         "gpt-4o-mini",
		StrictNumbers: true,
		SummaryMD:     "Generated narrative.",
		Warnings:      []string{"Tokens used: 150"},
	})

	for _, want := range []string{
		"# LLM Summary",
		"GENERATED CONTENT",
		"determined independently",
		"openai",
		"gpt-4o-mini",
		"Strict Numbers Mode:** true",
		"Generated narrative.",
		"## Notes",
		"Tokens used: 150",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Expected markdown to contain %q", want)
		}
	}

	empty := RenderSeparateMarkdown(&model.LLMSummary{Enabled: true, Provider: "p"})
	if !strings.Contains(empty, "No summary generated") {
		t.Error("Expected message about no summary")
	}
}

func TestBuildPrompt(t *testing.T) {
	report := sampleReport()
	prompt := BuildPrompt(report, AllowedNumbers(report))

	for _, want := range []string{
		"CRITICAL RULES",
		"ONLY quote percentages",
		"Subject: Labor reform",
		"Base case success: 11.0%",
		"10000 trials (seed 42)",
		"- Worst Case: 1.0%",
		"legislative_majority: 11.0% -> 2.0%",
		"- 11.0%",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Expected prompt to contain %q", want)
		}
	}

	if !strings.Contains(BuildPrompt(model.Report{}, nil), "No figures available") {
		t.Error("Expected placeholder for empty allowlist")
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.Provider != "" {
		t.Errorf("Expected provider to be empty (disabled), got '%s'", config.Provider)
	}
	if !config.StrictNumbers {
		t.Error("Expected strict numbers to be enabled by default")
	}
	if config.Timeout <= 0 || config.MaxTokens <= 0 {
		t.Error("Expected positive timeout and max tokens")
	}
}
