package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/reformcast/internal/model"
)

// Provider defines the interface for LLM providers
type Provider interface {
	// Name returns the provider name
	Name() string

	// Summarize generates a narrative of the report in strict numbers mode
	Summarize(ctx context.Context, req SummarizeRequest) (*SummarizeResponse, error)

	// IsAvailable checks if the provider is properly configured and accessible
	IsAvailable(ctx context.Context) bool
}

// SummarizeRequest contains the input for LLM summarization
type SummarizeRequest struct {
	// Report is the finished analysis to narrate
	Report model.Report

	// AllowedNumbers is the STRICT allowlist of percentages the LLM may quote.
	// Any other percentage in the output is treated as a leak.
	AllowedNumbers []string

	// Prompt is an optional custom prompt (if empty, use default)
	Prompt string

	// Model is the specific model to use (provider-specific)
	Model string

	// MaxTokens limits the response length
	MaxTokens int
}

// SummarizeResponse contains the LLM's summary output
type SummarizeResponse struct {
	// Summary is the generated summary text
	Summary string

	// CitedNumbers are the percentages found in the summary (for verification)
	CitedNumbers []string

	// Model is the model that generated the response
	Model string

	// TokensUsed tracks token consumption
	TokensUsed int
}

// Config holds LLM provider configuration
type Config struct {
	// Provider name: "openai", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// StrictNumbers enforces the percentage allowlist (should always be true)
	StrictNumbers bool

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:      "", // Disabled by default
		Model:         "",
		Timeout:       30,
		StrictNumbers: true,
		MaxTokens:     600,
	}
}

// BuildPrompt constructs the default prompt for a strict-numbers narrative.
func BuildPrompt(report model.Report, allowed []string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `You are summarizing a reformcast report. reformcast estimates the probability that a labor reform is implemented from a fixed probability table - it does NOT forecast with certainty.

CRITICAL RULES:
1. You MUST ONLY quote percentages from this allowed list:
%s

2. DO NOT compute, round differently, or invent any other figure.
3. Describe probabilities as model estimates, never as predictions of fact.
4. Mention the most influential factor and the base case.

Report Summary:
- Subject: %s
- Base case success: %s
- Simulation: %d trials (seed %d), success rate %s
- Mean success probability: %s (95%% range %s to %s)

Scenarios:
`, joinNumbers(allowed), report.Subject,
		formatPercent(report.BaseCase.Success),
		report.Simulation.Trials, report.Simulation.Seed,
		formatPercent(report.Simulation.SuccessRate),
		formatPercent(report.Simulation.MeanProbability),
		formatPercent(report.Simulation.ProbCILower),
		formatPercent(report.Simulation.ProbCIUpper))

	for _, s := range report.Scenarios {
		fmt.Fprintf(&b, "- %s: %s\n", s.Name, formatPercent(s.Success))
	}

	b.WriteString("\nSensitivity (flip one factor of the base case):\n")
	for i, s := range report.Sensitivity {
		if i >= 3 {
			break
		}
		fmt.Fprintf(&b, "- %s: %s -> %s\n", s.Variable, formatPercent(s.BaseProbability), formatPercent(s.NewProbability))
	}

	b.WriteString("\nProvide a 3-4 sentence summary of what drives the outcome.")

	return b.String()
}

// Helper functions

func joinNumbers(numbers []string) string {
	if len(numbers) == 0 {
		return "(No figures available)"
	}
	var b strings.Builder
	for i, n := range numbers {
		if i >= 40 { // Keep the prompt bounded
			fmt.Fprintf(&b, "\n... and %d more", len(numbers)-40)
			break
		}
		fmt.Fprintf(&b, "\n- %s%%", n)
	}
	return b.String()
}

func formatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p*100)
}
