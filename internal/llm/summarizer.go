package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/reformcast/internal/model"
)

// Summarizer produces the optional narrative for a finished report.
type Summarizer struct {
	provider Provider
	config   Config
}

// NewSummarizer creates a summarizer. An empty provider yields a disabled
// summarizer, not an error.
func NewSummarizer(config Config) (*Summarizer, error) {
	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}
	return &Summarizer{provider: provider, config: config}, nil
}

// IsEnabled reports whether a provider is configured.
func (s *Summarizer) IsEnabled() bool {
	return s.provider != nil
}

// ProviderName returns the configured provider, or "".
func (s *Summarizer) ProviderName() string {
	if s.provider == nil {
		return ""
	}
	return s.provider.Name()
}

// GenerateSummary narrates report. Failures degrade to warnings on the
// returned summary; the error return is reserved for callers that need it.
// Returns nil when disabled.
func (s *Summarizer) GenerateSummary(ctx context.Context, report model.Report) (*model.LLMSummary, error) {
	if s.provider == nil {
		return nil, nil
	}

	summary := &model.LLMSummary{
		Provider:      s.provider.Name(),
		Model:         s.config.Model,
		StrictNumbers: s.config.StrictNumbers,
	}

	if !s.provider.IsAvailable(ctx) {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("LLM provider %s is not available; narrative skipped", s.provider.Name()))
		return summary, nil
	}

	summary.Enabled = true

	allowed := AllowedNumbers(report)
	resp, err := s.provider.Summarize(ctx, SummarizeRequest{
		Report:         report,
		AllowedNumbers: allowed,
		Model:          s.config.Model,
		MaxTokens:      s.config.MaxTokens,
	})
	if err != nil {
		summary.Warnings = append(summary.Warnings, fmt.Sprintf("LLM summary generation failed: %v", err))
		return summary, nil
	}

	summary.SummaryMD = resp.Summary
	if resp.Model != "" {
		summary.Model = resp.Model
	}

	summary.Warnings = append(summary.Warnings, fmt.Sprintf("Tokens used: %d", resp.TokensUsed))
	if s.config.StrictNumbers {
		summary.Warnings = append(summary.Warnings,
			fmt.Sprintf("Verified %d figures against the report", len(resp.CitedNumbers)))
	}

	return summary, nil
}

// RenderSeparateMarkdown renders the narrative as a standalone document,
// kept apart from the numeric report.
func RenderSeparateMarkdown(summary *model.LLMSummary) string {
	if summary == nil || !summary.Enabled {
		return ""
	}

	var b strings.Builder
	b.WriteString("# LLM Summary\n\n")
	b.WriteString("> **GENERATED CONTENT.** Every probability in the report was determined independently of this text.\n\n")

	fmt.Fprintf(&b, "- **Provider:** %s\n", summary.Provider)
	if summary.Model != "" {
		fmt.Fprintf(&b, "- **Model:** %s\n", summary.Model)
	}
	fmt.Fprintf(&b, "- **Strict Numbers Mode:** %t\n\n", summary.StrictNumbers)

	if summary.SummaryMD == "" {
		b.WriteString("_No summary generated._\n")
	} else {
		b.WriteString(summary.SummaryMD)
		b.WriteString("\n")
	}

	if len(summary.Warnings) > 0 {
		b.WriteString("\n## Notes\n\n")
		for _, w := range summary.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return b.String()
}
