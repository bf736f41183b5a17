package normalize

import (
	"context"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/francids/escruta/internal/interfaces"
)

// markdownSystemPrompt instructs the generation engine to rewrite raw text
// as clean Markdown and nothing else.
const markdownSystemPrompt = "You are an expert content processor. " +
	"Convert the provided raw text to clean, well-structured Markdown. " +
	"Omit headers, footers, navigation menus, and advertisements. " +
	"Preserve the meaningful content faithfully. " +
	"Output only the formatted content with no commentary."

// Normalizer rewrites raw acquired text into clean Markdown using the
// generation engine when the caller opts in. Failure is non-fatal: the
// deterministic fallback collapses whitespace instead, so Normalize never
// returns an error.
type Normalizer struct {
	llm    interfaces.LLMService
	logger arbor.ILogger
}

// NewNormalizer creates a content normalizer backed by the given engine.
func NewNormalizer(llm interfaces.LLMService, logger arbor.ILogger) *Normalizer {
	return &Normalizer{
		llm:    llm,
		logger: logger,
	}
}

// Normalize returns a cleaned version of raw and whether the engine
// rewrite was used. The engine runs only when aiConvert is set; the
// engine output is taken when the call succeeds and yields non-blank
// text, and the deterministic cleanup result is returned with a false
// flag otherwise.
func (n *Normalizer) Normalize(ctx context.Context, raw string, aiConvert bool) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}

	if !aiConvert {
		return deterministicCleanup(raw), false
	}

	messages := []interfaces.Message{
		{Role: "system", Content: markdownSystemPrompt},
		{Role: "user", Content: trimmed},
	}

	output, err := n.llm.Chat(ctx, messages)
	if err != nil {
		n.logger.Warn().
			Err(err).
			Int("raw_length", len(raw)).
			Msg("Markdown conversion failed, using deterministic cleanup")
		return deterministicCleanup(raw), false
	}

	output = strings.TrimSpace(output)
	if output == "" {
		n.logger.Warn().
			Int("raw_length", len(raw)).
			Msg("Markdown conversion returned blank output, using deterministic cleanup")
		return deterministicCleanup(raw), false
	}

	return output, true
}

var blankLineRegex = regexp.MustCompile(`\n{3,}`)

// deterministicCleanup collapses runs of blank lines and trims each line.
// It accepts any input and cannot fail.
func deterministicCleanup(raw string) string {
	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	cleaned := strings.Join(lines, "\n")
	cleaned = blankLineRegex.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}
