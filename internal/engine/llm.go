package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Optional sentiment/topic labeling. Runs only when an LLM client is
// configured; the analysis pipeline is complete without it.

const labelPrompt = `You are analyzing viewer comments on a YouTube video titled %q.

Comments (one per line, most relevant first):
%s

Return ONLY a JSON object, no markdown:
{"sentiment": "positive|neutral|negative|mixed", "topics": ["up to 5 short topic phrases"], "summary": "2-3 plain sentences describing what commenters talk about"}`

// LLMEnabled reports whether an LLM client is configured.
func LLMEnabled() bool { return cfg.LLMClient != nil }

// stripFences removes markdown code fences from LLM output.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CallLLM sends a prompt using the configured temperature and max_tokens.
func CallLLM(ctx context.Context, prompt string) (string, error) {
	if cfg.LLMClient == nil {
		return "", errors.New("llm: no client configured")
	}
	metrics.LLMCalls.Add(1)
	resp, err := cfg.LLMClient.Complete(ctx, "", prompt)
	if err != nil {
		metrics.LLMErrors.Add(1)
		return "", err
	}
	return stripFences(resp), nil
}

// LabelComments asks the LLM for sentiment, topics, and a short summary of
// the given comment texts. Comments are truncated so the prompt stays small.
func LabelComments(ctx context.Context, videoTitle string, texts []string) (*CommentLabels, error) {
	if len(texts) == 0 {
		return nil, errors.New("llm: no comments to label")
	}

	var sb strings.Builder
	for _, t := range texts {
		t = strings.ReplaceAll(t, "\n", " ")
		sb.WriteString("- ")
		sb.WriteString(TruncateRunes(t, 200, "…"))
		sb.WriteByte('\n')
	}

	raw, err := CallLLM(ctx, fmt.Sprintf(labelPrompt, videoTitle, sb.String()))
	if err != nil {
		return nil, fmt.Errorf("label comments: %w", err)
	}

	var out CommentLabels
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("label comments: decode %q: %w", Truncate(raw, 120), err)
	}
	out.Sentiment = strings.ToLower(strings.TrimSpace(out.Sentiment))
	return &out, nil
}
