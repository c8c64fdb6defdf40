package commentserver

import (
	"context"
	"errors"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_comments/internal/analysis"
)

// WordFrequencyInput runs the normalizer + aggregator over caller-provided
// texts, without touching the YouTube API.
type WordFrequencyInput struct {
	Texts   []string `json:"texts" jsonschema:"Raw texts to tokenize and count"`
	Lang    string   `json:"lang,omitempty" jsonschema:"Stopword list to apply: en, tr, or empty for none"`
	TopK    int      `json:"top_k,omitempty" jsonschema:"Ranking size (default 50)"`
	Bigrams bool     `json:"bigrams,omitempty" jsonschema:"Also rank adjacent word pairs"`
}

// WordFrequencyOutput is the ranked frequency table.
type WordFrequencyOutput struct {
	TotalTokens int                  `json:"total_tokens"`
	VocabSize   int                  `json:"vocab_size"`
	Top         []analysis.WordCount `json:"top"`
	TopBigrams  []analysis.WordCount `json:"top_bigrams,omitempty"`
}

func registerWordFrequency(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "word_frequency",
		Description: "Normalize raw texts (lowercase, strip punctuation/URLs, drop stopwords) and return the ranked word frequency table. Ties at equal counts rank lexicographically.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input WordFrequencyInput) (*mcp.CallToolResult, WordFrequencyOutput, error) {
		if len(input.Texts) == 0 {
			return nil, WordFrequencyOutput{}, errors.New("texts are required")
		}

		topK := input.TopK
		if topK <= 0 {
			topK = 50
		}

		wordFreq := make(analysis.FrequencyTable)
		bigramFreq := make(analysis.FrequencyTable)
		for _, t := range input.Texts {
			tokens := analysis.Normalize(t, input.Lang)
			wordFreq.Add(tokens)
			if input.Bigrams {
				bigramFreq.Add(analysis.Bigrams(tokens))
			}
		}

		out := WordFrequencyOutput{
			TotalTokens: wordFreq.Total(),
			VocabSize:   wordFreq.Vocab(),
			Top:         wordFreq.TopK(topK),
		}
		if input.Bigrams {
			out.TopBigrams = bigramFreq.TopK(topK)
		}
		return nil, out, nil
	})
}
