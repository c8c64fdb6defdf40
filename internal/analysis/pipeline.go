package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/anatolykoptev/go_comments/internal/engine"
	"github.com/anatolykoptev/go_comments/internal/engine/sources"
)

// The pipeline: fetch → dedup → bucket → normalize → aggregate → report.
// One video per invocation, synchronous, no state shared across runs.

// RunInput controls one analysis run.
type RunInput struct {
	URL            string `json:"url" jsonschema:"YouTube URL or 11-char video ID"`
	IncludeReplies *bool  `json:"include_replies,omitempty" jsonschema:"Also fetch reply threads (default: true)"`
	Order          string `json:"order,omitempty" jsonschema:"Comment order: relevance (default) or time"`
	MaxPages       int    `json:"max_pages,omitempty" jsonschema:"Cap on commentThreads pages (default: unlimited)"`
	Label          bool   `json:"label,omitempty" jsonschema:"Run LLM sentiment/topic labeling on the top comments"`
}

// BucketResult is the analysis of one language bucket.
type BucketResult struct {
	Bucket     string           `json:"bucket"`
	Stats      BucketStats      `json:"stats"`
	TopWords   []WordCount      `json:"top_words"`
	TopBigrams []WordCount      `json:"top_bigrams"`
	TopLiked   []engine.Comment `json:"-"`
	TimeDist   []DayCount       `json:"-"`
	Files      []string         `json:"files,omitempty"`
}

// RunResult is the output of one full pipeline run.
type RunResult struct {
	RunID    string                   `json:"run_id"`
	RunPath  string                   `json:"run_path"`
	Video    engine.VideoMeta         `json:"video"`
	Fetched  int                      `json:"fetched"`
	TopLevel int                      `json:"top_level"`
	Replies  int                      `json:"replies"`
	Langs    map[string]int           `json:"langs"`
	Buckets  map[string]*BucketResult `json:"buckets"`
	Labels   *engine.CommentLabels    `json:"labels,omitempty"`
	Elapsed  string                   `json:"elapsed"`
}

// Run executes the full pipeline for one video.
func Run(ctx context.Context, input RunInput) (*RunResult, error) {
	start := time.Now()

	fetched, err := sources.FetchComments(ctx, engine.FetchInput{
		URL:            input.URL,
		IncludeReplies: input.IncludeReplies,
		Order:          input.Order,
		MaxPages:       input.MaxPages,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch comments: %w", err)
	}

	comments := DedupComments(fetched.Comments)

	runPath, runID, err := CreateRunDir(dataDir(), fetched.Video.VideoID)
	if err != nil {
		return nil, err
	}

	params := RunParams{
		IncludeReplies: input.IncludeReplies == nil || *input.IncludeReplies,
		Order:          orderOrDefault(input.Order),
		MaxPages:       input.MaxPages,
		LangThreshold:  langThreshold(),
	}
	meta := RunMeta{
		RunID:     runID,
		Video:     fetched.Video,
		SourceURL: input.URL,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		Params:    params,
	}
	if err := WriteMeta(runPath, meta); err != nil {
		return nil, err
	}
	if err := WriteRawCSVs(runPath, comments); err != nil {
		return nil, err
	}

	result := &RunResult{
		RunID:    runID,
		RunPath:  runPath,
		Video:    fetched.Video,
		Fetched:  len(comments),
		TopLevel: fetched.TopLevel,
		Replies:  fetched.Replies,
		Buckets:  make(map[string]*BucketResult),
	}

	// Language pass: detect once per comment, then decide buckets from the
	// distribution.
	langs := make([]string, len(comments))
	langCounts := make(map[string]int)
	for i, c := range comments {
		langs[i] = DetectLang(c.Text)
		langCounts[langs[i]]++
	}
	result.Langs = langCounts
	analyze := DecideBuckets(langCounts, langThreshold())

	byBucket := make(map[string][]engine.Comment)
	for i, c := range comments {
		b := BucketFor(langs[i], analyze)
		byBucket[b] = append(byBucket[b], c)
	}

	for bucket, set := range byBucket {
		br, err := analyzeBucket(runPath, bucket, set)
		if err != nil {
			return nil, fmt.Errorf("bucket %s: %w", bucket, err)
		}
		result.Buckets[bucket] = br
	}

	rec := RunRecord{
		RunID:        runID,
		VideoID:      fetched.Video.VideoID,
		Title:        fetched.Video.Title,
		ChannelTitle: fetched.Video.ChannelTitle,
		RunPath:      runPath,
		Params:       encodeParams(params),
	}
	if err := SaveRun(ctx, rec, comments); err != nil {
		return nil, err
	}
	if a := GetArchive(); a != nil {
		if err := a.ArchiveRun(ctx, rec, comments); err != nil {
			slog.Warn("archive failed, run kept local", slog.String("run_id", runID), slog.Any("error", err))
		}
	}

	if input.Label && engine.LLMEnabled() {
		labels, err := labelTopComments(ctx, fetched.Video.Title, comments)
		if err != nil {
			slog.Warn("labeling failed", slog.String("run_id", runID), slog.Any("error", err))
		} else {
			result.Labels = labels
		}
	}

	engine.IncrAnalyzeRuns()
	result.Elapsed = time.Since(start).Round(time.Millisecond).String()
	slog.Info("analysis run complete",
		slog.String("run_id", runID),
		slog.Int("comments", len(comments)),
		slog.Int("buckets", len(result.Buckets)),
		slog.String("elapsed", result.Elapsed),
	)
	return result, nil
}

// analyzeBucket normalizes one bucket, aggregates frequencies, computes
// stats, and writes the bucket's processed CSV and reports.
func analyzeBucket(runPath, bucket string, comments []engine.Comment) (*BucketResult, error) {
	cleaned := make([]string, len(comments))
	wordFreq := make(FrequencyTable)
	bigramFreq := make(FrequencyTable)
	for i, c := range comments {
		cleaned[i] = CleanText(c.Text)
		tokens := Normalize(c.Text, bucket)
		wordFreq.Add(tokens)
		bigramFreq.Add(Bigrams(tokens))
	}

	br := &BucketResult{
		Bucket:     bucket,
		Stats:      ComputeStats(comments, cleaned, wordFreq),
		TopWords:   wordFreq.TopK(topWords()),
		TopBigrams: bigramFreq.TopK(topBigrams()),
		TopLiked:   TopLiked(comments, topLiked()),
		TimeDist:   TimeDistribution(comments),
	}

	if err := WriteProcessedCSV(runPath, bucket, comments, cleaned); err != nil {
		return nil, err
	}
	files, err := WriteBucketReports(runPath, bucket, br)
	if err != nil {
		return nil, err
	}
	br.Files = files
	return br, nil
}

// labelTopComments runs the LLM pass over the most-liked comments.
func labelTopComments(ctx context.Context, videoTitle string, comments []engine.Comment) (*engine.CommentLabels, error) {
	top := TopLiked(comments, 30)
	if len(top) == 0 {
		top = comments
		if len(top) > 30 {
			top = top[:30]
		}
	}
	texts := make([]string, 0, len(top))
	for _, c := range top {
		if c.Text != "" {
			texts = append(texts, c.Text)
		}
	}
	return engine.LabelComments(ctx, videoTitle, texts)
}

// --- config accessors with defaults ---

func dataDir() string {
	if engine.Cfg.DataDir != "" {
		return engine.Cfg.DataDir
	}
	return filepath.Join(os.Getenv("HOME"), ".go_comments")
}

func langThreshold() float64 {
	if engine.Cfg.LangShareThreshold > 0 {
		return engine.Cfg.LangShareThreshold
	}
	return 0.20
}

func topWords() int {
	if engine.Cfg.TopWords > 0 {
		return engine.Cfg.TopWords
	}
	return 50
}

func topBigrams() int {
	if engine.Cfg.TopBigrams > 0 {
		return engine.Cfg.TopBigrams
	}
	return 50
}

func topLiked() int {
	if engine.Cfg.TopLiked > 0 {
		return engine.Cfg.TopLiked
	}
	return 15
}

func orderOrDefault(order string) string {
	if order == "" {
		return engine.Cfg.CommentOrder
	}
	return order
}
