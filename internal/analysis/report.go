package analysis

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

// Report writing. Every analysis run gets its own folder under
// <DataDir>/runs with stable file names:
//
//	runs/<stamp>__<videoID>/
//	  meta.json
//	  raw/{top,replies,all}.csv
//	  processed/<bucket>.csv
//	  reports/<bucket>_top_words.csv
//	  reports/<bucket>_top_bigrams.csv
//	  reports/<bucket>_basic_report.txt
//	  reports/<bucket>_top_liked.csv      (when likes are present)
//	  reports/<bucket>_time_distribution.csv

// RunMeta is persisted as meta.json at the run root.
type RunMeta struct {
	RunID     string           `json:"run_id"`
	Video     engine.VideoMeta `json:"video"`
	SourceURL string           `json:"source_url"`
	CreatedAt string           `json:"created_at"`
	Params    RunParams        `json:"params"`
}

// RunParams records the knobs the run was executed with.
type RunParams struct {
	IncludeReplies bool    `json:"include_replies"`
	Order          string  `json:"order"`
	MaxPages       int     `json:"max_pages,omitempty"`
	LangThreshold  float64 `json:"lang_threshold"`
}

// CreateRunDir creates runs/<stamp>__<videoID> with its subfolders.
func CreateRunDir(dataDir, videoID string) (runPath, runID string, err error) {
	stamp := time.Now().UTC().Format("20060102_150405")
	runID = stamp + "__" + videoID
	runPath = filepath.Join(dataDir, "runs", runID)
	for _, sub := range []string{"raw", "processed", "reports"} {
		if err := os.MkdirAll(filepath.Join(runPath, sub), 0o750); err != nil {
			return "", "", fmt.Errorf("create run dir: %w", err)
		}
	}
	return runPath, runID, nil
}

// WriteMeta writes meta.json at the run root.
func WriteMeta(runPath string, meta RunMeta) error {
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal meta: %w", err)
	}
	return os.WriteFile(filepath.Join(runPath, "meta.json"), data, 0o640)
}

var rawHeader = []string{"comment_id", "parent_id", "author", "like_count", "published_at", "text"}

// WriteRawCSVs splits the comment set into raw/top.csv, raw/replies.csv,
// and raw/all.csv.
func WriteRawCSVs(runPath string, comments []engine.Comment) error {
	var top, replies []engine.Comment
	for _, c := range comments {
		if c.IsReply() {
			replies = append(replies, c)
		} else {
			top = append(top, c)
		}
	}
	files := map[string][]engine.Comment{
		"top.csv":     top,
		"replies.csv": replies,
		"all.csv":     comments,
	}
	for name, set := range files {
		if err := writeCommentCSV(filepath.Join(runPath, "raw", name), set); err != nil {
			return err
		}
	}
	return nil
}

func writeCommentCSV(path string, comments []engine.Comment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rawHeader); err != nil {
		return err
	}
	for _, c := range comments {
		rec := []string{c.ID, c.ParentID, c.Author, strconv.Itoa(c.LikeCount), c.PublishedAt, c.Text}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteProcessedCSV writes processed/<bucket>.csv with the cleaned text and
// per-comment counts alongside the raw columns.
func WriteProcessedCSV(runPath, bucket string, comments []engine.Comment, cleaned []string) error {
	path := filepath.Join(runPath, "processed", bucket+".csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append(append([]string{}, rawHeader...), "clean_text", "word_count", "char_count")
	if err := w.Write(header); err != nil {
		return err
	}
	for i, c := range comments {
		clean := ""
		if i < len(cleaned) {
			clean = cleaned[i]
		}
		words := 0
		if clean != "" {
			words = len(strings.Fields(clean))
		}
		rec := []string{
			c.ID, c.ParentID, c.Author, strconv.Itoa(c.LikeCount), c.PublishedAt, c.Text,
			clean, strconv.Itoa(words), strconv.Itoa(len([]rune(clean))),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// WriteBucketReports writes the per-bucket report files with stable names
// and returns the file names written.
func WriteBucketReports(runPath, bucket string, res *BucketResult) ([]string, error) {
	reports := filepath.Join(runPath, "reports")
	var written []string

	wordsName := bucket + "_top_words.csv"
	if err := writeRankCSV(filepath.Join(reports, wordsName), "word", res.TopWords); err != nil {
		return nil, err
	}
	written = append(written, wordsName)

	bigramsName := bucket + "_top_bigrams.csv"
	if err := writeRankCSV(filepath.Join(reports, bigramsName), "bigram", res.TopBigrams); err != nil {
		return nil, err
	}
	written = append(written, bigramsName)

	if len(res.TopLiked) > 0 && res.TopLiked[0].LikeCount > 0 {
		likedName := bucket + "_top_liked.csv"
		if err := writeCommentCSV(filepath.Join(reports, likedName), res.TopLiked); err != nil {
			return nil, err
		}
		written = append(written, likedName)
	}

	if len(res.TimeDist) > 0 {
		timeName := bucket + "_time_distribution.csv"
		if err := writeTimeCSV(filepath.Join(reports, timeName), res.TimeDist); err != nil {
			return nil, err
		}
		written = append(written, timeName)
	}

	reportName := bucket + "_basic_report.txt"
	if err := writeBasicReport(filepath.Join(reports, reportName), bucket, res, written); err != nil {
		return nil, err
	}
	written = append(written, reportName)
	return written, nil
}

func writeRankCSV(path, column string, ranked []WordCount) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{column, "count"}); err != nil {
		return err
	}
	for _, wc := range ranked {
		if err := w.Write([]string{wc.Word, strconv.Itoa(wc.Count)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTimeCSV(path string, days []DayCount) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "comment_count"}); err != nil {
		return err
	}
	for _, d := range days {
		if err := w.Write([]string{d.Date, strconv.Itoa(d.Count)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeBasicReport(path, bucket string, res *BucketResult, files []string) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "=== %s REPORT ===\n", strings.ToUpper(bucket))
	fmt.Fprintf(&sb, "Comments: %d\n", res.Stats.Comments)
	fmt.Fprintf(&sb, "Unique authors: %d\n", res.Stats.UniqueAuthors)
	fmt.Fprintf(&sb, "Avg words: %.2f\n", res.Stats.AvgWords)
	fmt.Fprintf(&sb, "Avg chars: %.2f\n", res.Stats.AvgChars)
	fmt.Fprintf(&sb, "Vocab size: %d\n", res.Stats.VocabSize)
	fmt.Fprintf(&sb, "Type-Token Ratio: %.4f\n\n", res.Stats.TypeTokenRatio)

	sb.WriteString("OUTPUT FILES:\n")
	for _, f := range files {
		fmt.Fprintf(&sb, "- %s\n", f)
	}
	return os.WriteFile(path, []byte(sb.String()), 0o640)
}
