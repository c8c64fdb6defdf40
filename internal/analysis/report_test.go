package analysis

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anatolykoptev/go_comments/internal/engine"
)

func TestCreateRunDir(t *testing.T) {
	dir := t.TempDir()
	runPath, runID, err := CreateRunDir(dir, "abc123XYZ_-")
	if err != nil {
		t.Fatalf("CreateRunDir: %v", err)
	}
	if !strings.HasSuffix(runID, "__abc123XYZ_-") {
		t.Errorf("run id %q missing video suffix", runID)
	}
	for _, sub := range []string{"raw", "processed", "reports"} {
		if fi, err := os.Stat(filepath.Join(runPath, sub)); err != nil || !fi.IsDir() {
			t.Errorf("missing subdir %s: %v", sub, err)
		}
	}
}

func TestWriteRawCSVs(t *testing.T) {
	dir := t.TempDir()
	runPath, _, err := CreateRunDir(dir, "abc123XYZ_-")
	if err != nil {
		t.Fatal(err)
	}

	comments := []engine.Comment{
		{ID: "t1", Author: "alice", Text: "top level"},
		{ID: "r1", ParentID: "t1", Author: "bob", Text: "a reply, with \"quotes\""},
		{ID: "t2", Author: "carol", Text: "another\nmultiline"},
	}
	if err := WriteRawCSVs(runPath, comments); err != nil {
		t.Fatalf("WriteRawCSVs: %v", err)
	}

	counts := map[string]int{"top.csv": 2, "replies.csv": 1, "all.csv": 3}
	for name, want := range counts {
		rows := readCSV(t, filepath.Join(runPath, "raw", name))
		if len(rows)-1 != want { // minus header
			t.Errorf("%s has %d rows, want %d", name, len(rows)-1, want)
		}
	}

	// CSV round-trips quoting and newlines
	all := readCSV(t, filepath.Join(runPath, "raw", "all.csv"))
	if all[2][5] != "a reply, with \"quotes\"" {
		t.Errorf("quoted text mangled: %q", all[2][5])
	}
	if all[3][5] != "another\nmultiline" {
		t.Errorf("multiline text mangled: %q", all[3][5])
	}
}

func TestWriteProcessedCSV(t *testing.T) {
	dir := t.TempDir()
	runPath, _, err := CreateRunDir(dir, "abc123XYZ_-")
	if err != nil {
		t.Fatal(err)
	}

	comments := []engine.Comment{
		{ID: "c1", Text: "Great video!"},
		{ID: "c2", Text: ""},
	}
	cleaned := []string{"great video", ""}
	if err := WriteProcessedCSV(runPath, "en", comments, cleaned); err != nil {
		t.Fatalf("WriteProcessedCSV: %v", err)
	}

	rows := readCSV(t, filepath.Join(runPath, "processed", "en.csv"))
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3", len(rows))
	}
	header := rows[0]
	if header[len(header)-3] != "clean_text" || header[len(header)-1] != "char_count" {
		t.Errorf("unexpected header: %v", header)
	}
	if rows[1][6] != "great video" || rows[1][7] != "2" || rows[1][8] != "11" {
		t.Errorf("processed row mismatch: %v", rows[1])
	}
	if rows[2][7] != "0" {
		t.Errorf("empty clean text should count 0 words: %v", rows[2])
	}
}

func TestWriteBucketReports(t *testing.T) {
	dir := t.TempDir()
	runPath, _, err := CreateRunDir(dir, "abc123XYZ_-")
	if err != nil {
		t.Fatal(err)
	}

	res := &BucketResult{
		Bucket:   "en",
		Stats:    BucketStats{Comments: 2, UniqueAuthors: 2, AvgWords: 2.5, VocabSize: 3, TypeTokenRatio: 0.6},
		TopWords: []WordCount{{Word: "great", Count: 3}, {Word: "video", Count: 1}},
		TopBigrams: []WordCount{
			{Word: "great video", Count: 1},
		},
		TopLiked: []engine.Comment{{ID: "c1", Text: "Great video!", LikeCount: 4}},
		TimeDist: []DayCount{{Date: "2025-03-01", Count: 2}},
	}

	files, err := WriteBucketReports(runPath, "en", res)
	if err != nil {
		t.Fatalf("WriteBucketReports: %v", err)
	}

	want := []string{
		"en_top_words.csv",
		"en_top_bigrams.csv",
		"en_top_liked.csv",
		"en_time_distribution.csv",
		"en_basic_report.txt",
	}
	if len(files) != len(want) {
		t.Fatalf("got files %v, want %v", files, want)
	}
	for i, name := range want {
		if files[i] != name {
			t.Errorf("file[%d] = %q, want %q", i, files[i], name)
		}
		if _, err := os.Stat(filepath.Join(runPath, "reports", name)); err != nil {
			t.Errorf("report %s not written: %v", name, err)
		}
	}

	words := readCSV(t, filepath.Join(runPath, "reports", "en_top_words.csv"))
	if words[1][0] != "great" || words[1][1] != "3" {
		t.Errorf("top words row mismatch: %v", words[1])
	}

	report, err := os.ReadFile(filepath.Join(runPath, "reports", "en_basic_report.txt"))
	if err != nil {
		t.Fatal(err)
	}
	for _, needle := range []string{"=== EN REPORT ===", "Comments: 2", "en_top_words.csv"} {
		if !strings.Contains(string(report), needle) {
			t.Errorf("basic report missing %q", needle)
		}
	}
}

func TestWriteBucketReportsNoLikesNoDates(t *testing.T) {
	dir := t.TempDir()
	runPath, _, err := CreateRunDir(dir, "abc123XYZ_-")
	if err != nil {
		t.Fatal(err)
	}

	res := &BucketResult{
		Bucket:   "unknown",
		TopLiked: []engine.Comment{{ID: "c1", Text: "ok"}}, // zero likes
	}
	files, err := WriteBucketReports(runPath, "unknown", res)
	if err != nil {
		t.Fatalf("WriteBucketReports: %v", err)
	}
	for _, f := range files {
		if strings.Contains(f, "top_liked") || strings.Contains(f, "time_distribution") {
			t.Errorf("unexpected optional report %s", f)
		}
	}
}

func TestWriteMeta(t *testing.T) {
	dir := t.TempDir()
	runPath, runID, err := CreateRunDir(dir, "abc123XYZ_-")
	if err != nil {
		t.Fatal(err)
	}

	meta := RunMeta{
		RunID:     runID,
		Video:     engine.VideoMeta{VideoID: "abc123XYZ_-", Title: "Test"},
		SourceURL: "https://youtu.be/abc123XYZ_-",
		CreatedAt: "2025-03-01T10:00:00Z",
		Params:    RunParams{IncludeReplies: true, Order: "relevance", LangThreshold: 0.2},
	}
	if err := WriteMeta(runPath, meta); err != nil {
		t.Fatalf("WriteMeta: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(runPath, "meta.json"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"run_id"`) || !strings.Contains(string(data), "abc123XYZ_-") {
		t.Errorf("meta.json content unexpected: %s", data)
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return rows
}
