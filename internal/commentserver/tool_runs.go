package commentserver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_comments/internal/analysis"
)

// RunsListInput is the input for runs_list.
type RunsListInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"Max runs returned (default 20)"`
}

// RunsListOutput is the output for runs_list.
type RunsListOutput struct {
	Runs  []analysis.RunRecord `json:"runs"`
	Total int                  `json:"total"`
}

func registerRunsList(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "runs_list",
		Description: "List past analysis runs from the local run index, newest first.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input RunsListInput) (*mcp.CallToolResult, RunsListOutput, error) {
		runs, err := analysis.ListRuns(ctx, input.Limit)
		if err != nil {
			return nil, RunsListOutput{}, err
		}
		return nil, RunsListOutput{Runs: runs, Total: len(runs)}, nil
	})
}

// RunReportInput is the input for run_report.
type RunReportInput struct {
	RunID  string `json:"run_id" jsonschema:"Run ID as returned by comments_analyze or runs_list"`
	Bucket string `json:"bucket,omitempty" jsonschema:"Language bucket (en, tr, others, unknown); empty returns every bucket's report"`
}

// RunReportOutput is the output for run_report.
type RunReportOutput struct {
	RunID   string   `json:"run_id"`
	VideoID string   `json:"video_id"`
	Report  string   `json:"report"`
	Files   []string `json:"files"`
}

func registerRunReport(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "run_report",
		Description: "Return the basic text report(s) of a past analysis run, plus the report file names on disk.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input RunReportInput) (*mcp.CallToolResult, RunReportOutput, error) {
		if input.RunID == "" {
			return nil, RunReportOutput{}, errors.New("run_id is required")
		}

		rec, err := analysis.GetRun(ctx, input.RunID)
		if err != nil {
			return nil, RunReportOutput{}, err
		}

		reportsDir := filepath.Join(rec.RunPath, "reports")
		entries, err := os.ReadDir(reportsDir)
		if err != nil {
			return nil, RunReportOutput{}, fmt.Errorf("read reports of %s: %w", input.RunID, err)
		}

		var files []string
		var reports []string
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			name := e.Name()
			files = append(files, name)
			if !strings.HasSuffix(name, "_basic_report.txt") {
				continue
			}
			if input.Bucket != "" && !strings.HasPrefix(name, input.Bucket+"_") {
				continue
			}
			data, err := os.ReadFile(filepath.Join(reportsDir, name))
			if err != nil {
				continue
			}
			reports = append(reports, string(data))
		}
		sort.Strings(files)

		if len(reports) == 0 {
			return nil, RunReportOutput{}, fmt.Errorf("no report for bucket %q in run %s", input.Bucket, input.RunID)
		}

		return nil, RunReportOutput{
			RunID:   rec.RunID,
			VideoID: rec.VideoID,
			Report:  strings.Join(reports, "\n"),
			Files:   files,
		}, nil
	})
}
