// Package commentserver exposes the comment pipeline as MCP tools:
// comments_fetch, comments_analyze, word_frequency, runs_list, run_report.
package commentserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// RegisterTools registers all comment analysis tools on the given MCP server.
func RegisterTools(server *mcp.Server) {
	registerCommentsFetch(server)
	registerCommentsAnalyze(server)
	registerWordFrequency(server)
	registerRunsList(server)
	registerRunReport(server)
}
