package server

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/nao1215/crewguard/internal/model"
	"github.com/nao1215/crewguard/internal/pipeline"
)

// CheckSiteToolName is the MCP tool name.
const CheckSiteToolName = "check_site"

// CheckSiteInput is the MCP tool input schema.
type CheckSiteInput struct {
	URL string `json:"url" jsonschema:"absolute http or https URL of the site to check"`
}

// CheckSiteOutput is the MCP tool output schema.
//
// Design decision: findings are sent as their rendered text rather than as
// model.Finding. The tool schema is inferred from Go types, and Finding
// marshals differently from its field layout.
type CheckSiteOutput struct {
	URL           string   `json:"url" jsonschema:"checked URL"`
	Verdict       string   `json:"verdict" jsonschema:"allowed, partial or blocked"`
	Findings      []string `json:"findings" jsonschema:"observations in the order they were made"`
	LegalRisk     []string `json:"legalRisk" jsonschema:"legal risk lines"`
	SocialRisk    []string `json:"socialRisk" jsonschema:"social risk lines"`
	TechnicalRisk []string `json:"technicalRisk" jsonschema:"technical risk lines"`
	Suggestions   []string `json:"suggestions" jsonschema:"one suggestion per risk category plus a closing reminder"`
}

// NewCheckSiteOutput converts a report to the tool output.
func NewCheckSiteOutput(report *model.Report) CheckSiteOutput {
	return CheckSiteOutput{
		URL:           report.URL,
		Verdict:       string(report.Verdict),
		Findings:      report.FindingTexts(),
		LegalRisk:     report.LegalRisk,
		SocialRisk:    report.SocialRisk,
		TechnicalRisk: report.TechnicalRisk,
		Suggestions:   report.Suggestions,
	}
}

// NewCheckSiteHandler returns the check_site tool handler.
// Pass the returned function to mcp.AddTool.
func NewCheckSiteHandler(checker pipeline.SiteChecker) func(context.Context, *mcp.CallToolRequest, CheckSiteInput) (*mcp.CallToolResult, CheckSiteOutput, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input CheckSiteInput) (*mcp.CallToolResult, CheckSiteOutput, error) {
		report, err := checker.CheckSite(ctx, input.URL)
		if err != nil {
			return nil, CheckSiteOutput{}, err
		}
		return nil, NewCheckSiteOutput(report), nil
	}
}

// NewMCPServer creates an MCP server exposing the check_site tool.
func NewMCPServer(checker pipeline.SiteChecker, version string) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "crewguard",
			Version: version,
		}, nil,
	)

	mcp.AddTool(server, &mcp.Tool{
		Name:        CheckSiteToolName,
		Description: "Check whether automated data collection from a website is allowed, partially restricted or blocked, with legal, social and technical risks",
	}, NewCheckSiteHandler(checker))

	return server
}

// ServeStdio runs the MCP server over stdin/stdout until ctx is done or the
// client disconnects.
func ServeStdio(ctx context.Context, server *mcp.Server) error {
	return server.Run(ctx, &mcp.StdioTransport{})
}
