// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Ansuz library tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/ansuz/internal/library"
)

// Server wraps the MCP server with Ansuz library tools.
type Server struct {
	mcp *server.MCPServer
	svc *library.Service
}

// New creates a new MCP server with all library tools registered.
func New(svc *library.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"Ansuz",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_skills",
		mcp.WithDescription("Full-text search through skill content, titles and descriptions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithString("category", mcp.Description("Optional category filter (e.g. go, python/web)")),
	), s.searchSkills)

	s.mcp.AddTool(mcp.NewTool("read_skill",
		mcp.WithDescription("Read the full content of a skill by path or unique name."),
		mcp.WithString("key", mcp.Required(), mcp.Description("Skill path (e.g. skills/go/errors.md) or unique name")),
	), s.readSkill)

	s.mcp.AddTool(mcp.NewTool("list_skills",
		mcp.WithDescription("List indexed skill paths, optionally restricted to one category."),
		mcp.WithString("category", mcp.Description("Optional category to list (empty for all)")),
	), s.listSkills)

	s.mcp.AddTool(mcp.NewTool("search_prompts",
		mcp.WithDescription("Full-text search through prompt content and titles."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchPrompts)

	s.mcp.AddTool(mcp.NewTool("read_prompt",
		mcp.WithDescription("Read a prompt with its embedded and reference skill links."),
		mcp.WithString("name", mcp.Required(), mcp.Description("Prompt name (filename stem)")),
	), s.readPrompt)

	s.mcp.AddTool(mcp.NewTool("library_stats",
		mcp.WithDescription("Aggregate counts and sizes for the indexed library."),
	), s.libraryStats)

	s.mcp.AddTool(mcp.NewTool("get_skill_contract",
		mcp.WithDescription("Returns the canonical Ansuz skill document contract. "+
			"Call this before authoring library content to ensure correct structure."),
	), s.getSkillContract)

	// Resource: skill format contract.
	s.mcp.AddResource(
		mcp.NewResource("ansuz://skill-format", "Skill Format Contract",
			mcp.WithResourceDescription("Canonical Markdown skill document format for library content."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readSkillFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) searchSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}
	hits, err := s.svc.SearchSkills(ctx, query, category, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readSkill(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, err := req.RequireString("key")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	skill, err := s.svc.GetSkill(ctx, key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(skill.Content), nil
}

func (s *Server) listSkills(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := ""
	if c, err := req.RequireString("category"); err == nil {
		category = c
	}
	skills, err := s.svc.ListSkills(ctx, category)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(skills) == 0 {
		return mcp.NewToolResultText("no skills indexed"), nil
	}
	var paths []string
	for _, sk := range skills {
		paths = append(paths, sk.Path)
	}
	return mcp.NewToolResultText(strings.Join(paths, "\n")), nil
}

func (s *Server) searchPrompts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	hits, err := s.svc.SearchPrompts(ctx, query, 20)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(hits, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) readPrompt(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	detail, err := s.svc.GetPrompt(ctx, name)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(detail, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) libraryStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Stats(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(stats, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSkillContract(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(SkillFormatContract), nil
}

func (s *Server) readSkillFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "ansuz://skill-format",
			MIMEType: "text/markdown",
			Text:     SkillFormatContract,
		},
	}, nil
}
