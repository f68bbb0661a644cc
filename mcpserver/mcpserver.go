// Package mcpserver exposes the book search over the Model Context Protocol.
// Logs go to stderr since stdout carries the JSON-RPC stream.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/meghashyamc/booksearch/logger"
	"github.com/meghashyamc/booksearch/services/search"
)

const (
	serverName     = "booksearch"
	toolSearchBook = "search_books"
)

type Searcher interface {
	Search(query string, limit int) *search.Response
}

type Server struct {
	logger       logger.Logger
	searcher     Searcher
	defaultLimit int
	mcpServer    *server.MCPServer
}

func New(logger logger.Logger, searcher Searcher, defaultLimit int, version string) *Server {
	s := &Server{
		logger:       logger,
		searcher:     searcher,
		defaultLimit: defaultLimit,
		mcpServer: server.NewMCPServer(
			serverName,
			version,
			server.WithToolCapabilities(true),
		),
	}
	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(toolSearchBook,
			mcp.WithDescription("Search the OCR text of every scanned book page. Returns the best matching pages with title, author, ISBN, page file, permalink, score and an excerpt around the match."),
			mcp.WithString("query",
				mcp.Required(),
				mcp.Description("Text to look for. The whole query is matched first, then its individual words"),
			),
			mcp.WithNumber("limit",
				mcp.Description(fmt.Sprintf("Maximum number of pages to return (default: %d)", s.defaultLimit)),
			),
		),
		s.handleSearchBooks,
	)
}

// ServeStdio blocks until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("booksearch MCP server ready", "transport", "stdio")

	err := server.ServeStdio(s.mcpServer)
	if errors.Is(err, context.Canceled) {
		s.logger.Info("MCP server stopped")
		return nil
	}
	return err
}

func (s *Server) handleSearchBooks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil || strings.TrimSpace(query) == "" {
		return mcp.NewToolResultError("query is required"), nil //nolint:nilerr
	}

	limit := req.GetInt("limit", s.defaultLimit)
	if limit <= 0 {
		limit = s.defaultLimit
	}

	response := s.searcher.Search(query, limit)
	s.logger.Debug("MCP search served", "query", query, "limit", limit, "hits", len(response.Data))

	result, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("could not encode results: %v", err)), nil
	}

	return mcp.NewToolResultText(string(result)), nil
}
