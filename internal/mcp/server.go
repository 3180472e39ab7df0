// Package mcp exposes the generation pipeline as MCP tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"backgen/internal/api"
	"backgen/internal/generator"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Server wraps an MCP tool server around the assembler and state cell.
type Server struct {
	mcpServer *server.MCPServer
	generator api.Generator
	state     *generator.State
}

// NewServer creates the MCP server and registers its tools.
func NewServer(gen api.Generator, state *generator.State) *Server {
	s := &Server{
		mcpServer: server.NewMCPServer(
			"Backgen",
			"1.0.0",
			server.WithToolCapabilities(true),
		),
		generator: gen,
		state:     state,
	}

	s.registerTools()
	return s
}

// GetMCPServer returns the underlying MCP server.
func (s *Server) GetMCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool(
			"generate_backend",
			mcp.WithDescription("Generate a backend model from a natural-language description"),
			mcp.WithString("prompt", mcp.Required(), mcp.Description("Description of the desired backend service")),
		),
		s.handleGenerate,
	)

	s.mcpServer.AddTool(
		mcp.NewTool(
			"preview_backend",
			mcp.WithDescription("Return the current backend model as JSON"),
		),
		s.handlePreview,
	)
}

func (s *Server) handleGenerate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return mcp.NewToolResultError("Invalid arguments type"), nil
	}

	prompt, ok := args["prompt"].(string)
	if !ok || prompt == "" {
		return mcp.NewToolResultError("Missing required parameter: prompt"), nil
	}

	m, err := s.generator.AssembleWithModel(ctx, prompt, "")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to generate: %v", err)), nil
	}
	s.state.Install(m)

	jsonBytes, _ := json.Marshal(m)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handlePreview(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	m := s.state.Current()
	if m == nil {
		return mcp.NewToolResultError("No backend model has been generated yet"), nil
	}

	jsonBytes, _ := json.Marshal(m)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

// MountHTTPHandlers mounts the MCP endpoints on the mux.
func MountHTTPHandlers(mux *http.ServeMux, mcpServer *server.MCPServer) {
	// SSE server for /mcp/sse and /mcp/message endpoints
	sseServer := server.NewSSEServer(mcpServer, server.WithStaticBasePath("/mcp"))

	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			sseServer.ServeHTTP(w, r)
			return
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})

	mux.HandleFunc("/mcp/sse", sseServer.ServeHTTP)
	mux.HandleFunc("/mcp/message", sseServer.ServeHTTP)
}
