// Package mcp exposes the document question-answering session over the
// Model Context Protocol so coding agents can query uploaded documents.
package mcp

import (
	"context"
	"errors"

	"github.com/anil29717/DeepDoc/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// manager is shared by all tool handlers for the lifetime of the stdio run.
var manager *session.Manager

// ServeStdio starts the MCP server using the official go-sdk over stdio.
func ServeStdio(mgr *session.Manager) error {
	if mgr == nil {
		return errors.New("session manager is required")
	}
	manager = mgr

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "deepdoc",
			Version: "1.0.0",
		},
		&mcp.ServerOptions{
			Instructions: `📄 DeepDoc - document question answering

You are connected to a DeepDoc account with uploaded documents and folders.

Workflow:
1. list_documents / list_folders to see what is available
2. select_context(kind: "document"|"folder", id: N) to pick a scope
3. ask(question: "...") to query the active scope
4. get_history() to review the current transcript

Exactly one document OR one folder is active at a time. ask fails until a
context is selected. upload_document adds a new file and makes it active.`,
		},
	)

	registerTools(server)
	return server.Run(context.Background(), &mcp.StdioTransport{})
}
