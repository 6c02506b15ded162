package mcp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/anil29717/DeepDoc/internal/session"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List all uploaded documents with their IDs, filenames and processing status. Call this before select_context.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "List Documents",
			ReadOnlyHint: true,
		},
	}, handleListDocuments)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_folders",
		Description: "List all folders. A folder groups documents for multi-file questions.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "List Folders",
			ReadOnlyHint: true,
		},
	}, handleListFolders)

	mcp.AddTool(server, &mcp.Tool{
		Name: "select_context",
		Description: `Select the active question-answering scope.

REQUIRED: kind ("document", "folder" or "none"), id (ignored for "none")
Selecting a context loads its conversation history and replaces the
transcript. Only one context is active at a time.`,
		Annotations: &mcp.ToolAnnotations{
			Title: "Select Context",
		},
	}, handleSelectContext)

	mcp.AddTool(server, &mcp.Tool{
		Name: "ask",
		Description: `Ask a question about the active document or folder.

REQUIRED: question
Fails when no context is selected; call select_context first.`,
		Annotations: &mcp.ToolAnnotations{
			Title: "Ask",
		},
	}, handleAsk)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_history",
		Description: "Return the conversation transcript for the active context.",
		Annotations: &mcp.ToolAnnotations{
			Title:        "Get History",
			ReadOnlyHint: true,
		},
	}, handleGetHistory)

	mcp.AddTool(server, &mcp.Tool{
		Name: "upload_document",
		Description: `Upload a local PDF and make it the active context.

REQUIRED: path (absolute path to a readable file)
OPTIONAL: folder_id (place the document into an existing folder)`,
		Annotations: &mcp.ToolAnnotations{
			Title: "Upload Document",
		},
	}, handleUploadDocument)
}

type EmptyInput struct{}

func handleListDocuments(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if err := manager.RefreshDocuments(); err != nil {
		return nil, nil, err
	}
	docs := manager.Documents()
	items := make([]interface{}, 0, len(docs))
	for _, d := range docs {
		item := map[string]interface{}{
			"id":       d.ID,
			"filename": d.Filename,
			"status":   string(d.Status),
		}
		if d.FolderID != nil {
			item["folder_id"] = *d.FolderID
		}
		items = append(items, item)
	}
	return nil, wrapItems(items), nil
}

func handleListFolders(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	if err := manager.RefreshFolders(); err != nil {
		return nil, nil, err
	}
	folders := manager.Folders()
	items := make([]interface{}, 0, len(folders))
	for _, f := range folders {
		items = append(items, map[string]interface{}{
			"id":   f.ID,
			"name": f.Name,
		})
	}
	return nil, wrapItems(items), nil
}

type SelectContextInput struct {
	Kind string `json:"kind"`
	ID   int    `json:"id,omitempty"`
}

func handleSelectContext(ctx context.Context, req *mcp.CallToolRequest, input SelectContextInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	switch strings.ToLower(strings.TrimSpace(input.Kind)) {
	case "document":
		if err := manager.SelectDocument(input.ID); err != nil {
			return nil, nil, err
		}
	case "folder":
		if err := manager.SelectFolder(input.ID); err != nil {
			return nil, nil, err
		}
	case "none":
		manager.ClearSelection()
	default:
		return nil, nil, errors.New(`kind must be "document", "folder" or "none"`)
	}
	return nil, map[string]interface{}{
		"active":            manager.Active().String(),
		"transcript_length": len(manager.Messages()),
	}, nil
}

type AskInput struct {
	Question string `json:"question"`
}

func handleAsk(ctx context.Context, req *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	answer, err := manager.Ask(input.Question)
	if err != nil {
		if errors.Is(err, session.ErrNoContext) {
			return nil, nil, errors.New("no context selected; call select_context first")
		}
		if msg := manager.CurrentError(); msg != "" {
			return nil, nil, errors.New(msg)
		}
		return nil, nil, err
	}
	return nil, map[string]interface{}{
		"answer":  answer,
		"context": manager.Active().String(),
	}, nil
}

func handleGetHistory(ctx context.Context, req *mcp.CallToolRequest, input EmptyInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	msgs := manager.Messages()
	items := make([]interface{}, 0, len(msgs))
	for _, m := range msgs {
		items = append(items, map[string]interface{}{
			"role":    string(m.Role),
			"content": m.Content,
		})
	}
	out := wrapItems(items)
	out["context"] = manager.Active().String()
	return nil, out, nil
}

type UploadDocumentInput struct {
	Path     string `json:"path"`
	FolderID *int   `json:"folder_id,omitempty"`
}

func handleUploadDocument(ctx context.Context, req *mcp.CallToolRequest, input UploadDocumentInput) (*mcp.CallToolResult, map[string]interface{}, error) {
	path := strings.TrimSpace(input.Path)
	if path == "" {
		return nil, nil, errors.New("path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	if err := manager.UploadBatch([]string{path}, input.FolderID); err != nil {
		if msg := manager.CurrentError(); msg != "" {
			return nil, nil, errors.New(msg)
		}
		return nil, nil, err
	}
	return nil, map[string]interface{}{
		"uploaded": path,
		"active":   manager.Active().String(),
	}, nil
}

// wrapItems ensures tool results are always objects, never bare arrays.
func wrapItems(items []interface{}) map[string]interface{} {
	return map[string]interface{}{"items": items, "count": len(items)}
}
