// Package resources implements MCP resource handlers for the authoring
// workflow.
//
// Resources provide read-only data the host can consume for context.
// They use URI-based addressing (specit://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/rodhayl/specit/internal/workflow"
)

// Handler manages authoring resource endpoints.
type Handler struct {
	store       workflow.Store
	projectRoot string
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(store workflow.Store, projectRoot string) *Handler {
	return &Handler{store: store, projectRoot: projectRoot}
}

// WorkflowResource returns the MCP resource definition for workflow state.
func (h *Handler) WorkflowResource() mcp.Resource {
	return mcp.NewResource(
		"specit://workflow/status",
		"Authoring Workflow Status",
		mcp.WithResourceDescription("Current authoring phase, active agent and produced documents"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleWorkflow returns the current workflow state as JSON.
func (h *Handler) HandleWorkflow(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	state, err := h.store.Load(h.projectRoot)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling workflow state: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource carrying an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
