package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/pdfpanel/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for pdfpanel resources.
	uriScheme = "pdfpanel://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the remembered workspace state.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "state",
		Name:        "state",
		Description: "View, find and per-document page state remembered between sessions",
		MIMEType:    "application/json",
	}, s.handleStateResource)

	// Template for the state of one document.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{path}",
		Name:        "document-state",
		Description: "Remembered state of one document, keyed by its escaped absolute path",
		MIMEType:    "application/json",
	}, s.handleDocumentStateResource)
}

// workspaceSnapshot is the JSON shape of the state resource.
type workspaceSnapshot struct {
	View      domain.ViewState                `json:"view"`
	Find      domain.FindState                `json:"find"`
	Documents map[string]domain.DocumentState `json:"documents"`
}

func jsonResult(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleStateResource returns the remembered workspace state.
func (s *Server) handleStateResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Workspace == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "{}",
			}},
		}, nil
	}

	return jsonResult(req.Params.URI, workspaceSnapshot{
		View:      s.ports.Workspace.ViewState(ctx),
		Find:      s.ports.Workspace.FindState(ctx),
		Documents: s.ports.Workspace.DocumentStates(ctx),
	})
}

// handleDocumentStateResource returns the remembered state of one document.
func (s *Server) handleDocumentStateResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Workspace == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	path := extractDocumentPath(req.Params.URI)
	if path == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	state, ok := s.ports.Workspace.DocumentStates(ctx)[path]
	if !ok {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	return jsonResult(req.Params.URI, state)
}

// extractDocumentPath extracts the document path from a URI like
// pdfpanel://documents/{path}, where path is escaped.
func extractDocumentPath(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	path, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return path
}
