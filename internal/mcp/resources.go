package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"tradeverify/internal/verification"
)

const uriScheme = "tradeverify://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "Configured source roles and the kinds they serve",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)
}

type sourcesInfo struct {
	Roles []string            `json:"roles"`
	Kinds []verification.Kind `json:"kinds"`
}

func (s *Server) handleSourcesResource(_ context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	info := sourcesInfo{Roles: []string{}, Kinds: verification.Kinds}
	for _, r := range s.ports.Sources.Roles() {
		info.Roles = append(info.Roles, string(r))
	}
	b, err := json.Marshal(info)
	if err != nil {
		return nil, fmt.Errorf("encoding sources: %w", err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(b),
		}},
	}, nil
}
