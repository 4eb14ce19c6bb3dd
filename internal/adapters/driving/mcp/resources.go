package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// URIScheme is the custom URI scheme for aptview resources.
	uriScheme = "aptview://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource for the full code map.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "cities",
		Name:        "cities",
		Description: "Every city with its districts, in backend order",
		MIMEType:    "application/json",
	}, s.handleCitiesResource)

	// Template for one city's districts.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "cities/{city}/districts",
		Name:        "city-districts",
		Description: "Districts of a specific city",
		MIMEType:    "application/json",
	}, s.handleDistrictsResource)
}

// handleCitiesResource returns the code map as {"city": ["district", ...]}.
func (s *Server) handleCitiesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	codes, err := s.codeMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading code map: %w", err)
	}

	data, err := json.Marshal(codes)
	if err != nil {
		return nil, fmt.Errorf("marshalling code map: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// handleDistrictsResource returns the districts of the city in the URI.
func (s *Server) handleDistrictsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	city := extractCity(req.Params.URI)
	if city == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	codes, err := s.codeMap(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading code map: %w", err)
	}
	if !codes.HasCity(city) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := json.MarshalIndent(codes.Districts(city), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling districts: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractCity extracts the city from a URI like aptview://cities/{city}/districts.
// The city may be percent-encoded.
func extractCity(uri string) string {
	const prefix = uriScheme + "cities/"
	const suffix = "/districts"

	if !strings.HasPrefix(uri, prefix) || !strings.HasSuffix(uri, suffix) {
		return ""
	}

	raw := strings.TrimSuffix(strings.TrimPrefix(uri, prefix), suffix)
	city, err := url.PathUnescape(raw)
	if err != nil {
		return ""
	}
	return city
}
