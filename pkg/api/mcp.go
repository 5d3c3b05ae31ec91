package api

import (
	"strconv"

	"github.com/hazyhaar/stockroom/pkg/inventory"
	"github.com/hazyhaar/stockroom/pkg/kit"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// RegisterMCPTools registers the Stockroom MCP tools on the server. Dataset
// replacement is deliberately not exposed over MCP; it stays behind the
// HTTP allow-list.
func RegisterMCPTools(srv *server.MCPServer, store *inventory.Store, limits inventory.Limits) {
	registerSearchParts(srv, store, limits)
	registerSuggestParts(srv, store, limits)
	registerDatasetInfo(srv, store)
}

func registerSearchParts(srv *server.MCPServer, store *inventory.Store, limits inventory.Limits) {
	tool := mcp.NewTool("search_parts",
		mcp.WithDescription("Search the warehouse inventory for a part number. Tolerates dashes, spacing, case and mixed Latin/Cyrillic formatting; falls back to did-you-mean suggestions."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Free-text part number query, e.g. 'PH-6002 CEP' or 'ph6002cep'")),
	)

	kit.RegisterMCPTool(srv, tool, searchEndpoint(store, limits), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		query, _ := args["query"].(string)
		return &kit.MCPDecodeResult{Request: &searchReq{Query: query}}, nil
	})
}

func registerSuggestParts(srv *server.MCPServer, store *inventory.Store, limits inventory.Limits) {
	tool := mcp.NewTool("suggest_parts",
		mcp.WithDescription("Propose part numbers similar to the query, ranked by string similarity."),
		mcp.WithString("query", mcp.Required(), mcp.Description("The near-miss part number")),
		mcp.WithString("limit", mcp.Description("Maximum number of suggestions")),
	)

	kit.RegisterMCPTool(srv, tool, suggestEndpoint(store, limits), func(req mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		args := req.GetArguments()
		query, _ := args["query"].(string)
		limit := 0
		if v, _ := args["limit"].(string); v != "" {
			limit, _ = strconv.Atoi(v)
		}
		return &kit.MCPDecodeResult{Request: &suggestReq{Query: query, Limit: limit}}, nil
	})
}

func registerDatasetInfo(srv *server.MCPServer, store *inventory.Store) {
	tool := mcp.NewTool("dataset_info",
		mcp.WithDescription("Describe the active inventory dataset (source file, row count, load time)."),
	)

	kit.RegisterMCPTool(srv, tool, datasetInfoEndpoint(store), func(_ mcp.CallToolRequest) (*kit.MCPDecodeResult, error) {
		return &kit.MCPDecodeResult{Request: nil}, nil
	})
}
