package tools

import (
	"context"
	"fmt"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

const contextThreshold = 0.6

func searchItemsTool() *Tool {
	return &Tool{
		Name:        "search_items",
		Description: "Search through existing items using semantic similarity",
		Params: map[string]ParamSpec{
			"query": {
				Kind:        ParamString,
				Description: "The search query to find relevant items",
				Required:    true,
			},
			"maxResults": {
				Kind:        ParamNumber,
				Description: "Maximum number of results to return (default: 5)",
				Default:     5,
			},
		},
		Run: func(ctx context.Context, params map[string]any, tc *Context) (*model.ToolResult, error) {
			query := stringParam(params, "query")
			maxResults := intParam(params, "maxResults", 5)

			fail := func(err error) *model.ToolResult {
				return &model.ToolResult{
					ToolName: "search_items",
					Success:  false,
					Error:    err.Error(),
					Summary:  fmt.Sprintf(`<p>Failed to search items for "<em>%s</em>"</p>`, query),
				}
			}

			if err := tc.Index.Ensure(ctx, tc.Items); err != nil {
				return fail(err), nil
			}
			docs, err := tc.Index.Search(ctx, query, maxResults, contextThreshold)
			if err != nil {
				return fail(err), nil
			}

			matched := make([]model.Item, len(docs))
			for i, doc := range docs {
				matched[i] = doc.Metadata
			}

			return &model.ToolResult{
				ToolName: "search_items",
				Success:  true,
				Data:     matched,
				Summary:  tc.Narrator.SearchSummary(ctx, query, docs),
			}, nil
		},
	}
}
