package tools

import (
	"context"
	"sort"
	"strings"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/summary"
)

// ItemSummary is the grouped view the summarize tool computes before
// narration: total, counts by list and type, and the 5 most recently
// updated items.
type ItemSummary struct {
	TotalItems   int            `json:"totalItems"`
	ByList       map[string]int `json:"byList"`
	ByObjectType map[string]int `json:"byObjectType"`
	RecentItems  []RecentItem   `json:"recentItems"`
	Narrative    string         `json:"narrative"`
}

type RecentItem struct {
	Name       string `json:"name"`
	ListName   string `json:"listName"`
	ObjectType string `json:"objectType"`
}

func summarizeItemsTool() *Tool {
	return &Tool{
		Name:        "summarize_items",
		Description: "Generate a narrative summary of items based on filters",
		Params: map[string]ParamSpec{
			"listName":   {Kind: ParamString, Description: "Filter by specific list name"},
			"objectType": {Kind: ParamString, Description: "Filter by specific object type"},
			"tags": {
				Kind:        ParamArray,
				Description: "Filter by specific tags",
				Elem:        &ParamSpec{Kind: ParamString},
			},
		},
		Run: func(ctx context.Context, params map[string]any, tc *Context) (*model.ToolResult, error) {
			filters := summary.Filters{
				ListName:   stringParam(params, "listName"),
				ObjectType: stringParam(params, "objectType"),
				Tags:       stringSlice(params["tags"]),
			}

			filtered := filterItems(tc.Items, filters)

			result := ItemSummary{
				TotalItems:   len(filtered),
				ByList:       map[string]int{},
				ByObjectType: map[string]int{},
			}
			for _, item := range filtered {
				result.ByList[item.ListName]++
				result.ByObjectType[item.ObjectType]++
			}

			recent := make([]model.Item, len(filtered))
			copy(recent, filtered)
			sort.SliceStable(recent, func(i, j int) bool {
				return recent[i].UpdatedAt > recent[j].UpdatedAt
			})
			if len(recent) > 5 {
				recent = recent[:5]
			}
			for _, item := range recent {
				result.RecentItems = append(result.RecentItems, RecentItem{
					Name:       item.Name,
					ListName:   item.ListName,
					ObjectType: item.ObjectType,
				})
			}

			result.Narrative = tc.Narrator.ItemsSummary(ctx, filtered, filters)

			return &model.ToolResult{
				ToolName: "summarize_items",
				Success:  true,
				Data:     result,
				Summary:  result.Narrative,
			}, nil
		},
	}
}

func filterItems(items []model.Item, filters summary.Filters) []model.Item {
	filtered := items
	if filters.ListName != "" {
		filtered = keep(filtered, func(item model.Item) bool {
			return strings.EqualFold(item.ListName, filters.ListName)
		})
	}
	if filters.ObjectType != "" {
		filtered = keep(filtered, func(item model.Item) bool {
			return strings.EqualFold(item.ObjectType, filters.ObjectType)
		})
	}
	if len(filters.Tags) > 0 {
		filtered = keep(filtered, func(item model.Item) bool {
			for _, want := range filters.Tags {
				for _, have := range item.Tags {
					if strings.Contains(strings.ToLower(have), strings.ToLower(want)) {
						return true
					}
				}
			}
			return false
		})
	}
	return filtered
}

func keep(items []model.Item, pred func(model.Item) bool) []model.Item {
	var out []model.Item
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func stringSlice(value any) []string {
	raw, ok := value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
