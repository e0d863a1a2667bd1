package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

func addItemsTool() *Tool {
	itemSpec := ParamSpec{
		Kind: ParamObject,
		Fields: map[string]ParamSpec{
			"name":        {Kind: ParamString, Required: true},
			"description": {Kind: ParamString},
			"listName":    {Kind: ParamString, Required: true},
			"listIcon":    {Kind: ParamString},
			"objectType":  {Kind: ParamString, Required: true},
			"objectIcon":  {Kind: ParamString},
			"isNote":      {Kind: ParamBoolean},
			"isTask":      {Kind: ParamBoolean},
			"icon":        {Kind: ParamString},
			"tags":        {Kind: ParamArray, Elem: &ParamSpec{Kind: ParamString}},
			"fields":      {Kind: ParamObject},
		},
	}

	return &Tool{
		Name:        "add_items",
		Description: "Add new items to the system",
		Params: map[string]ParamSpec{
			"items": {
				Kind:        ParamArray,
				Description: "Items to create; each needs at least name, listName and objectType",
				Required:    true,
				Elem:        &itemSpec,
			},
		},
		Run: func(ctx context.Context, params map[string]any, tc *Context) (*model.ToolResult, error) {
			fail := func(err error) *model.ToolResult {
				return &model.ToolResult{
					ToolName: "add_items",
					Success:  false,
					Error:    err.Error(),
					Summary:  "<p>Failed to add items</p>",
				}
			}

			drafts, err := decodeDrafts(params["items"])
			if err != nil {
				return fail(err), nil
			}

			now := time.Now().UTC()
			newItems := make([]model.Item, len(drafts))
			for i, d := range drafts {
				newItems[i] = model.Materialize(d, now)
			}

			if err := tc.Index.Add(ctx, newItems); err != nil {
				return fail(err), nil
			}

			return &model.ToolResult{
				ToolName: "add_items",
				Success:  true,
				Data:     newItems,
				Summary:  tc.Narrator.AddSummary(ctx, newItems),
			}, nil
		},
	}
}

func decodeDrafts(value any) ([]model.ItemDraft, error) {
	raw, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("items must be an array of objects")
	}

	drafts := make([]model.ItemDraft, 0, len(raw))
	for i, v := range raw {
		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("item %d is not an object: %w", i, err)
		}
		var d model.ItemDraft
		if err := json.Unmarshal(data, &d); err != nil {
			return nil, fmt.Errorf("item %d is malformed: %w", i, err)
		}
		if d.Name == "" || d.ListName == "" || d.ObjectType == "" {
			return nil, fmt.Errorf("item %d must have a name, listName and objectType", i)
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}
