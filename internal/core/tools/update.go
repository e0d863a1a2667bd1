package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/summary"
)

func updateItemsTool() *Tool {
	updateSpec := ParamSpec{
		Kind: ParamObject,
		Fields: map[string]ParamSpec{
			"id":          {Kind: ParamString, Required: true},
			"name":        {Kind: ParamString},
			"description": {Kind: ParamString},
			"listName":    {Kind: ParamString},
			"listIcon":    {Kind: ParamString},
			"objectType":  {Kind: ParamString},
			"objectIcon":  {Kind: ParamString},
			"isNote":      {Kind: ParamBoolean},
			"isTask":      {Kind: ParamBoolean},
			"icon":        {Kind: ParamString},
			"tags":        {Kind: ParamArray, Elem: &ParamSpec{Kind: ParamString}},
			"fields":      {Kind: ParamObject},
		},
	}

	return &Tool{
		Name:        "update_items",
		Description: "Update existing items in the system",
		Params: map[string]ParamSpec{
			"updates": {
				Kind:        ParamArray,
				Description: "Patches to apply; each needs the id of an existing item",
				Required:    true,
				Elem:        &updateSpec,
			},
		},
		Run: func(ctx context.Context, params map[string]any, tc *Context) (*model.ToolResult, error) {
			fail := func(err error) *model.ToolResult {
				return &model.ToolResult{
					ToolName: "update_items",
					Success:  false,
					Error:    err.Error(),
					Summary:  "<p>Failed to update items</p>",
				}
			}

			raw, ok := params["updates"].([]any)
			if !ok {
				return fail(fmt.Errorf("updates must be an array of objects")), nil
			}

			byID := make(map[string]model.Item, len(tc.Items))
			for _, item := range tc.Items {
				byID[item.ID] = item
			}

			// Resolve every target before touching anything: one unknown id
			// fails the whole call with no partial mutation.
			type pending struct {
				existing model.Item
				patch    map[string]any
			}
			resolved := make([]pending, 0, len(raw))
			for i, v := range raw {
				patch, ok := v.(map[string]any)
				if !ok {
					return fail(fmt.Errorf("update %d is not an object", i)), nil
				}
				id, _ := patch["id"].(string)
				existing, found := byID[id]
				if !found {
					return fail(fmt.Errorf("item with id %s not found", id)), nil
				}
				resolved = append(resolved, pending{existing: existing, patch: patch})
			}

			now := time.Now().UTC()
			updated := make([]model.Item, 0, len(resolved))
			changes := make([]summary.Change, 0, len(resolved))
			for _, p := range resolved {
				after := model.ApplyPatch(p.existing, p.patch)
				after.UpdatedAt = model.Timestamp(now)

				if err := tc.Index.Update(ctx, after); err != nil {
					return fail(err), nil
				}

				changes = append(changes, summary.Change{Before: p.existing, After: after})
				updated = append(updated, after)
			}

			return &model.ToolResult{
				ToolName: "update_items",
				Success:  true,
				Data:     updated,
				Summary:  tc.Narrator.UpdateSummary(ctx, changes),
			}, nil
		},
	}
}
