package tools

import (
	"context"
	"fmt"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

// QuestionAnswer is the payload of a question_items result.
type QuestionAnswer struct {
	Question      string       `json:"question"`
	Answer        string       `json:"answer"`
	RelevantItems []model.Item `json:"relevantItems"`
}

func questionItemsTool() *Tool {
	return &Tool{
		Name:        "question_items",
		Description: "Answer questions about items grounded in the most relevant ones",
		Params: map[string]ParamSpec{
			"question": {
				Kind:        ParamString,
				Description: "The question to answer about the items",
				Required:    true,
			},
		},
		Run: func(ctx context.Context, params map[string]any, tc *Context) (*model.ToolResult, error) {
			question := stringParam(params, "question")

			fail := func(err error) *model.ToolResult {
				return &model.ToolResult{
					ToolName: "question_items",
					Success:  false,
					Error:    err.Error(),
					Summary:  fmt.Sprintf(`<p>Failed to answer question: "<em>%s</em>"</p>`, question),
				}
			}

			if err := tc.Index.Ensure(ctx, tc.Items); err != nil {
				return fail(err), nil
			}
			docs, err := tc.Index.Search(ctx, question, 5, contextThreshold)
			if err != nil {
				return fail(err), nil
			}

			if len(docs) == 0 {
				return &model.ToolResult{
					ToolName: "question_items",
					Success:  true,
					Data: QuestionAnswer{
						Question:      question,
						Answer:        "<p>I couldn't find any relevant items to answer your question.</p>",
						RelevantItems: []model.Item{},
					},
					Summary: "<p>No relevant items found for the question</p>",
				}, nil
			}

			answer := tc.Narrator.Answer(ctx, question, docs)

			relevant := make([]model.Item, len(docs))
			for i, doc := range docs {
				relevant[i] = doc.Metadata
			}

			return &model.ToolResult{
				ToolName: "question_items",
				Success:  true,
				Data: QuestionAnswer{
					Question:      question,
					Answer:        answer,
					RelevantItems: relevant,
				},
				Summary: fmt.Sprintf("Answered question about items using %d relevant items", len(docs)),
			}, nil
		},
	}
}
