// Package core is the agent orchestration engine: it turns one line of free
// text into a conversational reply, tool invocations against the item
// collection, and newly created items, grounded in a similarity-indexed view
// of the user's existing data.
package core

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/anirudha4/bud.oneapp.studio/internal/config"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/index"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/summary"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/tools"
	"github.com/anirudha4/bud.oneapp.studio/internal/llm"
	"github.com/anirudha4/bud.oneapp.studio/internal/session"
)

const (
	apologyMessage   = "I apologize, but I encountered an error processing your request. Please try rephrasing your message."
	configureMessage = "No API key is configured. Please open settings and set one before chatting."

	// retrieval defaults for assembling turn context
	contextDocuments = 3
	contextThreshold = 0.6
)

type Agent struct {
	LLM      llm.Client
	Embedder llm.Embedder
	Registry *tools.Registry
	Narrator *summary.Narrator
	Sessions session.Provider
}

func NewAgent(client llm.Client, embedder llm.Embedder, sessions session.Provider, prompts config.NarrationPrompts) *Agent {
	return &Agent{
		LLM:      client,
		Embedder: embedder,
		Registry: tools.NewRegistry(),
		Narrator: summary.NewNarrator(client, prompts),
		Sessions: sessions,
	}
}

// RunTurn executes one full user turn: context assembly, generation,
// parsing, sequential tool execution, item materialization. It never fails
// outright; unrecoverable errors surface as an apology result with empty
// tool/created/updated lists.
func (a *Agent) RunTurn(ctx context.Context, input string, items []model.Item, history []model.ChatMessage) *model.TurnResult {
	empty := func(message string) *model.TurnResult {
		return &model.TurnResult{
			Message:      message,
			ToolResults:  []model.ToolResult{},
			CreatedItems: []model.Item{},
			UpdatedItems: []model.Item{},
		}
	}

	// The credential check happens before any network call.
	if _, err := a.Sessions.Resolve(ctx); err != nil {
		if errors.Is(err, session.ErrNoAPIKey) {
			return empty(configureMessage)
		}
		log.Printf("session resolution failed: %v", err)
		return empty(apologyMessage)
	}

	// Each turn gets its own index over the caller's snapshot; there is no
	// cross-turn index state.
	ix := index.New(a.Embedder)
	if err := ix.Rebuild(ctx, items); err != nil {
		log.Printf("failed to build similarity index: %v", err)
		return empty(apologyMessage)
	}

	docs, err := ix.Search(ctx, input, contextDocuments, contextThreshold)
	if err != nil {
		// context retrieval is best-effort; the turn continues without it
		log.Printf("context retrieval failed: %v", err)
		docs = nil
	}

	raw, err := a.LLM.Generate(ctx, buildTurnPrompt(input, items, docs, history), SystemPrompt(a.Registry), 0)
	if err != nil {
		log.Printf("generation failed: %v", err)
		return empty(apologyMessage)
	}

	resp, err := ParseAgentResponse(raw)
	if err != nil {
		log.Printf("discarding unparseable agent response: %v", err)
		return empty(apologyMessage)
	}

	result := empty(resp.Message)

	// Tool calls run strictly in the requested order; a failed result does
	// not abort the remaining calls.
	tc := &tools.Context{Items: items, Index: ix, Narrator: a.Narrator}
	for _, call := range resp.ToolCalls {
		result.ToolResults = append(result.ToolResults, a.Registry.Execute(ctx, call.ToolName, call.Parameters, tc))
	}

	now := time.Now().UTC()
	for _, draft := range resp.CreateItems {
		item := model.Materialize(draft, now)
		result.CreatedItems = append(result.CreatedItems, item)
	}
	if len(result.CreatedItems) > 0 {
		if err := ix.Add(ctx, result.CreatedItems); err != nil {
			// the items exist either way; only their indexed view is stale
			log.Printf("failed to index created items: %v", err)
		}
	}

	// Fold items materialized by add/update tool calls into the turn's
	// lists. Deduplicated by id so one item is never reported twice even if
	// the model requested overlapping paths.
	for _, tr := range result.ToolResults {
		if !tr.Success {
			continue
		}
		switch tr.ToolName {
		case "add_items":
			if produced, ok := tr.Data.([]model.Item); ok {
				result.CreatedItems = mergeByID(result.CreatedItems, produced)
			}
		case "update_items":
			if produced, ok := tr.Data.([]model.Item); ok {
				result.UpdatedItems = mergeByID(result.UpdatedItems, produced)
			}
		}
	}

	return result
}

// FindSimilar answers an ad hoc similarity lookup outside a full turn.
func (a *Agent) FindSimilar(ctx context.Context, query string, items []model.Item, k int) ([]model.Document, error) {
	ix := index.New(a.Embedder)
	if err := ix.Rebuild(ctx, items); err != nil {
		return nil, err
	}
	return ix.Search(ctx, query, k, contextThreshold)
}

func mergeByID(dst, src []model.Item) []model.Item {
	seen := make(map[string]bool, len(dst))
	for _, item := range dst {
		seen[item.ID] = true
	}
	for _, item := range src {
		if !seen[item.ID] {
			seen[item.ID] = true
			dst = append(dst, item)
		}
	}
	return dst
}
