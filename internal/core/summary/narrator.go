// Package summary turns raw tool output into short HTML narratives. Each
// narration prefers a generation call and degrades to a deterministic
// templated sentence when the call fails, so a narration never errors.
package summary

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anirudha4/bud.oneapp.studio/internal/config"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/common"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/llm"
)

// Filters describes the optional predicates a summarize call was scoped by.
type Filters struct {
	ListName   string
	ObjectType string
	Tags       []string
}

// Change is a before/after pair collected by the update tool.
type Change struct {
	Before model.Item `json:"before"`
	After  model.Item `json:"after"`
}

type Narrator struct {
	LLM     llm.Client
	Prompts config.NarrationPrompts
}

func NewNarrator(client llm.Client, prompts config.NarrationPrompts) *Narrator {
	return &Narrator{LLM: client, Prompts: prompts}
}

// generate runs one narration call and reports whether it produced usable
// output. The caller supplies the deterministic fallback.
func (n *Narrator) generate(ctx context.Context, prompt string, maxTokens int) (string, bool) {
	if n == nil || n.LLM == nil {
		return "", false
	}
	out, err := n.LLM.Generate(ctx, prompt, "", maxTokens)
	if err != nil {
		return "", false
	}
	out = common.StripFences(out)
	if out == "" {
		return "", false
	}
	return out, true
}

func (n *Narrator) template(configured, fallback string) string {
	if n != nil && configured != "" {
		return configured
	}
	return fallback
}

const defaultSearchPrompt = `You are a productivity assistant. Summarize search results for a user's query.

Search Query: "%s"
Found %d items

Instructions:
- Provide a concise, helpful summary in HTML format
- Use proper HTML tags like <p>, <strong>, <em>, <ul>, <li> etc.
- Mention the number of results and their relevance
- Be encouraging and actionable
- Keep it under 100 words
- Return ONLY HTML fragments, no markdown, no code fences
- Start directly with HTML tags like <p>

HTML Summary:`

func (n *Narrator) SearchSummary(ctx context.Context, query string, results []model.Document) string {
	prompt := fmt.Sprintf(n.template(n.Prompts.Search, defaultSearchPrompt), query, len(results))
	if out, ok := n.generate(ctx, prompt, 150); ok {
		return out
	}
	return fmt.Sprintf(`<p>Found <strong>%d</strong> relevant items for "<em>%s</em>"</p>`, len(results), query)
}

const defaultSummaryPrompt = `You are a productivity assistant. Create a helpful summary of the user's items.

Total Items: %d
Filters Applied: %s

Sample Items (showing up to 10):
%s

Instructions:
- Provide insights about their productivity and organization in HTML format
- Use proper HTML tags like <p>, <strong>, <em>, <ul>, <li>, <h3> etc.
- Highlight patterns, priorities, or suggestions
- Be encouraging and actionable
- Keep it conversational and under 200 words
- Return ONLY HTML fragments, no markdown, no code fences
- Start directly with HTML tags like <p>

HTML Summary:`

func (n *Narrator) ItemsSummary(ctx context.Context, items []model.Item, filters Filters) string {
	var applied []string
	if filters.ListName != "" {
		applied = append(applied, "list: "+filters.ListName)
	}
	if filters.ObjectType != "" {
		applied = append(applied, "type: "+filters.ObjectType)
	}
	if len(filters.Tags) > 0 {
		applied = append(applied, "tags: "+strings.Join(filters.Tags, ", "))
	}
	filterText := "None"
	if len(applied) > 0 {
		filterText = strings.Join(applied, ", ")
	}

	sample := items
	if len(sample) > 10 {
		sample = sample[:10]
	}
	type row struct {
		Name   string   `json:"name"`
		Type   string   `json:"type"`
		List   string   `json:"list"`
		IsTask bool     `json:"isTask"`
		IsNote bool     `json:"isNote"`
		Tags   []string `json:"tags"`
	}
	rows := make([]row, len(sample))
	for i, item := range sample {
		rows[i] = row{Name: item.Name, Type: item.ObjectType, List: item.ListName, IsTask: item.IsTask, IsNote: item.IsNote, Tags: item.Tags}
	}
	sampleJSON, _ := json.MarshalIndent(rows, "", "  ")

	prompt := fmt.Sprintf(n.template(n.Prompts.Summary, defaultSummaryPrompt), len(items), filterText, sampleJSON)
	if out, ok := n.generate(ctx, prompt, 300); ok {
		return out
	}

	scope := ""
	if filters.ListName != "" || filters.ObjectType != "" {
		scope = fmt.Sprintf(" from <em>%s</em>", filters.ListName)
		if filters.ObjectType != "" {
			scope += fmt.Sprintf(" of type <strong>%s</strong>", filters.ObjectType)
		}
	}
	return fmt.Sprintf("<p>Summarized <strong>%d</strong> items%s</p>", len(items), scope)
}

const defaultAddPrompt = `You are a productivity assistant. Summarize what was just added to the user's workspace.

New Items Added:
%s

Instructions:
- Acknowledge what was successfully added in HTML format
- Use proper HTML tags like <p>, <strong>, <em>, <ul>, <li> etc.
- Be encouraging about their productivity
- Suggest next steps if appropriate
- Keep it positive and concise, under 100 words
- Return ONLY HTML fragments, no markdown, no code fences
- Start directly with HTML tags like <p>

HTML Summary:`

func (n *Narrator) AddSummary(ctx context.Context, items []model.Item) string {
	type row struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		List        string `json:"list"`
		Description string `json:"description"`
	}
	rows := make([]row, len(items))
	for i, item := range items {
		rows[i] = row{Name: item.Name, Type: item.ObjectType, List: item.ListName, Description: item.Description}
	}
	rowsJSON, _ := json.MarshalIndent(rows, "", "  ")

	prompt := fmt.Sprintf(n.template(n.Prompts.Add, defaultAddPrompt), rowsJSON)
	if out, ok := n.generate(ctx, prompt, 150); ok {
		return out
	}

	names := make([]string, len(items))
	for i, item := range items {
		names[i] = item.Name
	}
	return fmt.Sprintf("<p>Added <strong>%d</strong> new item(s): <em>%s</em></p>", len(items), strings.Join(names, ", "))
}

const defaultUpdatePrompt = `You are a productivity assistant. Summarize what was just updated in the user's workspace.

Updates Made:
%s

Instructions:
- Acknowledge what was successfully updated in HTML format
- Use proper HTML tags like <p>, <strong>, <em>, <ul>, <li> etc.
- Highlight the key changes made
- Keep it positive and concise, under 100 words
- Return ONLY HTML fragments, no markdown, no code fences
- Start directly with HTML tags like <p>

HTML Summary:`

func (n *Narrator) UpdateSummary(ctx context.Context, changes []Change) string {
	type row struct {
		Item    string   `json:"item"`
		Changes []string `json:"changes"`
	}
	rows := make([]row, len(changes))
	for i, c := range changes {
		rows[i] = row{Item: c.After.Name, Changes: changedFields(c.Before, c.After)}
	}
	rowsJSON, _ := json.MarshalIndent(rows, "", "  ")

	prompt := fmt.Sprintf(n.template(n.Prompts.Update, defaultUpdatePrompt), rowsJSON)
	if out, ok := n.generate(ctx, prompt, 150); ok {
		return out
	}

	names := make([]string, len(changes))
	for i, c := range changes {
		names[i] = c.After.Name
	}
	return fmt.Sprintf("<p>Updated <strong>%d</strong> item(s): <em>%s</em></p>", len(changes), strings.Join(names, ", "))
}

const defaultAnswerPrompt = `You are a helpful productivity assistant. Answer the user's question based on their personal items.

Question: "%s"

Available context (relevant items from their workspace):
%s

Instructions:
- Provide a helpful, natural answer grounded strictly in the context, in HTML format
- Use proper HTML tags like <p>, <strong>, <em>, <ul>, <li>, <h3> etc.
- If asking about counts, provide specific numbers
- If asking for lists, format them with <ul> and <li>
- Focus on the most relevant items first (higher scores are more relevant)
- Return ONLY HTML fragments, no markdown, no code fences
- Start directly with HTML tags like <p>

HTML Answer:`

func (n *Narrator) Answer(ctx context.Context, question string, docs []model.Document) string {
	type row struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Type        string   `json:"type"`
		List        string   `json:"list"`
		Tags        []string `json:"tags"`
		IsTask      bool     `json:"isTask"`
		IsNote      bool     `json:"isNote"`
		Score       float64  `json:"score"`
	}
	rows := make([]row, len(docs))
	for i, doc := range docs {
		m := doc.Metadata
		rows[i] = row{Name: m.Name, Description: m.Description, Type: m.ObjectType, List: m.ListName, Tags: m.Tags, IsTask: m.IsTask, IsNote: m.IsNote, Score: doc.Score}
	}
	rowsJSON, _ := json.MarshalIndent(rows, "", "  ")

	prompt := fmt.Sprintf(n.template(n.Prompts.Answer, defaultAnswerPrompt), question, rowsJSON)
	if out, ok := n.generate(ctx, prompt, 500); ok {
		return out
	}
	return BulletAnswer(docs)
}

// BulletAnswer is the deterministic rendering of retrieved items, used when
// generation is unavailable. Pure string templating; never fails.
func BulletAnswer(docs []model.Document) string {
	var b strings.Builder
	for _, doc := range docs {
		m := doc.Metadata
		desc := m.Description
		if desc == "" {
			desc = "No description"
		}
		tags := ""
		if len(m.Tags) > 0 {
			tags = fmt.Sprintf(` <span class="tags">(Tags: %s)</span>`, strings.Join(m.Tags, ", "))
		}
		fmt.Fprintf(&b, "<li><strong>%s</strong> - %s <em>(%s in %s)</em>%s</li>", m.Name, desc, m.ObjectType, m.ListName, tags)
	}

	plural := "s"
	if len(docs) == 1 {
		plural = ""
	}
	return fmt.Sprintf("<div><p>Based on your question, I found <strong>%d</strong> relevant item%s:</p><ul>%s</ul></div>", len(docs), plural, b.String())
}

func changedFields(before, after model.Item) []string {
	var changed []string
	if before.Name != after.Name {
		changed = append(changed, "name")
	}
	if before.Description != after.Description {
		changed = append(changed, "description")
	}
	if before.ListName != after.ListName {
		changed = append(changed, "listName")
	}
	if before.ListIcon != after.ListIcon {
		changed = append(changed, "listIcon")
	}
	if before.ObjectType != after.ObjectType {
		changed = append(changed, "objectType")
	}
	if before.ObjectIcon != after.ObjectIcon {
		changed = append(changed, "objectIcon")
	}
	if before.Icon != after.Icon {
		changed = append(changed, "icon")
	}
	if before.IsNote != after.IsNote {
		changed = append(changed, "isNote")
	}
	if before.IsTask != after.IsTask {
		changed = append(changed, "isTask")
	}
	if !jsonEqual(before.Tags, after.Tags) {
		changed = append(changed, "tags")
	}
	if !jsonEqual(before.Fields, after.Fields) {
		changed = append(changed, "fields")
	}
	return changed
}

func jsonEqual(a, b any) bool {
	aj, _ := json.Marshal(a)
	bj, _ := json.Marshal(b)
	return string(aj) == string(bj)
}
