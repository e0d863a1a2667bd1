package core

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/tools"
)

func TestSystemPromptListsEveryTool(t *testing.T) {
	prompt := SystemPrompt(tools.NewRegistry())

	for _, name := range []string{"search_items", "summarize_items", "add_items", "update_items", "question_items"} {
		assert.Contains(t, prompt, name)
	}
	assert.Contains(t, prompt, "Return ONLY the JSON object")
}

func TestBuildTurnPromptIncludesMetadata(t *testing.T) {
	items := []model.Item{
		{Name: "A", ListName: "Work", ObjectType: "Task", Tags: []string{"urgent"}},
		{Name: "B", ListName: "Work", ObjectType: "Note"},
		{Name: "C", ListName: "Personal", ObjectType: "Task", Tags: []string{"urgent", "home"}},
	}

	prompt := buildTurnPrompt("hello", items, nil, nil)
	assert.Contains(t, prompt, `User Input: "hello"`)
	assert.Contains(t, prompt, "listNames: Work, Personal")
	assert.Contains(t, prompt, "objectTypes: Task, Note")
	assert.Contains(t, prompt, "tags: urgent, home")
	assert.Contains(t, prompt, "No relevant items found.")
	assert.Contains(t, prompt, "No previous conversation")
}

func TestBuildTurnPromptEmptyCollection(t *testing.T) {
	prompt := buildTurnPrompt("hello", nil, nil, nil)
	assert.Contains(t, prompt, "listNames: None")
	assert.Contains(t, prompt, "objectTypes: None")
	assert.Contains(t, prompt, "tags: None")
}

func TestFormatDocumentsForContext(t *testing.T) {
	docs := []model.Document{
		{Metadata: model.Item{ID: "1", Name: "Buy milk", ObjectType: "Task", ListName: "Groceries"}, Score: 0.875},
	}

	out := formatDocumentsForContext(docs)
	assert.Contains(t, out, "**Relevant Item 1:**")
	assert.Contains(t, out, "Buy milk")
	assert.Contains(t, out, "No description")
	assert.Contains(t, out, "0.875")
}

func TestFormatHistoryKeepsLastSix(t *testing.T) {
	history := make([]model.ChatMessage, 10)
	for i := range history {
		history[i] = model.ChatMessage{Role: "user", Content: fmt.Sprintf("message %d", i)}
	}

	out := formatHistory(history)
	assert.NotContains(t, out, "message 3")
	assert.Contains(t, out, "message 4")
	assert.Contains(t, out, "message 9")
	assert.Equal(t, 6, strings.Count(out, "user:"))
}
