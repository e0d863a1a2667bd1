package tools

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
)

func TestSearchItemsCapsResults(t *testing.T) {
	items := make([]model.Item, 7)
	for i := range items {
		items[i] = model.Item{ID: string(rune('a' + i)), Name: "Task", ListName: "Work", ObjectType: "Task"}
	}

	r := NewRegistry()
	result := r.Execute(context.Background(), "search_items", map[string]any{"query": "task"}, testContext(t, items))

	require.True(t, result.Success)
	matched := result.Data.([]model.Item)
	// default maxResults is 5 even when everything matches
	assert.Len(t, matched, 5)
	assert.Contains(t, result.Summary, "<strong>5</strong>")
}

func TestSearchItemsHonorsMaxResults(t *testing.T) {
	items := []model.Item{
		{ID: "1", Name: "Buy milk", ListName: "Groceries", ObjectType: "Task"},
		{ID: "2", Name: "Write report", ListName: "Work", ObjectType: "Task"},
	}

	r := NewRegistry()
	result := r.Execute(context.Background(), "search_items", map[string]any{"query": "milk", "maxResults": float64(1)}, testContext(t, items))

	require.True(t, result.Success)
	assert.Len(t, result.Data.([]model.Item), 1)
}

func TestAddItemsMaterializesDefaults(t *testing.T) {
	tc := testContext(t, nil)
	before := tc.Index.Len()

	r := NewRegistry()
	result := r.Execute(context.Background(), "add_items", map[string]any{
		"items": []any{
			map[string]any{"name": "Buy milk", "listName": "Groceries", "objectType": "Task", "isTask": true},
			map[string]any{"name": "Write report", "listName": "Work", "objectType": "Task"},
		},
	}, tc)

	require.True(t, result.Success, result.Error)
	created := result.Data.([]model.Item)
	require.Len(t, created, 2)

	for _, item := range created {
		assert.NotEmpty(t, item.ID)
		assert.Equal(t, model.DefaultListIcon, item.ListIcon)
		assert.Equal(t, model.DefaultObjectIcon, item.ObjectIcon)
		assert.Equal(t, model.DefaultItemIcon, item.Icon)
		assert.NotNil(t, item.Tags)
		assert.Empty(t, item.Tags)
		assert.NotNil(t, item.Fields)
		assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	}
	// every item in one call carries the same timestamps
	assert.Equal(t, created[0].CreatedAt, created[1].CreatedAt)
	assert.True(t, created[0].IsTask)

	assert.Equal(t, before+2, tc.Index.Len())
	assert.Contains(t, result.Summary, "Buy milk, Write report")
}

func TestAddItemsRejectsIncompleteDraft(t *testing.T) {
	tc := testContext(t, nil)

	r := NewRegistry()
	result := r.Execute(context.Background(), "add_items", map[string]any{
		"items": []any{
			map[string]any{"name": "Buy milk", "objectType": "Task"},
		},
	}, tc)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "listName")
	assert.Equal(t, 0, tc.Index.Len())
}

func TestUpdateItemsAppliesPatch(t *testing.T) {
	items := []model.Item{
		{ID: "m1", Name: "Buy milk", ListName: "Groceries", ObjectType: "Task", Tags: []string{"errands"}, CreatedAt: "2026-01-01T00:00:00Z", UpdatedAt: "2026-01-01T00:00:00Z"},
	}
	tc := testContext(t, items)

	r := NewRegistry()
	result := r.Execute(context.Background(), "update_items", map[string]any{
		"updates": []any{
			map[string]any{"id": "m1", "name": "Buy oat milk", "tags": []any{"errands", "food"}},
		},
	}, tc)

	require.True(t, result.Success, result.Error)
	updated := result.Data.([]model.Item)
	require.Len(t, updated, 1)
	assert.Equal(t, "Buy oat milk", updated[0].Name)
	assert.Equal(t, []string{"errands", "food"}, updated[0].Tags)
	assert.Equal(t, "2026-01-01T00:00:00Z", updated[0].CreatedAt)
	assert.NotEqual(t, "2026-01-01T00:00:00Z", updated[0].UpdatedAt)
	assert.Contains(t, result.Summary, "Buy oat milk")
}

func TestUpdateItemsUnknownIDFailsWholeCall(t *testing.T) {
	items := []model.Item{
		{ID: "m1", Name: "Buy milk", ListName: "Groceries", ObjectType: "Task"},
	}
	tc := testContext(t, items)

	r := NewRegistry()
	result := r.Execute(context.Background(), "update_items", map[string]any{
		"updates": []any{
			map[string]any{"id": "m1", "name": "changed"},
			map[string]any{"id": "ghost", "name": "never applied"},
		},
	}, tc)

	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "item with id ghost not found")
	// no partial application: the first patch was not committed either
	assert.Nil(t, result.Data)
}

func TestSummarizeItemsFilters(t *testing.T) {
	items := []model.Item{
		{ID: "1", Name: "A", ListName: "Work", ObjectType: "Task", UpdatedAt: "2026-03-01T00:00:00Z"},
		{ID: "2", Name: "B", ListName: "Work", ObjectType: "Task", UpdatedAt: "2026-03-03T00:00:00Z"},
		{ID: "3", Name: "C", ListName: "Work", ObjectType: "Note", UpdatedAt: "2026-03-02T00:00:00Z"},
		{ID: "4", Name: "D", ListName: "Personal", ObjectType: "Task", UpdatedAt: "2026-03-04T00:00:00Z"},
	}

	r := NewRegistry()
	result := r.Execute(context.Background(), "summarize_items", map[string]any{"listName": "work"}, testContext(t, items))

	require.True(t, result.Success)
	s := result.Data.(ItemSummary)
	assert.Equal(t, 3, s.TotalItems)
	assert.Equal(t, map[string]int{"Work": 3}, s.ByList)
	assert.Equal(t, map[string]int{"Task": 2, "Note": 1}, s.ByObjectType)

	// recent items come back newest first
	require.Len(t, s.RecentItems, 3)
	assert.Equal(t, "B", s.RecentItems[0].Name)
	assert.Equal(t, "C", s.RecentItems[1].Name)
	assert.Equal(t, "A", s.RecentItems[2].Name)

	assert.Contains(t, s.Narrative, "<strong>3</strong>")
	assert.Equal(t, s.Narrative, result.Summary)
}

func TestSummarizeItemsTagFilter(t *testing.T) {
	items := []model.Item{
		{ID: "1", Name: "A", ListName: "Work", ObjectType: "Task", Tags: []string{"Urgent-Today"}},
		{ID: "2", Name: "B", ListName: "Work", ObjectType: "Task", Tags: []string{"later"}},
	}

	r := NewRegistry()
	result := r.Execute(context.Background(), "summarize_items", map[string]any{"tags": []any{"urgent"}}, testContext(t, items))

	require.True(t, result.Success)
	assert.Equal(t, 1, result.Data.(ItemSummary).TotalItems)
}

func TestQuestionItemsNoMatches(t *testing.T) {
	r := NewRegistry()
	result := r.Execute(context.Background(), "question_items", map[string]any{"question": "what is due?"}, testContext(t, nil))

	require.True(t, result.Success)
	qa := result.Data.(QuestionAnswer)
	assert.Equal(t, "<p>I couldn't find any relevant items to answer your question.</p>", qa.Answer)
	assert.Empty(t, qa.RelevantItems)
	assert.Equal(t, "<p>No relevant items found for the question</p>", result.Summary)
}

func TestQuestionItemsGroundsAnswer(t *testing.T) {
	items := []model.Item{
		{ID: "1", Name: "Buy milk", ListName: "Groceries", ObjectType: "Task"},
	}

	r := NewRegistry()
	result := r.Execute(context.Background(), "question_items", map[string]any{"question": "what do I need to buy?"}, testContext(t, items))

	require.True(t, result.Success)
	qa := result.Data.(QuestionAnswer)
	assert.Equal(t, "what do I need to buy?", qa.Question)
	assert.Contains(t, qa.Answer, "Buy milk")
	require.Len(t, qa.RelevantItems, 1)
	assert.Contains(t, result.Summary, "1 relevant items")
}
