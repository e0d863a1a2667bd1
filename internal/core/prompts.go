package core

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/tools"
)

const systemPromptTemplate = `You are a versatile Productivity AI assistant for an app called Bud. You have access to various tools to help users manage their tasks, notes, events, meals, recipes and any other items whatever the user asks for.

**Available Tools:**
%s

**Your Capabilities:**
1. **Tool Usage**: You can use tools to search, summarize, add, update, and answer questions about items
2. **Item Creation**: Create new items based on user requests
3. **Content Generation**: Generate content, draft emails, create lists, etc.
4. **Question Answering**: Answer questions about existing items or general knowledge

**Response Strategy:**
1. **Analyze Intent**: Determine if the user wants to use tools, create new items, or just get information
2. **Tool Selection**: If tools are needed, decide which tools to use and in what order
3. **Response Format**: Always respond with a structured JSON object

**Response Schema:**
{
  "message": "string",
  "toolCalls": [
    {
      "toolName": "string",
      "parameters": object
    }
  ],
  "createItems": [
    {
      "listName": "string",
      "listIcon": "string",
      "objectType": "string",
      "objectIcon": "string",
      "name": "string",
      "description": "string",
      "tags": ["string"],
      "fields": object,
      "isNote": boolean,
      "isTask": boolean,
      "icon": "string"
    }
  ]
}

**Examples:**

*Input: "Show me all my work tasks"*
Response:
{
  "message": "I'll search for all your work-related tasks.",
  "toolCalls": [
    {
      "toolName": "search_items",
      "parameters": {
        "query": "work tasks",
        "maxResults": 10
      }
    }
  ],
  "createItems": []
}

*Input: "Add a task to buy groceries tomorrow"*
Response:
{
  "message": "I'll add a grocery shopping task for you.",
  "toolCalls": [],
  "createItems": [
    {
      "listName": "Personal",
      "listIcon": "📋",
      "objectType": "Task",
      "objectIcon": "✅",
      "name": "Buy groceries",
      "description": "<div>Purchase groceries for tomorrow.</div>",
      "tags": ["shopping"],
      "fields": {"Due Date": "Tomorrow"},
      "isNote": false,
      "isTask": true,
      "icon": "🛒"
    }
  ]
}

*Input: "What's the capital of Japan?"*
Response:
{
  "message": "The capital of Japan is Tokyo. It's been the capital since 1868 and is one of the world's most populous metropolitan areas.",
  "toolCalls": [],
  "createItems": []
}

**Guidelines:**
- Always provide a helpful conversational response in the message field
- Use tools when users want to interact with existing items; create items when they ask to add something, never both for the same request
- The description field is HTML
- Be concise but informative
- Maintain consistency with existing items when creating new ones
- Use appropriate icons and categorization
- Return ONLY the JSON object, with no code fences or commentary`

// SystemPrompt renders the fixed instructions: catalogue, schema and worked
// examples.
func SystemPrompt(registry *tools.Registry) string {
	var catalogue strings.Builder
	for _, tool := range registry.List() {
		schema, _ := json.MarshalIndent(tools.Schema(tool.Params), "  ", "  ")
		fmt.Fprintf(&catalogue, "\n- %s: %s\n  Parameters: %s\n", tool.Name, tool.Description, schema)
	}
	return fmt.Sprintf(systemPromptTemplate, catalogue.String())
}

type collectionMetadata struct {
	lists       []string
	objectTypes []string
	tags        []string
}

func makeMetadata(items []model.Item) collectionMetadata {
	var meta collectionMetadata
	seenList := map[string]bool{}
	seenType := map[string]bool{}
	seenTag := map[string]bool{}

	for _, item := range items {
		if !seenList[item.ListName] {
			seenList[item.ListName] = true
			meta.lists = append(meta.lists, item.ListName)
		}
		if !seenType[item.ObjectType] {
			seenType[item.ObjectType] = true
			meta.objectTypes = append(meta.objectTypes, item.ObjectType)
		}
		for _, tag := range item.Tags {
			if !seenTag[tag] {
				seenTag[tag] = true
				meta.tags = append(meta.tags, tag)
			}
		}
	}
	return meta
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "None"
	}
	return strings.Join(values, ", ")
}

// formatDocumentsForContext renders retrieved documents as prompt context.
func formatDocumentsForContext(docs []model.Document) string {
	if len(docs) == 0 {
		return "No relevant items found."
	}

	var b strings.Builder
	for i, doc := range docs {
		m := doc.Metadata
		desc := m.Description
		if desc == "" {
			desc = "No description"
		}
		fmt.Fprintf(&b, `
**Relevant Item %d:**
- ID: %s
- Name: %s
- Type: %s in List %s
- Description: %s
- Tags: %s
- Similarity Score: %.3f
`, i+1, m.ID, m.Name, m.ObjectType, m.ListName, desc, joinOrNone(m.Tags), doc.Score)
	}
	return b.String()
}

func formatHistory(history []model.ChatMessage) string {
	if len(history) > 6 {
		history = history[len(history)-6:]
	}
	if len(history) == 0 {
		return "No previous conversation"
	}

	lines := make([]string, len(history))
	for i, msg := range history {
		lines[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}
	return strings.Join(lines, "\n")
}

func buildTurnPrompt(input string, items []model.Item, docs []model.Document, history []model.ChatMessage) string {
	meta := makeMetadata(items)
	return fmt.Sprintf(`
**Context:**
- User Input: "%s"

**Existing Data:**
- listNames: %s
- objectTypes: %s
- tags: %s

**Similar Existing Items (for context):**
%s

**Recent Chat History:**
%s

Please analyze the user input and provide a response with appropriate tool calls and/or item creation.
`, input, joinOrNone(meta.lists), joinOrNone(meta.objectTypes), joinOrNone(meta.tags),
		formatDocumentsForContext(docs), formatHistory(history))
}
