package model

// Document is the retrieval view of an Item: the concatenated text blob the
// embedding was computed from, a metadata copy of the item, and an ephemeral
// similarity score populated only on query results.
type Document struct {
	PageContent string  `json:"pageContent"`
	Metadata    Item    `json:"metadata"`
	Score       float64 `json:"score"`
}

// ToolResult is produced once per tool invocation and never mutated after.
type ToolResult struct {
	ToolName string `json:"toolName"`
	Success  bool   `json:"success"`
	Data     any    `json:"data,omitempty"`
	Error    string `json:"error,omitempty"`
	Summary  string `json:"summary"`
}

// ToolCall is a single tool invocation requested by the generation output.
type ToolCall struct {
	ToolName   string         `json:"toolName"`
	Parameters map[string]any `json:"parameters"`
}

// AgentResponse is the parsed contract of one generation call.
type AgentResponse struct {
	Message     string      `json:"message"`
	ToolCalls   []ToolCall  `json:"toolCalls"`
	CreateItems []ItemDraft `json:"createItems"`
}

// TurnResult aggregates everything one orchestrator turn produced. The caller
// persists CreatedItems/UpdatedItems and appends the turn to chat history.
type TurnResult struct {
	Message      string       `json:"message"`
	ToolResults  []ToolResult `json:"toolResults"`
	CreatedItems []Item       `json:"createdItems"`
	UpdatedItems []Item       `json:"updatedItems"`
}

// ChatMessage is one turn of the conversation history, appended-only.
type ChatMessage struct {
	ID           string       `json:"id"`
	Role         string       `json:"role"` // "user" | "assistant"
	Content      string       `json:"content"`
	Timestamp    string       `json:"timestamp"`
	ToolResults  []ToolResult `json:"toolResults,omitempty"`
	CreatedItems []Item       `json:"createdItems,omitempty"`
	UpdatedItems []Item       `json:"updatedItems,omitempty"`
}
