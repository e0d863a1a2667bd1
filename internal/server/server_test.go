package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anirudha4/bud.oneapp.studio/internal/config"
	"github.com/anirudha4/bud.oneapp.studio/internal/core"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/session"
	"github.com/anirudha4/bud.oneapp.studio/internal/store"
)

type stubLLM struct {
	ResponseQueue []string
}

func (s *stubLLM) Generate(ctx context.Context, prompt, system string, maxTokens int) (string, error) {
	if len(s.ResponseQueue) > 0 {
		resp := s.ResponseQueue[0]
		s.ResponseQueue = s.ResponseQueue[1:]
		return resp, nil
	}
	return "", nil
}

type stubEmbedder struct{}

func (stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return []float32{1}, nil
}

func (stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func testServer(llmResponses ...string) *Server {
	gin.SetMode(gin.TestMode)
	agent := core.NewAgent(&stubLLM{ResponseQueue: llmResponses}, stubEmbedder{}, &session.Static{APIKey: "test-key"}, config.NarrationPrompts{})
	return &Server{Agent: agent, Store: store.NewMemoryStore()}
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, payload any) *httptest.ResponseRecorder {
	t.Helper()
	var body *bytes.Buffer
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewBuffer(data)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestItemCRUD(t *testing.T) {
	srv := testServer()
	r := srv.SetupRouter()

	// create
	w := doRequest(t, r, http.MethodPost, "/items", map[string]any{
		"name":       "Buy milk",
		"listName":   "Groceries",
		"objectType": "Task",
		"isTask":     true,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, model.DefaultListIcon, created.ListIcon)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	// list
	w = doRequest(t, r, http.MethodGet, "/items", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listResp struct {
		Items []model.Item `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listResp))
	require.Len(t, listResp.Items, 1)

	// update
	w = doRequest(t, r, http.MethodPut, "/items/"+created.ID, map[string]any{"name": "Buy oat milk"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated model.Item
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &updated))
	assert.Equal(t, "Buy oat milk", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	// delete
	w = doRequest(t, r, http.MethodDelete, "/items/"+created.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, r, http.MethodDelete, "/items/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateItemValidation(t *testing.T) {
	srv := testServer()
	r := srv.SetupRouter()

	w := doRequest(t, r, http.MethodPost, "/items", map[string]any{"name": "No list"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateMissingItem(t *testing.T) {
	srv := testServer()
	r := srv.SetupRouter()

	w := doRequest(t, r, http.MethodPut, "/items/ghost", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestChatPersistsCreatedItems(t *testing.T) {
	srv := testServer(`{
		"message": "<p>Added a task to buy milk.</p>",
		"createItems": [{"name": "Buy milk", "listName": "Personal", "objectType": "Task", "isTask": true}]
	}`)
	r := srv.SetupRouter()

	w := doRequest(t, r, http.MethodPost, "/chat", map[string]any{"message": "Add a task to buy milk"})
	require.Equal(t, http.StatusOK, w.Code)

	var result model.TurnResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "<p>Added a task to buy milk.</p>", result.Message)
	require.Len(t, result.CreatedItems, 1)

	// the created item is persisted
	items, err := srv.Store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Buy milk", items[0].Name)

	// the turn landed in history as a user/assistant pair
	w = doRequest(t, r, http.MethodGet, "/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var histResp struct {
		Messages []model.ChatMessage `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &histResp))
	require.Len(t, histResp.Messages, 2)
	assert.Equal(t, "user", histResp.Messages[0].Role)
	assert.Equal(t, "Add a task to buy milk", histResp.Messages[0].Content)
	assert.Equal(t, "assistant", histResp.Messages[1].Role)
	require.Len(t, histResp.Messages[1].CreatedItems, 1)
}

func TestChatRequiresMessage(t *testing.T) {
	srv := testServer()
	r := srv.SetupRouter()

	w := doRequest(t, r, http.MethodPost, "/chat", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSimilar(t *testing.T) {
	srv := testServer()
	r := srv.SetupRouter()

	item := model.Item{ID: "1", Name: "Buy milk", ListName: "Groceries", ObjectType: "Task"}
	require.NoError(t, srv.Store.Save(context.Background(), &item))

	w := doRequest(t, r, http.MethodPost, "/similar", map[string]any{"query": "milk"})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Results []model.Document `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "1", resp.Results[0].Metadata.ID)
}
