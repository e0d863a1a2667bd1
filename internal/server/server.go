package server

import (
	"context"
	"log"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/anirudha4/bud.oneapp.studio/internal/config"
	"github.com/anirudha4/bud.oneapp.studio/internal/core"
	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/llm"
	"github.com/anirudha4/bud.oneapp.studio/internal/session"
	"github.com/anirudha4/bud.oneapp.studio/internal/store"
)

type Server struct {
	Agent *core.Agent
	Store store.ItemStore

	// Turns are serialized: the agent pipeline assumes one snapshot at a
	// time, and history appends must interleave in order.
	turnMu  sync.Mutex
	histMu  sync.RWMutex
	history []model.ChatMessage
}

func NewServer() *Server {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("No config file at %s (%v), using env configuration only", cfgPath, err)
		cfg = &config.Config{}
	}

	// Env overrides
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "gemini"
		cfg.LLM.Model = "gemini-2.0-flash-exp"
	}

	llmClient, embedderClient, err := llm.NewClient(context.Background(), cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	if embedderClient == nil {
		log.Fatalf("Provider %q does not support embeddings; similarity features require an embedding-capable provider", cfg.LLM.Provider)
	}

	var itemStore store.ItemStore
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.Redis.Addr, err)
		}
		log.Printf("Using Redis item store at %s", cfg.Redis.Addr)
		itemStore = store.NewRedisStore(client)
	} else {
		log.Println("REDIS_ADDR not set, using in-memory item store")
		itemStore = store.NewMemoryStore()
	}

	sessions := &session.Static{Name: os.Getenv("SESSION_NAME"), APIKey: cfg.LLM.APIKey}
	agent := core.NewAgent(llmClient, embedderClient, sessions, cfg.Narration)

	return &Server{Agent: agent, Store: itemStore}
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.POST("/chat", s.Chat)
	r.POST("/similar", s.Similar)
	r.GET("/history", s.History)

	r.GET("/items", s.ListItems)
	r.POST("/items", s.CreateItem)
	r.PUT("/items/:id", s.UpdateItem)
	r.DELETE("/items/:id", s.DeleteItem)

	return r
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

func (s *Server) Chat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	s.turnMu.Lock()
	defer s.turnMu.Unlock()

	ctx := c.Request.Context()
	items, err := s.Store.List(ctx)
	if err != nil {
		log.Printf("Failed to list items: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}

	s.histMu.RLock()
	history := make([]model.ChatMessage, len(s.history))
	copy(history, s.history)
	s.histMu.RUnlock()

	result := s.Agent.RunTurn(ctx, req.Message, items, history)

	for i := range result.CreatedItems {
		if err := s.Store.Save(ctx, &result.CreatedItems[i]); err != nil {
			log.Printf("Failed to persist created item %s: %v", result.CreatedItems[i].ID, err)
		}
	}
	for i := range result.UpdatedItems {
		if err := s.Store.Save(ctx, &result.UpdatedItems[i]); err != nil {
			log.Printf("Failed to persist updated item %s: %v", result.UpdatedItems[i].ID, err)
		}
	}

	now := model.Timestamp(time.Now())
	s.histMu.Lock()
	s.history = append(s.history,
		model.ChatMessage{
			ID:        uuid.New().String(),
			Role:      "user",
			Content:   req.Message,
			Timestamp: now,
		},
		model.ChatMessage{
			ID:           uuid.New().String(),
			Role:         "assistant",
			Content:      result.Message,
			Timestamp:    now,
			ToolResults:  result.ToolResults,
			CreatedItems: result.CreatedItems,
			UpdatedItems: result.UpdatedItems,
		})
	s.histMu.Unlock()

	c.JSON(http.StatusOK, result)
}

type SimilarRequest struct {
	Query string `json:"query" binding:"required"`
	K     int    `json:"k"`
}

func (s *Server) Similar(c *gin.Context) {
	var req SimilarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.K <= 0 {
		req.K = 5
	}

	ctx := c.Request.Context()
	items, err := s.Store.List(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}

	docs, err := s.Agent.FindSimilar(ctx, req.Query, items, req.K)
	if err != nil {
		log.Printf("Similarity lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Similarity lookup failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": docs})
}

func (s *Server) History(c *gin.Context) {
	s.histMu.RLock()
	history := make([]model.ChatMessage, len(s.history))
	copy(history, s.history)
	s.histMu.RUnlock()

	c.JSON(http.StatusOK, gin.H{"messages": history})
}

func (s *Server) ListItems(c *gin.Context) {
	items, err := s.Store.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (s *Server) CreateItem(c *gin.Context) {
	var draft model.ItemDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if draft.Name == "" || draft.ListName == "" || draft.ObjectType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name, listName and objectType are required"})
		return
	}

	item := model.Materialize(draft, time.Now().UTC())
	if err := s.Store.Save(c.Request.Context(), &item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save item"})
		return
	}
	c.JSON(http.StatusCreated, item)
}

func (s *Server) UpdateItem(c *gin.Context) {
	var patch map[string]any
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	ctx := c.Request.Context()
	existing, err := s.Store.Get(ctx, c.Param("id"))
	if err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}

	updated := model.ApplyPatch(*existing, patch)
	updated.UpdatedAt = model.Timestamp(time.Now())
	if err := s.Store.Save(ctx, &updated); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save item"})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (s *Server) DeleteItem(c *gin.Context) {
	if err := s.Store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if err == store.ErrNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete item"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
