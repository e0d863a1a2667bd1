// Package index maintains an in-memory similarity index over items: one
// embedding vector plus a metadata document per item, queried by cosine
// similarity. An Index is an explicit object owned by its caller; it holds
// derived, disposable state and never the canonical item records.
package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/anirudha4/bud.oneapp.studio/internal/core/model"
	"github.com/anirudha4/bud.oneapp.studio/internal/llm"
)

type entry struct {
	doc    model.Document
	vector []float32
}

type Index struct {
	mu       sync.RWMutex
	embedder llm.Embedder
	entries  []entry
	built    bool
}

func New(embedder llm.Embedder) *Index {
	return &Index{embedder: embedder}
}

// TextBlob builds the searchable content for an item: name, description,
// tags, type, list and stringified custom fields joined into one string.
func TextBlob(item model.Item) string {
	parts := []string{
		item.Name,
		item.Description,
		strings.Join(item.Tags, " "),
		item.ObjectType,
		item.ListName,
	}
	for key, value := range item.Fields {
		parts = append(parts, fmt.Sprintf("%s: %v", key, value))
	}

	var kept []string
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}

// Rebuild discards prior state and re-embeds every item. An empty input
// yields an empty, queryable index.
func (ix *Index) Rebuild(ctx context.Context, items []model.Item) error {
	entries, err := ix.embedAll(ctx, items, "rebuild")
	if err != nil {
		return err
	}

	ix.mu.Lock()
	ix.entries = entries
	ix.built = true
	ix.mu.Unlock()
	return nil
}

// Add embeds and appends items. Fails with ErrNotInitialized before the
// first Rebuild.
func (ix *Index) Add(ctx context.Context, items []model.Item) error {
	ix.mu.RLock()
	built := ix.built
	ix.mu.RUnlock()
	if !built {
		return ErrNotInitialized
	}
	if len(items) == 0 {
		return nil
	}

	entries, err := ix.embedAll(ctx, items, "add")
	if err != nil {
		return err
	}

	ix.mu.Lock()
	ix.entries = append(ix.entries, entries...)
	ix.mu.Unlock()
	return nil
}

// Update replaces the indexed view of an item: remove then re-add.
func (ix *Index) Update(ctx context.Context, item model.Item) error {
	ix.mu.RLock()
	built := ix.built
	ix.mu.RUnlock()
	if !built {
		return ErrNotInitialized
	}

	ix.Remove(item.ID)
	return ix.Add(ctx, []model.Item{item})
}

// Remove deletes every vector whose metadata id matches. Removing an unknown
// id is a no-op.
func (ix *Index) Remove(id string) {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	kept := make([]entry, 0, len(ix.entries))
	for _, e := range ix.entries {
		if e.doc.Metadata.ID != id {
			kept = append(kept, e)
		}
	}
	ix.entries = kept
}

// Search returns up to k documents with similarity >= minScore, ordered by
// descending score. Scores are cosine similarity clamped to [0,1].
func (ix *Index) Search(ctx context.Context, query string, k int, minScore float64) ([]model.Document, error) {
	ix.mu.RLock()
	if !ix.built {
		ix.mu.RUnlock()
		return nil, ErrNotInitialized
	}
	entries := ix.entries
	ix.mu.RUnlock()

	if len(entries) == 0 || k <= 0 {
		return []model.Document{}, nil
	}

	vec, err := ix.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &EmbeddingError{Op: "search", Err: err}
	}

	results := make([]model.Document, 0, len(entries))
	for _, e := range entries {
		score := cosineSimilarity(vec, e.vector)
		if score < minScore {
			continue
		}
		doc := e.doc
		doc.Score = score
		results = append(results, doc)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Ensure builds the index from items when it has not been built yet.
func (ix *Index) Ensure(ctx context.Context, items []model.Item) error {
	ix.mu.RLock()
	built := ix.built
	ix.mu.RUnlock()
	if built {
		return nil
	}
	return ix.Rebuild(ctx, items)
}

func (ix *Index) Len() int {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return len(ix.entries)
}

// embedAll computes every vector before any state mutation, so a provider
// failure leaves previously indexed state intact.
func (ix *Index) embedAll(ctx context.Context, items []model.Item, op string) ([]entry, error) {
	if len(items) == 0 {
		return nil, nil
	}
	if ix.embedder == nil {
		return nil, &EmbeddingError{Op: op, Err: fmt.Errorf("no embedding provider configured")}
	}

	texts := make([]string, len(items))
	for i, item := range items {
		texts[i] = TextBlob(item)
	}

	vecs, err := ix.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, &EmbeddingError{Op: op, Err: err}
	}
	if len(vecs) != len(items) {
		return nil, &EmbeddingError{Op: op, Err: fmt.Errorf("expected %d vectors, got %d", len(items), len(vecs))}
	}

	entries := make([]entry, len(items))
	for i, item := range items {
		entries[i] = entry{
			doc:    model.Document{PageContent: texts[i], Metadata: item},
			vector: vecs[i],
		}
	}
	return entries, nil
}

// cosineSimilarity is clamped to [0,1]: mismatched or zero vectors score 0,
// negative cosine floors at 0 so thresholds stay meaningful.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}
