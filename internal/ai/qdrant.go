package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"
)

type statusError struct {
	code int
	msg  string
}

func (e *statusError) Error() string { return e.msg }

// QdrantStore is a minimal REST client to Qdrant. It assumes cosine
// distance and creates the collection lazily on first upsert, sized to
// the first vector it sees.
type QdrantStore struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu          sync.Mutex
	initialized bool
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewQdrantStore(cfg QdrantConfig) *QdrantStore {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &QdrantStore{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *QdrantStore) ensureCollection(ctx context.Context, dimension int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	body := map[string]any{
		"vectors": map[string]any{
			"size":     dimension,
			"distance": "Cosine",
		},
	}
	// Qdrant answers 200 if the collection already exists with the same schema.
	if err := s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s", s.url, s.collection), body, nil); err != nil {
		return err
	}
	s.initialized = true
	return nil
}

func (s *QdrantStore) Upsert(ctx context.Context, id string, vector []float64, meta Metadata) error {
	if err := s.ensureCollection(ctx, len(vector)); err != nil {
		return err
	}
	body := map[string]any{
		"points": []map[string]any{
			{
				"id":     id,
				"vector": vector,
				"payload": map[string]any{
					"title":       meta.Title,
					"description": meta.Description,
				},
			},
		},
	}
	return s.doJSON(ctx, http.MethodPut, fmt.Sprintf("%s/collections/%s/points?wait=true", s.url, s.collection), body, nil)
}

func (s *QdrantStore) Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			ID      any            `json:"id"`
			Score   float64        `json:"score"`
			Payload map[string]any `json:"payload"`
		} `json:"result"`
	}
	err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/search", s.url, s.collection), body, &resp)
	if err != nil {
		return nil, err
	}
	results := make([]SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		res := SearchResult{ID: fmt.Sprint(r.ID), Score: r.Score}
		if v, ok := r.Payload["title"].(string); ok {
			res.Metadata.Title = v
		}
		if v, ok := r.Payload["description"].(string); ok {
			res.Metadata.Description = v
		}
		results = append(results, res)
	}
	return results, nil
}

func (s *QdrantStore) Delete(ctx context.Context, id string) error {
	body := map[string]any{
		"points": []string{id},
	}
	// Deleting an absent point is a success in Qdrant. A 404 means the
	// collection itself was never created, so the point is absent too.
	err := s.doJSON(ctx, http.MethodPost, fmt.Sprintf("%s/collections/%s/points/delete?wait=true", s.url, s.collection), body, nil)
	var se *statusError
	if errors.As(err, &se) && se.code == http.StatusNotFound {
		return nil
	}
	return err
}

func (s *QdrantStore) doJSON(ctx context.Context, method, url string, body any, out any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return &statusError{code: resp.StatusCode, msg: fmt.Sprintf("qdrant %s %s failed: %s", method, url, resp.Status)}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
