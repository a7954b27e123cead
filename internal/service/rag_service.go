package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/ai"
	"github.com/nileshk07/bloghub/internal/domain"
	"go.uber.org/zap"
)

// RAGService keeps the vector index in lockstep with blog content and
// answers questions grounded in retrieved passages.
type RAGService struct {
	embedder ai.Embedder
	store    ai.VectorStore
	gen      ai.Generator
	topK     int
	log      *zap.SugaredLogger
}

func NewRAGService(embedder ai.Embedder, store ai.VectorStore, gen ai.Generator, topK int, log *zap.SugaredLogger) *RAGService {
	if topK <= 0 {
		topK = 5
	}
	return &RAGService{embedder: embedder, store: store, gen: gen, topK: topK, log: log}
}

// IndexBlog embeds the blog's passage and upserts it keyed by the blog id.
func (s *RAGService) IndexBlog(ctx context.Context, blog *domain.Blog) error {
	vector, err := s.embedder.Embed(ctx, blog.EmbeddingText())
	if err != nil {
		return fmt.Errorf("%w: embedding failed: %v", domain.ErrInternal, err)
	}
	meta := ai.Metadata{Title: blog.Title, Description: blog.Description}
	if err := s.store.Upsert(ctx, blog.ID.String(), vector, meta); err != nil {
		return fmt.Errorf("%w: vector upsert failed: %v", domain.ErrInternal, err)
	}
	return nil
}

// RemoveBlog deletes the blog's vector record; removing an absent record
// is a success.
func (s *RAGService) RemoveBlog(ctx context.Context, blogID uuid.UUID) error {
	if err := s.store.Delete(ctx, blogID.String()); err != nil {
		return fmt.Errorf("%w: vector delete failed: %v", domain.ErrInternal, err)
	}
	return nil
}

// Answer embeds the question, retrieves the nearest passages and asks the
// generator for an answer grounded in them. Empty retrieval is a client
// error rather than a prompt with no context.
func (s *RAGService) Answer(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", fmt.Errorf("%w: question is required", domain.ErrInvalidArgument)
	}

	vector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return "", fmt.Errorf("%w: embedding failed: %v", domain.ErrInternal, err)
	}

	results, err := s.store.Search(ctx, vector, s.topK)
	if err != nil {
		return "", fmt.Errorf("%w: retrieval failed: %v", domain.ErrInternal, err)
	}
	if len(results) == 0 {
		return "", domain.ErrNoContext
	}

	passages := make([]string, 0, len(results))
	for _, r := range results {
		if r.Metadata.Description != "" {
			passages = append(passages, r.Metadata.Description)
		}
	}
	if len(passages) == 0 {
		return "", domain.ErrNoContext
	}

	answer, err := s.gen.Generate(ctx, strings.Join(passages, "\n"), question)
	if err != nil {
		return "", fmt.Errorf("%w: generation failed: %v", domain.ErrInternal, err)
	}

	s.log.Debugw("answered question", "passages", len(passages))
	return answer, nil
}
