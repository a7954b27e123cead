package service

import (
	"github.com/nileshk07/bloghub/internal/ai"
	"github.com/nileshk07/bloghub/internal/config"
	"github.com/nileshk07/bloghub/internal/media"
	"github.com/nileshk07/bloghub/internal/repository"
	"go.uber.org/zap"
)

type Services struct {
	Auth *AuthService
	User *UserService
	Blog *BlogService
	RAG  *RAGService
}

// Providers groups the external AI capabilities the services depend on.
type Providers struct {
	Embedder    ai.Embedder
	VectorStore ai.VectorStore
	Generator   ai.Generator
}

func NewServices(repos *repository.Repositories, mediaStore media.Store, providers Providers, cfg *config.Config, log *zap.SugaredLogger) *Services {
	auth := NewAuthService(repos.User, cfg)
	rag := NewRAGService(providers.Embedder, providers.VectorStore, providers.Generator, cfg.RetrievalTopK, log)

	return &Services{
		Auth: auth,
		User: NewUserService(repos.User, repos.Follow, auth, mediaStore, log),
		Blog: NewBlogService(repos.Blog, repos.Follow, mediaStore, rag, log),
		RAG:  rag,
	}
}
