package service_test

import (
	"testing"

	"github.com/nileshk07/bloghub/internal/ai"
	"github.com/nileshk07/bloghub/internal/repository/postgres"
	"github.com/nileshk07/bloghub/internal/service"
	"github.com/nileshk07/bloghub/internal/testutil"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv holds the services wired over in-memory fakes, plus handles to
// the fakes so tests can inspect or break them.
type testEnv struct {
	DB       *gorm.DB
	Services *service.Services
	Vectors  *ai.MemoryStore
	Media    *testutil.MemoryMedia
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(db)
	vectors := ai.NewMemoryStore()
	mediaStore := testutil.NewMemoryMedia()

	services := service.NewServices(repos, mediaStore, service.Providers{
		Embedder:    testutil.WordHashEmbedder{},
		VectorStore: vectors,
		Generator:   testutil.EchoGenerator{},
	}, testutil.TestConfig(), zap.NewNop().Sugar())

	return &testEnv{DB: db, Services: services, Vectors: vectors, Media: mediaStore}
}
