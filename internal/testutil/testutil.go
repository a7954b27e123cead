package testutil

import (
	"fmt"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nileshk07/bloghub/internal/ai"
	"github.com/nileshk07/bloghub/internal/api"
	"github.com/nileshk07/bloghub/internal/config"
	"github.com/nileshk07/bloghub/internal/repository/postgres"
	"github.com/nileshk07/bloghub/internal/service"
	"go.uber.org/zap"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// NewTestDB opens an in-memory SQLite database (modernc, no cgo) and runs
// the migrations. Each call gets its own named database so tests stay
// isolated.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String()[:8])
	dial := gormsqlite.Dialector{DriverName: "sqlite", DSN: dsn}
	db, err := gorm.Open(dial, &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := postgres.Migrate(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	return db
}

// TestConfig returns a config with short token TTLs and test secrets.
func TestConfig() *config.Config {
	return &config.Config{
		Environment:        "development",
		AccessTokenSecret:  "test-access-secret",
		RefreshTokenSecret: "test-refresh-secret",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    24 * time.Hour,
		RetrievalTopK:      5,
	}
}

// TestServer bundles a fully wired API over in-memory fakes.
type TestServer struct {
	Server   *httptest.Server
	DB       *gorm.DB
	Services *service.Services
	Vectors  *ai.MemoryStore
	Media    *MemoryMedia
}

// NewTestServer wires the router over an in-memory database, vector store,
// media store, the word-hash embedder and an echoing generator.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	db := NewTestDB(t)
	repos := postgres.NewRepositories(db)
	cfg := TestConfig()

	vectors := ai.NewMemoryStore()
	mediaStore := NewMemoryMedia()

	services := service.NewServices(repos, mediaStore, service.Providers{
		Embedder:    WordHashEmbedder{},
		VectorStore: vectors,
		Generator:   EchoGenerator{},
	}, cfg, zap.NewNop().Sugar())

	srv := httptest.NewServer(api.NewRouter(services, cfg))
	t.Cleanup(srv.Close)

	return &TestServer{
		Server:   srv,
		DB:       db,
		Services: services,
		Vectors:  vectors,
		Media:    mediaStore,
	}
}

// URL joins the test server base URL with a path.
func (ts *TestServer) URL(path string) string {
	return ts.Server.URL + path
}
