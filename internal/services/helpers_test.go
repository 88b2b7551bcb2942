package services

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/school-portal-service/internal/auth"
	"github.com/SAP-F-2025/school-portal-service/internal/events"
	"github.com/SAP-F-2025/school-portal-service/internal/storage"
	"github.com/SAP-F-2025/school-portal-service/internal/validator"
)

type testEnv struct {
	repo      *fakeRepository
	publisher *events.MockEventPublisher
	store     *storage.LocalStore
	uploadDir string
	logger    *slog.Logger
	manager   ServiceManager
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := testLogger()
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, 1<<20)
	require.NoError(t, err)

	env := &testEnv{
		repo:      newFakeRepository(),
		publisher: events.NewMockEventPublisher(logger),
		store:     store,
		uploadDir: dir,
		logger:    logger,
	}
	env.manager = NewServiceManager(ServiceDeps{
		Repo:      env.repo,
		Logger:    logger,
		Validator: validator.New(),
		Files:     store,
		Publisher: env.publisher,
		Tokens:    auth.NewTokenManager("test-secret", time.Hour),
	}, ServiceManagerConfig{
		AdminSeed:       AdminSeed{Username: "admin", Email: "admin@example.com", Password: "admin123"},
		AssistantAPIKey: "test-key",
	})
	require.NoError(t, env.manager.Initialize(t.Context()))
	return env
}
