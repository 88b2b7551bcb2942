package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceManager_Lifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	require.NoError(t, env.manager.Initialize(ctx), "second initialize is a no-op")
	require.NoError(t, env.manager.HealthCheck(ctx))
	assert.NotNil(t, env.manager.Policy())

	require.NoError(t, env.manager.Shutdown(ctx))
	assert.Error(t, env.manager.HealthCheck(ctx))
}

func TestServiceManager_RequiresDependencies(t *testing.T) {
	sm := NewServiceManager(ServiceDeps{Logger: testLogger()}, ServiceManagerConfig{})
	assert.Error(t, sm.Initialize(context.Background()))
	assert.Panics(t, func() { sm.Grade() })
}
