package main

import (
	"context"
	"testing"

	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRootCommandWiring(t *testing.T) {
	cmd := rootCmd()

	for _, name := range []string{"serve", "migrate", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("config"))
}

func TestOpenStores_MemoryDrivers(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Catalog.Driver = config.StoreMemory
	ctx := context.Background()

	cat, closeCatalog, err := openCatalog(cfg, zap.NewNop(), false)
	require.NoError(t, err)
	defer closeCatalog()
	products, err := cat.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)

	store, err := openOrders(ctx, cfg, zap.NewNop(), false)
	require.NoError(t, err)
	assert.Nil(t, store.outbox, "memory orders have no outbox")
	assert.NotNil(t, store.status)
	require.NoError(t, store.close())

	sessions, closeSessions, err := openSessions(ctx, cfg)
	require.NoError(t, err)
	assert.NotNil(t, sessions)
	require.NoError(t, closeSessions())
}
