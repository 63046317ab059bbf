package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

func setupMongo(t *testing.T) (*MongoRepository, func()) {
	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err)

	uri, err := mongoContainer.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := ConnectMongoDB(ctx, MongoOptions{
		URI:                    uri,
		Database:               "testdb",
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		MaxPoolSize:            10,
	})
	require.NoError(t, err)

	repo := NewMongoRepository(db)
	require.NoError(t, repo.CreateIndexes(ctx))

	cleanup := func() {
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	}

	return repo, cleanup
}

func TestMongo_SaveAndLoadOrder(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo, cleanup := setupMongo(t)
	defer cleanup()
	ctx := context.Background()

	order := newTestOrder("ORD-20260101-000001")
	require.NoError(t, repo.SaveOrder(ctx, order))

	byID, err := repo.LoadOrder(ctx, order.ID)
	require.NoError(t, err)
	assertSameOrder(t, order, byID)

	byCode, err := repo.LoadOrderByCode(ctx, order.Code)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byCode.ID)

	byCheckout, err := repo.LoadOrderByCheckout(ctx, order.CheckoutID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, byCheckout.ID)
}

func TestMongo_Duplicates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo, cleanup := setupMongo(t)
	defer cleanup()
	ctx := context.Background()

	first := newTestOrder("ORD-20260101-000002")
	require.NoError(t, repo.SaveOrder(ctx, first))

	sameCode := newTestOrder(first.Code)
	assert.ErrorIs(t, repo.SaveOrder(ctx, sameCode), ErrDuplicateOrderCode)

	sameCheckout := newTestOrder("ORD-20260101-000003")
	sameCheckout.CheckoutID = first.CheckoutID
	assert.ErrorIs(t, repo.SaveOrder(ctx, sameCheckout), ErrDuplicateCheckout)
}

func TestMongo_PickupAndNotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo, cleanup := setupMongo(t)
	defer cleanup()
	ctx := context.Background()

	order := newTestOrder("ORD-20260101-000004")
	order.DeliveryMode = domain.DeliveryPickup
	order.Address = nil
	require.NoError(t, repo.SaveOrder(ctx, order))

	loaded, err := repo.LoadOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.Address)

	_, err = repo.LoadOrderByCode(ctx, "missing")
	assert.ErrorIs(t, err, ErrOrderNotFound)
	_, err = repo.LoadOrder(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestDecimal128RoundTrip(t *testing.T) {
	order := newTestOrder("ORD-20260101-000005")

	doc, err := toDocument(order)
	require.NoError(t, err)
	back, err := fromDocument(doc)
	require.NoError(t, err)

	assertSameOrder(t, order, back)
}

func TestMongo_UpdateOrderStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	repo, cleanup := setupMongo(t)
	defer cleanup()

	checkStatusTransitions(t, repo)
}
