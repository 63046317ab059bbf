package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/fjod/go_cart/storefront/internal/checkout"
	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStore(client, time.Hour), mr
}

func testState(id string) *State {
	return &State{
		ID: id,
		Cart: domain.Cart{
			Items: []domain.LineItem{{ProductID: 1, SKU: "JEAN-MOM-01", UnitPrice: decimal.RequireFromString("120.00"), SizeID: 1, SizeCode: "28", Quantity: 2}},
			Open:  true,
		},
		Checkout: checkout.State{
			ID:   uuid.New(),
			Step: domain.StepPayment,
			Payment: domain.PaymentInfo{
				Method:         domain.PaymentCard,
				CardNumber:     "4111111111111111",
				CardholderName: "ANA",
				CVV:            "123",
			},
		},
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}
}

func TestRedisStore_SetGet(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()
	st := testState("abc")

	require.NoError(t, store.Set(ctx, st))
	got, err := store.Get(ctx, "abc")

	require.NoError(t, err)
	assert.Equal(t, st.Checkout.ID, got.Checkout.ID)
	assert.Equal(t, domain.StepPayment, got.Checkout.Step)
	require.Len(t, got.Cart.Items, 1)
	assert.True(t, got.Cart.Items[0].UnitPrice.Equal(decimal.RequireFromString("120.00")))
	assert.Equal(t, 2, got.Cart.Items[0].Quantity)
	assert.True(t, got.Cart.Open)
}

func TestRedisStore_DoesNotPersistCardSecrets(t *testing.T) {
	store, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, testState("abc")))

	raw, err := mr.Get("session:abc")
	require.NoError(t, err)
	assert.NotContains(t, raw, "4111111111111111")
	assert.NotContains(t, raw, `"123"`)
	assert.Contains(t, raw, "ANA")
}

func TestRedisStore_Miss(t *testing.T) {
	store, _ := setupRedis(t)

	_, err := store.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	store, mr := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, testState("abc")))

	ttl := mr.TTL("session:abc")
	assert.GreaterOrEqual(t, ttl, time.Hour)
	assert.Less(t, ttl, time.Hour+5*time.Minute)

	mr.FastForward(2 * time.Hour)
	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_Delete(t *testing.T) {
	store, _ := setupRedis(t)
	ctx := context.Background()
	require.NoError(t, store.Set(ctx, testState("abc")))

	require.NoError(t, store.Delete(ctx, "abc"))

	_, err := store.Get(ctx, "abc")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_ConnectionError(t *testing.T) {
	store, mr := setupRedis(t)
	mr.Close()

	_, err := store.Get(context.Background(), "abc")

	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStore_CorruptPayload(t *testing.T) {
	store, mr := setupRedis(t)
	require.NoError(t, mr.Set("session:bad", "{not json"))

	_, err := store.Get(context.Background(), "bad")

	assert.ErrorContains(t, err, "unmarshal session failed")
}
