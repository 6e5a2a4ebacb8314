package store_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"moda/internal/models"
	"moda/internal/storage"
	"moda/internal/store"
)

// MockStorage is a mock implementation of store.Storage
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockStorage) Set(ctx context.Context, key, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func product(id string, price int64) models.Product {
	return models.Product{ID: id, Name: "Product " + id, Price: price, Category: "상의", Stock: 10}
}

func item(id, color, size string, qty int) models.CartItem {
	return models.CartItem{Product: product(id, 10000), Quantity: qty, SelectedColor: color, SelectedSize: size}
}

func order(id string) models.Order {
	return models.Order{
		ID:        id,
		Items:     []models.CartItem{item("1", "", "", 1)},
		Total:     13000,
		Status:    models.StatusPending,
		CreatedAt: time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
		ShippingAddress: models.ShippingAddress{
			Name: "김하늘", Phone: "010-0000-0000", ZipCode: "04524", Address: "서울시 중구", DetailAddress: "101호",
		},
		PaymentMethod: models.PaymentCard,
	}
}

func TestNew_SeedsCatalogWithoutStorage(t *testing.T) {
	s := store.New(nil)

	snap := s.Snapshot()
	assert.Len(t, snap.Products, 8)
	assert.Equal(t, "1", snap.Products[0].ID)
	assert.Equal(t, int64(89900), snap.Products[0].Price)
	assert.Empty(t, snap.Cart)
	assert.Empty(t, snap.Orders)
}

func TestAddToCart_MergesIdenticalKey(t *testing.T) {
	s := store.New(nil)

	s.AddToCart(item("1", "블랙", "", 1))
	s.AddToCart(item("1", "블랙", "", 1))

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 2, cart[0].Quantity)
}

func TestAddToCart_SumsQuantities(t *testing.T) {
	s := store.New(nil)

	for _, q := range []int{1, 3, 5} {
		s.AddToCart(item("4", "블루", "M", q))
	}

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, 9, cart[0].Quantity)
}

func TestAddToCart_NewKeyAppends(t *testing.T) {
	s := store.New(nil)

	s.AddToCart(item("4", "블루", "M", 2))
	s.AddToCart(item("4", "블루", "L", 1))
	s.AddToCart(item("4", "올리브", "M", 1))
	s.AddToCart(item("5", "블루", "M", 1))

	cart := s.Cart()
	require.Len(t, cart, 4)
	assert.Equal(t, models.CartKey{ProductID: "4", Color: "블루", Size: "M"}, cart[0].Key())
	assert.Equal(t, 2, cart[0].Quantity)
	assert.Equal(t, "L", cart[1].SelectedSize)
	assert.Equal(t, "올리브", cart[2].SelectedColor)
	assert.Equal(t, "5", cart[3].Product.ID)
}

func TestAddToCart_CapturesProductSnapshot(t *testing.T) {
	s := store.New(nil)

	p := product("1", 89900)
	p.Colors = []string{"브라운"}
	s.AddToCart(models.CartItem{Product: p, Quantity: 1})

	p.Colors[0] = "changed"
	s.UpdateProduct(models.Product{ID: "1", Name: "Renamed", Price: 1})

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "Product 1", cart[0].Product.Name)
	assert.Equal(t, int64(89900), cart[0].Product.Price)
	assert.Equal(t, []string{"브라운"}, cart[0].Product.Colors)
}

func TestRemoveFromCart_RemovesEveryVariant(t *testing.T) {
	s := store.New(nil)
	s.AddToCart(item("4", "블루", "M", 1))
	s.AddToCart(item("4", "올리브", "L", 1))
	s.AddToCart(item("5", "블랙", "S", 1))

	assert.True(t, s.RemoveFromCart("4"))

	cart := s.Cart()
	require.Len(t, cart, 1)
	assert.Equal(t, "5", cart[0].Product.ID)

	assert.False(t, s.RemoveFromCart("4"))
}

func TestUpdateCartQuantity(t *testing.T) {
	s := store.New(nil)
	s.AddToCart(item("4", "블루", "M", 1))
	s.AddToCart(item("4", "올리브", "L", 2))
	s.AddToCart(item("5", "블랙", "S", 3))

	assert.True(t, s.UpdateCartQuantity("4", 7))
	cart := s.Cart()
	assert.Equal(t, 7, cart[0].Quantity)
	assert.Equal(t, 7, cart[1].Quantity)
	assert.Equal(t, 3, cart[2].Quantity)

	// No clamping at this layer.
	assert.True(t, s.UpdateCartQuantity("5", 0))
	assert.Equal(t, 0, s.Cart()[2].Quantity)

	assert.False(t, s.UpdateCartQuantity("missing", 2))
}

func TestClearCart_Idempotent(t *testing.T) {
	s := store.New(nil)
	s.AddToCart(item("1", "", "", 1))

	s.ClearCart()
	assert.Empty(t, s.Cart())
	s.ClearCart()
	assert.Empty(t, s.Cart())
	assert.NotNil(t, s.Cart())
}

func TestAddOrder_Prepends(t *testing.T) {
	s := store.New(nil)

	s.AddOrder(order("A"))
	s.AddOrder(order("B"))

	orders := s.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, "B", orders[0].ID)
	assert.Equal(t, "A", orders[1].ID)
}

func TestPlaceOrder_AddsOrderAndClearsCart(t *testing.T) {
	s := store.New(nil)
	s.AddToCart(item("1", "블랙", "", 1))
	s.AddToCart(item("6", "화이트", "S", 2))

	var changes []store.Change
	s.Subscribe(func(c store.Change) { changes = append(changes, c) })

	o := order("ORD-1")
	o.Items = s.Cart()
	s.PlaceOrder(o)

	snap := s.Snapshot()
	require.Len(t, snap.Orders, 1)
	assert.Equal(t, "ORD-1", snap.Orders[0].ID)
	assert.Len(t, snap.Orders[0].Items, 2)
	assert.Empty(t, snap.Cart)

	require.Len(t, changes, 1)
	assert.True(t, changes[0].Collections.Has(store.Orders))
	assert.True(t, changes[0].Collections.Has(store.Cart))
	assert.Empty(t, changes[0].State.Cart)
	assert.Len(t, changes[0].State.Orders, 1)
}

func TestUpdateOrderStatus(t *testing.T) {
	s := store.New(nil)
	s.AddOrder(order("A"))

	assert.True(t, s.UpdateOrderStatus("A", models.StatusShipped))
	o, ok := s.Order("A")
	require.True(t, ok)
	assert.Equal(t, models.StatusShipped, o.Status)
}

func TestUpdateOrderStatus_UnknownIDIsNoop(t *testing.T) {
	s := store.New(nil)
	s.AddOrder(order("A"))
	s.AddOrder(order("B"))

	before, err := json.Marshal(s.Orders())
	require.NoError(t, err)

	notified := false
	s.Subscribe(func(store.Change) { notified = true })

	assert.False(t, s.UpdateOrderStatus("nope", models.StatusCancelled))

	after, err := json.Marshal(s.Orders())
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.False(t, notified)
}

func TestProductOperations(t *testing.T) {
	s := store.New(nil, store.WithSeed(nil))

	s.AddProduct(product("PROD-1", 1000))
	s.AddProduct(product("PROD-2", 2000))
	assert.Len(t, s.Products(), 2)

	updated := product("PROD-1", 1500)
	updated.Name = "Updated"
	assert.True(t, s.UpdateProduct(updated))
	p, ok := s.Product("PROD-1")
	require.True(t, ok)
	assert.Equal(t, "Updated", p.Name)
	assert.Equal(t, int64(1500), p.Price)

	assert.False(t, s.UpdateProduct(product("PROD-9", 1)))

	assert.True(t, s.DeleteProduct("PROD-1"))
	assert.False(t, s.DeleteProduct("PROD-1"))
	products := s.Products()
	require.Len(t, products, 1)
	assert.Equal(t, "PROD-2", products[0].ID)
}

func TestSnapshotsAreCopies(t *testing.T) {
	s := store.New(nil)
	s.AddToCart(item("1", "", "", 1))

	products := s.Products()
	products[0].Name = "mutated"
	products[0].Colors[0] = "mutated"
	cart := s.Cart()
	cart[0].Quantity = 99

	p, _ := s.Product("1")
	assert.Equal(t, "DOUBLE POCKET FAUX SUEDE TOTE BAG", p.Name)
	assert.Equal(t, "브라운", p.Colors[0])
	assert.Equal(t, 1, s.Cart()[0].Quantity)
}

func TestSubscribe_FiltersByCollection(t *testing.T) {
	s := store.New(nil)

	var cartCalls, orderCalls, allCalls int
	s.Subscribe(func(store.Change) { cartCalls++ }, store.Cart)
	s.Subscribe(func(store.Change) { orderCalls++ }, store.Orders)
	unsubscribe := s.Subscribe(func(store.Change) { allCalls++ })

	s.AddToCart(item("1", "", "", 1))
	s.AddOrder(order("A"))
	s.AddProduct(product("P", 1))

	assert.Equal(t, 1, cartCalls)
	assert.Equal(t, 1, orderCalls)
	assert.Equal(t, 3, allCalls)

	unsubscribe()
	s.ClearCart()
	assert.Equal(t, 2, cartCalls)
	assert.Equal(t, 3, allCalls)
}

func TestSubscribe_ListenerCanReadStore(t *testing.T) {
	s := store.New(nil)

	var seen int
	s.Subscribe(func(store.Change) {
		seen = len(s.Cart())
	}, store.Cart)

	s.AddToCart(item("1", "", "", 1))
	assert.Equal(t, 1, seen)
}

func TestSelect(t *testing.T) {
	s := store.New(nil)

	var counts []int
	store.Select(s, func(st models.State) int {
		n := 0
		for _, i := range st.Cart {
			n += i.Quantity
		}
		return n
	}, func(n int) { counts = append(counts, n) }, store.Cart)

	s.AddToCart(item("1", "", "", 2))
	s.AddToCart(item("2", "", "", 1))
	s.AddOrder(order("A"))
	s.ClearCart()

	assert.Equal(t, []int{2, 3, 0}, counts)
}

func TestPersistence_RoundTrip(t *testing.T) {
	slot := storage.NewMemoryStorage()
	s := store.New(slot)

	op := int64(99000)
	p := product("PROD-1", 89000)
	p.OriginalPrice = &op
	p.Sizes = []string{"S", "M"}
	s.AddProduct(p)
	s.AddToCart(item("1", "블랙", "", 2))
	s.AddOrder(order("ORD-1"))
	s.UpdateOrderStatus("ORD-1", models.StatusProcessing)

	restored := store.New(slot)
	assert.Equal(t, s.Snapshot(), restored.Snapshot())
}

func TestPersistence_WritesVersionedLayout(t *testing.T) {
	slot := storage.NewMemoryStorage()
	s := store.New(slot)
	s.AddToCart(item("1", "", "", 1))

	raw, ok, err := slot.Get(context.Background(), store.DefaultKey)
	require.NoError(t, err)
	require.True(t, ok)

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.JSONEq(t, "1", string(doc["version"]))

	var state map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(doc["state"], &state))
	assert.Contains(t, state, "products")
	assert.Contains(t, state, "cart")
	assert.Contains(t, state, "orders")
}

func TestPersistence_CustomKey(t *testing.T) {
	slot := storage.NewMemoryStorage()
	s := store.New(slot, store.WithKey("other-slot"))
	s.ClearCart()

	_, ok, _ := slot.Get(context.Background(), "other-slot")
	assert.True(t, ok)
	_, ok, _ = slot.Get(context.Background(), store.DefaultKey)
	assert.False(t, ok)
}

func TestPersistence_FallsBackToSeed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", "not json"},
		{"wrong version", `{"version":0,"state":{"products":[],"cart":[],"orders":[]}}`},
		{"future version", `{"version":2,"state":{"products":[],"cart":[],"orders":[]}}`},
		{"missing version", `{"state":{"products":[],"cart":[],"orders":[]}}`},
		{"missing state", `{"version":1}`},
		{"null state", `{"version":1,"state":null}`},
		{"bare array", `[]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slot := storage.NewMemoryStorage()
			require.NoError(t, slot.Set(context.Background(), store.DefaultKey, tt.raw))

			s := store.New(slot)
			assert.Equal(t, store.SeedProducts(), s.Products())
			assert.Empty(t, s.Cart())
			assert.Empty(t, s.Orders())
		})
	}
}

func TestPersistence_RoundTripLooseEntities(t *testing.T) {
	slot := storage.NewMemoryStorage()
	s := store.New(slot)

	// The store takes whatever shape it is given; a restart must keep it all.
	s.AddProduct(models.Product{ID: "PROD-1"})
	s.AddProduct(models.Product{ID: "PROD-1", Name: "same id", Price: -1})
	s.AddToCart(item("1", "", "", 2))
	require.True(t, s.UpdateCartQuantity("1", 0))
	s.AddOrder(models.Order{ID: "ORD-1"})
	s.AddOrder(models.Order{})
	require.True(t, s.UpdateOrderStatus("ORD-1", models.OrderStatus("lost")))

	before, err := store.Encode(s.Snapshot())
	require.NoError(t, err)

	restored := store.New(slot)
	after, err := store.Encode(restored.Snapshot())
	require.NoError(t, err)

	assert.JSONEq(t, before, after)
	assert.Len(t, restored.Products(), 10)
	require.Len(t, restored.Cart(), 1)
	assert.Equal(t, 0, restored.Cart()[0].Quantity)
	require.Len(t, restored.Orders(), 2)
	o, ok := restored.Order("ORD-1")
	require.True(t, ok)
	assert.Equal(t, models.OrderStatus("lost"), o.Status)
}

func TestPersistence_DropsOnlyMalformedEntries(t *testing.T) {
	raw := `{"version":1,"state":{
		"products":[{"id":"1","name":"ok","price":1000,"stock":1},{"id":"2","price":"free"}],
		"cart":[{"product":{"id":"1","price":1000},"quantity":1}],
		"orders":[{"id":"ORD-1","status":"pending"},{"id":"ORD-2","total":"lots"},"junk"]}}`
	slot := storage.NewMemoryStorage()
	require.NoError(t, slot.Set(context.Background(), store.DefaultKey, raw))

	s := store.New(slot)
	require.Len(t, s.Products(), 1)
	assert.Equal(t, "1", s.Products()[0].ID)
	assert.Len(t, s.Cart(), 1)
	require.Len(t, s.Orders(), 1)
	assert.Equal(t, "ORD-1", s.Orders()[0].ID)
}

func TestDecode_UnreadableCollectionKeepsOthers(t *testing.T) {
	st, skipped, err := store.Decode(`{"version":1,"state":{"products":{"id":"1"},"cart":[],"orders":[{"id":"ORD-1"}]}}`)
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Contains(t, skipped[0].Error(), "products")
	assert.Empty(t, st.Products)
	require.Len(t, st.Orders, 1)
	assert.Equal(t, "ORD-1", st.Orders[0].ID)
}

func TestPersistence_StorageErrors(t *testing.T) {
	slot := new(MockStorage)
	slot.On("Get", mock.Anything, store.DefaultKey).Return("", false, errors.New("storage unavailable")).Once()
	slot.On("Set", mock.Anything, store.DefaultKey, mock.AnythingOfType("string")).Return(errors.New("quota exceeded")).Once()

	s := store.New(slot)
	assert.Len(t, s.Products(), 8)

	// A failed write keeps the in-memory state.
	s.AddToCart(item("1", "", "", 1))
	assert.Len(t, s.Cart(), 1)
	slot.AssertExpectations(t)
}

func TestDecode_EmptyCollections(t *testing.T) {
	st, skipped, err := store.Decode(`{"version":1,"state":{}}`)
	require.NoError(t, err)
	assert.Empty(t, skipped)
	assert.NotNil(t, st.Products)
	assert.NotNil(t, st.Cart)
	assert.NotNil(t, st.Orders)
}

func TestCollection_String(t *testing.T) {
	assert.Equal(t, "products,cart,orders", store.All.String())
	assert.Equal(t, "cart,orders", (store.Cart | store.Orders).String())
	assert.Equal(t, "none", store.Collection(0).String())
}
