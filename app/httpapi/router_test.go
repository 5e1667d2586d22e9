package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/cartview"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderhistory"
	"github.com/AntonStoeckl/checkout-engine-go/app/httpapi"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
	. "github.com/AntonStoeckl/checkout-engine-go/testutil/helper" //nolint:revive
)

type apiFixture struct {
	server   *httptest.Server
	engine   shop.UnitOfWorkFactory
	item     shop.CatalogItem
	customer shop.Actor
	stranger shop.Actor
	manager  shop.Actor
}

func givenAPI(t *testing.T, onHand int) apiFixture {
	t.Helper()

	item := GivenCatalogItem(t, "Clean Code", "20.00", onHand)
	customer := GivenCustomer(t)
	stranger := GivenCustomer(t)
	manager := GivenManager(t)
	engine := GivenMemoryEngine(t, []shop.CatalogItem{item}, customer, stranger, manager)

	handlers, err := httpapi.BuildHandlers(engine, httpapi.Observability{})
	require.NoError(t, err)

	server := httptest.NewServer(httpapi.NewRouter(httpapi.NewHandler(handlers), nil))
	t.Cleanup(server.Close)

	return apiFixture{server: server, engine: engine, item: item, customer: customer, stranger: stranger, manager: manager}
}

func (f apiFixture) do(t *testing.T, method, path string, actor shop.Actor, body any) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, f.server.URL+path, &payload)
	require.NoError(t, err)
	req.Header.Set(httpapi.UserIDHeader, actor.UserID.String())

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))

	return v
}

func (f apiFixture) placeOrder(t *testing.T, quantity int) core.OrderView {
	t.Helper()

	resp := f.do(t, http.MethodPost, "/api/cart/items", f.customer, httpapi.AddCartItemRequest{ItemID: f.item.ID.String(), Quantity: quantity})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = f.do(t, http.MethodPost, "/api/orders/checkout", f.customer, httpapi.CheckoutRequest{ShippingAddress: "1 Main St"})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	return decode[core.OrderView](t, resp)
}

func Test_Router_RejectsMissingUserID(t *testing.T) {
	// arrange
	f := givenAPI(t, 5)

	// act
	resp, err := http.Get(f.server.URL + "/api/cart")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	// assert
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthenticated", decode[httpapi.ErrorResponse](t, resp).Error)
}

func Test_Router_CartLifecycle(t *testing.T) {
	// arrange
	f := givenAPI(t, 5)
	itemPath := "/api/cart/items/" + f.item.ID.String()

	// act
	added := f.do(t, http.MethodPost, "/api/cart/items", f.customer, httpapi.AddCartItemRequest{ItemID: f.item.ID.String(), Quantity: 2})
	updated := f.do(t, http.MethodPut, itemPath+"?quantity=3", f.customer, nil)
	removed := f.do(t, http.MethodDelete, itemPath, f.customer, nil)

	// assert
	require.Equal(t, http.StatusOK, added.StatusCode)
	assert.Equal(t, 2, decode[cartview.CartView](t, added).TotalItems)

	require.Equal(t, http.StatusOK, updated.StatusCode)
	updatedCart := decode[cartview.CartView](t, updated)
	assert.Equal(t, 3, updatedCart.TotalItems)
	assert.True(t, Money(t, "60.00").Equal(updatedCart.EstimatedSubtotal))

	require.Equal(t, http.StatusOK, removed.StatusCode)
	assert.Empty(t, decode[cartview.CartView](t, removed).Lines)
}

func Test_Router_CheckoutAndReadBack(t *testing.T) {
	// arrange
	f := givenAPI(t, 5)

	// act
	placed := f.placeOrder(t, 2)
	byID := f.do(t, http.MethodGet, "/api/orders/"+placed.ID, f.customer, nil)
	byNumber := f.do(t, http.MethodGet, "/api/orders/number/"+placed.Number, f.customer, nil)
	history := f.do(t, http.MethodGet, "/api/orders?limit=5", f.customer, nil)

	// assert
	assert.Equal(t, "PENDING", placed.Status)
	assert.True(t, Money(t, "49.19").Equal(placed.Total))
	assert.Equal(t, 3, StockOf(t, f.engine, f.item.ID))

	require.Equal(t, http.StatusOK, byID.StatusCode)
	assert.Equal(t, placed.Number, decode[core.OrderView](t, byID).Number)

	require.Equal(t, http.StatusOK, byNumber.StatusCode)
	assert.Equal(t, placed.ID, decode[core.OrderView](t, byNumber).ID)

	require.Equal(t, http.StatusOK, history.StatusCode)
	page := decode[orderhistory.OrderHistory](t, history)
	assert.Equal(t, 1, page.Count)
	assert.Equal(t, 5, page.Limit)
}

func Test_Router_MapsErrorKindsToStatusCodes(t *testing.T) {
	f := givenAPI(t, 1)

	t.Run("empty cart is a bad request", func(t *testing.T) {
		resp := f.do(t, http.MethodPost, "/api/orders/checkout", f.customer, httpapi.CheckoutRequest{ShippingAddress: "1 Main St"})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "Cannot checkout with an empty cart", decode[httpapi.ErrorResponse](t, resp).Message)
	})

	t.Run("insufficient stock is a conflict", func(t *testing.T) {
		GivenCartWith(t, f.engine, f.stranger.UserID, shop.CartLine{ItemID: f.item.ID, Quantity: 1})
		GivenPlacedOrder(t, f.engine, GivenUniqueID(t), shop.CartLine{ItemID: f.item.ID, Quantity: 1})

		resp := f.do(t, http.MethodPost, "/api/orders/checkout", f.stranger, httpapi.CheckoutRequest{ShippingAddress: "1 Main St"})

		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "insufficient_stock", decode[httpapi.ErrorResponse](t, resp).Error)
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/orders/"+GivenUniqueID(t).String(), f.customer, nil)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("malformed order id is a bad request", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/orders/not-a-uuid", f.customer, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "invalid_request", decode[httpapi.ErrorResponse](t, resp).Error)
	})

	t.Run("unknown status is a bad request", func(t *testing.T) {
		resp := f.do(t, http.MethodGet, "/api/orders/status/LOST", f.manager, nil)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func Test_Router_OrderAccessControl(t *testing.T) {
	// arrange
	f := givenAPI(t, 5)
	placed := f.placeOrder(t, 1)

	// act
	strangerRead := f.do(t, http.MethodGet, "/api/orders/"+placed.ID, f.stranger, nil)
	customerUpdate := f.do(t, http.MethodPut, "/api/orders/"+placed.ID+"/status", f.customer,
		httpapi.UpdateOrderStatusRequest{Status: "PROCESSING"})
	managerUpdate := f.do(t, http.MethodPut, "/api/orders/"+placed.ID+"/status", f.manager,
		httpapi.UpdateOrderStatusRequest{Status: "processing"})
	customerListing := f.do(t, http.MethodGet, "/api/orders/status/PROCESSING", f.customer, nil)
	managerListing := f.do(t, http.MethodGet, "/api/orders/status/PROCESSING", f.manager, nil)

	// assert
	assert.Equal(t, http.StatusForbidden, strangerRead.StatusCode)
	assert.Equal(t, "You are not authorized to view this order", decode[httpapi.ErrorResponse](t, strangerRead).Message)
	assert.Equal(t, http.StatusForbidden, customerUpdate.StatusCode)

	require.Equal(t, http.StatusOK, managerUpdate.StatusCode)
	assert.Equal(t, "PROCESSING", decode[core.OrderView](t, managerUpdate).Status)

	assert.Equal(t, http.StatusForbidden, customerListing.StatusCode)
	require.Equal(t, http.StatusOK, managerListing.StatusCode)
}

func Test_Router_CancelRestoresStock(t *testing.T) {
	// arrange
	f := givenAPI(t, 5)
	placed := f.placeOrder(t, 2)

	// act
	cancelled := f.do(t, http.MethodPost, "/api/orders/"+placed.ID+"/cancel", f.customer, nil)
	cancelledAgain := f.do(t, http.MethodPost, "/api/orders/"+placed.ID+"/cancel", f.customer, nil)

	// assert
	require.Equal(t, http.StatusOK, cancelled.StatusCode)
	assert.Equal(t, "CANCELLED", decode[core.OrderView](t, cancelled).Status)
	assert.Equal(t, http.StatusBadRequest, cancelledAgain.StatusCode)
	assert.Equal(t, 5, StockOf(t, f.engine, f.item.ID))
}
