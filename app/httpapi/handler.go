package httpapi

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/addcartline"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/cancelorder"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/checkout"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/clearcart"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/removecartline"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/setcartlinequantity"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/command/updateorderstatus"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/cartview"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderbyid"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderbynumber"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/orderhistory"
	"github.com/AntonStoeckl/checkout-engine-go/app/features/query/ordersbystatus"
	"github.com/AntonStoeckl/checkout-engine-go/app/shared/core"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

// Handler serves the routes registered by NewRouter.
type Handler struct {
	handlers Handlers
}

// NewHandler creates a Handler delegating to handlers.
func NewHandler(handlers Handlers) *Handler {
	return &Handler{handlers: handlers}
}

// GetCart handles GET /api/cart.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.writeCart(r.Context(), w, userIDFrom(r.Context()))
}

// AddCartItem handles POST /api/cart/items.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	var req AddCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, err.Error())
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, "itemId must be a UUID")
		return
	}

	if _, _, err = h.handlers.AddCartLine.Handle(ctx, addcartline.BuildCommand(userID, itemID, req.Quantity)); err != nil {
		writeDomainError(w, err)
		return
	}

	h.writeCart(ctx, w, userID)
}

// UpdateCartItem handles PUT /api/cart/items/{itemID}?quantity=N.
func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	itemID, ok := uuidParam(w, r, "itemID")
	if !ok {
		return
	}

	quantity, err := strconv.Atoi(r.URL.Query().Get("quantity"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, "quantity must be an integer")
		return
	}

	if _, _, err = h.handlers.SetCartLineQuantity.Handle(ctx, setcartlinequantity.BuildCommand(userID, itemID, quantity)); err != nil {
		writeDomainError(w, err)
		return
	}

	h.writeCart(ctx, w, userID)
}

// RemoveCartItem handles DELETE /api/cart/items/{itemID}.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	itemID, ok := uuidParam(w, r, "itemID")
	if !ok {
		return
	}

	if _, _, err := h.handlers.RemoveCartLine.Handle(ctx, removecartline.BuildCommand(userID, itemID)); err != nil {
		writeDomainError(w, err)
		return
	}

	h.writeCart(ctx, w, userID)
}

// ClearCart handles DELETE /api/cart/clear.
func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := userIDFrom(ctx)

	if _, _, err := h.handlers.ClearCart.Handle(ctx, clearcart.BuildCommand(userID)); err != nil {
		writeDomainError(w, err)
		return
	}

	h.writeCart(ctx, w, userID)
}

// Checkout handles POST /api/orders/checkout.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CheckoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, err.Error())
		return
	}

	order, _, err := h.handlers.Checkout.Handle(ctx, checkout.BuildCommand(userIDFrom(ctx), req.ShippingAddress, req.Notes))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, core.ProjectOrder(order))
}

// ListOrders handles GET /api/orders?limit=&offset=.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	history, err := h.handlers.OrderHistory.Handle(ctx, orderhistory.BuildQuery(userIDFrom(ctx), limit, offset))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, history)
}

// GetOrder handles GET /api/orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	view, err := h.handlers.OrderByID.Handle(ctx, orderbyid.BuildQuery(userIDFrom(ctx), orderID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GetOrderByNumber handles GET /api/orders/number/{number}.
func (h *Handler) GetOrderByNumber(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	view, err := h.handlers.OrderByNumber.Handle(ctx, orderbynumber.BuildQuery(userIDFrom(ctx), chi.URLParam(r, "number")))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// CancelOrder handles POST /api/orders/{id}/cancel.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	order, _, err := h.handlers.CancelOrder.Handle(ctx, cancelorder.BuildCommand(orderID, userIDFrom(ctx)))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, core.ProjectOrder(order))
}

// UpdateOrderStatus handles PUT /api/orders/{id}/status.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orderID, ok := uuidParam(w, r, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, err.Error())
		return
	}

	status, err := shop.ParseOrderStatus(req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	carrier, err := shop.ParseShippingCarrier(req.Carrier)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	command := updateorderstatus.BuildCommand(userIDFrom(ctx), orderID, status, carrier, req.TrackingNumber, req.Notes)

	order, _, err := h.handlers.UpdateOrderStatus.Handle(ctx, command)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, core.ProjectOrder(order))
}

// ListOrdersByStatus handles GET /api/orders/status/{status}?limit=&offset=.
func (h *Handler) ListOrdersByStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	status, err := shop.ParseOrderStatus(chi.URLParam(r, "status"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	limit, offset, ok := pageParams(w, r)
	if !ok {
		return
	}

	orders, err := h.handlers.OrdersByStatus.Handle(ctx, ordersbystatus.BuildQuery(userIDFrom(ctx), status, limit, offset))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) writeCart(ctx context.Context, w http.ResponseWriter, customerID uuid.UUID) {
	view, err := h.handlers.CartView.Handle(ctx, cartview.BuildQuery(customerID))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func uuidParam(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, name+" must be a UUID")
		return uuid.Nil, false
	}

	return id, true
}

// pageParams reads optional limit and offset query parameters. Bounds are enforced by shop.Page.
func pageParams(w http.ResponseWriter, r *http.Request) (int, int, bool) {
	limit, ok := intQueryParam(w, r, "limit")
	if !ok {
		return 0, 0, false
	}

	offset, ok := intQueryParam(w, r, "offset")
	if !ok {
		return 0, 0, false
	}

	return limit, offset, true
}

func intQueryParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, true
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, errorCodeInvalidRequest, name+" must be an integer")
		return 0, false
	}

	return value, true
}
