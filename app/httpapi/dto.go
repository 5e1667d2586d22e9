package httpapi

// AddCartItemRequest is the body of POST /api/cart/items.
type AddCartItemRequest struct {
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
}

// CheckoutRequest is the body of POST /api/orders/checkout.
type CheckoutRequest struct {
	ShippingAddress string `json:"shippingAddress"`
	Notes           string `json:"notes,omitempty"`
}

// UpdateOrderStatusRequest is the body of PUT /api/orders/{id}/status.
type UpdateOrderStatusRequest struct {
	Status         string `json:"status"`
	Carrier        string `json:"carrier,omitempty"`
	TrackingNumber string `json:"trackingNumber,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
