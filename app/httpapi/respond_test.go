package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

func Test_WriteDomainError(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
		expectedCode   string
		expectedMsg    string
	}{
		{"not found", shop.NewNotFoundError("Order not found"), http.StatusNotFound, "not_found", "Order not found"},
		{"bad request", shop.NewBadRequestError("Quantity must be at least 1"), http.StatusBadRequest, "bad_request", "Quantity must be at least 1"},
		{"forbidden", shop.NewForbiddenError("nope"), http.StatusForbidden, "forbidden", "nope"},
		{"exhausted retries", fmt.Errorf("saving order: %w", shop.ErrConcurrencyConflict), http.StatusConflict, "concurrency_conflict", "The resource was changed concurrently, please retry"},
		{"canceled", context.Canceled, http.StatusInternalServerError, "internal", "internal error"},
		{"infrastructure", errors.New("connection refused to 10.0.0.5"), http.StatusInternalServerError, "internal", "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// arrange
			recorder := httptest.NewRecorder()

			// act
			writeDomainError(recorder, tt.err)

			// assert
			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))

			var body ErrorResponse
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedCode, body.Error)
			assert.Equal(t, tt.expectedMsg, body.Message)
		})
	}
}
