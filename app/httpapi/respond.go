package httpapi

import (
	"errors"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/checkout-engine-go/app/shared/shell"
	"github.com/AntonStoeckl/checkout-engine-go/shop"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	errorCodeUnauthenticated     = "unauthenticated"
	errorCodeInvalidRequest      = "invalid_request"
	errorCodeConcurrencyConflict = "concurrency_conflict"

	maxRequestBodyBytes = 1 << 20
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

// writeDomainError maps the error kind to a status code. Internal errors never leak their text.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := shop.KindOf(err)

	switch kind {
	case shop.KindNotFound:
		writeError(w, http.StatusNotFound, string(kind), shop.Reason(err))
	case shop.KindBadRequest:
		writeError(w, http.StatusBadRequest, string(kind), shop.Reason(err))
	case shop.KindInsufficientStock:
		writeError(w, http.StatusConflict, string(kind), shop.Reason(err))
	case shop.KindForbidden:
		writeError(w, http.StatusForbidden, string(kind), shop.Reason(err))
	default:
		if shell.IsConcurrencyConflictError(err) {
			writeError(w, http.StatusConflict, errorCodeConcurrencyConflict, "The resource was changed concurrently, please retry")
			return
		}

		writeError(w, http.StatusInternalServerError, string(shop.KindInternal), "internal error")
	}
}

func decodeBody(r *http.Request, v any) error {
	body := io.LimitReader(r.Body, maxRequestBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}

		return errors.New("request body is not valid JSON")
	}

	return nil
}
