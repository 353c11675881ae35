package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Validator is implemented by request DTOs. Validate returns one message per
// problem; an empty result means the request is valid.
type Validator interface {
	Validate() []string
}

const maxBodyBytes = 1 << 20

// DecodeAndValidate reads a single JSON object from the body into dest,
// rejecting unknown fields, and runs dest.Validate when available. On failure
// it writes the error response and returns false.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dest any) bool {
	if status, msg := decodeJSONBody(w, r, dest); status != 0 {
		code := ErrCodeBadRequest
		if status == http.StatusRequestEntityTooLarge {
			code = ErrCodePayloadTooLarge
		}
		WriteJSONError(w, status, code, msg)
		return false
	}
	v, ok := dest.(Validator)
	if !ok {
		return true
	}
	if errs := v.Validate(); len(errs) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(errs, "; "))
		return false
	}
	return true
}

// decodeJSONBody returns a zero status on success.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dest any) (int, string) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	err := dec.Decode(dest)
	var tooLarge *http.MaxBytesError
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return http.StatusBadRequest, "request body is required"
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge, "request body is too large"
	default:
		return http.StatusBadRequest, err.Error()
	}

	if dec.More() {
		return http.StatusBadRequest, "request body must contain a single JSON object"
	}
	return 0, ""
}
