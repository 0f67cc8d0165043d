package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/fox-techniques/janux-auth-gateway/internal/core/domain"
)

func renderError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	NewHTTPErrorHandler(zerolog.Nop())(err, c)
	return rec
}

func TestHTTPErrorHandler_DomainErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"token invalid", domain.ErrTokenInvalid, http.StatusUnauthorized},
		{"token expired", domain.ErrTokenExpired, http.StatusUnauthorized},
		{"token revoked", domain.ErrTokenRevoked, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"principal not found", domain.ErrPrincipalNotFound, http.StatusNotFound},
		{"store down", domain.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"cache down", domain.ErrCacheUnavailable, http.StatusServiceUnavailable},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := renderError(t, tc.err)
			if rec.Code != tc.code {
				t.Fatalf("status = %d, want %d", rec.Code, tc.code)
			}

			var body map[string]string
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("response is not the JSON envelope: %v", err)
			}
			if body["error"] == "" {
				t.Fatalf("missing error message in envelope")
			}
		})
	}
}

func TestHTTPErrorHandler_UniformTokenRejection(t *testing.T) {
	// Expired, revoked and malformed tokens must be indistinguishable to the
	// caller.
	var messages []string
	for _, err := range []error{domain.ErrTokenInvalid, domain.ErrTokenExpired, domain.ErrTokenRevoked} {
		rec := renderError(t, err)
		var body map[string]string
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		messages = append(messages, body["error"])
	}
	if messages[0] != messages[1] || messages[1] != messages[2] {
		t.Fatalf("token failure messages differ: %v", messages)
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	rec := renderError(t, echo.NewHTTPError(http.StatusBadRequest, "invalid payload"))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	rec := renderError(t, errDatabaseDetail)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "internal server error" {
		t.Fatalf("internal detail leaked to client: %q", body["error"])
	}
}

var errDatabaseDetail = echoFreeError("pq: connection to 10.0.0.5 refused")

type echoFreeError string

func (e echoFreeError) Error() string { return string(e) }
