package net_test

import (
	"net/http"
	"testing"

	perr "bandwatch/internal/platform/errors"
	pnet "bandwatch/internal/platform/net"
)

func TestOK(t *testing.T) {
	reqID := "req-1"
	data := map[string]any{"x": 1}

	status, w := pnet.OK(data, reqID)

	if status != http.StatusOK {
		t.Fatalf("status %d want %d", status, http.StatusOK)
	}
	if w.StatusCode != http.StatusOK || w.Status != http.StatusText(http.StatusOK) {
		t.Fatalf("wire status mismatch: %+v", w)
	}
	if w.RequestID != reqID {
		t.Fatalf("req id %q want %q", w.RequestID, reqID)
	}
	if got, ok := w.Data.(map[string]any)["x"]; !ok || got != 1 {
		t.Fatalf("data mismatch: %+v", w.Data)
	}
}

func TestNoContent(t *testing.T) {
	status, w := pnet.NoContent("req-3")

	if status != http.StatusNoContent {
		t.Fatalf("status %d want %d", status, http.StatusNoContent)
	}
	if w.Data != nil {
		t.Fatalf("expected no data, got %+v", w.Data)
	}
}

func TestErrorEnvelope(t *testing.T) {
	err := perr.NotFoundf("subscriber missing")

	status, w := pnet.Error(err, "req-4")

	if status != http.StatusNotFound {
		t.Fatalf("status %d want %d", status, http.StatusNotFound)
	}
	if w.Code != perr.ErrorCodeNotFound {
		t.Fatalf("code %v want %v", w.Code, perr.ErrorCodeNotFound)
	}
	if w.Error == "" {
		t.Fatalf("expected error message")
	}
}

func TestErrorNilIsOK(t *testing.T) {
	status, w := pnet.Error(nil, "req-5")
	if status != http.StatusOK || w.Error != "" {
		t.Fatalf("nil error should map to 200: %d %+v", status, w)
	}
}
