package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetch(t *testing.T) {
	var lastReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastReqID = r.Header.Get("X-Request-ID")
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"live_data":{"Price":3.5,"RSI":25,"VWAP":3.6,"CurrentSignal":"HOLD","Side":"LONG","Size":10}}`))
		case "/auth":
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":  "db down"}`))
		case "/garbage":
			_, _ = w.Write([]byte(`{not json`))
		}
	}))
	defer srv.Close()

	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		c := NewClient(Config{URL: srv.URL + "/ok", Timeout: time.Second})
		snap, err := c.Fetch(ctx)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.LiveData == nil || snap.LiveData.Side != "LONG" {
			t.Fatalf("unexpected snapshot: %+v", snap.LiveData)
		}
		if lastReqID == "" {
			t.Errorf("request id header not sent")
		}
	})

	t.Run("unauthorized", func(t *testing.T) {
		c := NewClient(Config{URL: srv.URL + "/auth"})
		_, err := c.Fetch(ctx)
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("server error", func(t *testing.T) {
		c := NewClient(Config{URL: srv.URL + "/boom"})
		_, err := c.Fetch(ctx)
		var se *StatusError
		if !errors.As(err, &se) {
			t.Fatalf("expected StatusError, got %v", err)
		}
		if se.Code != http.StatusInternalServerError || se.Body != `{"error":"db down"}` {
			t.Fatalf("unexpected status error: %+v", se)
		}
		if errors.Is(err, ErrUnauthorized) {
			t.Fatalf("500 must not look like 401")
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		c := NewClient(Config{URL: srv.URL + "/garbage"})
		if _, err := c.Fetch(ctx); err == nil {
			t.Fatalf("expected decode error")
		}
	})

	t.Run("transport error", func(t *testing.T) {
		c := NewClient(Config{URL: "http://127.0.0.1:1/nothing", Timeout: 200 * time.Millisecond})
		_, err := c.Fetch(ctx)
		if err == nil {
			t.Fatalf("expected transport error")
		}
		var se *StatusError
		if errors.As(err, &se) {
			t.Fatalf("transport error should not be a StatusError")
		}
	})
}
