package metrics

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandlerExposesCounters(t *testing.T) {
	FetchTotal.Add(1)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/debug/vars", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status=%d", rec.Code)
	}
	var vars map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &vars); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"fetch_total", "fetch_errors", "render_cycles", "theme_toggles"} {
		if _, ok := vars[k]; !ok {
			t.Fatalf("missing %s", k)
		}
	}
	if Values()["fetch_total"] < 1 {
		t.Fatalf("fetch_total not counted")
	}
}

func TestStartAsyncDisabled(t *testing.T) {
	s, err := StartAsync(context.Background(), "")
	if err != nil || s != nil {
		t.Fatalf("empty addr should disable server, got %v %v", s, err)
	}
}

func TestStartAsyncServes(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := StartAsync(ctx, "127.0.0.1:0")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, err := http.Get("http://" + s.Addr + "/debug/vars")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status=%d", resp.StatusCode)
	}
}
