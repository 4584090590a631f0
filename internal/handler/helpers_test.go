package handler_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// --- Shared helpers ---

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		req = httptest.NewRequest(method, path, bytes.NewReader(b))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeResponse(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

// decodePage decodes a list response and returns its items.
func decodePage(t *testing.T, rr *httptest.ResponseRecorder) (map[string]interface{}, []map[string]interface{}) {
	t.Helper()
	resp := decodeResponse(t, rr)
	raw, ok := resp["items"].([]interface{})
	if !ok {
		t.Fatalf("items: got %T", resp["items"])
	}
	items := make([]map[string]interface{}, len(raw))
	for i, it := range raw {
		items[i] = it.(map[string]interface{})
	}
	return resp, items
}

func fieldErrors(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	fields, ok := resp["fields"].(map[string]interface{})
	if !ok {
		t.Fatalf("fields: got %v", resp)
	}
	return fields
}

type broadcast struct {
	topic     string
	eventType string
	payload   any
}

type mockBroadcaster struct {
	mu   sync.Mutex
	sent []broadcast
}

func (m *mockBroadcaster) Broadcast(topic, eventType string, payload any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, broadcast{topic: topic, eventType: eventType, payload: payload})
}
