package logger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	l, err := New(Config{Level: "debug", Format: "json", Output: path})
	require.NoError(t, err)

	l.Info("hello", zap.String("k", "v"))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"k":"v"`)
}

func TestNew_BadOutputPath(t *testing.T) {
	_, err := New(Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "app.log")})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, parseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, parseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, parseLevel("bogus"))
}

func TestFromContext_DefaultsToNop(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
}

func TestWithRequestID(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx, l := WithRequestID(context.Background(), zap.New(core), "req-1")

	assert.Equal(t, "req-1", RequestID(ctx))
	FromContext(ctx).Info("x")
	l.Info("y")

	for _, entry := range recorded.All() {
		assert.Equal(t, "req-1", entry.ContextMap()["request_id"])
	}
}

func TestMiddleware_LogsRequest(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)

	r := chi.NewRouter()
	r.Use(Middleware(zap.New(core)))
	r.Get("/missing", func(w http.ResponseWriter, r *http.Request) {
		FromContext(r.Context()).Info("inside")
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing?x=1", nil)
	req.Header.Set(RequestIDHeader, "abc")
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, "abc", rr.Header().Get(RequestIDHeader))

	logs := recorded.All()
	require.Len(t, logs, 2)
	assert.Equal(t, "inside", logs[0].Message)
	assert.Equal(t, "abc", logs[0].ContextMap()["request_id"])

	assert.Equal(t, "HTTP Request", logs[1].Message)
	assert.Equal(t, zapcore.WarnLevel, logs[1].Level)
	fields := logs[1].ContextMap()
	assert.Equal(t, int64(404), fields["status"])
	assert.Equal(t, "x=1", fields["query"])
}

func TestMiddleware_GeneratesRequestID(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	r := chi.NewRouter()
	r.Use(Middleware(zap.New(core)))
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Len(t, rr.Header().Get(RequestIDHeader), 36)
}

func TestRecoverer(t *testing.T) {
	core, recorded := observer.New(zapcore.ErrorLevel)
	r := chi.NewRouter()
	r.Use(Recoverer(zap.New(core)))
	r.Get("/boom", func(w http.ResponseWriter, r *http.Request) { panic("boom") })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"internal server error"}`, rr.Body.String())
	require.Len(t, recorded.All(), 1)
	assert.Equal(t, "Panic recovered", recorded.All()[0].Message)
}
