package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestServeHttp_StopsOnCancel(t *testing.T) {
	// GIVEN
	ctx, cancel := context.WithCancel(context.Background())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	done := make(chan error, 1)
	go func() {
		done <- serveHttp(ctx, "test", "127.0.0.1:0", handler)
	}()

	// WHEN
	time.Sleep(100 * time.Millisecond)
	cancel()

	// THEN
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServeHttp_InvalidAddress(t *testing.T) {
	// WHEN
	err := serveHttp(context.Background(), "test", "invalid-address", http.NotFoundHandler())

	// THEN
	assert.Error(t, err)
}

func TestCreateProfilingHandler(t *testing.T) {
	// GIVEN
	handler := createProfilingHandler()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/debug/pprof/", nil)

	// WHEN
	handler.ServeHTTP(rec, req)

	// THEN
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "goroutine")
}
