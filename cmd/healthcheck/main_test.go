package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCheck_HealthyStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/status", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mode":"secrets","demo_data":false,"resolved_at":"2026-08-29T12:00:00Z"}`))
	}))
	defer server.Close()

	assert.Equal(t, 0, check(server.Client(), server.URL))
}

func TestCheck_DemoModeIsStillHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"mode":"demo","demo_data":true}`))
	}))
	defer server.Close()

	assert.Equal(t, 0, check(server.Client(), server.URL))
}

func TestCheck_MalformedBodyFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	assert.Equal(t, 1, check(server.Client(), server.URL))
}

func TestCheck_MissingModeFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	assert.Equal(t, 1, check(server.Client(), server.URL))
}

func TestCheck_Non200Fails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	assert.Equal(t, 1, check(server.Client(), server.URL))
}

func TestCheck_UnreachableServerFails(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	assert.Equal(t, 1, check(&http.Client{Timeout: time.Second}, url))
}

func TestNormalizeAddr(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty falls back to default", "", "127.0.0.1:8080"},
		{"bind-all becomes loopback", "0.0.0.0:9090", "127.0.0.1:9090"},
		{"missing host becomes loopback", ":8080", "127.0.0.1:8080"},
		{"explicit host preserved", "10.0.0.5:8080", "10.0.0.5:8080"},
		{"malformed falls back to default", "not-an-addr", "127.0.0.1:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeAddr(tt.in))
		})
	}
}
