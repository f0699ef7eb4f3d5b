package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"degraded","version":"1.0.0","services":{"database":{"status":"ok"},"llm":{"status":"error","error":"down"}},"keys":{"tavily":true}}`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, check(srv.URL, &out))
	assert.Contains(t, out.String(), "tavily key: set")
	assert.Contains(t, out.String(), "openai key: not set")
}

func TestCheckFailsOnUnavailableDatabase(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"error","services":{"database":{"status":"error","error":"refused"}}}`))
	}))
	defer srv.Close()

	err := check(srv.URL, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
