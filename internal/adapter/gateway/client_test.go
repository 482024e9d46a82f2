package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Query, "hello")

		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]any{"hello": "Hello GraphQL!"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	data, err := client.Execute(context.Background(), `query { hello }`, nil)
	require.NoError(t, err)

	var hello string
	require.NoError(t, json.Unmarshal(data["hello"], &hello))
	assert.Equal(t, "Hello GraphQL!", hello)
}

func TestExecute_VariablesForwarded(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Variables map[string]any `json:"variables"`
		}
		json.NewDecoder(r.Body).Decode(&req)
		got = req.Variables
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"ok": true}})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Execute(context.Background(), `query { ok }`, map[string]any{"threshold": 10})
	require.NoError(t, err)
	assert.Equal(t, float64(10), got["threshold"])
}

func TestExecute_GraphQLErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []string{"unknown document", "something else"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Execute(context.Background(), `query { nope }`, nil)

	var gqlErr *GraphQLError
	require.ErrorAs(t, err, &gqlErr)
	assert.Equal(t, []string{"unknown document", "something else"}, gqlErr.Messages)
	assert.Contains(t, gqlErr.Error(), "unknown document")
}

func TestExecute_Unreachable(t *testing.T) {
	// Grab a port that is guaranteed closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	client := NewClient(url, 500*time.Millisecond)
	_, err := client.Execute(context.Background(), `query { hello }`, nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestExecute_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, 20*time.Millisecond)
	_, err := client.Execute(context.Background(), `query { hello }`, nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestExecute_UndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, time.Second)
	_, err := client.Execute(context.Background(), `query { hello }`, nil)

	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}
