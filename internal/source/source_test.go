package source

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefanclaw/todosearch/internal/record"
)

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"userId": 1, "id": 1, "title": "Buy milk", "completed": false},
			{"userId": 1, "id": 2, "title": "Clean house", "completed": true}
		]`))
	}))
	defer srv.Close()

	c := NewWithHTTPClient(srv.URL, srv.Client())
	got, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []record.Record{
		{ID: 1, Title: "Buy milk"},
		{ID: 2, Title: "Clean house", Completed: true},
	}, got)
}

func TestFetch_EmptyList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	got, err := NewWithHTTPClient(srv.URL, srv.Client()).Fetch(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestFetch_Non2xx(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := NewWithHTTPClient(srv.URL, srv.Client()).Fetch(context.Background())
		srv.Close()

		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrFetch), "error should wrap ErrFetch: %v", err)
		assert.Contains(t, err.Error(), fmt.Sprintf("HTTP %d", code))
	}
}

func TestFetch_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": 1}`))
	}))
	defer srv.Close()

	_, err := NewWithHTTPClient(srv.URL, srv.Client()).Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)
}

func TestFetch_NullBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`null`))
	}))
	defer srv.Close()

	_, err := NewWithHTTPClient(srv.URL, srv.Client()).Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)
}

func TestFetch_TooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("["))
		w.Write([]byte(strings.Repeat(" ", MaxBodySize)))
		w.Write([]byte("]"))
	}))
	defer srv.Close()

	_, err := NewWithHTTPClient(srv.URL, srv.Client()).Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)
	assert.Contains(t, err.Error(), "larger than")
}

func TestFetch_Unreachable(t *testing.T) {
	c := New("http://127.0.0.1:1", time.Second)
	_, err := c.Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)
}

func TestFetch_EmptyEndpoint(t *testing.T) {
	_, err := New("", 0).Fetch(context.Background())
	require.ErrorIs(t, err, ErrFetch)
}

func TestFetch_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewWithHTTPClient(srv.URL, srv.Client()).Fetch(ctx)
	require.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHost(t *testing.T) {
	assert.Equal(t, "jsonplaceholder.typicode.com", New(DefaultEndpoint, 0).Host())
	assert.Equal(t, "not a url", New("not a url", 0).Host())
}
