package gateway

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewWithHTTPClient(ts.URL+"/", ts.Client(), nil)
}

func TestRequest_NoContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := c.Request(context.Background(), "/api/Livros/1", RequestOptions{Method: http.MethodDelete})

	require.NoError(t, err)
	assert.True(t, res.NoContent())
	assert.Equal(t, KindNoContent, res.Kind)
}

func TestRequest_JSONAndTextBodies(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/json" {
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = io.WriteString(w, `{"id":1,"nome":"Ana"}`)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "pong")
	})

	res, err := c.Request(context.Background(), "json", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, KindJSON, res.Kind)
	var out struct {
		Nome string `json:"nome"`
	}
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, "Ana", out.Nome)

	res, err = c.Request(context.Background(), "/text", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, KindText, res.Kind)
	assert.Equal(t, "pong", res.Text)
	assert.Error(t, res.Decode(&out))
}

func TestRequest_Headers(t *testing.T) {
	var got http.Header
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := c.Request(context.Background(), "/a", RequestOptions{})
	require.NoError(t, err)
	assert.Equal(t, "application/json", got.Get("Content-Type"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))

	_, err = c.Request(context.Background(), "/a", RequestOptions{
		Headers: map[string]string{"Content-Type": "text/plain", "": "ignored"},
	})
	require.NoError(t, err)
	assert.Equal(t, "text/plain", got.Get("Content-Type"))
}

func TestRequest_SendsJSONBody(t *testing.T) {
	var body string
	var method string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body, method = string(b), r.Method
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := c.Request(context.Background(), "/api/Usuarios", RequestOptions{
		Method: http.MethodPost,
		Body:   map[string]string{"nome": "Ana"},
	})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.JSONEq(t, `{"nome":"Ana"}`, body)
}

func TestRequest_ErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		status      int
		wantMsg     string
	}{
		{"json message", "application/json", `{"message":"Livro invalido"}`, 400, "Livro invalido"},
		{"json without message", "application/json", `{"error":"x"}`, 409, "HTTP error 409"},
		{"json blank message", "application/json", `{"message":"  "}`, 422, "HTTP error 422"},
		{"json non-string message", "application/json", `{"message":42}`, 400, "HTTP error 400"},
		{"json array", "application/json", `[1,2]`, 500, "HTTP error 500"},
		{"text body", "text/plain", `{"message":"not parsed"}`, 502, "HTTP error 502"},
		{"empty body", "", ``, 503, "HTTP error 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.Request(context.Background(), "/x", RequestOptions{})

			var he *HTTPError
			require.True(t, errors.As(err, &he))
			assert.Equal(t, tt.status, he.StatusCode)
			assert.Equal(t, tt.wantMsg, he.Message)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, tt.status, StatusCode(err))
		})
	}
}

func TestRequest_TransportFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	ts.Close()
	c := NewWithHTTPClient(ts.URL, nil, nil)

	_, err := c.Request(context.Background(), "/x", RequestOptions{})

	require.Error(t, err)
	assert.Zero(t, StatusCode(err))
	assert.False(t, IsNotFound(err))
}

func TestNew_UsesResolvedBaseURL(t *testing.T) {
	c := New(Config{OverrideURL: "https://api.example.com/"}, nil)
	assert.Equal(t, "https://api.example.com", c.BaseURL())
}
