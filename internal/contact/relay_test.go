package contact

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelay_SendsMultipartFields(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		got = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			got[k] = v[0]
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success": true, "message": "Email sent successfully!"}`))
	}))
	defer srv.Close()

	relay := NewRelay(srv.URL, "key-123", srv.Client())
	err := relay.Send(context.Background(), Submission{
		Name: "Ada", Email: "ada@example.com", Subject: "Hi", Message: "Hello there",
	})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"access_key": "key-123",
		"name":       "Ada",
		"email":      "ada@example.com",
		"subject":    "Hi",
		"message":    "Hello there",
	}, got)
}

func TestRelay_Failures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"rejected", http.StatusOK, `{"success": false, "message": "Invalid access key"}`, "Invalid access key"},
		{"rejected with error status", http.StatusBadRequest, `{"success": false}`, "submission rejected"},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "decoding relay response"},
		{"missing success", http.StatusOK, `{"message": "ok"}`, "no success field"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			err := NewRelay(srv.URL, "k", srv.Client()).Send(context.Background(), Submission{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestRelay_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := NewRelay(url, "k", nil).Send(context.Background(), Submission{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "posting to relay")
}

func TestNewRelay_Defaults(t *testing.T) {
	r := NewRelay("", "k", nil)
	assert.Equal(t, DefaultEndpoint, r.Endpoint)
	assert.Same(t, http.DefaultClient, r.Client)
}
