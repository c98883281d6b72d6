package repository

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"bodyfit-workers/internal/common/logger"
	"bodyfit-workers/internal/tryon"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupElasticsearch(t *testing.T, handler http.HandlerFunc) *elasticsearch.Client {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	es, err := elasticsearch.NewClient(elasticsearch.Config{Addresses: []string{srv.URL}})
	require.NoError(t, err)
	return es
}

func TestGarmentCatalog_Lookup(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		want    tryon.Garment
		wantErr bool
	}{
		{
			name:   "analysed garment",
			status: http.StatusOK,
			body: `{"_index":"garments","_id":"g-1","found":true,"_source":{
				"clothing_type":{"type":"v-neck"},
				"colors":{"dominant_color":"navy"},
				"material":{"material":"linen"}}}`,
			want: tryon.Garment{ID: "g-1", Type: "v-neck", DominantColor: "navy", Material: "linen"},
		},
		{
			name:   "scale override",
			status: http.StatusOK,
			body:   `{"found":true,"_source":{"clothing_type":{"type":"coat"},"scale_override":{"scale_x":1.2,"scale_y":1.1,"scale_z":1.0}}}`,
			want: func() tryon.Garment {
				g := tryon.DefaultGarment("g-1")
				g.Type = "coat"
				g.ScaleOverride = &tryon.ScaleFactors{X: 1.2, Y: 1.1, Z: 1.0}
				return g
			}(),
		},
		{
			name:   "missing document falls back to default",
			status: http.StatusNotFound,
			body:   `{"_index":"garments","_id":"g-1","found":false}`,
			want:   tryon.DefaultGarment("g-1"),
		},
		{
			name:   "undecodable document falls back to default",
			status: http.StatusOK,
			body:   `<html>`,
			want:   tryon.DefaultGarment("g-1"),
		},
		{
			name:    "server error",
			status:  http.StatusInternalServerError,
			body:    `{"error":"unavailable"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			es := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/garments/_doc/g-1", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			catalog := NewGarmentCatalog(es, "garments", logger.NewTestLogger(t))
			got, err := catalog.Lookup(context.Background(), "g-1")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGarmentCatalog_EnsureIndex(t *testing.T) {
	tests := []struct {
		name         string
		existsStatus int
		createStatus int
		wantCreate   bool
		wantErr      bool
	}{
		{name: "already exists", existsStatus: http.StatusOK},
		{name: "created", existsStatus: http.StatusNotFound, createStatus: http.StatusOK, wantCreate: true},
		{name: "created concurrently", existsStatus: http.StatusNotFound, createStatus: http.StatusBadRequest, wantCreate: true},
		{name: "cluster error", existsStatus: http.StatusInternalServerError, wantErr: true},
		{name: "create rejected", existsStatus: http.StatusNotFound, createStatus: http.StatusForbidden, wantCreate: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created := false
			es := setupElasticsearch(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/garments", r.URL.Path)
				switch r.Method {
				case http.MethodHead:
					w.WriteHeader(tt.existsStatus)
				case http.MethodPut:
					created = true
					body, _ := io.ReadAll(r.Body)
					assert.Contains(t, string(body), `"scale_override"`)
					w.WriteHeader(tt.createStatus)
					_, _ = w.Write([]byte(`{}`))
				default:
					t.Errorf("unexpected %s", r.Method)
				}
			})

			catalog := NewGarmentCatalog(es, "garments", logger.NewNoOpLogger())
			err := catalog.EnsureIndex(context.Background())

			assert.Equal(t, tt.wantCreate, created)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}
