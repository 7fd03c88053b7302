package annotate

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

func TestLanguageClientAnalyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/documents:annotate", r.URL.Path)
		assert.Equal(t, "secret", r.URL.Query().Get("key"))

		var req map[string]map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Beautiful Kyoto", req["document"]["content"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(Annotation{
			Entities: []Entity{{
				Name: "Kyoto", Type: "LOCATION",
				Mentions:  []Mention{{Type: "PROPER"}},
				Sentiment: Sentiment{Score: 0.7, Magnitude: 1.1},
				Salience:  0.9,
			}},
			Categories: []Category{{Name: "/Travel", Confidence: 0.8}},
		})
	}))
	defer server.Close()

	client := NewLanguageClient(server.URL, "secret", 5*time.Second)
	annotation, err := client.Analyze(context.Background(), "Beautiful Kyoto")
	require.NoError(t, err)
	require.Len(t, annotation.Entities, 1)
	assert.Equal(t, "Kyoto", annotation.Entities[0].Name)
	assert.InDelta(t, 0.7, annotation.Entities[0].Sentiment.Score, 1e-9)
	require.Len(t, annotation.Categories, 1)
	assert.Equal(t, "/Travel", annotation.Categories[0].Name)
}

func TestLanguageClientServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewLanguageClient(server.URL, "", 5*time.Second)
	_, err := client.Analyze(context.Background(), "text")
	assert.Error(t, err)
}
