// Package annotate is the boundary to the external text-understanding
// service: it extracts location entities with sentiment and topic
// categories from post text and persists the derived locations, reviews
// and tags.
package annotate

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

type Sentiment struct {
	Score     float64 `json:"score"`
	Magnitude float64 `json:"magnitude"`
}

type Mention struct {
	Type string `json:"type"`
}

type Entity struct {
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Mentions  []Mention `json:"mentions"`
	Sentiment Sentiment `json:"sentiment"`
	Salience  float64   `json:"salience"`
}

type Category struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Annotation is the full response shape of one analyze call.
type Annotation struct {
	Entities   []Entity   `json:"entities"`
	Categories []Category `json:"categories"`
}

// Analyzer is what the ingestor consumes; any error from Analyze is
// treated as "no entities, no categories" further up.
type Analyzer interface {
	Analyze(ctx context.Context, text string) (*Annotation, error)
}

// LanguageClient calls the language service over REST.
type LanguageClient struct {
	client *resty.Client
}

func NewLanguageClient(baseURL, apiKey string, timeout time.Duration) *LanguageClient {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("User-Agent", "travelblog/1.0")
	if apiKey != "" {
		client.SetQueryParam("key", apiKey)
	}
	return &LanguageClient{client: client}
}

type analyzeRequest struct {
	Document analyzeDocument `json:"document"`
}

type analyzeDocument struct {
	Content string `json:"content"`
	Type    string `json:"type"`
}

func (c *LanguageClient) Analyze(ctx context.Context, text string) (*Annotation, error) {
	var annotation Annotation
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(analyzeRequest{Document: analyzeDocument{Content: text, Type: "PLAIN_TEXT"}}).
		SetResult(&annotation).
		Post("/v1/documents:annotate")
	if err != nil {
		return nil, fmt.Errorf("language service call failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("language service returned %s", resp.Status())
	}
	return &annotation, nil
}
