// Package search submits denormalized case records to the full-text index.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	elasticsearch "github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
)

// Indexer is the narrow index surface the pipeline needs: upsert semantics,
// same id overwrites.
type Indexer interface {
	Index(ctx context.Context, index, docType, id string, document interface{}) error
	Check(ctx context.Context) error
}

// Elasticsearch implements Indexer against an Elasticsearch cluster
type Elasticsearch struct {
	client *elasticsearch.Client
}

// NewElasticsearch creates an indexer for the given addresses
func NewElasticsearch(addresses []string) (*Elasticsearch, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return &Elasticsearch{client: client}, nil
}

// NewElasticsearchFromEnv creates an indexer from ELASTICSEARCH_URL, which
// may hold a comma-separated address list
func NewElasticsearchFromEnv() (*Elasticsearch, error) {
	addr := os.Getenv("ELASTICSEARCH_URL")
	if addr == "" {
		addr = "http://localhost:9200"
	}
	return NewElasticsearch(strings.Split(addr, ","))
}

// Index upserts one document under id
func (e *Elasticsearch) Index(ctx context.Context, index, docType, id string, document interface{}) error {
	body, err := json.Marshal(document)
	if err != nil {
		return fmt.Errorf("failed to marshal document %s: %w", id, err)
	}

	req := esapi.IndexRequest{
		Index:        index,
		DocumentType: docType,
		DocumentID:   id,
		Body:         bytes.NewReader(body),
	}
	res, err := req.Do(ctx, e.client)
	if err != nil {
		return fmt.Errorf("failed to index document %s: %w", id, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index document %s: %s", id, res.String())
	}

	return nil
}

// Check verifies the cluster responds
func (e *Elasticsearch) Check(ctx context.Context) error {
	res, err := e.client.Info(e.client.Info.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("failed to reach elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to reach elasticsearch: %s", res.String())
	}

	return nil
}
