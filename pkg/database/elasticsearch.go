package database

import (
	"context"
	"fmt"
	"os"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/mahalakshmi2126/Newshub-Server/pkg/logger"
)

// ElasticSearch wraps the Elasticsearch client used by the search layer.
type ElasticSearch struct {
	client *elasticsearch.Client
	logger logger.Logger
}

// NewElasticSearch connects to Elasticsearch and verifies the cluster.
func NewElasticSearch(addresses []string, log logger.Logger) (*ElasticSearch, error) {
	if len(addresses) == 0 {
		addresses = []string{"http://localhost:9200"}
	}

	username := os.Getenv("ELASTICSEARCH_USERNAME")
	password := os.Getenv("ELASTICSEARCH_PASSWORD")

	esConfig := elasticsearch.Config{
		Addresses: addresses,
		Username:  username,
		Password:  password,
	}

	client, err := elasticsearch.NewClient(esConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create ElasticSearch client: %v", err)
	}

	res, err := client.Info()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ElasticSearch: %v", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("ElasticSearch connection error: %s", res.String())
	}

	log.Info(context.Background(), "ElasticSearch connected successfully")

	return &ElasticSearch{
		client: client,
		logger: log,
	}, nil
}

// GetClient returns the native client.
func (es *ElasticSearch) GetClient() *elasticsearch.Client {
	return es.client
}

// Close is a no-op, the ES client has no explicit shutdown.
func (es *ElasticSearch) Close() error {
	return nil
}

// Ping verifies the cluster responds.
func (es *ElasticSearch) Ping(ctx context.Context) error {
	res, err := es.client.Info()
	if err != nil {
		return err
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("ElasticSearch ping failed: %s", res.String())
	}

	return nil
}
