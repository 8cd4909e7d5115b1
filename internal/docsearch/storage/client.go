// Package storage implements the backing-store client against an
// OpenSearch-compatible REST API: index lifecycle, bulk document storage,
// search/scroll dispatch and cluster/pipeline provisioning. It is the one
// package in the gateway that knows the wire shape of the external store;
// everything above it talks in docmodel types.
package storage

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2"
	"github.com/rs/zerolog/log"
)

const (
	scrollLifetime = 5 * time.Minute
	executeTimeout = time.Minute
	responseFormat = "json"
)

// Config names the backing-store endpoint and credentials.
type Config struct {
	Addresses          []string
	Username           string
	Password           string
	InsecureSkipVerify bool

	// DefaultModelID substitutes for Semantic/Hybrid search params that omit
	// a model id, and is the default_model_id registered on the hybrid
	// search pipeline.
	DefaultModelID string

	// NumberOfShards/NumberOfReplicas size every index CreateIndex provisions.
	NumberOfShards   int
	NumberOfReplicas int
}

// Client wraps an *opensearch.Client with the gateway's domain operations.
type Client struct {
	os  *opensearch.Client
	cfg Config
}

// NewClient builds a Client and verifies connectivity with an Info call,
// mirroring the connectivity gate other OpenSearch clients in this corpus
// run at construction time.
func NewClient(cfg Config) (*Client, error) {
	osCfg := opensearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	}
	if cfg.InsecureSkipVerify {
		osCfg.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}

	osClient, err := opensearch.NewClient(osCfg)
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}

	res, err := osClient.Info()
	if err != nil {
		return nil, fmt.Errorf("storage: connect: %w", err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return nil, fmt.Errorf("storage: connect: %s", res.String())
	}

	log.Debug().Strs("addresses", cfg.Addresses).Msg("storage: connected to backing store")
	return &Client{os: osClient, cfg: cfg}, nil
}

// buildSearchIndex passes an index list through in the []string form
// opensearchapi expects, collapsing a list that is only "*" to a no-index
// (all indexes) search. Callers split comma-separated ids themselves.
func buildSearchIndex(indexes []string) []string {
	if len(indexes) == 1 && indexes[0] == "*" {
		return nil
	}
	return indexes
}
