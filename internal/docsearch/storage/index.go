package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"docsearch-gateway/internal/docsearch/docerr"
	"docsearch-gateway/internal/docsearch/docmodel"
	"docsearch-gateway/internal/docsearch/schema"
)

// catIndexRow is one row of a cat-indices JSON response.
type catIndexRow struct {
	Index string `json:"index"`
}

// CreateIndex provisions a new index with the knn mapping built by package
// schema.
func (c *Client) CreateIndex(ctx context.Context, params docmodel.CreateIndexParams) (docmodel.IndexId, error) {
	cluster := schema.ClusterConfig{
		NumberOfShards:   c.cfg.NumberOfShards,
		NumberOfReplicas: c.cfg.NumberOfReplicas,
	}
	if cluster.NumberOfShards <= 0 {
		cluster.NumberOfShards = 1
	}
	if cluster.NumberOfReplicas <= 0 {
		cluster.NumberOfReplicas = 1
	}
	mapping := schema.BuildIndexMappings(cluster, params.KnnOrDefault())
	body, err := json.Marshal(mapping)
	if err != nil {
		return "", &docerr.ValidationError{Reason: "encode index mapping", Err: err}
	}

	req := opensearchapi.IndicesCreateRequest{
		Index: params.ID,
		Body:  strings.NewReader(string(body)),
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return "", &docerr.InternalError{Op: "create_index", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return "", responseError(res)
	}
	return params.ID, nil
}

// DeleteIndex removes an index, bounded by executeTimeout on the server side.
func (c *Client) DeleteIndex(ctx context.Context, indexID docmodel.IndexId) error {
	req := opensearchapi.IndicesDeleteRequest{
		Index:   []string{indexID},
		Timeout: executeTimeout,
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return &docerr.InternalError{Op: "delete_index", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res)
	}
	return nil
}

// GetIndex looks up one index by name via cat-indices, returning
// IndexNotFoundError when the result set is empty or the lookup is a 404.
func (c *Client) GetIndex(ctx context.Context, indexID docmodel.IndexId) (docmodel.IndexId, error) {
	req := opensearchapi.CatIndicesRequest{
		Index:  []string{indexID},
		Format: responseFormat,
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return "", &docerr.InternalError{Op: "get_index", Err: err}
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return "", &docerr.IndexNotFoundError{IndexID: indexID}
	}
	if res.IsError() {
		return "", responseError(res)
	}

	rows, err := decodeCatIndexRows(res.Body)
	if err != nil {
		return "", &docerr.InternalError{Op: "get_index", Err: err}
	}
	if len(rows) == 0 {
		return "", &docerr.IndexNotFoundError{IndexID: indexID}
	}
	return rows[0].Index, nil
}

// GetAllIndexes lists every index except the backing store's own dotted
// system indexes.
func (c *Client) GetAllIndexes(ctx context.Context) ([]docmodel.IndexId, error) {
	req := opensearchapi.CatIndicesRequest{Format: responseFormat}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, &docerr.InternalError{Op: "get_all_indexes", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(res)
	}

	rows, err := decodeCatIndexRows(res.Body)
	if err != nil {
		return nil, &docerr.InternalError{Op: "get_all_indexes", Err: err}
	}

	ids := make([]docmodel.IndexId, 0, len(rows))
	for _, row := range rows {
		if strings.HasPrefix(row.Index, ".") {
			continue
		}
		ids = append(ids, row.Index)
	}
	return ids, nil
}

func decodeCatIndexRows(body io.Reader) ([]catIndexRow, error) {
	var rows []catIndexRow
	if err := json.NewDecoder(body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("decode cat-indices response: %w", err)
	}
	return rows, nil
}

// responseError converts a non-2xx opensearchapi.Response into the error
// taxonomy, reading the body for diagnostics.
func responseError(res *opensearchapi.Response) error {
	body, _ := io.ReadAll(res.Body)
	return &docerr.ServiceError{Status: res.StatusCode, Body: string(body)}
}
