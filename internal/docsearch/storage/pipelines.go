package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"
	"github.com/rs/zerolog/log"

	"docsearch-gateway/internal/docsearch/docerr"
	"docsearch-gateway/internal/docsearch/docmodel"
	"docsearch-gateway/internal/docsearch/schema"
)

const mlModelPollInterval = 2 * time.Second

// UpdateClusterSettings enables the ML Commons plugin settings the ingest
// and hybrid search pipelines depend on.
func (c *Client) UpdateClusterSettings(ctx context.Context) error {
	settings := map[string]any{
		"persistent": map[string]any{
			"plugins.ml_commons.only_run_on_ml_node":        false,
			"plugins.ml_commons.model_auto_redeploy.enable": true,
		},
	}
	body, err := json.Marshal(settings)
	if err != nil {
		return &docerr.ValidationError{Reason: "encode cluster settings", Err: err}
	}

	req := opensearchapi.ClusterPutSettingsRequest{Body: bytes.NewReader(body)}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return &docerr.InternalError{Op: "update_cluster_settings", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res)
	}
	return nil
}

// InitPipelines registers the ingest pipeline and the hybrid search
// pipeline. The latter has no typed opensearchapi request in this client
// version, so it goes out over the raw transport the same way the original
// reaches for a bespoke URL.
func (c *Client) InitPipelines(ctx context.Context, knn docmodel.KnnIndexParams) error {
	ingest := schema.BuildIngestPipeline(c.cfg.DefaultModelID, knn)
	ingestBody, err := json.Marshal(ingest)
	if err != nil {
		return &docerr.ValidationError{Reason: "encode ingest pipeline", Err: err}
	}

	putReq := opensearchapi.IngestPutPipelineRequest{
		PipelineID: schema.IngestPipelineName,
		Body:       bytes.NewReader(ingestBody),
	}
	res, err := putReq.Do(ctx, c.os)
	if err != nil {
		return &docerr.InternalError{Op: "init_pipelines", Err: err}
	}
	defer res.Body.Close()
	if res.IsError() {
		return responseError(res)
	}

	hybrid := schema.BuildHybridSearchPipeline(c.cfg.DefaultModelID)
	hybridBody, err := json.Marshal(hybrid)
	if err != nil {
		return &docerr.ValidationError{Reason: "encode hybrid search pipeline", Err: err}
	}

	path := fmt.Sprintf("/_search/pipeline/%s", schema.HybridSearchPipelineName)
	if _, err := c.rawRequest(ctx, http.MethodPut, path, hybridBody); err != nil {
		return &docerr.InternalError{Op: "init_pipelines", Err: err}
	}
	return nil
}

type deployModelTaskResponse struct {
	TaskID string `json:"task_id"`
	Status string `json:"status"`
}

type deployModelFetchResponse struct {
	ModelID string `json:"model_id"`
	State   string `json:"state"`
}

// LoadMLModel triggers deployment of the configured embedding model and
// polls the task status until it reports COMPLETED or FAILED.
func (c *Client) LoadMLModel(ctx context.Context, modelID string) error {
	loadBody, err := json.Marshal(map[string]any{"parameters": map[string]any{"wait_for_completion": true}})
	if err != nil {
		return &docerr.ValidationError{Reason: "encode model load request", Err: err}
	}

	loadPath := fmt.Sprintf("/_plugins/_ml/models/%s/_load", modelID)
	raw, err := c.rawRequest(ctx, http.MethodPost, loadPath, loadBody)
	if err != nil {
		return &docerr.InternalError{Op: "load_ml_model", Err: err}
	}

	var task deployModelTaskResponse
	if err := json.Unmarshal(raw, &task); err != nil {
		return &docerr.InternalError{Op: "load_ml_model", Err: err}
	}
	log.Debug().Str("task_id", task.TaskID).Msg("storage: model deploy task created")

	taskPath := fmt.Sprintf("/_plugins/_ml/tasks/%s", task.TaskID)
	for {
		raw, err := c.rawRequest(ctx, http.MethodGet, taskPath, nil)
		if err != nil {
			return &docerr.InternalError{Op: "load_ml_model", Err: err}
		}

		var fetch deployModelFetchResponse
		if err := json.Unmarshal(raw, &fetch); err != nil {
			return &docerr.InternalError{Op: "load_ml_model", Err: err}
		}
		log.Debug().Str("state", fetch.State).Msg("storage: model deploy task status")

		switch fetch.State {
		case "FAILED":
			return &docerr.InternalError{Op: "load_ml_model", Err: fmt.Errorf("model deploy task failed")}
		case "COMPLETED":
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(mlModelPollInterval):
		}
	}
}

// rawRequest issues a request over the backing-store transport for
// endpoints opensearchapi does not expose a typed request for.
func (c *Client) rawRequest(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, path, reader)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.os.Perform(httpReq)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	if res.StatusCode >= 300 {
		return nil, fmt.Errorf("backing store returned status %d: %s", res.StatusCode, string(raw))
	}
	return raw, nil
}
