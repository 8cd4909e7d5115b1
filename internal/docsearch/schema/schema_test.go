package schema

import (
	"testing"

	"docsearch-gateway/internal/docsearch/docmodel"
)

func TestBuildIndexMappings_KnnDimension(t *testing.T) {
	knn := docmodel.KnnIndexParams{KnnDimension: 768, TokenLimit: 256, OverlapRate: 0.1}
	doc := BuildIndexMappings(ClusterConfig{NumberOfShards: 1, NumberOfReplicas: 0}, knn)

	settings := doc["settings"].(map[string]any)["index"].(map[string]any)
	if settings["knn"] != true {
		t.Fatalf("expected knn=true")
	}
	if settings["knn.algo_param.ef_search"] != algoParamEfSearch {
		t.Fatalf("expected ef_search=%d, got %v", algoParamEfSearch, settings["knn.algo_param.ef_search"])
	}
	if doc["settings"].(map[string]any)["default_pipeline"] != IngestPipelineName {
		t.Fatalf("expected default_pipeline=%s", IngestPipelineName)
	}

	props := doc["mappings"].(map[string]any)["properties"].(map[string]any)
	embeddings := props["embeddings"].(map[string]any)["properties"].(map[string]any)["knn"].(map[string]any)
	if embeddings["dimension"] != uint32(768) {
		t.Fatalf("expected dimension=768, got %v", embeddings["dimension"])
	}
	method := embeddings["method"].(map[string]any)
	if method["name"] != "hnsw" || method["engine"] != "lucene" {
		t.Fatalf("unexpected method mapping: %v", method)
	}
}

func TestBuildIngestPipeline_FieldMaps(t *testing.T) {
	knn := docmodel.KnnIndexParams{TokenLimit: 256, OverlapRate: 0.2}
	doc := BuildIngestPipeline("model-1", knn)
	processors := doc["processors"].([]any)
	if len(processors) != 2 {
		t.Fatalf("expected 2 processors, got %d", len(processors))
	}
	chunking := processors[0].(map[string]any)["text_chunking"].(map[string]any)
	if chunking["field_map"].(map[string]any)["content"] != "chunked_text" {
		t.Fatalf("expected content -> chunked_text field map")
	}
	embedding := processors[1].(map[string]any)["text_embedding"].(map[string]any)
	if embedding["model_id"] != "model-1" {
		t.Fatalf("expected model_id=model-1")
	}
	if embedding["field_map"].(map[string]any)["chunked_text"] != "embeddings" {
		t.Fatalf("expected chunked_text -> embeddings field map")
	}
}

func TestBuildHybridSearchPipeline_Weights(t *testing.T) {
	doc := BuildHybridSearchPipeline("model-1")
	reqs := doc["request_processors"].([]any)
	enricher := reqs[0].(map[string]any)["neural_query_enricher"].(map[string]any)
	if enricher["default_model_id"] != "model-1" {
		t.Fatalf("expected default_model_id=model-1")
	}
	phases := doc["phase_results_processors"].([]any)
	norm := phases[0].(map[string]any)["normalization-processor"].(map[string]any)
	if norm["normalization"].(map[string]any)["technique"] != normalizationTechnique {
		t.Fatalf("expected normalization technique=%s", normalizationTechnique)
	}
	combination := norm["combination"].(map[string]any)
	if combination["technique"] != combinationTechnique {
		t.Fatalf("expected combination technique=%s", combinationTechnique)
	}
	weights := combination["parameters"].(map[string]any)["weights"].([]float64)
	if len(weights) != 2 || weights[0] != 0.3 || weights[1] != 0.7 {
		t.Fatalf("unexpected weights: %v", weights)
	}
}
