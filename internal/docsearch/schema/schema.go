// Package schema builds the three JSON documents the backing store needs to
// provision an index: the index mapping, the ingest-chunking-embedding
// pipeline, and the hybrid-search post-processor pipeline.
package schema

import "docsearch-gateway/internal/docsearch/docmodel"

const (
	// IngestPipelineName is the fixed name of the chunk+embed ingest pipeline.
	IngestPipelineName = "embeddings-ingest-pipeline"
	// HybridSearchPipelineName is the fixed name of the hybrid post-processor.
	HybridSearchPipelineName = "hybrid-search-pipeline"

	normalizationTechnique = "min_max"
	combinationTechnique   = "arithmetic_mean"
	tokenizerKind          = "standard"
	algoParamEfSearch      = 100
)

// ClusterConfig carries cluster-level sizing used by the index mapping.
type ClusterConfig struct {
	NumberOfShards   int
	NumberOfReplicas int
}

// SemanticConfig names the embedding model used by the ingest pipeline and
// the hybrid search pipeline's neural query enricher.
type SemanticConfig struct {
	ModelID string
}

// BuildIndexMappings emits the settings+mappings document for CreateIndex.
// knn.KnnEfSearcher sets knn.algo_param.ef_search; zero selects the fixed
// default of 100.
func BuildIndexMappings(cluster ClusterConfig, knn docmodel.KnnIndexParams) map[string]any {
	efSearch := algoParamEfSearch
	if knn.KnnEfSearcher > 0 {
		efSearch = int(knn.KnnEfSearcher)
	}
	return map[string]any{
		"settings": map[string]any{
			"index": map[string]any{
				"knn":                       true,
				"knn.algo_param.ef_search":  efSearch,
				"number_of_shards":          cluster.NumberOfShards,
				"number_of_replicas":        cluster.NumberOfReplicas,
			},
			"default_pipeline": IngestPipelineName,
		},
		"mappings": map[string]any{
			"properties": map[string]any{
				"large_doc_id": map[string]any{"type": "keyword"},
				"doc_part_id":  map[string]any{"type": "keyword"},
				"file_name": map[string]any{
					"type": "text",
					"fields": map[string]any{
						"keyword": map[string]any{"type": "keyword", "ignore_above": 256},
					},
				},
				"file_path": map[string]any{"type": "text"},
				"file_size": map[string]any{"type": "long"},
				"ssdeep":    map[string]any{"type": "keyword"},
				"content":   map[string]any{"type": "text"},
				"created_at": map[string]any{
					"type":   "date",
					"format": "epoch_second",
				},
				"modified_at": map[string]any{
					"type":   "date",
					"format": "epoch_second",
				},
				"embeddings": map[string]any{
					"type": "nested",
					"properties": map[string]any{
						"knn": map[string]any{
							"type":      "knn_vector",
							"dimension": knn.KnnDimension,
							"method": map[string]any{
								"name":   "hnsw",
								"engine": "lucene",
							},
						},
					},
				},
				"metadata": buildMetadataMapping(),
			},
		},
	}
}

func buildMetadataMapping() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"photo":           map[string]any{"type": "keyword"},
			"pipelines":       map[string]any{"type": "keyword"},
			"references":      map[string]any{"type": "keyword"},
			"semantic_source": map[string]any{"type": "keyword"},
			"pipeline_id":     map[string]any{"type": "long"},
			"source":          map[string]any{"type": "keyword"},
			"summary":         map[string]any{"type": "text"},
			"groups": map[string]any{
				"type": "nested",
				"properties": map[string]any{
					"name": map[string]any{
						"type":   "text",
						"fields": map[string]any{"keyword": map[string]any{"type": "keyword"}},
					},
				},
			},
			"classes": map[string]any{
				"type": "nested",
				"properties": map[string]any{
					"name":        map[string]any{"type": "keyword"},
					"probability": map[string]any{"type": "float"},
				},
			},
			"icons": map[string]any{
				"type": "nested",
				"properties": map[string]any{
					"name": map[string]any{"type": "keyword"},
				},
			},
			"locations": map[string]any{
				"type": "nested",
				"properties": map[string]any{
					"coords": map[string]any{"type": "geo_point"},
					"name":   map[string]any{"type": "text"},
				},
			},
			"subjects": map[string]any{
				"type": "nested",
				"properties": map[string]any{
					"name": map[string]any{
						"type":   "text",
						"fields": map[string]any{"keyword": map[string]any{"type": "keyword"}},
					},
				},
			},
		},
	}
}

// BuildIngestPipeline emits the embeddings-ingest-pipeline document: a
// text_chunking processor (content -> chunked_text) followed by a
// text_embedding processor (chunked_text -> embeddings).
func BuildIngestPipeline(modelID string, knn docmodel.KnnIndexParams) map[string]any {
	return map[string]any{
		"description": "A text chunking and embedding ingest pipeline",
		"processors": []any{
			map[string]any{
				"text_chunking": map[string]any{
					"algorithm": map[string]any{
						"fixed_token_length": map[string]any{
							"token_limit":  knn.TokenLimit,
							"overlap_rate": knn.OverlapRate,
							"tokenizer":    tokenizerKind,
						},
					},
					"field_map": map[string]any{
						"content": "chunked_text",
					},
				},
			},
			map[string]any{
				"text_embedding": map[string]any{
					"model_id": modelID,
					"field_map": map[string]any{
						"chunked_text": "embeddings",
					},
				},
			},
		},
	}
}

// BuildHybridSearchPipeline emits the hybrid-search-pipeline document: a
// neural_query_enricher request processor and a normalization-processor
// phase-results processor with fixed min_max/arithmetic_mean weights.
func BuildHybridSearchPipeline(defaultModelID string) map[string]any {
	return map[string]any{
		"description": "Post processor for hybrid searching",
		"request_processors": []any{
			map[string]any{
				"neural_query_enricher": map[string]any{
					"default_model_id": defaultModelID,
				},
			},
		},
		"phase_results_processors": []any{
			map[string]any{
				"normalization-processor": map[string]any{
					"normalization": map[string]any{
						"technique": normalizationTechnique,
					},
					"combination": map[string]any{
						"technique": combinationTechnique,
						"parameters": map[string]any{
							"weights": []float64{0.3, 0.7},
						},
					},
				},
			},
		},
	}
}
