// Package query lowers a docmodel.SearchingParams (and the internal
// retrieve-all-parts query) to the exact JSON request body the backing store
// expects. One Build* function per SearchKindParams variant, plus the shared
// filter/highlight/sort/exclusion helpers each variant composes from.
package query

import "docsearch-gateway/internal/docsearch/docmodel"

// HybridSearchPipelineName must match schema.HybridSearchPipelineName; kept
// as a local constant to avoid a schema<->query import cycle.
const HybridSearchPipelineName = "hybrid-search-pipeline"

// DefaultModelID is substituted for Semantic/Hybrid params that omit one.
type Config struct {
	DefaultModelID string
}

// Build lowers one SearchingParams to the backing store's JSON body,
// dispatching on the active SearchKindParams variant.
func Build(p docmodel.SearchingParams, cfg Config) map[string]any {
	switch p.Kind.Kind {
	case docmodel.KindRetrieve:
		return buildRetrieve(p.Kind.Retrieve, p.Result, p.Filter)
	case docmodel.KindFullText:
		return buildFullText(p.Kind.FullText, p.Result, p.Filter)
	case docmodel.KindSemantic:
		sem := p.Kind.Semantic
		if sem.ModelID == "" {
			sem.ModelID = cfg.DefaultModelID
		}
		return buildSemantic(sem, p.Result, p.Filter)
	case docmodel.KindHybrid:
		hyb := p.Kind.Hybrid
		if hyb.ModelID == "" {
			hyb.ModelID = cfg.DefaultModelID
		}
		return buildHybrid(hyb, p.Result, p.Filter)
	default:
		return buildFullText(docmodel.FullTextParams{}, p.Result, p.Filter)
	}
}

// excludedFields picks which stored fields to drop from the response for a
// given search kind and the caller's includeExtraFields flag, keeping the
// bulky chunked_text/embeddings/content payloads out of results unless the
// caller asks to see them.
func excludedFields(kind docmodel.SearchKind, includeExtraFields bool) []string {
	switch kind {
	case docmodel.KindRetrieve, docmodel.KindFullText:
		if includeExtraFields {
			return []string{"chunked_text", "embeddings"}
		}
		return []string{"content", "chunked_text", "embeddings"}
	case docmodel.KindSemantic:
		if includeExtraFields {
			return []string{"content"}
		}
		return []string{"content", "chunked_text", "embeddings"}
	case docmodel.KindHybrid:
		if includeExtraFields {
			return []string{"chunked_text", "embeddings"}
		}
		return []string{"content"}
	default:
		return []string{"content", "chunked_text", "embeddings"}
	}
}

func buildRetrieve(p docmodel.RetrieveParams, result docmodel.ResultParams, filter docmodel.FilterParams) map[string]any {
	var must []any
	if p.Path == "" {
		must = []any{
			map[string]any{"match": map[string]any{"doc_part_id": 1}},
		}
	} else {
		must = []any{
			map[string]any{"match": map[string]any{"file_path": p.Path}},
			map[string]any{"match": map[string]any{"doc_part_id": 1}},
		}
	}

	return map[string]any{
		"_source": map[string]any{
			"exclude": excludedFields(docmodel.KindRetrieve, result.IncludeExtraFields),
		},
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": buildFilter(filter),
			},
		},
		"sort": buildSort(result.OrderOrDefault()),
	}
}

func buildFullText(p docmodel.FullTextParams, result docmodel.ResultParams, filter docmodel.FilterParams) map[string]any {
	var must []any
	if p.Query == "" {
		must = []any{map[string]any{"match_all": map[string]any{}}}
	} else {
		must = []any{map[string]any{"match": map[string]any{"content": p.Query}}}
	}

	return map[string]any{
		"_source": map[string]any{
			"exclude": excludedFields(docmodel.KindFullText, result.IncludeExtraFields),
		},
		"highlight": buildHighlight(result),
		"sort":      buildSort(result.OrderOrDefault()),
		"query": map[string]any{
			"bool": map[string]any{
				"must":   must,
				"filter": buildFilter(filter),
			},
		},
	}
}

func buildSemantic(p docmodel.SemanticParams, result docmodel.ResultParams, filter docmodel.FilterParams) map[string]any {
	neural := buildSemanticInner(p)

	base := map[string]any{
		"_source": map[string]any{
			"exclude": excludedFields(docmodel.KindSemantic, result.IncludeExtraFields),
		},
		"size":      result.Size,
		"highlight": buildHighlight(result),
		"query": map[string]any{
			"bool": map[string]any{
				"filter": buildFilter(filter),
				"must": []any{
					map[string]any{
						"nested": map[string]any{
							"path":       "embeddings",
							"score_mode": "max",
							"query":      neural,
						},
					},
				},
			},
		},
	}
	if p.MinScore != nil {
		base["min_score"] = *p.MinScore
	}
	return base
}

func buildSemanticInner(p docmodel.SemanticParams) map[string]any {
	if len(p.Tokens) == 0 {
		return map[string]any{
			"neural": map[string]any{
				"embeddings.knn": map[string]any{
					"query_text": p.Query,
					"model_id":   p.ModelID,
					"k":          p.KnnAmount,
				},
			},
		}
	}
	return map[string]any{
		"knn": map[string]any{
			"embeddings.knn": map[string]any{
				"vector": p.Tokens,
				"k":      p.KnnAmount,
			},
		},
	}
}

func buildHybrid(p docmodel.HybridParams, result docmodel.ResultParams, filter docmodel.FilterParams) map[string]any {
	multiMatch := map[string]any{
		"query":    p.Query,
		"fields":   []string{"content", "chunked_text"},
		"type":     "cross_fields",
		"operator": "or",
	}
	matchPhrase := map[string]any{
		"content": map[string]any{
			"query": p.Query,
			"slop":  2,
			"boost": 3.0,
		},
	}

	base := map[string]any{
		"_source": map[string]any{
			"exclude": excludedFields(docmodel.KindHybrid, result.IncludeExtraFields),
		},
		"size":            result.Size,
		"search_pipeline": HybridSearchPipelineName,
		"highlight":       buildHighlight(result),
		"query": map[string]any{
			"hybrid": map[string]any{
				"pagination_depth": 20,
				"queries": []any{
					map[string]any{
						"neural": map[string]any{
							"embeddings.knn": map[string]any{
								"query_text": p.Query,
								"model_id":   p.ModelID,
								"k":          p.KnnAmount,
							},
						},
					},
					map[string]any{
						"bool": map[string]any{
							"should": []any{
								map[string]any{"multi_match": multiMatch},
								map[string]any{"match_phrase": matchPhrase},
							},
							"filter": buildFilter(filter),
						},
					},
				},
			},
		},
	}
	if p.MinScore != nil {
		base["min_score"] = *p.MinScore
	}
	return base
}

// buildFilter lowers FilterParams to the filter array, appending clauses in
// a fixed order (source, semantic source, location, created range, size
// range) so two requests with the same filters produce the same query body.
// An empty FilterParams lowers to [].
func buildFilter(f docmodel.FilterParams) []any {
	filters := []any{}

	if f.Source != "" {
		filters = append(filters, map[string]any{
			"match": map[string]any{"metadata.source": f.Source},
		})
	}
	if f.SemanticSource != "" {
		filters = append(filters, map[string]any{
			"match": map[string]any{"metadata.semantic_source": f.SemanticSource},
		})
	}
	if f.LocationCoords != "" {
		distance := f.Distance
		if distance == "" {
			distance = "5km"
		}
		filters = append(filters, map[string]any{
			"nested": map[string]any{
				"path": "metadata.locations",
				"query": map[string]any{
					"geo_distance": map[string]any{
						"distance":                  distance,
						"metadata.locations.coords": f.LocationCoords,
					},
				},
			},
		})
	}
	if f.CreatedFrom != nil {
		filters = append(filters, map[string]any{
			"range": map[string]any{"created_at": map[string]any{"gte": *f.CreatedFrom}},
		})
	}
	if f.CreatedTo != nil {
		filters = append(filters, map[string]any{
			"range": map[string]any{"created_at": map[string]any{"lte": *f.CreatedTo}},
		})
	}
	if f.SizeFrom != nil {
		filters = append(filters, map[string]any{
			"range": map[string]any{"file_size": map[string]any{"gte": *f.SizeFrom}},
		})
	}
	if f.SizeTo != nil {
		filters = append(filters, map[string]any{
			"range": map[string]any{"file_size": map[string]any{"lte": *f.SizeTo}},
		})
	}
	return filters
}

// buildHighlight emits the fixed content highlight config, adding
// fragment_size/number_of_fragments only when requested.
func buildHighlight(result docmodel.ResultParams) map[string]any {
	content := map[string]any{
		"pre_tags":  []string{""},
		"post_tags": []string{""},
	}
	if result.HighlightItemSize != nil {
		content["fragment_size"] = *result.HighlightItemSize
	}
	if result.HighlightItems != nil {
		content["number_of_fragments"] = *result.HighlightItems
	}
	return map[string]any{
		"fields": map[string]any{"content": content},
	}
}

// buildSort emits the created_at sort clause; order is one of "asc"/"desc".
func buildSort(order docmodel.ResultOrder) []any {
	return []any{
		map[string]any{"created_at": map[string]any{"order": string(order)}},
	}
}

// BuildRetrieveAllDocParts builds the internal query used to fetch or
// delete every part of one document.
func BuildRetrieveAllDocParts(p docmodel.RetrieveAllDocPartsQueryParams) map[string]any {
	var must []any
	if p.OnlyFirstPart {
		must = []any{
			map[string]any{"match": map[string]any{"large_doc_id": p.LargeDocID}},
			map[string]any{"match": map[string]any{"doc_part_id": 1}},
		}
	} else {
		must = []any{
			map[string]any{"match": map[string]any{"large_doc_id": p.LargeDocID}},
		}
	}

	out := map[string]any{
		"query": map[string]any{
			"bool": map[string]any{"must": must},
		},
	}
	if p.WithSorting {
		out["sort"] = map[string]any{
			"doc_part_id": map[string]any{"order": "ASC"},
		}
	}
	return out
}
