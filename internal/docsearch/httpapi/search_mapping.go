package httpapi

import (
	"fmt"

	"docsearch-gateway/internal/docsearch/docmodel"
)

// toSearchingParams builds a SearchingParams from the decoded request body.
// indexID is the path-scoped index, searched when req.Indexes is empty;
// a non-empty req.Indexes replaces it, so the path index is searched only
// if it is listed there (a multi-index search), matching the storage
// layer's []IndexId-based Search contract.
func toSearchingParams(indexID string, req searchRequest) (docmodel.SearchingParams, error) {
	indexes := req.Indexes
	if len(indexes) == 0 {
		indexes = []docmodel.IndexId{indexID}
	}

	kind, err := toSearchKindParams(req)
	if err != nil {
		return docmodel.SearchingParams{}, err
	}

	return docmodel.SearchingParams{
		Indexes: indexes,
		Kind:    kind,
		Result: docmodel.ResultParams{
			Size:   req.Size,
			Offset: req.Offset,
			Order:  docmodel.ResultOrder(req.Order),
		},
	}, nil
}

func toSearchKindParams(req searchRequest) (docmodel.SearchKindParams, error) {
	switch req.Kind {
	case "", "retrieve":
		return docmodel.SearchKindParams{
			Kind:     docmodel.KindRetrieve,
			Retrieve: docmodel.RetrieveParams{Path: req.Path},
		}, nil
	case "full_text":
		return docmodel.SearchKindParams{
			Kind:     docmodel.KindFullText,
			FullText: docmodel.FullTextParams{Query: req.Query},
		}, nil
	case "semantic":
		return docmodel.SearchKindParams{
			Kind: docmodel.KindSemantic,
			Semantic: docmodel.SemanticParams{
				Query:     req.Query,
				ModelID:   req.ModelID,
				KnnAmount: req.KnnAmount,
				MinScore:  req.MinScore,
				Tokens:    req.Tokens,
			},
		}, nil
	case "hybrid":
		return docmodel.SearchKindParams{
			Kind: docmodel.KindHybrid,
			Hybrid: docmodel.HybridParams{
				Query:     req.Query,
				ModelID:   req.ModelID,
				KnnAmount: req.KnnAmount,
				MinScore:  req.MinScore,
			},
		}, nil
	default:
		return docmodel.SearchKindParams{}, fmt.Errorf("unknown search kind %q", req.Kind)
	}
}
