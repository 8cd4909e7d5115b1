// Package extract parses backing-store search responses into typed
// document parts and founded-document hits, threading the scroll cursor
// when present.
package extract

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"docsearch-gateway/internal/docsearch/docmodel"
)

// rawHit mirrors one element of hits.hits in an OpenSearch response.
type rawHit struct {
	ID        string          `json:"_id"`
	Index     string          `json:"_index"`
	Score     *float64        `json:"_score"`
	Source    json.RawMessage `json:"_source"`
	Highlight struct {
		Content []string `json:"content"`
	} `json:"highlight"`
}

type rawSource struct {
	LargeDocID  string   `json:"large_doc_id"`
	DocPartID   any      `json:"doc_part_id"`
	FileName    string   `json:"file_name"`
	FilePath    string   `json:"file_path"`
	FileSize    uint32   `json:"file_size"`
	CreatedAt   int64    `json:"created_at"`
	ModifiedAt  int64    `json:"modified_at"`
	Content     string   `json:"content"`
	ChunkedText string   `json:"chunked_text"`
	Embeddings  []float64 `json:"embeddings,omitempty"`
}

type rawResponse struct {
	ScrollID *string `json:"_scroll_id"`
	Hits     struct {
		Hits []rawHit `json:"hits"`
	} `json:"hits"`
}

// docPartIDToInt accepts doc_part_id encoded as either a JSON number or a
// keyword string, matching the mapping's `doc_part_id: keyword` field type.
func docPartIDToInt(v any) int {
	switch t := v.(type) {
	case float64:
		return int(t)
	case string:
		var n int
		_, _ = fmt.Sscanf(t, "%d", &n)
		return n
	default:
		return 0
	}
}

func toDocumentPart(h rawHit) (docmodel.DocumentPart, error) {
	var src rawSource
	if err := json.Unmarshal(h.Source, &src); err != nil {
		return docmodel.DocumentPart{}, err
	}
	return docmodel.DocumentPart{
		LargeDocID:  src.LargeDocID,
		DocPartID:   docPartIDToInt(src.DocPartID),
		FileName:    src.FileName,
		FilePath:    src.FilePath,
		FileSize:    src.FileSize,
		CreatedAt:   src.CreatedAt,
		ModifiedAt:  src.ModifiedAt,
		Content:     src.Content,
		ChunkedText: src.ChunkedText,
		Embeddings:  src.Embeddings,
	}, nil
}

func toFoundedDocument(h rawHit) (docmodel.FoundedDocument, error) {
	part, err := toDocumentPart(h)
	if err != nil {
		return docmodel.FoundedDocument{}, err
	}
	return docmodel.FoundedDocument{
		ID:        h.ID,
		Index:     h.Index,
		Document:  part,
		Highlight: h.Highlight.Content,
		Score:     h.Score,
	}, nil
}

// RetrievedDocumentParts parses a raw search response body into a flat list
// of DocumentPart, skipping entries that fail to deserialise.
func RetrievedDocumentParts(body []byte) ([]docmodel.DocumentPart, error) {
	var resp rawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("extract: decode response: %w", err)
	}
	if len(resp.Hits.Hits) == 0 {
		log.Warn().Msg("extract: returned empty array of founded documents")
		return nil, nil
	}

	parts := make([]docmodel.DocumentPart, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		part, err := toDocumentPart(h)
		if err != nil {
			log.Warn().Err(err).Str("id", h.ID).Msg("extract: skipping hit that failed to deserialise")
			continue
		}
		parts = append(parts, part)
	}
	return parts, nil
}

// FoundedDocumentParts parses a raw search/scroll response into a Pagination
// of FoundedDocument, threading the scroll cursor. A present _scroll_id is
// returned even when hits.hits is empty so the caller can close the session.
func FoundedDocumentParts(body []byte) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	var resp rawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, fmt.Errorf("extract: decode response: %w", err)
	}

	scrollID := ""
	if resp.ScrollID != nil {
		scrollID = *resp.ScrollID
	}

	if len(resp.Hits.Hits) == 0 {
		log.Warn().Msg("extract: returned empty array of founded documents")
		return docmodel.Pagination[docmodel.FoundedDocument]{ScrollID: scrollID}, nil
	}

	documents := make([]docmodel.FoundedDocument, 0, len(resp.Hits.Hits))
	for _, h := range resp.Hits.Hits {
		doc, err := toFoundedDocument(h)
		if err != nil {
			log.Warn().Err(err).Str("id", h.ID).Msg("extract: skipping hit that failed to deserialise")
			continue
		}
		documents = append(documents, doc)
	}
	return docmodel.Pagination[docmodel.FoundedDocument]{Founded: documents, ScrollID: scrollID}, nil
}
