// Package httpapi exposes the document search gateway's usecase.Service
// over plain net/http, translating docerr values into HTTP status codes.
package httpapi

import "docsearch-gateway/internal/docsearch/docmodel"

type knnParamsDTO struct {
	Dimension   uint32  `json:"dimension,omitempty"`
	TokenLimit  uint32  `json:"token_limit,omitempty"`
	OverlapRate float32 `json:"overlap_rate,omitempty"`
	EfSearch    uint32  `json:"ef_search,omitempty"`
}

type createIndexRequest struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	Knn         *knnParamsDTO `json:"knn,omitempty"`
	UniqueDocID bool          `json:"unique_doc_id,omitempty"`
}

func (r createIndexRequest) toParams() docmodel.CreateIndexParams {
	p := docmodel.CreateIndexParams{
		ID:          r.ID,
		Name:        r.Name,
		Path:        r.Path,
		UniqueDocID: r.UniqueDocID,
	}
	if r.Knn != nil {
		p.Knn = &docmodel.KnnIndexParams{
			KnnDimension:  r.Knn.Dimension,
			TokenLimit:    r.Knn.TokenLimit,
			OverlapRate:   r.Knn.OverlapRate,
			KnnEfSearcher: r.Knn.EfSearch,
		}
	}
	return p
}

type indexResponse struct {
	ID string `json:"id"`
}

type indexListResponse struct {
	Indexes []string `json:"indexes"`
}

type storeDocumentRequest struct {
	FileName    string `json:"file_name"`
	FilePath    string `json:"file_path"`
	FileSize    uint32 `json:"file_size"`
	Content     string `json:"content"`
	UniqueDocID bool   `json:"unique_doc_id,omitempty"`
	Force       bool   `json:"force,omitempty"`
}

type storedDocumentResponse struct {
	LargeDocID     string `json:"large_doc_id"`
	FirstPartID    string `json:"first_part_id"`
	DocPartsAmount int    `json:"doc_parts_amount"`
}

func toStoredDocumentResponse(info docmodel.StoredDocumentPartsInfo) storedDocumentResponse {
	return storedDocumentResponse{
		LargeDocID:     info.LargeDocID,
		FirstPartID:    info.FirstPartID,
		DocPartsAmount: info.DocPartsAmount,
	}
}

type documentPartDTO struct {
	LargeDocID string  `json:"large_doc_id"`
	DocPartID  int     `json:"doc_part_id"`
	FileName   string  `json:"file_name"`
	FilePath   string  `json:"file_path"`
	FileSize   uint32  `json:"file_size"`
	CreatedAt  int64   `json:"created_at"`
	ModifiedAt int64   `json:"modified_at"`
	Content    string  `json:"content"`
	Score      *float64 `json:"score,omitempty"`
}

func toDocumentPartDTO(p docmodel.DocumentPart) documentPartDTO {
	return documentPartDTO{
		LargeDocID: p.LargeDocID,
		DocPartID:  p.DocPartID,
		FileName:   p.FileName,
		FilePath:   p.FilePath,
		FileSize:   p.FileSize,
		CreatedAt:  p.CreatedAt,
		ModifiedAt: p.ModifiedAt,
		Content:    p.Content,
	}
}

type documentPartsResponse struct {
	Parts []documentPartDTO `json:"parts"`
}

type searchRequest struct {
	Indexes []string `json:"indexes"`
	Kind    string   `json:"kind"`

	Path string `json:"path,omitempty"`

	Query     string   `json:"query,omitempty"`
	ModelID   string   `json:"model_id,omitempty"`
	KnnAmount uint16   `json:"knn_amount,omitempty"`
	MinScore  *float32 `json:"min_score,omitempty"`
	Tokens    []float64 `json:"tokens,omitempty"`

	Size   int    `json:"size,omitempty"`
	Offset int    `json:"offset,omitempty"`
	Order  string `json:"order,omitempty"`
}

type paginateRequest struct {
	ScrollID string `json:"scroll_id"`
}

type foundedDocumentDTO struct {
	ID        string   `json:"id"`
	Index     string   `json:"index"`
	Document  documentPartDTO `json:"document"`
	Highlight []string `json:"highlight,omitempty"`
	Score     *float64 `json:"score,omitempty"`
}

type searchResponse struct {
	Founded  []foundedDocumentDTO `json:"founded"`
	ScrollID string               `json:"scroll_id,omitempty"`
}

func toSearchResponse(page docmodel.Pagination[docmodel.FoundedDocument]) searchResponse {
	out := searchResponse{ScrollID: page.ScrollID, Founded: make([]foundedDocumentDTO, 0, len(page.Founded))}
	for _, f := range page.Founded {
		out.Founded = append(out.Founded, foundedDocumentDTO{
			ID:        f.ID,
			Index:     f.Index,
			Document:  toDocumentPartDTO(f.Document),
			Highlight: f.Highlight,
			Score:     f.Score,
		})
	}
	return out
}

type errorResponse struct {
	Error string `json:"error"`
}
