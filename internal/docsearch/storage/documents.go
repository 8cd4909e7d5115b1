package storage

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"docsearch-gateway/internal/docsearch/docerr"
	"docsearch-gateway/internal/docsearch/docmodel"
	"docsearch-gateway/internal/docsearch/extract"
	"docsearch-gateway/internal/docsearch/query"
	"docsearch-gateway/internal/docsearch/schema"
)

// sourceDocument is the wire shape of one indexed document part.
type sourceDocument struct {
	LargeDocID  string    `json:"large_doc_id"`
	DocPartID   int       `json:"doc_part_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	FileSize    uint32    `json:"file_size"`
	CreatedAt   int64     `json:"created_at"`
	ModifiedAt  int64     `json:"modified_at"`
	Content     string    `json:"content"`
	ChunkedText string    `json:"chunked_text,omitempty"`
	Embeddings  []float64 `json:"embeddings,omitempty"`
}

func toSourceDocument(part docmodel.DocumentPart) sourceDocument {
	return sourceDocument{
		LargeDocID:  part.LargeDocID,
		DocPartID:   part.DocPartID,
		FileName:    part.FileName,
		FilePath:    part.FilePath,
		FileSize:    part.FileSize,
		CreatedAt:   part.CreatedAt,
		ModifiedAt:  part.ModifiedAt,
		Content:     part.Content,
		ChunkedText: part.ChunkedText,
		Embeddings:  part.Embeddings,
	}
}

// genUniqueDocumentID derives a deterministic id from the index, document
// and part so that re-storing the same document part is idempotent.
func genUniqueDocumentID(indexID, largeDocID string, docPartID int) string {
	key := fmt.Sprintf("%s/%s/%d", indexID, largeDocID, docPartID)
	digest := md5.Sum([]byte(key))
	return fmt.Sprintf("%x", digest)
}

// bulkItemResult is the per-item response under a bulk action's "index" or
// "create" key.
type bulkItemResult struct {
	ID    string `json:"_id"`
	Error *struct {
		Type string `json:"type"`
	} `json:"error"`
}

// bulkResponse is the subset of a bulk API response this client inspects.
type bulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]bulkItemResult
}

// StoreDocumentParts bulk-indexes every part of one split document through
// the ingest pipeline, returning a receipt naming the first stored id. When
// uniqueDocID is set and force is not, each part is written with op_type
// "create" so the backing store rejects a part whose deterministic id
// already exists instead of silently overwriting it.
func (c *Client) StoreDocumentParts(ctx context.Context, indexID docmodel.IndexId, parts []docmodel.DocumentPart, uniqueDocID, force bool) (docmodel.StoredDocumentPartsInfo, error) {
	if len(parts) == 0 {
		return docmodel.StoredDocumentPartsInfo{}, &docerr.ValidationError{Reason: "no document parts to store"}
	}
	largeDocID := parts[0].LargeDocID
	failOnConflict := uniqueDocID && !force

	action := "index"
	if failOnConflict {
		action = "create"
	}

	var buf bytes.Buffer
	storedIDs := make([]string, 0, len(parts))
	for _, part := range parts {
		id := uuid.New().String()
		if uniqueDocID {
			id = genUniqueDocumentID(indexID, part.LargeDocID, part.DocPartID)
		}
		storedIDs = append(storedIDs, id)

		header, err := json.Marshal(map[string]any{action: map[string]any{"_id": id}})
		if err != nil {
			return docmodel.StoredDocumentPartsInfo{}, &docerr.ValidationError{Reason: "encode bulk header", Err: err}
		}
		body, err := json.Marshal(toSourceDocument(part))
		if err != nil {
			return docmodel.StoredDocumentPartsInfo{}, &docerr.ValidationError{Reason: "encode document body", Err: err}
		}
		buf.Write(header)
		buf.WriteByte('\n')
		buf.Write(body)
		buf.WriteByte('\n')
	}

	req := opensearchapi.BulkRequest{
		Index:    indexID,
		Body:     &buf,
		Pipeline: schema.IngestPipelineName,
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return docmodel.StoredDocumentPartsInfo{}, &docerr.InternalError{Op: "store_document_parts", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return docmodel.StoredDocumentPartsInfo{}, responseError(res)
	}

	raw, err := readAll(res)
	if err != nil {
		return docmodel.StoredDocumentPartsInfo{}, &docerr.InternalError{Op: "store_document_parts", Err: err}
	}

	var parsed bulkResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return docmodel.StoredDocumentPartsInfo{}, &docerr.InternalError{Op: "store_document_parts", Err: err}
	}
	if parsed.Errors {
		if conflict := firstConflict(parsed.Items, action); conflict != nil {
			return docmodel.StoredDocumentPartsInfo{}, conflict
		}
		return docmodel.StoredDocumentPartsInfo{}, &docerr.ServiceError{Status: 0, Body: string(raw)}
	}

	return docmodel.StoredDocumentPartsInfo{
		LargeDocID:     largeDocID,
		FirstPartID:    storedIDs[0],
		DocPartsAmount: len(parts),
	}, nil
}

// firstConflict reports the first item whose bulk action failed with a
// version conflict, the shape the backing store uses to reject a "create"
// against an id that already exists.
func firstConflict(items []map[string]bulkItemResult, action string) error {
	for _, item := range items {
		result, ok := item[action]
		if !ok || result.Error == nil {
			continue
		}
		if result.Error.Type == "version_conflict_engine_exception" {
			return &docerr.DocumentAlreadyExistsError{DocID: result.ID}
		}
	}
	return nil
}

// GetDocumentParts fetches every part of one document, sorted by doc_part_id.
func (c *Client) GetDocumentParts(ctx context.Context, indexID docmodel.IndexId, largeDocID string) ([]docmodel.DocumentPart, error) {
	q := query.BuildRetrieveAllDocParts(docmodel.RetrieveAllDocPartsQueryParams{
		LargeDocID:  largeDocID,
		WithSorting: true,
	})
	body, err := json.Marshal(q)
	if err != nil {
		return nil, &docerr.ValidationError{Reason: "encode retrieve-all-parts query", Err: err}
	}

	req := opensearchapi.SearchRequest{
		Index: buildSearchIndex(strings.Split(indexID, ",")),
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return nil, &docerr.InternalError{Op: "get_document_parts", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, responseError(res)
	}

	raw, err := readAll(res)
	if err != nil {
		return nil, &docerr.InternalError{Op: "get_document_parts", Err: err}
	}
	parts, err := extract.RetrievedDocumentParts(raw)
	if err != nil {
		return nil, &docerr.InternalError{Op: "get_document_parts", Err: err}
	}
	return parts, nil
}

// DeleteDocumentParts removes every part of one document via delete-by-query.
func (c *Client) DeleteDocumentParts(ctx context.Context, indexID docmodel.IndexId, largeDocID string) error {
	q := query.BuildRetrieveAllDocParts(docmodel.RetrieveAllDocPartsQueryParams{
		LargeDocID: largeDocID,
	})
	body, err := json.Marshal(q)
	if err != nil {
		return &docerr.ValidationError{Reason: "encode delete-by-query body", Err: err}
	}

	req := opensearchapi.DeleteByQueryRequest{
		Index: strings.Split(indexID, ","),
		Body:  bytes.NewReader(body),
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return &docerr.InternalError{Op: "delete_document_parts", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res)
	}
	return nil
}
