package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"docsearch-gateway/internal/docsearch/docerr"
	"docsearch-gateway/internal/docsearch/docmodel"
	"docsearch-gateway/internal/docsearch/usecase"
)

// memStorage is a minimal in-memory usecase.Storage for exercising the HTTP
// layer without a real backing store.
type memStorage struct {
	indexes map[string]bool
	parts   map[string][]docmodel.DocumentPart
}

func newMemStorage() *memStorage {
	return &memStorage{indexes: map[string]bool{}, parts: map[string][]docmodel.DocumentPart{}}
}

func (m *memStorage) CreateIndex(_ context.Context, p docmodel.CreateIndexParams) (docmodel.IndexId, error) {
	m.indexes[p.ID] = true
	return p.ID, nil
}

func (m *memStorage) DeleteIndex(_ context.Context, id docmodel.IndexId) error {
	delete(m.indexes, id)
	return nil
}

func (m *memStorage) GetIndex(_ context.Context, id docmodel.IndexId) (docmodel.IndexId, error) {
	if !m.indexes[id] {
		return "", &docerr.IndexNotFoundError{IndexID: id}
	}
	return id, nil
}

func (m *memStorage) GetAllIndexes(context.Context) ([]docmodel.IndexId, error) {
	out := make([]docmodel.IndexId, 0, len(m.indexes))
	for id := range m.indexes {
		out = append(out, id)
	}
	return out, nil
}

func (m *memStorage) StoreDocumentParts(_ context.Context, indexID docmodel.IndexId, parts []docmodel.DocumentPart, _, _ bool) (docmodel.StoredDocumentPartsInfo, error) {
	if len(parts) == 0 {
		return docmodel.StoredDocumentPartsInfo{}, nil
	}
	m.parts[indexID+"/"+parts[0].LargeDocID] = parts
	return docmodel.StoredDocumentPartsInfo{
		LargeDocID:     parts[0].LargeDocID,
		FirstPartID:    "1",
		DocPartsAmount: len(parts),
	}, nil
}

func (m *memStorage) GetDocumentParts(_ context.Context, indexID docmodel.IndexId, largeDocID string) ([]docmodel.DocumentPart, error) {
	return m.parts[indexID+"/"+largeDocID], nil
}

func (m *memStorage) DeleteDocumentParts(_ context.Context, indexID docmodel.IndexId, largeDocID string) error {
	delete(m.parts, indexID+"/"+largeDocID)
	return nil
}

func (m *memStorage) Search(context.Context, docmodel.SearchingParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	return docmodel.Pagination[docmodel.FoundedDocument]{}, nil
}

func (m *memStorage) Paginate(context.Context, docmodel.PaginationParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	return docmodel.Pagination[docmodel.FoundedDocument]{}, nil
}

func (m *memStorage) DeleteSession(context.Context, string) error { return nil }

func newTestServer() *Server {
	return NewServer(usecase.New(newMemStorage()))
}

func TestCreateIndex_ReturnsCreated(t *testing.T) {
	srv := newTestServer()

	body, err := json.Marshal(createIndexRequest{ID: "docs", Name: "docs"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/indexes", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetIndex_MissingReturnsNotFound(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/indexes/missing", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStoreDocument_RoundTripsThroughGetDocumentParts(t *testing.T) {
	srv := newTestServer()

	createBody, _ := json.Marshal(createIndexRequest{ID: "docs"})
	createReq := httptest.NewRequest(http.MethodPost, "/indexes", bytes.NewReader(createBody))
	createRec := httptest.NewRecorder()
	srv.ServeHTTP(createRec, createReq)
	require.Equal(t, http.StatusCreated, createRec.Code)

	storeBody, _ := json.Marshal(storeDocumentRequest{
		FileName: "a.txt",
		FilePath: "/a.txt",
		Content:  "hello world",
	})
	storeReq := httptest.NewRequest(http.MethodPost, "/indexes/docs/documents", bytes.NewReader(storeBody))
	storeRec := httptest.NewRecorder()
	srv.ServeHTTP(storeRec, storeReq)
	require.Equal(t, http.StatusCreated, storeRec.Code)

	var stored storedDocumentResponse
	require.NoError(t, json.Unmarshal(storeRec.Body.Bytes(), &stored))
	require.NotEmpty(t, stored.LargeDocID)

	getReq := httptest.NewRequest(http.MethodGet, "/indexes/docs/documents/"+stored.LargeDocID, nil)
	getRec := httptest.NewRecorder()
	srv.ServeHTTP(getRec, getReq)
	require.Equal(t, http.StatusOK, getRec.Code)

	var parts documentPartsResponse
	require.NoError(t, json.Unmarshal(getRec.Body.Bytes(), &parts))
	require.Len(t, parts.Parts, 1)
	require.Equal(t, "hello world", parts.Parts[0].Content)
}

func TestStoreDocument_MissingIndexReturnsNotFound(t *testing.T) {
	srv := newTestServer()

	storeBody, _ := json.Marshal(storeDocumentRequest{FileName: "a.txt", Content: "hello"})
	req := httptest.NewRequest(http.MethodPost, "/indexes/missing/documents", bytes.NewReader(storeBody))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSearch_UnknownKindReturnsBadRequest(t *testing.T) {
	srv := newTestServer()

	body, _ := json.Marshal(searchRequest{Kind: "not-a-kind"})
	req := httptest.NewRequest(http.MethodPost, "/indexes/docs/search", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
