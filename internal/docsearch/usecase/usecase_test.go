package usecase

import (
	"context"
	"errors"
	"testing"

	"docsearch-gateway/internal/docsearch/docerr"
	"docsearch-gateway/internal/docsearch/docmodel"
)

type fakeStorage struct {
	indexes map[string]bool
	parts   map[string][]docmodel.DocumentPart

	createIndexErr error
	getIndexErr    error
	storeErr       error
	searchErr      error
	searchCalls    int
	searchResult   docmodel.Pagination[docmodel.FoundedDocument]
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		indexes: map[string]bool{},
		parts:   map[string][]docmodel.DocumentPart{},
	}
}

func (f *fakeStorage) CreateIndex(ctx context.Context, params docmodel.CreateIndexParams) (docmodel.IndexId, error) {
	if f.createIndexErr != nil {
		return "", f.createIndexErr
	}
	f.indexes[params.ID] = true
	return params.ID, nil
}

func (f *fakeStorage) DeleteIndex(ctx context.Context, indexID docmodel.IndexId) error {
	delete(f.indexes, indexID)
	return nil
}

func (f *fakeStorage) GetIndex(ctx context.Context, indexID docmodel.IndexId) (docmodel.IndexId, error) {
	if f.getIndexErr != nil {
		return "", f.getIndexErr
	}
	if !f.indexes[indexID] {
		return "", &docerr.IndexNotFoundError{IndexID: indexID}
	}
	return indexID, nil
}

func (f *fakeStorage) GetAllIndexes(ctx context.Context) ([]docmodel.IndexId, error) {
	ids := make([]docmodel.IndexId, 0, len(f.indexes))
	for id := range f.indexes {
		ids = append(ids, id)
	}
	return ids, nil
}

func (f *fakeStorage) StoreDocumentParts(ctx context.Context, indexID docmodel.IndexId, parts []docmodel.DocumentPart, uniqueDocID, force bool) (docmodel.StoredDocumentPartsInfo, error) {
	if f.storeErr != nil {
		return docmodel.StoredDocumentPartsInfo{}, f.storeErr
	}
	if len(parts) == 0 {
		return docmodel.StoredDocumentPartsInfo{}, errors.New("no parts")
	}
	f.parts[parts[0].LargeDocID] = append(f.parts[parts[0].LargeDocID], parts...)
	return docmodel.StoredDocumentPartsInfo{
		LargeDocID:     parts[0].LargeDocID,
		FirstPartID:    "generated-id-1",
		DocPartsAmount: len(parts),
	}, nil
}

func (f *fakeStorage) GetDocumentParts(ctx context.Context, indexID docmodel.IndexId, largeDocID string) ([]docmodel.DocumentPart, error) {
	return f.parts[largeDocID], nil
}

func (f *fakeStorage) DeleteDocumentParts(ctx context.Context, indexID docmodel.IndexId, largeDocID string) error {
	delete(f.parts, largeDocID)
	return nil
}

func (f *fakeStorage) Search(ctx context.Context, params docmodel.SearchingParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	f.searchCalls++
	if f.searchErr != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, f.searchErr
	}
	return f.searchResult, nil
}

func (f *fakeStorage) Paginate(ctx context.Context, params docmodel.PaginationParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	return f.searchResult, nil
}

func (f *fakeStorage) DeleteSession(ctx context.Context, scrollID string) error { return nil }

type fakeCache struct {
	values map[string][]byte
}

func newFakeCache() *fakeCache { return &fakeCache{values: map[string][]byte{}} }

func (c *fakeCache) Load(ctx context.Context, key string) ([]byte, bool) {
	v, ok := c.values[key]
	return v, ok
}

func (c *fakeCache) Store(ctx context.Context, key string, value []byte) {
	c.values[key] = value
}

type fakeTokenizer struct {
	calls  int
	vector []float64
	err    error
}

func (ft *fakeTokenizer) Embed(ctx context.Context, text string) ([]float64, error) {
	ft.calls++
	if ft.err != nil {
		return nil, ft.err
	}
	return ft.vector, nil
}

func TestSearch_PrecomputesSemanticTokensWhenTokenizerConfigured(t *testing.T) {
	fs := newFakeStorage()
	fs.searchResult = docmodel.Pagination[docmodel.FoundedDocument]{Founded: []docmodel.FoundedDocument{{ID: "p1"}}}
	tok := &fakeTokenizer{vector: []float64{0.1, 0.2, 0.3}}
	svc := New(fs, WithTokenizer(tok))

	params := docmodel.SearchingParams{
		Indexes: []string{"docs-1"},
		Kind:    docmodel.SearchKindParams{Kind: docmodel.KindSemantic, Semantic: docmodel.SemanticParams{Query: "hello"}},
		Result:  docmodel.ResultParams{Size: 10},
	}

	if _, err := svc.Search(context.Background(), params); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if tok.calls != 1 {
		t.Fatalf("expected tokenizer to be called once, got %d", tok.calls)
	}
}

func TestSearch_SkipsTokenizerWhenTokensAlreadyProvided(t *testing.T) {
	fs := newFakeStorage()
	tok := &fakeTokenizer{vector: []float64{0.1}}
	svc := New(fs, WithTokenizer(tok))

	params := docmodel.SearchingParams{
		Indexes: []string{"docs-1"},
		Kind: docmodel.SearchKindParams{Kind: docmodel.KindSemantic, Semantic: docmodel.SemanticParams{
			Tokens: []float64{0.9, 0.8},
		}},
		Result: docmodel.ResultParams{Size: 10},
	}

	if _, err := svc.Search(context.Background(), params); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if tok.calls != 0 {
		t.Fatalf("expected tokenizer not to be called when tokens are already set, got %d calls", tok.calls)
	}
}

func TestStoreDocument_FailsWhenIndexMissing(t *testing.T) {
	svc := New(newFakeStorage())
	_, err := svc.StoreDocument(context.Background(), "missing-index", docmodel.LargeDocument{Content: "hello"}, false, false)
	var notFound *docerr.IndexNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected IndexNotFoundError, got %v", err)
	}
}

func TestStoreDocument_SplitsAndStores10Parts(t *testing.T) {
	fs := newFakeStorage()
	fs.indexes["docs-1"] = true
	svc := New(fs, WithMaxContentSize(1))

	content := "0123456789"
	info, err := svc.StoreDocument(context.Background(), "docs-1", docmodel.LargeDocument{Content: content}, false, false)
	if err != nil {
		t.Fatalf("StoreDocument: %v", err)
	}
	if info.DocPartsAmount != 10 {
		t.Fatalf("expected 10 parts, got %d", info.DocPartsAmount)
	}

	parts, err := svc.GetAllDocumentParts(context.Background(), "docs-1", info.LargeDocID)
	if err != nil {
		t.Fatalf("GetAllDocumentParts: %v", err)
	}
	if len(parts) != 10 {
		t.Fatalf("expected 10 stored parts, got %d", len(parts))
	}
	for i, p := range parts {
		if p.DocPartID != i+1 {
			t.Fatalf("expected ascending doc_part_id, got %v at index %d", p.DocPartID, i)
		}
	}
}

func TestStoreDocuments_FailsFastOnFirstError(t *testing.T) {
	fs := newFakeStorage()
	fs.indexes["docs-1"] = true
	svc := New(fs, WithMaxContentSize(100))

	docs := []docmodel.LargeDocument{
		{Content: "first"},
		{Content: ""}, // empty content fails the splitter
		{Content: "never reached"},
	}
	_, err := svc.StoreDocuments(context.Background(), "docs-1", docs, false)
	if err == nil {
		t.Fatalf("expected an error from the empty second document")
	}
}

func TestSearch_CachesHybridResults(t *testing.T) {
	fs := newFakeStorage()
	fs.searchResult = docmodel.Pagination[docmodel.FoundedDocument]{
		Founded: []docmodel.FoundedDocument{{ID: "p1"}},
	}
	cache := newFakeCache()
	svc := New(fs, WithCache(cache))

	params := docmodel.SearchingParams{
		Indexes: []string{"docs-1"},
		Kind:    docmodel.SearchKindParams{Kind: docmodel.KindHybrid, Hybrid: docmodel.HybridParams{Query: "hello"}},
		Result:  docmodel.ResultParams{Size: 10},
	}

	if _, err := svc.Search(context.Background(), params); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if _, err := svc.Search(context.Background(), params); err != nil {
		t.Fatalf("Search (cached): %v", err)
	}
	if fs.searchCalls != 1 {
		t.Fatalf("expected one storage call with the second served from cache, got %d", fs.searchCalls)
	}
}

func TestSearch_DoesNotCacheFirstScrollPage(t *testing.T) {
	fs := newFakeStorage()
	fs.searchResult = docmodel.Pagination[docmodel.FoundedDocument]{ScrollID: "scroll-1"}
	cache := newFakeCache()
	svc := New(fs, WithCache(cache))

	params := docmodel.SearchingParams{
		Indexes: []string{"docs-1"},
		Kind:    docmodel.SearchKindParams{Kind: docmodel.KindFullText, FullText: docmodel.FullTextParams{Query: "hello"}},
		Result:  docmodel.ResultParams{Size: 10},
	}

	svc.Search(context.Background(), params)
	svc.Search(context.Background(), params)
	if fs.searchCalls != 2 {
		t.Fatalf("expected every scroll-opening search to hit storage, got %d calls", fs.searchCalls)
	}
}
