package usecase

import (
	"context"
	"sort"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"docsearch-gateway/internal/docsearch/docmodel"
	"docsearch-gateway/internal/docsearch/splitter"
)

// defaultMaxContentSize is the fixed-size chunking window used when a
// document is stored without an explicit override.
const defaultMaxContentSize = 1024

// Service sequences splitter and storage calls for the document search
// gateway's public operations, wrapping each in a named span and
// stage-duration metric.
type Service struct {
	storage Storage

	log       Logger
	metrics   Metrics
	clock     Clock
	tracer    trace.Tracer
	cache     Cache
	tokenizer Tokenizer

	maxContentSize int
}

// New constructs a Service backed by storage, applying opts over the
// package defaults.
func New(storage Storage, opts ...Option) *Service {
	s := &Service{
		storage:        storage,
		log:            NoopLogger{},
		metrics:        NoopMetrics{},
		clock:          SystemClock{},
		tracer:         otel.Tracer("docsearch-gateway/usecase"),
		maxContentSize: defaultMaxContentSize,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) span(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name)
}

// CreateIndex provisions a new index.
func (s *Service) CreateIndex(ctx context.Context, params docmodel.CreateIndexParams) (docmodel.IndexId, error) {
	ctx, span := s.span(ctx, "create-index")
	defer span.End()

	start := s.clock.Now()
	id, err := s.storage.CreateIndex(ctx, params)
	s.metrics.ObserveHistogram("usecase_stage_ms", float64(ms(s.clock.Now().Sub(start))), map[string]string{"op": "create_index"})
	if err != nil {
		s.log.Error("create_index failed", map[string]any{"index_id": params.ID, "error": err.Error()})
		return "", err
	}
	s.log.Info("index created", map[string]any{"index_id": id})
	return id, nil
}

// DeleteIndex removes an index.
func (s *Service) DeleteIndex(ctx context.Context, indexID docmodel.IndexId) error {
	ctx, span := s.span(ctx, "delete-index")
	defer span.End()

	if err := s.storage.DeleteIndex(ctx, indexID); err != nil {
		s.log.Error("delete_index failed", map[string]any{"index_id": indexID, "error": err.Error()})
		return err
	}
	s.log.Info("index deleted", map[string]any{"index_id": indexID})
	return nil
}

// checkIndexExists confirms an index is present before mutating it.
func (s *Service) checkIndexExists(ctx context.Context, indexID docmodel.IndexId) (docmodel.IndexId, error) {
	ctx, span := s.span(ctx, "check-index-exists")
	defer span.End()
	return s.storage.GetIndex(ctx, indexID)
}

// GetIndex looks up one index by name.
func (s *Service) GetIndex(ctx context.Context, indexID docmodel.IndexId) (docmodel.IndexId, error) {
	ctx, span := s.span(ctx, "get-index")
	defer span.End()
	return s.storage.GetIndex(ctx, indexID)
}

// GetAllIndexes lists every non-system index.
func (s *Service) GetAllIndexes(ctx context.Context) ([]docmodel.IndexId, error) {
	ctx, span := s.span(ctx, "get-all-indexes")
	defer span.End()
	return s.storage.GetAllIndexes(ctx)
}

// StoreDocument splits and bulk-stores one document into indexID, after
// confirming the index exists. force only matters when uniqueDocID is set:
// it allows overwriting a part whose deterministic id already exists,
// instead of failing with a document-already-exists conflict.
func (s *Service) StoreDocument(ctx context.Context, indexID docmodel.IndexId, doc docmodel.LargeDocument, uniqueDocID, force bool) (docmodel.StoredDocumentPartsInfo, error) {
	if _, err := s.checkIndexExists(ctx, indexID); err != nil {
		return docmodel.StoredDocumentPartsInfo{}, err
	}

	parts, err := splitter.Split(doc, s.maxContentSize)
	if err != nil {
		return docmodel.StoredDocumentPartsInfo{}, err
	}

	ctx, span := s.span(ctx, "store-document")
	defer span.End()

	start := s.clock.Now()
	info, err := s.storage.StoreDocumentParts(ctx, indexID, parts, uniqueDocID, force)
	s.metrics.ObserveHistogram("usecase_stage_ms", float64(ms(s.clock.Now().Sub(start))), map[string]string{"op": "store_document"})
	if err != nil {
		s.log.Error("store_document failed", map[string]any{"index_id": indexID, "error": err.Error()})
		return docmodel.StoredDocumentPartsInfo{}, err
	}
	s.metrics.IncCounter("usecase_documents_stored_total", map[string]string{"index_id": indexID})
	return info, nil
}

// StoreDocuments stores each document sequentially, stopping at the first
// failure (matching the original's fail-fast loop).
func (s *Service) StoreDocuments(ctx context.Context, indexID docmodel.IndexId, docs []docmodel.LargeDocument, uniqueDocID bool) ([]docmodel.StoredDocumentPartsInfo, error) {
	if _, err := s.checkIndexExists(ctx, indexID); err != nil {
		return nil, err
	}

	stored := make([]docmodel.StoredDocumentPartsInfo, 0, len(docs))
	for _, doc := range docs {
		info, err := s.StoreDocument(ctx, indexID, doc, uniqueDocID, true)
		if err != nil {
			return nil, err
		}
		stored = append(stored, info)
	}
	return stored, nil
}

// GetAllDocumentParts fetches every part of one document, sorted by
// DocPartID ascending.
func (s *Service) GetAllDocumentParts(ctx context.Context, indexID docmodel.IndexId, largeDocID string) ([]docmodel.DocumentPart, error) {
	ctx, span := s.span(ctx, "get-all-document-parts")
	defer span.End()

	parts, err := s.storage.GetDocumentParts(ctx, indexID, largeDocID)
	if err != nil {
		return nil, err
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].DocPartID < parts[j].DocPartID })
	return parts, nil
}

// DeleteDocument removes every part of one document.
func (s *Service) DeleteDocument(ctx context.Context, indexID docmodel.IndexId, largeDocID string) error {
	ctx, span := s.span(ctx, "delete-document-parts")
	defer span.End()
	return s.storage.DeleteDocumentParts(ctx, indexID, largeDocID)
}

// Search runs one of the four query kinds, returning a cached page when the
// advisory cache has one for a non-scrolling request. Cache errors never
// fail the request; misses and scrolling requests fall through to the
// backing store.
func (s *Service) Search(ctx context.Context, params docmodel.SearchingParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	ctx, span := s.span(ctx, "search")
	defer span.End()

	if err := s.precomputeSemanticTokens(ctx, &params); err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, err
	}

	cacheable := s.cache != nil && (params.Result.Offset > 0 || params.Kind.Kind == docmodel.KindHybrid)
	key := ""
	if cacheable {
		key = searchCacheKey(params)
		if raw, ok := s.cache.Load(ctx, key); ok {
			if page, ok := decodeCachedPage(raw); ok {
				s.metrics.IncCounter("usecase_search_cache_hits_total", map[string]string{"kind": searchKindLabel(params.Kind.Kind)})
				return page, nil
			}
		}
	}

	start := s.clock.Now()
	page, err := s.storage.Search(ctx, params)
	s.metrics.ObserveHistogram("usecase_stage_ms", float64(ms(s.clock.Now().Sub(start))), map[string]string{"op": "search"})
	if err != nil {
		s.log.Error("search failed", map[string]any{"error": err.Error()})
		return docmodel.Pagination[docmodel.FoundedDocument]{}, err
	}
	s.metrics.IncCounter("usecase_search_requests_total", map[string]string{"kind": searchKindLabel(params.Kind.Kind)})

	if cacheable {
		if raw, ok := encodeCachedPage(page); ok {
			s.cache.Store(ctx, key, raw)
		}
	}
	return page, nil
}

// Paginate continues a scroll session opened by Search.
func (s *Service) Paginate(ctx context.Context, params docmodel.PaginationParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	ctx, span := s.span(ctx, "paginate")
	defer span.End()
	return s.storage.Paginate(ctx, params)
}

// DeleteSession releases a scroll session ahead of its natural expiry.
func (s *Service) DeleteSession(ctx context.Context, scrollID string) error {
	ctx, span := s.span(ctx, "delete-session")
	defer span.End()
	return s.storage.DeleteSession(ctx, scrollID)
}

// precomputeSemanticTokens fills in Tokens for a Semantic query that
// supplied query text but no vector, when a tokenizer is configured.
// Leaves the request untouched otherwise, including for Hybrid, whose
// neural sub-query always embeds server-side via neural_query_enricher.
func (s *Service) precomputeSemanticTokens(ctx context.Context, params *docmodel.SearchingParams) error {
	if s.tokenizer == nil || params.Kind.Kind != docmodel.KindSemantic {
		return nil
	}
	sem := &params.Kind.Semantic
	if len(sem.Tokens) > 0 || sem.Query == "" {
		return nil
	}
	ctx, span := s.span(ctx, "precompute-semantic-tokens")
	defer span.End()

	tokens, err := s.tokenizer.Embed(ctx, sem.Query)
	if err != nil {
		s.log.Error("embed failed", map[string]any{"error": err.Error()})
		return err
	}
	sem.Tokens = tokens
	return nil
}

func searchKindLabel(k docmodel.SearchKind) string {
	switch k {
	case docmodel.KindRetrieve:
		return "retrieve"
	case docmodel.KindFullText:
		return "full_text"
	case docmodel.KindSemantic:
		return "semantic"
	case docmodel.KindHybrid:
		return "hybrid"
	default:
		return "unknown"
	}
}
