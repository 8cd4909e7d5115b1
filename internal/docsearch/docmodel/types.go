// Package docmodel holds the plain value types shared across the document
// search gateway: index and document descriptors, query parameters and
// result envelopes. None of these types carry behavior beyond small getters;
// lowering and parsing live in the query, schema and extract packages.
package docmodel

import "time"

// IndexId names an index in the backing store.
type IndexId = string

// KnnIndexParams controls the vector field and ingest-chunking parameters of
// a provisioned index. All four values are lowered verbatim into the index
// schema and ingest pipeline (see package schema).
type KnnIndexParams struct {
	KnnDimension  uint32
	TokenLimit    uint32
	OverlapRate   float32
	KnnEfSearcher uint32
}

// DefaultKnnIndexParams returns the spec-fixed defaults used when a
// CreateIndex request omits Knn.
func DefaultKnnIndexParams() KnnIndexParams {
	return KnnIndexParams{
		KnnDimension:  384,
		TokenLimit:    256,
		OverlapRate:   0.1,
		KnnEfSearcher: 100,
	}
}

// CreateIndexParams describes a new index to provision.
type CreateIndexParams struct {
	ID   IndexId
	Name string
	Path string
	Knn  *KnnIndexParams

	// UniqueDocID selects deterministic MD5 document ids (derived from
	// index/large_doc_id/doc_part_id) instead of random UUIDs at store time.
	UniqueDocID bool
}

// KnnOrDefault returns Knn if set, else the package defaults.
func (p CreateIndexParams) KnnOrDefault() KnnIndexParams {
	if p.Knn != nil {
		return *p.Knn
	}
	return DefaultKnnIndexParams()
}

// LargeDocument is the document submitted by a client before splitting.
type LargeDocument struct {
	FileName   string
	FilePath   string
	FileSize   uint32
	CreatedAt  int64 // epoch seconds
	ModifiedAt int64
	Content    string
}

// DocumentPart is one chunk of a LargeDocument, addressable independently in
// the backing store. Within one LargeDocID, DocPartID is a dense 1-based
// sequence.
type DocumentPart struct {
	LargeDocID  string
	DocPartID   int
	FileName    string
	FilePath    string
	FileSize    uint32
	CreatedAt   int64
	ModifiedAt  int64
	Content     string
	ChunkedText string
	Embeddings  []float64
}

// StoredDocumentPartsInfo is the receipt returned after a bulk store.
type StoredDocumentPartsInfo struct {
	LargeDocID     string
	FirstPartID    string
	DocPartsAmount int
}

// ResultOrder controls sort direction for result ordering.
type ResultOrder string

const (
	OrderAsc  ResultOrder = "asc"
	OrderDesc ResultOrder = "desc"
)

// FilterParams narrows a search by optional ranges and facets. A zero-value
// FilterParams lowers to an empty filter array.
type FilterParams struct {
	DocPartID *int

	SizeFrom *uint32
	SizeTo   *uint32

	CreatedFrom *int64
	CreatedTo   *int64

	ModifiedFrom *int64
	ModifiedTo   *int64

	Source         string
	SemanticSource string

	Distance       string
	LocationCoords string

	DocClass string
}

// IsEmpty reports whether every optional filter field is unset.
func (f FilterParams) IsEmpty() bool {
	return f.DocPartID == nil &&
		f.SizeFrom == nil && f.SizeTo == nil &&
		f.CreatedFrom == nil && f.CreatedTo == nil &&
		f.ModifiedFrom == nil && f.ModifiedTo == nil &&
		f.Source == "" && f.SemanticSource == "" &&
		f.Distance == "" && f.LocationCoords == "" &&
		f.DocClass == ""
}

// ResultParams shapes the result envelope: pagination window, sort order,
// highlighting and field exclusion policy.
type ResultParams struct {
	Size               int
	Offset             int
	Order              ResultOrder // default OrderDesc
	IncludeExtraFields bool
	HighlightItems     *int
	HighlightItemSize  *int
}

// OrderOrDefault returns Order if set, else OrderDesc.
func (r ResultParams) OrderOrDefault() ResultOrder {
	if r.Order == "" {
		return OrderDesc
	}
	return r.Order
}

// SearchKind tags which SearchKindParams variant is active.
type SearchKind int

const (
	KindRetrieve SearchKind = iota
	KindFullText
	KindSemantic
	KindHybrid
)

// RetrieveParams requests the parts of a document, or a whole index listing
// when Path is empty.
type RetrieveParams struct {
	Path string
}

// FullTextParams runs a lexical query, or match_all when Query is empty.
type FullTextParams struct {
	Query string
}

// SemanticParams runs a dense-vector neural query, either from Query text (the
// backing store embeds it) or from precomputed Tokens.
type SemanticParams struct {
	Query     string
	ModelID   string
	KnnAmount uint16
	MinScore  *float32
	Tokens    []float64
}

// HybridParams combines a neural sub-query with a lexical bool-should
// sub-query, scored through the hybrid-search pipeline.
type HybridParams struct {
	Query     string
	ModelID   string
	KnnAmount uint16
	MinScore  *float32
}

// SearchKindParams is a tagged union over the four query kinds. Exactly one
// of the *Params fields is meaningful, selected by Kind.
type SearchKindParams struct {
	Kind     SearchKind
	Retrieve RetrieveParams
	FullText FullTextParams
	Semantic SemanticParams
	Hybrid   HybridParams
}

// SearchingParams is the top-level request for a search or scroll-start.
type SearchingParams struct {
	Indexes []IndexId
	Kind    SearchKindParams
	Result  ResultParams
	Filter  FilterParams
}

// PaginationParams continues a previously started scroll session.
type PaginationParams struct {
	ScrollID string
}

// FoundedDocument is one search hit.
type FoundedDocument struct {
	ID        string
	Index     IndexId
	Document  DocumentPart
	Highlight []string
	Score     *float64
}

// Pagination wraps a page of results with an optional continuation cursor.
// The page is terminal when ScrollID is empty or a subsequent page's Founded
// is empty.
type Pagination[T any] struct {
	Founded  []T
	ScrollID string
}

// RetrieveAllDocPartsQueryParams is the internal query used to fetch or
// delete every part of one document.
type RetrieveAllDocPartsQueryParams struct {
	LargeDocID    string
	WithSorting   bool
	OnlyFirstPart bool
}

// nowEpoch is a small helper kept here for callers constructing LargeDocument
// values from wall-clock time at the HTTP boundary.
func nowEpoch() int64 { return time.Now().Unix() }

// NewLargeDocumentNow builds a LargeDocument stamped with the current time
// for both CreatedAt and ModifiedAt.
func NewLargeDocumentNow(fileName, filePath string, fileSize uint32, content string) LargeDocument {
	ts := nowEpoch()
	return LargeDocument{
		FileName:   fileName,
		FilePath:   filePath,
		FileSize:   fileSize,
		CreatedAt:  ts,
		ModifiedAt: ts,
		Content:    content,
	}
}
