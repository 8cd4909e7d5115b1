// Package usecase is the gateway's application layer: it sequences splitter,
// storage and observability calls behind four small interfaces so the
// backing-store implementation stays swappable. Interface names mirror the
// external-interfaces naming from the gateway's design notes.
package usecase

import (
	"context"

	"docsearch-gateway/internal/docsearch/docmodel"
)

// IIndexStorage provisions and inspects indexes in the backing store.
type IIndexStorage interface {
	CreateIndex(ctx context.Context, params docmodel.CreateIndexParams) (docmodel.IndexId, error)
	DeleteIndex(ctx context.Context, indexID docmodel.IndexId) error
	GetIndex(ctx context.Context, indexID docmodel.IndexId) (docmodel.IndexId, error)
	GetAllIndexes(ctx context.Context) ([]docmodel.IndexId, error)
}

// IDocumentPartStorage stores and removes the split parts of a document.
type IDocumentPartStorage interface {
	// StoreDocumentParts bulk-stores parts. When uniqueDocID is set and force
	// is not, a part whose deterministic id already exists in the index
	// fails the whole call with a *docerr.DocumentAlreadyExistsError instead
	// of overwriting it.
	StoreDocumentParts(ctx context.Context, indexID docmodel.IndexId, parts []docmodel.DocumentPart, uniqueDocID, force bool) (docmodel.StoredDocumentPartsInfo, error)
	GetDocumentParts(ctx context.Context, indexID docmodel.IndexId, largeDocID string) ([]docmodel.DocumentPart, error)
	DeleteDocumentParts(ctx context.Context, indexID docmodel.IndexId, largeDocID string) error
}

// ISearcher runs one of the four query kinds against the backing store.
type ISearcher interface {
	Search(ctx context.Context, params docmodel.SearchingParams) (docmodel.Pagination[docmodel.FoundedDocument], error)
}

// IPaginator continues and releases a scroll session.
type IPaginator interface {
	Paginate(ctx context.Context, params docmodel.PaginationParams) (docmodel.Pagination[docmodel.FoundedDocument], error)
	DeleteSession(ctx context.Context, scrollID string) error
}

// Storage is the union every backing-store implementation must satisfy; the
// *storage.Client concrete type implements all four.
type Storage interface {
	IIndexStorage
	IDocumentPartStorage
	ISearcher
	IPaginator
}
