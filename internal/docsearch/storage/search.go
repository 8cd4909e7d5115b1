package storage

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/opensearch-project/opensearch-go/v2/opensearchapi"

	"docsearch-gateway/internal/docsearch/docerr"
	"docsearch-gateway/internal/docsearch/docmodel"
	"docsearch-gateway/internal/docsearch/extract"
	"docsearch-gateway/internal/docsearch/query"
)

// Search runs one of the four query kinds and returns a page of results. A
// scroll session is opened for every kind except Hybrid, which the backing
// store does not support scrolling with the hybrid search pipeline; Hybrid
// and any explicit offset use plain from/size paging instead.
func (c *Client) Search(ctx context.Context, params docmodel.SearchingParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	body, err := json.Marshal(query.Build(params, query.Config{DefaultModelID: c.cfg.DefaultModelID}))
	if err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, &docerr.ValidationError{Reason: "encode search query", Err: err}
	}

	req := opensearchapi.SearchRequest{
		Index: buildSearchIndex(params.Indexes),
		Body:  bytes.NewReader(body),
		Size:  ptrInt(params.Result.Size),
	}

	switch {
	case params.Result.Offset > 0:
		req.From = ptrInt(params.Result.Offset)
	case params.Kind.Kind == docmodel.KindHybrid:
		req.From = ptrInt(params.Result.Offset)
	default:
		req.Scroll = scrollLifetime
	}

	res, err := req.Do(ctx, c.os)
	if err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, &docerr.InternalError{Op: "search", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, responseError(res)
	}

	raw, err := readAll(res)
	if err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, &docerr.InternalError{Op: "search", Err: err}
	}
	page, err := extract.FoundedDocumentParts(raw)
	if err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, &docerr.InternalError{Op: "search", Err: err}
	}
	return page, nil
}

// Paginate advances a previously opened scroll session.
func (c *Client) Paginate(ctx context.Context, params docmodel.PaginationParams) (docmodel.Pagination[docmodel.FoundedDocument], error) {
	req := opensearchapi.ScrollRequest{
		ScrollID: params.ScrollID,
		Scroll:   scrollLifetime,
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, &docerr.InternalError{Op: "paginate", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, responseError(res)
	}

	raw, err := readAll(res)
	if err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, &docerr.InternalError{Op: "paginate", Err: err}
	}
	page, err := extract.FoundedDocumentParts(raw)
	if err != nil {
		return docmodel.Pagination[docmodel.FoundedDocument]{}, &docerr.InternalError{Op: "paginate", Err: err}
	}
	return page, nil
}

// DeleteSession releases a scroll session's server-side resources ahead of
// its natural 5-minute expiry.
func (c *Client) DeleteSession(ctx context.Context, scrollID string) error {
	req := opensearchapi.ClearScrollRequest{
		ScrollID: []string{scrollID},
	}
	res, err := req.Do(ctx, c.os)
	if err != nil {
		return &docerr.InternalError{Op: "delete_session", Err: err}
	}
	defer res.Body.Close()

	if res.IsError() {
		return responseError(res)
	}
	return nil
}

func ptrInt(v int) *int { return &v }
