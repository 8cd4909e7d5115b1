package httpapi

import (
	"encoding/json"
	"net/http"

	"docsearch-gateway/internal/docsearch/docmodel"
)

func (s *Server) handleCreateIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req createIndexRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	id, err := s.service.CreateIndex(ctx, req.toParams())
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, indexResponse{ID: id})
}

func (s *Server) handleListIndexes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	indexes, err := s.service.GetAllIndexes(ctx)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, indexListResponse{Indexes: indexes})
}

func (s *Server) handleGetIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	indexID := r.PathValue("indexID")
	id, err := s.service.GetIndex(ctx, indexID)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, indexResponse{ID: id})
}

func (s *Server) handleDeleteIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	indexID := r.PathValue("indexID")
	if err := s.service.DeleteIndex(ctx, indexID); err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStoreDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	indexID := r.PathValue("indexID")
	var req storeDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	doc := docmodel.NewLargeDocumentNow(req.FileName, req.FilePath, req.FileSize, req.Content)
	info, err := s.service.StoreDocument(ctx, indexID, doc, req.UniqueDocID, req.Force)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusCreated, toStoredDocumentResponse(info))
}

func (s *Server) handleGetDocumentParts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	indexID := r.PathValue("indexID")
	docID := r.PathValue("docID")
	parts, err := s.service.GetAllDocumentParts(ctx, indexID, docID)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	out := documentPartsResponse{Parts: make([]documentPartDTO, 0, len(parts))}
	for _, p := range parts {
		out.Parts = append(out.Parts, toDocumentPartDTO(p))
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	indexID := r.PathValue("indexID")
	docID := r.PathValue("docID")
	if err := s.service.DeleteDocument(ctx, indexID, docID); err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	indexID := r.PathValue("indexID")
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	params, err := toSearchingParams(indexID, req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	page, err := s.service.Search(ctx, params)
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, toSearchResponse(page))
}

func (s *Server) handlePaginate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req paginateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	page, err := s.service.Paginate(ctx, docmodel.PaginationParams{ScrollID: req.ScrollID})
	if err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	respondJSON(w, http.StatusOK, toSearchResponse(page))
}

func (s *Server) handleDeleteScroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	scrollID := r.PathValue("scrollID")
	if err := s.service.DeleteSession(ctx, scrollID); err != nil {
		respondError(w, statusFromError(err), err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
