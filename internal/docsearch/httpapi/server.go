package httpapi

import (
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"docsearch-gateway/internal/docsearch/usecase"
)

// Server exposes HTTP endpoints for the document search gateway.
type Server struct {
	service *usecase.Service
	mux     *http.ServeMux
	handler http.Handler
}

// NewServer creates the HTTP API server wired to service. Every request is
// traced through otelhttp under the "docsearch-gateway" span name.
func NewServer(service *usecase.Service) *Server {
	s := &Server{service: service, mux: http.NewServeMux()}
	s.registerRoutes()
	s.handler = otelhttp.NewHandler(s.mux, "docsearch-gateway")
	return s
}

// ServeHTTP satisfies http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("POST /indexes", s.handleCreateIndex)
	s.mux.HandleFunc("GET /indexes", s.handleListIndexes)
	s.mux.HandleFunc("GET /indexes/{indexID}", s.handleGetIndex)
	s.mux.HandleFunc("DELETE /indexes/{indexID}", s.handleDeleteIndex)

	s.mux.HandleFunc("POST /indexes/{indexID}/documents", s.handleStoreDocument)
	s.mux.HandleFunc("GET /indexes/{indexID}/documents/{docID}", s.handleGetDocumentParts)
	s.mux.HandleFunc("DELETE /indexes/{indexID}/documents/{docID}", s.handleDeleteDocument)

	s.mux.HandleFunc("POST /indexes/{indexID}/search", s.handleSearch)
	s.mux.HandleFunc("POST /indexes/{indexID}/paginate", s.handlePaginate)
	s.mux.HandleFunc("DELETE /indexes/{indexID}/scroll/{scrollID}", s.handleDeleteScroll)
}
