package handler

import (
	"log/slog"
	"net/http"

	"github.com/vortex/docpipe/internal/middleware"
	"github.com/vortex/docpipe/internal/service"
)

// NewRouter builds the HTTP mux with all routes and middleware.
func NewRouter(logger *slog.Logger, svc service.DocumentService, maxBodyBytes int64) http.Handler {
	mux := http.NewServeMux()

	doc := NewDocumentHandler(svc)

	// Health endpoints
	mux.HandleFunc("GET /health", Health)
	mux.HandleFunc("GET /ready", Health)

	// Document pipeline endpoints
	mux.HandleFunc("POST /api/v1/documents/open", doc.Open)
	mux.HandleFunc("POST /api/v1/documents/render.pdf", doc.RenderPDF)
	mux.HandleFunc("POST /api/v1/documents/render.json", doc.RenderJSON)

	// Apply middleware chain (outermost first)
	var h http.Handler = mux
	h = middleware.MaxBodySize(maxBodyBytes)(h)
	h = middleware.CORS(h)
	h = middleware.Recovery(logger)(h)
	h = middleware.Logging(logger)(h)

	return h
}
