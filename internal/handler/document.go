package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/vortex/docpipe/internal/docpipe"
	"github.com/vortex/docpipe/internal/geometry"
	"github.com/vortex/docpipe/internal/service"
	"github.com/vortex/docpipe/pkg/response"
)

// DocumentHandler exposes HTTP endpoints over the document pipeline:
// inspecting a DOCX's metadata and rendering it to PDF or JSON.
type DocumentHandler struct {
	svc service.DocumentService
}

// NewDocumentHandler creates a handler backed by the given service.
func NewDocumentHandler(svc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{svc: svc}
}

// Open handles POST /api/v1/documents/open
// Accepts a multipart form with a "file" field containing a .docx.
// Returns JSON metadata about the document.
func (h *DocumentHandler) Open(w http.ResponseWriter, r *http.Request) {
	data, err := readUploadedFile(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	info, err := h.svc.Open(data)
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response.JSON(w, http.StatusOK, info)
}

// RenderPDF handles POST /api/v1/documents/render.pdf
// Accepts a .docx and returns the paginated PDF (§6.2).
func (h *DocumentHandler) RenderPDF(w http.ResponseWriter, r *http.Request) {
	data, err := readUploadedFile(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.svc.RenderPDF(data, pipelineOptionsFromQuery(r))
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="document.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// RenderJSON handles POST /api/v1/documents/render.json
// Accepts a .docx and returns the optimized UnifiedLayout JSON (§6.3).
func (h *DocumentHandler) RenderJSON(w http.ResponseWriter, r *http.Request) {
	data, err := readUploadedFile(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := h.svc.RenderJSON(data, pipelineOptionsFromQuery(r))
	if err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// readUploadedFile extracts the file bytes from a multipart upload.
// It looks for a form field named "file".
func readUploadedFile(r *http.Request) ([]byte, error) {
	if err := r.ParseMultipartForm(100 << 20); err != nil { // 100 MB max
		return nil, err
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}

// pipelineOptionsFromQuery builds PipelineOptions from optional query
// parameters, defaulting to the document's own section geometry with
// headers and footers applied (§6.4).
func pipelineOptionsFromQuery(r *http.Request) docpipe.PipelineOptions {
	opts := docpipe.DefaultPipelineOptions()
	q := r.URL.Query()

	if w, h, ok := parseSize(q.Get("page_width_pt"), q.Get("page_height_pt")); ok {
		opts.PageSize = geometry.Size{Width: w, Height: h}
	}
	if m, ok := parseMargins(q.Get("margin_top_pt"), q.Get("margin_bottom_pt"), q.Get("margin_left_pt"), q.Get("margin_right_pt")); ok {
		opts.Margins = m
	}
	if v := q.Get("apply_headers_footers"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			opts.ApplyHeadersFooters = b
		}
	}
	return opts
}

func parseSize(wStr, hStr string) (float64, float64, bool) {
	if wStr == "" || hStr == "" {
		return 0, 0, false
	}
	w, err1 := strconv.ParseFloat(wStr, 64)
	h, err2 := strconv.ParseFloat(hStr, 64)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return w, h, true
}

func parseMargins(topStr, bottomStr, leftStr, rightStr string) (geometry.Margins, bool) {
	if topStr == "" || bottomStr == "" || leftStr == "" || rightStr == "" {
		return geometry.Margins{}, false
	}
	top, e1 := strconv.ParseFloat(topStr, 64)
	bottom, e2 := strconv.ParseFloat(bottomStr, 64)
	left, e3 := strconv.ParseFloat(leftStr, 64)
	right, e4 := strconv.ParseFloat(rightStr, 64)
	if e1 != nil || e2 != nil || e3 != nil || e4 != nil {
		return geometry.Margins{}, false
	}
	return geometry.Margins{Top: top, Bottom: bottom, Left: left, Right: right}, true
}
