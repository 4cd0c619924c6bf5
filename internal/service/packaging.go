package service

import (
	"fmt"

	"github.com/vortex/docpipe/internal/config"
	"github.com/vortex/docpipe/internal/docerr"
	"github.com/vortex/docpipe/internal/docpipe"
)

// DocumentInfo holds metadata extracted after opening a document.
type DocumentInfo struct {
	// Core properties
	Title       string `json:"title,omitempty"`
	Creator     string `json:"creator,omitempty"`
	Description string `json:"description,omitempty"`
	Application string `json:"application,omitempty"`

	// Structure counts
	SectionCount int      `json:"section_count"`
	HeaderCount  int      `json:"header_count"`
	FooterCount  int      `json:"footer_count"`
	MediaFiles   []string `json:"media_files,omitempty"`
	HasStyles    bool     `json:"has_styles"`
	HasNumbering bool     `json:"has_numbering"`
	HasComments  bool     `json:"has_comments"`
	HasFootnotes bool     `json:"has_footnotes"`
	HasEndnotes  bool     `json:"has_endnotes"`
}

// DocumentService defines the HTTP-facing operations over the document
// pipeline: inspect a DOCX's metadata, or render it to one of the two
// output formats the pipeline compiles to (§6.2, §6.3).
type DocumentService interface {
	// Open parses a .docx from raw bytes and returns document metadata.
	Open(data []byte) (*DocumentInfo, error)

	// RenderPDF parses a .docx and compiles it to PDF bytes under opts.
	RenderPDF(data []byte, opts docpipe.PipelineOptions) ([]byte, error)

	// RenderJSON parses a .docx and exports its UnifiedLayout as JSON
	// under opts.
	RenderJSON(data []byte, opts docpipe.PipelineOptions) ([]byte, error)
}

type documentService struct {
	cfg *config.Config
}

// NewDocumentService creates a new DocumentService instance. cfg's
// FontFallbackDir, when set, is loaded into every opened document's font
// cache so layout/PDF compilation has a substitute chain beyond the
// handful of built-in faces (§7 degrade policy).
func NewDocumentService(cfg *config.Config) DocumentService {
	return &documentService{cfg: cfg}
}

func (s *documentService) open(data []byte) (*docpipe.Document, error) {
	doc, err := docpipe.OpenBytes(data)
	if err != nil {
		return nil, fmt.Errorf("service: open document: %w", err)
	}
	if s.cfg != nil && s.cfg.FontFallbackDir != "" {
		if err := doc.Fonts().LoadFallbackDir(s.cfg.FontFallbackDir); err != nil {
			doc.Diagnostics().Warn(docerr.StagePackage, "", "font fallback dir: %v", err)
		}
	}
	return doc, nil
}

func (s *documentService) Open(data []byte) (*DocumentInfo, error) {
	doc, err := s.open(data)
	if err != nil {
		return nil, err
	}
	return extractInfo(doc), nil
}

func (s *documentService) RenderPDF(data []byte, opts docpipe.PipelineOptions) ([]byte, error) {
	doc, err := s.open(data)
	if err != nil {
		return nil, err
	}
	out, err := doc.ToPDF(opts)
	if err != nil {
		return nil, fmt.Errorf("service: render pdf: %w", err)
	}
	return out, nil
}

func (s *documentService) RenderJSON(data []byte, opts docpipe.PipelineOptions) ([]byte, error) {
	doc, err := s.open(data)
	if err != nil {
		return nil, err
	}
	out, err := doc.ToJSON(opts)
	if err != nil {
		return nil, fmt.Errorf("service: render json: %w", err)
	}
	return out, nil
}

// extractInfo populates a DocumentInfo from an opened Document.
func extractInfo(doc *docpipe.Document) *DocumentInfo {
	model := doc.Model()
	info := &DocumentInfo{
		Title:        model.CoreProps.Title,
		Creator:      model.CoreProps.Creator,
		Description:  model.CoreProps.Description,
		Application:  model.CoreProps.Application,
		SectionCount: len(model.Sections),
		HeaderCount:  len(model.Headers),
		FooterCount:  len(model.Footers),
		HasStyles:    model.Styles != nil,
		HasNumbering: model.Numbering != nil,
		HasComments:  len(model.Comments) > 0,
		HasFootnotes: len(model.Footnotes) > 0,
		HasEndnotes:  len(model.Endnotes) > 0,
	}

	mediaFiles := make([]string, 0, len(model.Media))
	for name := range model.Media {
		mediaFiles = append(mediaFiles, name)
	}
	info.MediaFiles = mediaFiles

	return info
}
