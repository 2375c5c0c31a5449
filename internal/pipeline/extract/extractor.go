// Package extract turns uploaded resume and job documents into normalized
// plain text. PDF extraction runs two strategies and keeps the longer
// output; DOCX walks paragraphs and table cells; plain text passes through.
package extract

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	dspdf "github.com/dslipak/pdf"
	"github.com/gabriel-vasile/mimetype"
	ldpdf "github.com/ledongthuc/pdf"

	"github.com/fairyhunter13/resume-relevance/internal/domain"
	"github.com/fairyhunter13/resume-relevance/pkg/textx"
)

// MIME types accepted by the extractor.
const (
	MimePDF  = "application/pdf"
	MimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MimeDoc  = "application/msword"
	MimeText = "text/plain"
)

// Extraction confidences per strategy.
const (
	confText     = 1.00
	confDOCX     = 0.90
	confPDFTable = 0.85
	confPDFPlain = 0.80
)

// Extractor converts document bytes to a normalized Document.
type Extractor struct {
	docx domain.DocumentParser
}

// New builds an Extractor. The DOCX parser is pluggable so tests can swap
// the office library out.
func New() *Extractor {
	return &Extractor{docx: docxParser{}}
}

// NewWithDOCXParser builds an Extractor with a custom DOCX parser.
func NewWithDOCXParser(p domain.DocumentParser) *Extractor {
	return &Extractor{docx: p}
}

// Extract converts data into normalized text. mimeType may be empty, in
// which case the content type is sniffed from the bytes.
func (e *Extractor) Extract(data []byte, mimeType string) (domain.Document, error) {
	if len(data) == 0 {
		return domain.Document{}, fmt.Errorf("op=extract: empty input: %w", domain.ErrExtractionFailed)
	}
	mt := normalizeMime(mimeType)
	if mt == "" {
		mt = normalizeMime(mimetype.Detect(data).String())
	}

	var (
		text string
		conf float64
		err  error
	)
	switch mt {
	case MimePDF:
		text, conf, err = extractPDF(data)
	case MimeDOCX:
		text, err = e.docx.Parse(data)
		conf = confDOCX
	case MimeText:
		text, conf = string(data), confText
	default:
		return domain.Document{}, fmt.Errorf("op=extract: mime type %q: %w", mt, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return domain.Document{}, fmt.Errorf("op=extract: %w: %v", domain.ErrExtractionFailed, err)
	}

	text = textx.NormalizeText(text)
	if text == "" {
		return domain.Document{}, fmt.Errorf("op=extract: no text recovered: %w", domain.ErrExtractionFailed)
	}
	return domain.Document{Text: text, Confidence: domain.Confidence(conf)}, nil
}

func normalizeMime(mt string) string {
	mt = strings.ToLower(strings.TrimSpace(mt))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case mt == MimePDF, mt == MimeDOCX:
		return mt
	case mt == MimeDoc:
		// Legacy .doc goes through the DOCX parser; a true OLE binary
		// fails there and surfaces as an extraction failure.
		return MimeDOCX
	case strings.HasPrefix(mt, "text/"):
		return MimeText
	case mt == "application/octet-stream", mt == "":
		return ""
	}
	return mt
}

// extractPDF runs the row-aware and the plain strategies and keeps whichever
// recovered more text.
func extractPDF(data []byte) (string, float64, error) {
	table, tableErr := pdfByRows(data)
	plain, plainErr := pdfPlainText(data)
	if tableErr != nil && plainErr != nil {
		return "", 0, fmt.Errorf("pdf strategies failed: %v; %v", tableErr, plainErr)
	}
	if len(table) >= len(plain) && tableErr == nil {
		return table, confPDFTable, nil
	}
	return plain, confPDFPlain, nil
}

// pdfByRows extracts text row by row, which keeps tabular layouts readable.
func pdfByRows(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf row extraction panic: %v", r)
		}
	}()
	r, err := dspdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			continue
		}
		for _, row := range rows {
			for j, cell := range row.Content {
				if j > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(cell.S)
			}
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}

func pdfPlainText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("pdf plain extraction panic: %v", r)
		}
	}()
	r, err := ldpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	rd, err := r.GetPlainText()
	if err != nil {
		return "", err
	}
	b, err := io.ReadAll(rd)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
