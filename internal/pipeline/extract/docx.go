package extract

import (
	"bytes"
	"strings"

	"github.com/unidoc/unioffice/document"
)

// docxParser reads a DOCX file: body paragraphs first, then table cells in
// table order.
type docxParser struct{}

func (docxParser) Parse(data []byte) (string, error) {
	doc, err := document.Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, p := range doc.Paragraphs() {
		line := paragraphText(p)
		if line != "" {
			b.WriteString(line)
			b.WriteByte('\n')
		}
	}
	for _, tbl := range doc.Tables() {
		for _, row := range tbl.Rows() {
			for _, cell := range row.Cells() {
				for _, p := range cell.Paragraphs() {
					line := paragraphText(p)
					if line != "" {
						b.WriteString(line)
						b.WriteByte('\n')
					}
				}
			}
		}
	}
	return b.String(), nil
}

func paragraphText(p document.Paragraph) string {
	var b strings.Builder
	for _, run := range p.Runs() {
		b.WriteString(run.Text())
	}
	return strings.TrimSpace(b.String())
}
