package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ledongthuc/pdf"
)

// ErrNotPDF is returned by Inspect for data without a PDF header.
var ErrNotPDF = errors.New("data is not a pdf document")

// Info summarizes a rendered PDF.
type Info struct {
	Pages int
	Bytes int
	Text  string
}

// Inspect parses data as a PDF and extracts its page count and plain text.
func Inspect(data []byte) (Info, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return Info{}, ErrNotPDF
	}
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return Info{}, fmt.Errorf("inspect pdf: %w", err)
	}
	info := Info{Pages: r.NumPage(), Bytes: len(data)}

	plain, err := r.GetPlainText()
	if err != nil {
		return info, nil
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err == nil {
		info.Text = buf.String()
	}
	return info, nil
}
