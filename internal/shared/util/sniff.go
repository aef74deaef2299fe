package util

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// Sniff detects the content type of r from its first 512 bytes and returns a
// reader that still yields the full stream.
func Sniff(r io.Reader) (io.Reader, string, error) {
	var head [512]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, "", fmt.Errorf("read sniff: %w", err)
	}
	return io.MultiReader(bytes.NewReader(head[:n]), r), http.DetectContentType(head[:n]), nil
}
