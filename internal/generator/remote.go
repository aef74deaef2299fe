package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"resume-builder/resume/generation"
	"resume-builder/resume/model"
)

// GeneratePath is the generation service endpoint, relative to its base URL.
const GeneratePath = "/api/generate-resume"

// ErrUnexpectedStatus is returned for any non-2xx response. The body is not read.
var ErrUnexpectedStatus = errors.New("generation service returned an unexpected status")

// maxPDFBytes bounds the response body read from the service.
const maxPDFBytes = 20 << 20

// Remote posts documents to a generation service over HTTP.
type Remote struct {
	baseURL    string
	httpClient *http.Client
}

// NewRemote builds a client for the service at baseURL. A non-positive timeout
// defaults to 60s.
func NewRemote(baseURL string, timeout time.Duration) (*Remote, error) {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return nil, fmt.Errorf("GENERATOR_URL is required for remote generation")
	}
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Remote{
		baseURL:    base,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

func (r *Remote) Generate(ctx context.Context, doc model.ResumeDocument) ([]byte, error) {
	doc.Normalize()
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+GeneratePath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/pdf")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || strings.Contains(err.Error(), "Client.Timeout") {
			return nil, fmt.Errorf("generation request timeout: %w", err)
		}
		return nil, fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPDFBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read generation response: %w", err)
	}
	if len(body) > maxPDFBytes {
		return nil, fmt.Errorf("generation response exceeds %d bytes", maxPDFBytes)
	}
	return body, nil
}

var _ generation.Generator = (*Remote)(nil)
