// Package uploader hands finished labels to their storage destination.
// Destination naming is the caller's concern; implementations only move
// bytes.
package uploader

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"labelpress/internal/pipeline"
)

// Uploader persists a composed label and returns its storage location.
type Uploader interface {
	Upload(ctx context.Context, destination string, lbl *pipeline.ComposedLabel) (string, error)
}

// FileStore writes labels under a local directory. Used by the offline CLI.
type FileStore struct {
	Dir string
}

// Upload writes the label's bytes to Dir/destination.
func (f *FileStore) Upload(_ context.Context, destination string, lbl *pipeline.ComposedLabel) (string, error) {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return "", fmt.Errorf("uploader: %w", err)
	}
	path := filepath.Join(f.Dir, destination)
	if err := os.WriteFile(path, lbl.Buffer.Data, 0644); err != nil {
		return "", fmt.Errorf("uploader: %w", err)
	}
	return path, nil
}

// PresignedPut uploads to a caller-supplied presigned URL with a single
// HTTP PUT. The URL already encodes the destination key and credentials.
type PresignedPut struct {
	HTTPClient *http.Client
}

// Upload PUTs the label to the presigned URL and returns the URL with its
// query (the signature) stripped.
func (p *PresignedPut) Upload(ctx context.Context, presignedURL string, lbl *pipeline.ComposedLabel) (string, error) {
	client := p.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, bytes.NewReader(lbl.Buffer.Data))
	if err != nil {
		return "", fmt.Errorf("uploader: %w", err)
	}
	req.Header.Set("Content-Type", lbl.Buffer.MIME)
	req.ContentLength = int64(len(lbl.Buffer.Data))

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("uploader: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("uploader: unexpected status %s", resp.Status)
	}

	u, err := url.Parse(presignedURL)
	if err != nil {
		return presignedURL, nil
	}
	u.RawQuery = ""
	return u.String(), nil
}
