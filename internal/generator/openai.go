// Package generator produces candidate label artwork from a text prompt.
package generator

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"labelpress/internal/raster"
)

// Client generates images through the OpenAI images API.
type Client struct {
	client openai.Client
	model  openai.ImageModel
}

// NewClient builds a generator client. An empty baseURL uses the public
// API endpoint.
func NewClient(key, baseURL, model string) *Client {
	opts := []option.RequestOption{option.WithAPIKey(key)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &Client{
		client: openai.NewClient(opts...),
		model:  openai.ImageModel(model),
	}
}

// Generate returns n candidate buffers for the prompt. The prompt string
// is built by the caller; no templating happens here.
func (c *Client) Generate(ctx context.Context, prompt string, n int) ([]raster.ImageBuffer, error) {
	if n < 1 {
		n = 1
	}
	resp, err := c.client.Images.Generate(ctx, openai.ImageGenerateParams{
		Prompt: prompt,
		Model:  c.model,
		N:      openai.Int(int64(n)),
	})
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	out := make([]raster.ImageBuffer, 0, len(resp.Data))
	for i, item := range resp.Data {
		raw, err := base64.StdEncoding.DecodeString(item.B64JSON)
		if err != nil {
			return nil, fmt.Errorf("candidate %d: decode payload: %w", i, err)
		}
		buf := raster.ImageBuffer{Data: raw, MIME: "image/png"}
		if err := buf.Validate(); err != nil {
			return nil, fmt.Errorf("candidate %d: %w", i, err)
		}
		out = append(out, buf)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("image generation returned no candidates")
	}
	return out, nil
}
