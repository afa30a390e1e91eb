package assets

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// Uploader hosts rendered images and returns a public URL. Implementations
// must be safe to fail: booking flow treats upload errors as degradation,
// never as a booking failure.
type Uploader interface {
	UploadImage(ctx context.Context, data []byte, category string) (string, error)
}

// HTTPUploaderConfig configures the unsigned-upload HTTP uploader.
type HTTPUploaderConfig struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
}

// HTTPUploader posts images to an unsigned-upload endpoint
// (Cloudinary-style) and reads the hosted URL from the JSON response.
type HTTPUploader struct {
	config *HTTPUploaderConfig
	client *http.Client
}

func NewHTTPUploader(config *HTTPUploaderConfig) *HTTPUploader {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &HTTPUploader{
		config: config,
		client: &http.Client{Timeout: timeout},
	}
}

func (u *HTTPUploader) UploadImage(ctx context.Context, data []byte, category string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fmt.Sprintf("%s_%d.png", category, time.Now().UnixNano()))
	if err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.WriteField("folder", category); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to build upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.config.Endpoint, &body)
	if err != nil {
		return "", fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.config.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.config.APIKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("upload rejected with status %d: %s", resp.StatusCode, payload)
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		URL       string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode upload response: %w", err)
	}
	if result.SecureURL != "" {
		return result.SecureURL, nil
	}
	if result.URL == "" {
		return "", fmt.Errorf("upload response contained no URL")
	}
	return result.URL, nil
}
