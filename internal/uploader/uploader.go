// Package uploader pushes export files to a configured HTTP endpoint.
package uploader

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"

	"github.com/workshot/workshot/internal/config"
)

// Uploader sends export files as multipart POSTs with retries. This is a
// one-way, manually triggered push; nothing is synced back.
type Uploader struct {
	cfg    config.UploadConfig
	client *retryablehttp.Client
}

// New builds an uploader from the upload configuration.
func New(cfg config.UploadConfig) *Uploader {
	client := retryablehttp.NewClient()
	client.RetryMax = 3
	client.RetryWaitMin = 1 * time.Second
	client.RetryWaitMax = 10 * time.Second
	client.Logger = nil // zerolog below instead of retryablehttp's default

	return &Uploader{cfg: cfg, client: client}
}

// UploadFile posts the file at path to the configured endpoint.
func (u *Uploader) UploadFile(path string) error {
	if u.cfg.Endpoint == "" {
		return fmt.Errorf("no upload endpoint configured")
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open export file: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to read export file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := retryablehttp.NewRequest("POST", u.cfg.Endpoint, body.Bytes())
	if err != nil {
		return fmt.Errorf("failed to build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if u.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+u.cfg.Token)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload rejected with status %s", resp.Status)
	}

	log.Info().Str("file", filepath.Base(path)).Str("endpoint", u.cfg.Endpoint).Msg("export uploaded")
	return nil
}
