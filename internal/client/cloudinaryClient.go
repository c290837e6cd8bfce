package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"spice-storefront/internal/config"
	"strings"
	"time"
)

var ErrImageUploadNotConfigured = errors.New("image upload is not configured")

// ImageUploader stores product images and returns their public URL.
type ImageUploader interface {
	Upload(ctx context.Context, filename string, content io.Reader) (string, error)
}

type cloudinaryClientImpl struct {
	httpClient   *http.Client
	baseApiURL   string
	cloudName    string
	uploadPreset string
}

func NewCloudinaryClient(cloudinaryCfg *config.Cloudinary) ImageUploader {
	return &cloudinaryClientImpl{
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		baseApiURL:   strings.TrimRight(cloudinaryCfg.BaseURL, "/"),
		cloudName:    cloudinaryCfg.CloudName,
		uploadPreset: cloudinaryCfg.UploadPreset,
	}
}

func (c *cloudinaryClientImpl) Upload(ctx context.Context, filename string, content io.Reader) (string, error) {
	if c.cloudName == "" || c.uploadPreset == "" {
		return "", ErrImageUploadNotConfigured
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	part, err := form.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, content); err != nil {
		return "", fmt.Errorf("copy image content: %w", err)
	}
	if err := form.WriteField("upload_preset", c.uploadPreset); err != nil {
		return "", fmt.Errorf("write upload preset: %w", err)
	}
	if err := form.Close(); err != nil {
		return "", fmt.Errorf("close multipart form: %w", err)
	}

	url := fmt.Sprintf("%s/v1_1/%s/image/upload", c.baseApiURL, c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("cloudinary upload request failed: %w", err)
	}
	defer resp.Body.Close()

	var res struct {
		SecureURL string `json:"secure_url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		return "", fmt.Errorf("decode cloudinary response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("cloudinary upload failed: status=%d message=%s", resp.StatusCode, res.Error.Message)
	}
	if res.SecureURL == "" {
		return "", fmt.Errorf("cloudinary response has no secure_url")
	}

	return res.SecureURL, nil
}
