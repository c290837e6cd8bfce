package client

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"spice-storefront/internal/config"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloudinaryUpload(t *testing.T) {
	e := echo.New()
	var preset, filename, content string
	e.POST("/v1_1/spice/image/upload", func(c echo.Context) error {
		preset = c.FormValue("upload_preset")
		fh, err := c.FormFile("file")
		if err != nil {
			return err
		}
		filename = fh.Filename
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		raw, _ := io.ReadAll(f)
		content = string(raw)
		return c.JSON(http.StatusOK, map[string]string{"secure_url": "https://res.example.com/spice/turmeric.jpg"})
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	uploader := NewCloudinaryClient(&config.Cloudinary{BaseURL: srv.URL, CloudName: "spice", UploadPreset: "products"})
	url, err := uploader.Upload(context.Background(), "turmeric.jpg", strings.NewReader("jpeg-bytes"))
	require.NoError(t, err)

	assert.Equal(t, "https://res.example.com/spice/turmeric.jpg", url)
	assert.Equal(t, "products", preset)
	assert.Equal(t, "turmeric.jpg", filename)
	assert.Equal(t, "jpeg-bytes", content)
}

func TestCloudinaryUploadFailures(t *testing.T) {
	_, err := NewCloudinaryClient(&config.Cloudinary{}).Upload(context.Background(), "a.jpg", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrImageUploadNotConfigured)

	e := echo.New()
	e.POST("/v1_1/spice/image/upload", func(c echo.Context) error {
		return c.JSON(http.StatusBadRequest, map[string]any{"error": map[string]string{"message": "Upload preset not found"}})
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	uploader := NewCloudinaryClient(&config.Cloudinary{BaseURL: srv.URL, CloudName: "spice", UploadPreset: "missing"})
	_, err = uploader.Upload(context.Background(), "a.jpg", strings.NewReader("x"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Upload preset not found")
}
