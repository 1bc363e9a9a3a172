// Package imagehost uploads experience photos to an unsigned-upload image host
// (Cloudinary style: multipart "file" + "upload_preset", JSON reply with secure_url).
package imagehost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"time"

	"wanderbot/internal/adapters/httpx"
	"wanderbot/internal/domain"
)

// MaxUploadBytes bounds a single photo.
const MaxUploadBytes = 10 << 20

type Client struct {
	uploadURL string
	preset    string
	http      *httpx.Client
}

func New(uploadURL, preset string) (*Client, error) {
	if uploadURL == "" {
		return nil, fmt.Errorf("image host upload URL is required")
	}
	return &Client{
		uploadURL: uploadURL,
		preset:    preset,
		http:      httpx.New("imagehost", 2, 60*time.Second, nil),
	}, nil
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
	URL       string `json:"url"`
}

// Upload sends the image and returns its hosted URL.
func (c *Client) Upload(ctx context.Context, filename string, r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return "", &domain.ValidationError{Fields: map[string]string{"file": fmt.Sprintf("larger than %d bytes", MaxUploadBytes)}}
	}
	if len(data) == 0 {
		return "", &domain.ValidationError{Fields: map[string]string{"file": "empty"}}
	}

	var out uploadResponse
	err = c.http.Do(ctx, "upload", func() (*http.Request, error) {
		body, contentType, err := c.form(filepath.Base(filename), data)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL, body)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Accept", "application/json")
		return req, nil
	}, &out)
	if err != nil {
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("image upload: %w: %w", domain.ErrUnavailable, err)
	}
	if out.SecureURL != "" {
		return out.SecureURL, nil
	}
	if out.URL != "" {
		return out.URL, nil
	}
	return "", fmt.Errorf("image upload: response without url: %w", domain.ErrUnavailable)
}

func (c *Client) form(name string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	if err != nil {
		return nil, "", err
	}
	if _, err := fw.Write(data); err != nil {
		return nil, "", err
	}
	if c.preset != "" {
		if err := mw.WriteField("upload_preset", c.preset); err != nil {
			return nil, "", err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
