// Package publisher externalizes generated binary payloads to the configured
// bucket service, falling back to self-contained data URLs when the bucket is
// unavailable.
package publisher

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"openai2gemini-go/internal/config"
	"openai2gemini-go/internal/constants"
)

var extensionByMime = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/webp": ".webp",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
}

// Publisher uploads binary assets to the bucket endpoint.
type Publisher struct {
	cfg *config.Config
	cli *http.Client
}

// New constructs a Publisher. The client timeout bounds a single upload.
func New(cfg *config.Config) *Publisher {
	return &Publisher{
		cfg: cfg,
		cli: &http.Client{Timeout: constants.UploadTimeout},
	}
}

// Publish uploads the payload and returns its public URL. It never fails
/// outward: any upload problem degrades to a data: URL embedding the payload.
func (p *Publisher) Publish(ctx context.Context, data []byte, mimeType, filename string) string {
	if filename == "" {
		filename = generatedName(mimeType)
	}

	uploadedURL, err := p.upload(ctx, data, mimeType, filename)
	if err != nil {
		log.WithError(err).WithField("filename", filename).Warn("asset upload failed; falling back to data url")
		return dataURL(data, mimeType)
	}
	return uploadedURL
}

// upload performs the multipart POST and parses the bucket's response, which
// may take any of several shapes depending on the bucket build.
func (p *Publisher) upload(ctx context.Context, data []byte, mimeType, filename string) (string, error) {
	endpoint := p.endpoint()
	if endpoint == "" {
		return "", fmt.Errorf("no upload endpoint configured")
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(data); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if p.cfg.BucketAPIKey != "" {
		req.Header.Set("x-api-key", p.cfg.BucketAPIKey)
	}

	resp, err := p.cli.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("upload failed, got status: %d", resp.StatusCode)
	}

	return parseUploadResponse(respBody)
}

// parseUploadResponse tolerates the known bucket response shapes:
// {fileUrl}, {success:true, url}, {url}, or a bare http URL string.
func parseUploadResponse(body []byte) (string, error) {
	parsed := gjson.ParseBytes(body)

	if fileURL := parsed.Get("fileUrl"); fileURL.Exists() && fileURL.String() != "" {
		return fileURL.String(), nil
	}
	if parsed.Get("success").Bool() {
		if u := parsed.Get("url"); u.Exists() && u.String() != "" {
			return u.String(), nil
		}
	}
	if u := parsed.Get("url"); u.Exists() && u.String() != "" {
		return u.String(), nil
	}

	raw := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(body)), `"`))
	if strings.HasPrefix(raw, "http") {
		return raw, nil
	}

	return "", fmt.Errorf("unrecognized upload response: %s", truncate(string(body), 200))
}

// endpoint resolves the upload URL: an explicit upload_url wins over the
// legacy protocol/domain/port triple, which needs an /upload suffix appended
// when absent.
func (p *Publisher) endpoint() string {
	if p.cfg.UploadURL != "" {
		return p.cfg.UploadURL
	}
	if p.cfg.BucketDomain == "" {
		return ""
	}
	base := fmt.Sprintf("%s://%s:%s", p.cfg.BucketProtocol, p.cfg.BucketDomain, p.cfg.BucketPort)
	if !strings.HasSuffix(base, "/upload") {
		base += "/upload"
	}
	return base
}

func generatedName(mimeType string) string {
	ext, ok := extensionByMime[strings.ToLower(mimeType)]
	if !ok {
		ext = ".jpg"
	}
	return fmt.Sprintf("generated-image-%d%s", time.Now().UnixMilli(), ext)
}

func dataURL(data []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
