package raster

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	neturl "net/url"
	"os"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/adcanvas/pkg/ad"
	"github.com/matzehuels/adcanvas/pkg/errors"
	"github.com/matzehuels/adcanvas/pkg/httputil"
	"github.com/matzehuels/adcanvas/pkg/observability"
)

const (
	fetchTimeout = 15 * time.Second

	// maxImageBytes caps downloads and inline payloads.
	maxImageBytes = 32 << 20
)

// NewHTTPClient creates the client used for image downloads.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: fetchTimeout}
}

// MaxPixels bounds the decoded size of an image. Generated ads are at most
// 1080×1920, so anything this large is not a generation.
const MaxPixels = 40_000_000

// Decode decodes a png, jpeg, gif, webp or bmp image. Images over MaxPixels
// are rejected from their header before any pixel is allocated.
func Decode(data []byte) (image.Image, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode image header")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image has no pixels (%dx%d)", cfg.Width, cfg.Height)
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > MaxPixels {
		return nil, errors.New(errors.ErrCodeInvalidImage, "image is %dx%d, over the %d pixel limit", cfg.Width, cfg.Height, MaxPixels)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDecodeFailed, err, "decode image")
	}
	return img, nil
}

// ReadSource returns the raw bytes behind src. URL downloads are retried
// with backoff on network failures and 5xx responses.
func ReadSource(ctx context.Context, src ad.Source, client *http.Client) ([]byte, error) {
	switch {
	case src.URL != "":
		if strings.HasPrefix(src.URL, "data:") {
			return decodeInline(src.URL)
		}
		if client == nil {
			client = NewHTTPClient()
		}
		return fetch(ctx, client, src.URL)
	case src.Data != "":
		return decodeInline(src.Data)
	case src.Path != "":
		data, err := os.ReadFile(src.Path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeNotFound, err, "image %s", src.Path)
			}
			return nil, err
		}
		return data, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidImage, "image source is empty")
	}
}

// Load reads and decodes the image behind src.
func Load(ctx context.Context, src ad.Source, client *http.Client) (image.Image, []byte, error) {
	data, err := ReadSource(ctx, src, client)
	if err != nil {
		return nil, nil, err
	}
	img, err := Decode(data)
	if err != nil {
		return nil, nil, err
	}
	return img, data, nil
}

// decodeInline accepts bare base64 or a data: URI.
func decodeInline(s string) ([]byte, error) {
	if strings.HasPrefix(s, "data:") {
		comma := strings.IndexByte(s, ',')
		if comma < 0 || !strings.Contains(s[:comma], ";base64") {
			return nil, errors.New(errors.ErrCodeInvalidImage, "data URI must be base64 encoded")
		}
		s = s[comma+1:]
	}
	if len(s) > base64.StdEncoding.EncodedLen(maxImageBytes) {
		return nil, errors.New(errors.ErrCodeInvalidImage, "inline image exceeds %d bytes", maxImageBytes)
	}
	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidImage, err, "decode base64 image")
	}
	return data, nil
}

func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	if err := errors.ValidateURL(url); err != nil {
		return nil, err
	}
	var host, path string
	if u, err := neturl.Parse(url); err == nil {
		host, path = u.Host, u.Path
	}
	hooks := observability.HTTP()

	var data []byte
	err := httputil.RetryWithBackoff(ctx, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		hooks.OnRequest(ctx, http.MethodGet, host, path)
		start := time.Now()
		resp, err := client.Do(req)
		if err != nil {
			hooks.OnError(ctx, http.MethodGet, host, path, err)
			return &httputil.RetryableError{Err: errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)}
		}
		defer resp.Body.Close()
		hooks.OnResponse(ctx, http.MethodGet, host, path, resp.StatusCode, time.Since(start))

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode == http.StatusNotFound:
			return errors.New(errors.ErrCodeNotFound, "image %s not found", url)
		case httputil.RetryableStatus(resp.StatusCode):
			return &httputil.RetryableError{Err: errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, resp.StatusCode)}
		default:
			return errors.New(errors.ErrCodeNetwork, "fetch %s: status %d", url, resp.StatusCode)
		}

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
		if err != nil {
			return &httputil.RetryableError{Err: fmt.Errorf("read %s: %w", url, err)}
		}
		if len(body) > maxImageBytes {
			return errors.New(errors.ErrCodeInvalidImage, "image %s exceeds %d bytes", url, maxImageBytes)
		}
		data = body
		return nil
	})
	return data, err
}
